package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// AgendaOwnerID is reserved for the calendar of locally created events. It is
// never handed out to a User.
const AgendaOwnerID int64 = 0

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID               int64  `bun:"id,pk" json:"id"`
	FirstName        string `bun:"first_name,notnull" json:"firstName"`
	LastName         string `bun:"last_name,notnull" json:"lastName"`
	ColorIndex       int    `bun:"color_index,notnull" json:"-"`
	Source           string `bun:"source" json:"source,omitempty"`
	CreatedAtUnixUTC int64  `bun:"created_at,notnull" json:"createdAtUnixUTC"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) Color() Color {
	return PaletteColor(u.ColorIndex)
}

func (u *User) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case u.ID <= AgendaOwnerID:
		return fmt.Errorf("(*User).Upsert: user id must be positive")
	case u.FirstName == "":
		return fmt.Errorf("(*User).Upsert: first name is blank")
	case u.LastName == "":
		return fmt.Errorf("(*User).Upsert: last name is blank")
	}

	if _, err := db.NewInsert().
		Model(u).
		On("CONFLICT (id) DO UPDATE").
		Set("first_name = EXCLUDED.first_name").
		Set("last_name = EXCLUDED.last_name").
		Set("color_index = EXCLUDED.color_index").
		Set("source = EXCLUDED.source").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*User).Upsert: %w", err)
	}

	return nil
}
