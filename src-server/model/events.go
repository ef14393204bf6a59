package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          int64  `bun:"id,pk" json:"id"`
	UID         string `bun:"uid,notnull" json:"uid"`
	Title       string `bun:"title,notnull" json:"title"`
	Description string `bun:"description" json:"description"`
	Location    string `bun:"location" json:"location"`

	StartDateUnixUTC int64 `bun:"start_date,notnull" json:"startDateUnixUTC"`
	EndDateUnixUTC   int64 `bun:"end_date,notnull" json:"endDateUnixUTC"`
	IsWholeDay       bool  `bun:"is_whole_day" json:"isWholeDay"`

	// AgendaOwnerID for locally created events, the user ID for imported ones
	OwnerID int64 `bun:"owner_id,notnull" json:"ownerID"`
}

func (e *Event) Start() time.Time {
	return time.Unix(e.StartDateUnixUTC, 0).UTC()
}

func (e *Event) End() time.Time {
	return time.Unix(e.EndDateUnixUTC, 0).UTC()
}

// Date returns the calendar day the event starts on, in loc.
func (e *Event) Date(loc *time.Location) Date {
	return DateOf(e.Start().In(loc))
}

// StartMinute is the start truncated to the minute, used for conflict matching.
func (e *Event) StartMinute() int64 {
	return MinuteOf(e.Start())
}

func (e *Event) IsCreated() bool {
	return e.OwnerID == AgendaOwnerID
}

// Label is how an imported event shows up next to other people's events.
func (e *Event) Label(organizer string) string {
	return fmt.Sprintf("%s: %s", organizer, e.Title)
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID <= 0:
		return fmt.Errorf("(*Event).Upsert: event id must be positive")
	case e.UID == "":
		return fmt.Errorf("(*Event).Upsert: uid is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.StartDateUnixUTC > e.EndDateUnixUTC:
		return fmt.Errorf("(*Event).Upsert: start date must be before end date")
	}

	if _, err := db.NewInsert().
		Model(e).
		On("CONFLICT (id) DO UPDATE").
		Set("uid = EXCLUDED.uid").
		Set("title = EXCLUDED.title").
		Set("description = EXCLUDED.description").
		Set("location = EXCLUDED.location").
		Set("start_date = EXCLUDED.start_date").
		Set("end_date = EXCLUDED.end_date").
		Set("is_whole_day = EXCLUDED.is_whole_day").
		Set("owner_id = EXCLUDED.owner_id").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	return nil
}

// MinuteOf truncates t to the minute, as unix seconds.
func MinuteOf(t time.Time) int64 {
	return t.Truncate(time.Minute).Unix()
}
