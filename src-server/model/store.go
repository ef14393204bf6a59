package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Store mirrors the in-memory registry into SQL. Every write reports its
// latency in microseconds on writeLatency, if set, without blocking.
type Store struct {
	db           *bun.DB
	writeLatency chan<- float64
}

func NewStore(db *bun.DB, writeLatency chan<- float64) *Store {
	return &Store{db: db, writeLatency: writeLatency}
}

func (s *Store) observe(start time.Time) {
	if s.writeLatency == nil {
		return
	}
	select {
	case s.writeLatency <- float64(time.Since(start).Microseconds()):
	default:
	}
}

func (s *Store) SaveUser(ctx context.Context, user *User) error {
	defer s.observe(time.Now())
	if err := user.Upsert(ctx, s.db); err != nil {
		return fmt.Errorf("(*Store).SaveUser: %w", err)
	}
	return nil
}

// DeleteUser removes the user row together with every event they own.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	defer s.observe(time.Now())
	if err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Event)(nil)).
			Where("owner_id = ?", userID).
			Exec(ctx); err != nil {
			return fmt.Errorf("can't delete events: %w", err)
		}
		if _, err := tx.NewDelete().
			Model((*User)(nil)).
			Where("id = ?", userID).
			Exec(ctx); err != nil {
			return fmt.Errorf("can't delete user: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("(*Store).DeleteUser: %w", err)
	}
	return nil
}

func (s *Store) SaveEvents(ctx context.Context, events ...*Event) error {
	if len(events) == 0 {
		return nil
	}
	defer s.observe(time.Now())
	if err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, e := range events {
			if err := e.Upsert(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("(*Store).SaveEvents: %w", err)
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, eventID int64) error {
	defer s.observe(time.Now())
	if _, err := s.db.NewDelete().
		Model((*Event)(nil)).
		Where("id = ?", eventID).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Store).DeleteEvent: %w", err)
	}
	return nil
}

// ReplaceUserEvents swaps all events of a user for a fresh set in one
// transaction.
func (s *Store) ReplaceUserEvents(ctx context.Context, userID int64, events []*Event) error {
	defer s.observe(time.Now())
	if err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Event)(nil)).
			Where("owner_id = ?", userID).
			Exec(ctx); err != nil {
			return fmt.Errorf("can't delete old events: %w", err)
		}
		for _, e := range events {
			if err := e.Upsert(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("(*Store).ReplaceUserEvents: %w", err)
	}
	return nil
}

// Load reads every user and event, ordered by ID.
func (s *Store) Load(ctx context.Context) ([]*User, []*Event, error) {
	users := make([]*User, 0)
	if err := s.db.NewSelect().
		Model(&users).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, nil, fmt.Errorf("(*Store).Load: can't get users: %w", err)
	}
	events := make([]*Event, 0)
	if err := s.db.NewSelect().
		Model(&events).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, nil, fmt.Errorf("(*Store).Load: can't get events: %w", err)
	}
	return users, events, nil
}

// Ping runs an empty read, used to sample database latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := s.db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", 0).
		Exists(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
