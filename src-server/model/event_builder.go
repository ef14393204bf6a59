package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrBuilderNoID        = errors.New("event id is not set")
	ErrBuilderNoTitle     = errors.New("event title is required")
	ErrBuilderNoStart     = errors.New("event start is not set")
	ErrBuilderNoOwner     = errors.New("event owner is not set")
	ErrBuilderEndBeforeSt = errors.New("event end is before its start")
)

// EventBuilder assembles an Event from form-like input.
//
//	event, err := model.NewEventBuilder().
//		SetID(id).
//		SetTitle("Standup").
//		SetStart(start).
//		SetOwner(model.AgendaOwnerID).
//		Build()
type EventBuilder struct {
	id          int64
	uid         string
	title       string
	description string
	location    string
	start       time.Time
	end         time.Time
	wholeDay    bool
	owner       int64
	ownerSet    bool
}

func NewEventBuilder() *EventBuilder {
	return &EventBuilder{id: -1}
}

func (b *EventBuilder) SetID(id int64) *EventBuilder {
	b.id = id
	return b
}

func (b *EventBuilder) SetUID(uid string) *EventBuilder {
	b.uid = uid
	return b
}

func (b *EventBuilder) SetTitle(title string) *EventBuilder {
	b.title = strings.TrimSpace(title)
	return b
}

func (b *EventBuilder) SetDescription(description string) *EventBuilder {
	b.description = strings.TrimSpace(description)
	return b
}

func (b *EventBuilder) SetLocation(location string) *EventBuilder {
	b.location = strings.TrimSpace(location)
	return b
}

func (b *EventBuilder) SetStart(start time.Time) *EventBuilder {
	b.start = start
	return b
}

func (b *EventBuilder) SetEnd(end time.Time) *EventBuilder {
	b.end = end
	return b
}

func (b *EventBuilder) SetWholeDay(wholeDay bool) *EventBuilder {
	b.wholeDay = wholeDay
	return b
}

func (b *EventBuilder) SetOwner(ownerID int64) *EventBuilder {
	b.owner = ownerID
	b.ownerSet = true
	return b
}

func (b *EventBuilder) Validate() error {
	switch {
	case b.id < 0:
		return ErrBuilderNoID
	case b.title == "":
		return ErrBuilderNoTitle
	case b.start.IsZero():
		return ErrBuilderNoStart
	case !b.ownerSet:
		return ErrBuilderNoOwner
	case !b.end.IsZero() && b.end.Before(b.start):
		return ErrBuilderEndBeforeSt
	}
	return nil
}

func (b *EventBuilder) Build() (*Event, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	end := b.end
	if end.IsZero() {
		end = b.start
	}
	return &Event{
		ID:               b.id,
		UID:              b.uid,
		Title:            b.title,
		Description:      b.description,
		Location:         b.location,
		StartDateUnixUTC: b.start.Unix(),
		EndDateUnixUTC:   end.Unix(),
		IsWholeDay:       b.wholeDay,
		OwnerID:          b.owner,
	}, nil
}
