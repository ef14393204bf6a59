package model

import "time"

// Calendar holds the events owned by one user (or the agenda), in insertion
// order. It is not safe for concurrent use on its own.
type Calendar struct {
	OwnerID int64
	events  []*Event
}

func NewCalendar(ownerID int64) *Calendar {
	return &Calendar{OwnerID: ownerID, events: make([]*Event, 0)}
}

func (c *Calendar) Add(event *Event) {
	c.events = append(c.events, event)
}

// Remove drops the event with the given ID and reports whether it was there.
func (c *Calendar) Remove(eventID int64) bool {
	for i, e := range c.events {
		if e.ID == eventID {
			c.events = append(c.events[:i], c.events[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the event that has the same ID, keeping its position.
func (c *Calendar) Replace(event *Event) bool {
	for i, e := range c.events {
		if e.ID == event.ID {
			c.events[i] = event
			return true
		}
	}
	return false
}

func (c *Calendar) Get(eventID int64) (*Event, bool) {
	for _, e := range c.events {
		if e.ID == eventID {
			return e, true
		}
	}
	return nil, false
}

// Events returns a copy of the event list.
func (c *Calendar) Events() []*Event {
	out := make([]*Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Calendar) Len() int {
	return len(c.events)
}

// HasStartAt reports whether any event starts within the given minute
// (see MinuteOf).
func (c *Calendar) HasStartAt(minute int64) bool {
	for _, e := range c.events {
		if e.StartMinute() == minute {
			return true
		}
	}
	return false
}

// HasEventOn reports whether any event starts on the given day in loc.
func (c *Calendar) HasEventOn(date Date, loc *time.Location) bool {
	for _, e := range c.events {
		if e.Date(loc) == date {
			return true
		}
	}
	return false
}
