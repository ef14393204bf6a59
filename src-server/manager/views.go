package manager

import (
	"fmt"
	"sort"
	"time"

	"alignify/src-server/model"
)

type MarkKind string

const (
	MarkNone     MarkKind = "none"
	MarkCreated  MarkKind = "created"
	MarkImported MarkKind = "imported"
)

// DateMark is how a single day is highlighted on the shared calendar. A day
// with an agenda event is always marked as created, even when users have
// events on it too. Owners only lists users; the agenda shows in Kind.
type DateMark struct {
	Date   model.Date   `json:"date"`
	Kind   MarkKind     `json:"kind"`
	Color  *model.Color `json:"color,omitempty"`
	Owners []int64      `json:"owners"`
}

type UserView struct {
	ID        int64       `json:"id"`
	FullName  string      `json:"fullName"`
	Color     model.Color `json:"color"`
	TextColor model.Color `json:"textColor"`
}

func newUserView(u *model.User) UserView {
	color := u.Color()
	return UserView{
		ID:        u.ID,
		FullName:  u.FullName(),
		Color:     color,
		TextColor: color.TextColor(),
	}
}

type EventView struct {
	Event     model.Event `json:"event"`
	Organizer string      `json:"organizer"`
	Label     string      `json:"label"`
	Color     model.Color `json:"color"`
}

// DayView lists the agenda events and everyone's imported events that start
// on one date.
type DayView struct {
	Date     model.Date    `json:"date"`
	Mark     DateMark      `json:"mark"`
	Created  []model.Event `json:"created"`
	Imported []EventView   `json:"imported"`
}

func (r *Registry) EventsOn(date model.Date) DayView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view := DayView{
		Date:     date,
		Mark:     r.mark(date),
		Created:  make([]model.Event, 0),
		Imported: make([]EventView, 0),
	}
	for _, e := range r.agenda.Events() {
		if e.Date(r.loc) == date {
			view.Created = append(view.Created, *e)
		}
	}
	for _, user := range r.sortedUsers() {
		organizer := user.FullName()
		for _, e := range r.calendars[user.ID].Events() {
			if e.Date(r.loc) != date {
				continue
			}
			view.Imported = append(view.Imported, EventView{
				Event:     *e,
				Organizer: organizer,
				Label:     e.Label(organizer),
				Color:     user.Color(),
			})
		}
	}
	return view
}

type EventDetails struct {
	Event     model.Event `json:"event"`
	Organizer string      `json:"organizer"`
	Editable  bool        `json:"editable"`
	// only computed for agenda events
	Available []UserView `json:"available,omitempty"`
}

func (r *Registry) EventDetails(id int64) (EventDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.findEvent(id)
	if !ok {
		return EventDetails{}, fmt.Errorf("Registry.EventDetails: event %d: %w", id, ErrNotFound)
	}
	details := EventDetails{
		Event:     *e,
		Organizer: r.organizerName(e.OwnerID),
		Editable:  e.IsCreated(),
	}
	if e.IsCreated() {
		details.Available = r.availableAt(e.StartMinute())
	}
	return details, nil
}

// AvailableUsers lists the users who have nothing starting in the same minute
// as the given event.
func (r *Registry) AvailableUsers(eventID int64) ([]UserView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.findEvent(eventID)
	if !ok {
		return nil, fmt.Errorf("Registry.AvailableUsers: event %d: %w", eventID, ErrNotFound)
	}
	return r.availableAt(e.StartMinute()), nil
}

// AvailableAt lists the users who have nothing starting in the same minute as t.
func (r *Registry) AvailableAt(t time.Time) []UserView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.availableAt(model.MinuteOf(t))
}

func (r *Registry) availableAt(minute int64) []UserView {
	free := make([]UserView, 0)
	for _, user := range r.sortedUsers() {
		if r.calendars[user.ID].HasStartAt(minute) {
			continue
		}
		free = append(free, newUserView(&user))
	}
	return free
}

func (r *Registry) Mark(date model.Date) DateMark {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mark(date)
}

func (r *Registry) mark(date model.Date) DateMark {
	m := DateMark{Date: date, Kind: MarkNone, Owners: make([]int64, 0)}
	if r.agenda.HasEventOn(date, r.loc) {
		m.Kind = MarkCreated
	}
	for _, user := range r.sortedUsers() {
		if r.calendars[user.ID].HasEventOn(date, r.loc) {
			m.Owners = append(m.Owners, user.ID)
			if m.Kind == MarkNone {
				m.Kind = MarkImported
			}
		}
	}
	switch m.Kind {
	case MarkCreated:
		c := model.CreatedDateColor
		m.Color = &c
	case MarkImported:
		c := model.ImportedDateColor
		m.Color = &c
	}
	return m
}

const maxMarkRangeDays = 366

// MarksBetween returns one mark per day in [from, to].
func (r *Registry) MarksBetween(from, to model.Date) ([]DateMark, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("Registry.MarksBetween: %s is before %s: %w", to, from, ErrInvalidRange)
	}
	if to.Midnight(time.UTC).Sub(from.Midnight(time.UTC)) > maxMarkRangeDays*24*time.Hour {
		return nil, fmt.Errorf("Registry.MarksBetween: more than %d days: %w", maxMarkRangeDays, ErrInvalidRange)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	marks := make([]DateMark, 0)
	for d := from; !to.Before(d); d = d.AddDays(1) {
		marks = append(marks, r.mark(d))
	}
	return marks, nil
}

// MonthMarks returns one mark per day of the month.
func (r *Registry) MonthMarks(year int, month time.Month) []DateMark {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dates := model.MonthDates(year, month)
	marks := make([]DateMark, 0, len(dates))
	for _, d := range dates {
		marks = append(marks, r.mark(d))
	}
	return marks
}

// MarkedDates returns the marks of every date that has at least one event,
// in date order.
func (r *Registry) MarkedDates() []DateMark {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dates := make(map[model.Date]struct{})
	for _, e := range r.agenda.Events() {
		dates[e.Date(r.loc)] = struct{}{}
	}
	for _, cal := range r.calendars {
		for _, e := range cal.Events() {
			dates[e.Date(r.loc)] = struct{}{}
		}
	}
	marks := make([]DateMark, 0, len(dates))
	for d := range dates {
		marks = append(marks, r.mark(d))
	}
	sort.Slice(marks, func(i, j int) bool {
		return marks[i].Date.Before(marks[j].Date)
	})
	return marks
}
