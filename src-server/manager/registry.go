// Package manager keeps users, their calendars and the agenda (events created
// locally) in memory, and answers the questions the calendar views ask of
// them: what happens on a date, who is free at a given time, and how a date
// should be marked.
//
// The registry is the source of truth. An optional Persister mirrors every
// mutation; when it fails the mutation is not applied.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"alignify/src-server/model"

	"github.com/google/uuid"
)

type Persister interface {
	SaveUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, userID int64) error
	SaveEvents(ctx context.Context, events ...*model.Event) error
	DeleteEvent(ctx context.Context, eventID int64) error
	ReplaceUserEvents(ctx context.Context, userID int64, events []*model.Event) error
}

type Registry struct {
	mu sync.RWMutex

	loc       *time.Location
	persister Persister
	now       func() time.Time

	users     map[int64]*model.User
	calendars map[int64]*model.Calendar
	agenda    *model.Calendar

	nextUserID  int64
	nextEventID int64
	colorIndex  int
}

// NewRegistry creates an empty registry. Dates are computed in loc; persister
// may be nil for a memory-only registry.
func NewRegistry(loc *time.Location, persister Persister) *Registry {
	if loc == nil {
		loc = time.Local
	}
	return &Registry{
		loc:         loc,
		persister:   persister,
		now:         time.Now,
		users:       make(map[int64]*model.User),
		calendars:   make(map[int64]*model.Calendar),
		agenda:      model.NewCalendar(model.AgendaOwnerID),
		nextUserID:  1,
		nextEventID: 1,
	}
}

func (r *Registry) Location() *time.Location {
	return r.loc
}

// #region users

func (r *Registry) CreateUser(ctx context.Context, firstName, lastName, source string) (model.User, error) {
	firstName = cleanName(firstName)
	lastName = cleanName(lastName)
	missing := make([]string, 0)
	if firstName == "" {
		missing = append(missing, "first name")
	}
	if lastName == "" {
		missing = append(missing, "last name")
	}
	if len(missing) > 0 {
		return model.User{}, fmt.Errorf("Registry.CreateUser: %w", &FieldError{Fields: missing})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := &model.User{
		ID:               r.nextUserID,
		FirstName:        firstName,
		LastName:         lastName,
		ColorIndex:       r.colorIndex,
		Source:           source,
		CreatedAtUnixUTC: r.now().UTC().Unix(),
	}
	if r.persister != nil {
		if err := r.persister.SaveUser(ctx, user); err != nil {
			return model.User{}, fmt.Errorf("Registry.CreateUser: %w", err)
		}
	}
	r.users[user.ID] = user
	r.calendars[user.ID] = model.NewCalendar(user.ID)
	r.nextUserID++
	r.colorIndex++

	slog.Debug("user created", "id", user.ID, "name", user.FullName(), "color", user.Color())
	return *user, nil
}

func (r *Registry) User(id int64) (model.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return model.User{}, false
	}
	return *user, true
}

// Users returns every user ordered by ID.
func (r *Registry) Users() []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedUsers()
}

func (r *Registry) sortedUsers() []model.User {
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users
}

type UserDetails struct {
	User        model.User  `json:"user"`
	FullName    string      `json:"fullName"`
	Color       model.Color `json:"color"`
	TextColor   model.Color `json:"textColor"`
	TotalEvents int         `json:"totalEvents"`
}

func (r *Registry) UserDetails(id int64) (UserDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return UserDetails{}, fmt.Errorf("Registry.UserDetails: user %d: %w", id, ErrNotFound)
	}
	color := user.Color()
	return UserDetails{
		User:        *user,
		FullName:    user.FullName(),
		Color:       color,
		TextColor:   color.TextColor(),
		TotalEvents: r.calendars[id].Len(),
	}, nil
}

// UserEvents returns the events of a user's calendar, or of the agenda for
// model.AgendaOwnerID.
func (r *Registry) UserEvents(id int64) ([]model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, ok := r.calendarOf(id)
	if !ok {
		return nil, fmt.Errorf("Registry.UserEvents: user %d: %w", id, ErrNotFound)
	}
	return derefEvents(cal.Events()), nil
}

// DeleteUser removes the user, their calendar and every event in it. The
// returned marks describe how each affected date looks afterwards.
func (r *Registry) DeleteUser(ctx context.Context, id int64) ([]DateMark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("Registry.DeleteUser: user %d: %w", id, ErrNotFound)
	}
	if r.persister != nil {
		if err := r.persister.DeleteUser(ctx, id); err != nil {
			return nil, fmt.Errorf("Registry.DeleteUser: %w", err)
		}
	}

	affected := make(map[model.Date]struct{})
	cal := r.calendars[id]
	for _, e := range cal.Events() {
		affected[e.Date(r.loc)] = struct{}{}
	}
	delete(r.calendars, id)
	delete(r.users, id)

	marks := make([]DateMark, 0, len(affected))
	for date := range affected {
		marks = append(marks, r.mark(date))
	}
	sort.Slice(marks, func(i, j int) bool {
		return marks[i].Date.Before(marks[j].Date)
	})

	slog.Debug("user deleted", "id", id, "name", user.FullName(), "events", cal.Len())
	return marks, nil
}

// #endregion

// #region imported events

// ImportEvents appends events to a user's calendar. Each builder gets a fresh
// ID and the user as owner; builders that do not validate are skipped.
func (r *Registry) ImportEvents(ctx context.Context, userID int64, builders []*model.EventBuilder) ([]model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cal, ok := r.calendars[userID]
	if !ok {
		return nil, fmt.Errorf("Registry.ImportEvents: user %d: %w", userID, ErrNotFound)
	}
	events := r.buildImported(userID, builders)
	if r.persister != nil {
		if err := r.persister.SaveEvents(ctx, events...); err != nil {
			return nil, fmt.Errorf("Registry.ImportEvents: %w", err)
		}
	}
	for _, e := range events {
		cal.Add(e)
	}
	return derefEvents(events), nil
}

// ReplaceImported drops every event of a user's calendar and imports the
// given set in its place.
func (r *Registry) ReplaceImported(ctx context.Context, userID int64, builders []*model.EventBuilder) ([]model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.calendars[userID]; !ok {
		return nil, fmt.Errorf("Registry.ReplaceImported: user %d: %w", userID, ErrNotFound)
	}
	events := r.buildImported(userID, builders)
	if r.persister != nil {
		if err := r.persister.ReplaceUserEvents(ctx, userID, events); err != nil {
			return nil, fmt.Errorf("Registry.ReplaceImported: %w", err)
		}
	}
	cal := model.NewCalendar(userID)
	for _, e := range events {
		cal.Add(e)
	}
	r.calendars[userID] = cal
	return derefEvents(events), nil
}

func (r *Registry) buildImported(userID int64, builders []*model.EventBuilder) []*model.Event {
	events := make([]*model.Event, 0, len(builders))
	for _, b := range builders {
		e, err := b.SetID(r.nextEventID).SetOwner(userID).Build()
		if err != nil {
			slog.Warn("skipping imported event", "user", userID, "error", err)
			continue
		}
		if e.UID == "" {
			e.UID = uuid.NewString()
		}
		events = append(events, e)
		r.nextEventID++
	}
	return events
}

// #endregion

// #region agenda events

// EventInput is what a create/edit form submits.
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	WholeDay    bool      `json:"wholeDay"`
}

func (in EventInput) builder() *model.EventBuilder {
	return model.NewEventBuilder().
		SetTitle(in.Title).
		SetDescription(in.Description).
		SetLocation(in.Location).
		SetStart(in.Start).
		SetEnd(in.End).
		SetWholeDay(in.WholeDay).
		SetOwner(model.AgendaOwnerID)
}

func (r *Registry) CreateEvent(ctx context.Context, in EventInput) (model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, err := in.builder().
		SetID(r.nextEventID).
		SetUID(uuid.NewString()).
		Build()
	if err != nil {
		return model.Event{}, fmt.Errorf("Registry.CreateEvent: %w: %w", ErrInvalidEvent, err)
	}
	if r.persister != nil {
		if err := r.persister.SaveEvents(ctx, event); err != nil {
			return model.Event{}, fmt.Errorf("Registry.CreateEvent: %w", err)
		}
	}
	r.agenda.Add(event)
	r.nextEventID++

	slog.Debug("event created", "id", event.ID, "title", event.Title, "start", event.Start())
	return *event, nil
}

// EditEvent replaces an agenda event, keeping its ID and UID.
func (r *Registry) EditEvent(ctx context.Context, id int64, in EventInput) (model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, err := r.agendaEvent(id)
	if err != nil {
		return model.Event{}, fmt.Errorf("Registry.EditEvent: %w", err)
	}
	event, err := in.builder().
		SetID(old.ID).
		SetUID(old.UID).
		Build()
	if err != nil {
		return model.Event{}, fmt.Errorf("Registry.EditEvent: %w: %w", ErrInvalidEvent, err)
	}
	if r.persister != nil {
		if err := r.persister.SaveEvents(ctx, event); err != nil {
			return model.Event{}, fmt.Errorf("Registry.EditEvent: %w", err)
		}
	}
	r.agenda.Replace(event)

	slog.Debug("event updated", "id", event.ID, "title", event.Title)
	return *event, nil
}

func (r *Registry) DeleteEvent(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.agendaEvent(id); err != nil {
		return fmt.Errorf("Registry.DeleteEvent: %w", err)
	}
	if r.persister != nil {
		if err := r.persister.DeleteEvent(ctx, id); err != nil {
			return fmt.Errorf("Registry.DeleteEvent: %w", err)
		}
	}
	r.agenda.Remove(id)

	slog.Debug("event deleted", "id", id)
	return nil
}

func (r *Registry) agendaEvent(id int64) (*model.Event, error) {
	if e, ok := r.agenda.Get(id); ok {
		return e, nil
	}
	if _, ok := r.findEvent(id); ok {
		return nil, fmt.Errorf("event %d: %w", id, ErrReadOnly)
	}
	return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
}

// #endregion

// #region lookups

func (r *Registry) Event(id int64) (model.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.findEvent(id)
	if !ok {
		return model.Event{}, false
	}
	return *e, true
}

func (r *Registry) findEvent(id int64) (*model.Event, bool) {
	if e, ok := r.agenda.Get(id); ok {
		return e, true
	}
	for _, cal := range r.calendars {
		if e, ok := cal.Get(id); ok {
			return e, true
		}
	}
	return nil, false
}

func (r *Registry) calendarOf(ownerID int64) (*model.Calendar, bool) {
	if ownerID == model.AgendaOwnerID {
		return r.agenda, true
	}
	cal, ok := r.calendars[ownerID]
	return cal, ok
}

func (r *Registry) organizerName(ownerID int64) string {
	if ownerID == model.AgendaOwnerID {
		return "Me"
	}
	if u, ok := r.users[ownerID]; ok {
		return u.FullName()
	}
	return "No Organizer"
}

type Stats struct {
	Users          int
	CreatedEvents  int
	ImportedEvents int
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Stats{Users: len(r.users), CreatedEvents: r.agenda.Len()}
	for _, cal := range r.calendars {
		s.ImportedEvents += cal.Len()
	}
	return s
}

// #endregion

// Restore replaces the registry contents with previously persisted rows and
// moves the ID and color counters past them. Events whose owner is unknown
// are dropped.
func (r *Registry) Restore(users []*model.User, events []*model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[int64]*model.User, len(users))
	r.calendars = make(map[int64]*model.Calendar, len(users))
	r.agenda = model.NewCalendar(model.AgendaOwnerID)
	r.nextUserID, r.nextEventID, r.colorIndex = 1, 1, 0

	for _, u := range users {
		r.users[u.ID] = u
		r.calendars[u.ID] = model.NewCalendar(u.ID)
		r.nextUserID = max(r.nextUserID, u.ID+1)
		r.colorIndex = max(r.colorIndex, u.ColorIndex+1)
	}
	for _, e := range events {
		r.nextEventID = max(r.nextEventID, e.ID+1)
		cal, ok := r.calendarOf(e.OwnerID)
		if !ok {
			slog.Warn("dropping event with unknown owner", "event", e.ID, "owner", e.OwnerID)
			continue
		}
		cal.Add(e)
	}
	slog.Info("registry restored", "users", len(r.users), "events", len(events))
}

func derefEvents(events []*model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		out = append(out, *e)
	}
	return out
}
