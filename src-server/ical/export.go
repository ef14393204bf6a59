package ical

import (
	"fmt"
	"io"
	"time"

	"alignify/src-server/model"

	goical "github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const ProdID = "-//Alignify//Calendar//EN"

// Export writes the events as a single VCALENDAR named name. Whole-day events
// are written as DATE values in loc, the others as UTC date-times.
func Export(w io.Writer, name string, events []model.Event, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, ProdID)
	if name != "" {
		cal.Props.SetText("X-WR-CALNAME", name)
	}

	stamp := time.Now().UTC()
	for _, e := range events {
		vevent := goical.NewEvent()
		uid := e.UID
		if uid == "" {
			uid = uuid.NewString()
		}
		vevent.Props.SetText(goical.PropUID, uid)
		vevent.Props.SetDateTime(goical.PropDateTimeStamp, stamp)
		vevent.Props.SetText(goical.PropSummary, e.Title)
		if e.Description != "" {
			vevent.Props.SetText(goical.PropDescription, e.Description)
		}
		if e.Location != "" {
			vevent.Props.SetText(goical.PropLocation, e.Location)
		}

		switch {
		case e.IsWholeDay:
			start := goical.NewProp(goical.PropDateTimeStart)
			start.SetDate(e.Start().In(loc))
			vevent.Props.Set(start)
			if e.EndDateUnixUTC > e.StartDateUnixUTC {
				end := goical.NewProp(goical.PropDateTimeEnd)
				end.SetDate(e.End().In(loc))
				vevent.Props.Set(end)
			}
		default:
			vevent.Props.SetDateTime(goical.PropDateTimeStart, e.Start())
			if e.EndDateUnixUTC > e.StartDateUnixUTC {
				vevent.Props.SetDateTime(goical.PropDateTimeEnd, e.End())
			}
		}

		cal.Children = append(cal.Children, vevent.Component)
	}

	if err := goical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("Export: %w", err)
	}
	return nil
}
