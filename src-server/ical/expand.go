package ical

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xyedo/rrule"
)

// upper bound on rule steps walked per event, occurrences before the horizon
// included
const maxRuleSteps = 1_000_000

// expand turns a recurring event into one ParsedEvent per occurrence inside
// the horizon, minus its EXDATEs. The second return value reports whether the
// occurrence cap was hit.
//
// The rule runs in the zone DTSTART was written in, so a 09:00 meeting stays
// at 09:00 local time across DST; occurrences are converted to the configured
// location afterwards.
func expand(base ParsedEvent, opts Options) ([]ParsedEvent, bool) {
	rule, err := rrule.StrToRRule(base.rrule)
	if err != nil {
		slog.Warn("can't parse RRULE, keeping the first occurrence only", "uid", base.UID, "rrule", base.rrule, "error", err)
		base.rrule = ""
		return []ParsedEvent{base.in(opts.Location)}, false
	}
	rule.DTStart(base.Start)

	exDates := make(map[int64]struct{}, len(base.exDates))
	for _, exDate := range base.exDates {
		exDates[exDate.Unix()] = struct{}{}
	}

	duration := base.End.Sub(base.Start)
	out := make([]ParsedEvent, 0)
	occurrence := func(start time.Time) ParsedEvent {
		o := base
		o.rrule = ""
		o.exDates = nil
		o.Start = start.In(opts.Location)
		o.End = start.Add(duration).In(opts.Location)
		if base.UID != "" {
			o.UID = occurrenceUID(base.UID, start)
		}
		return o
	}

	if opts.HorizonStart.IsZero() && opts.HorizonEnd.IsZero() {
		return append(out, occurrence(base.Start)), false
	}

	next := rule.Iterator()
	for steps := 0; ; steps++ {
		start, ok := next()
		if !ok {
			return out, false
		}
		if !opts.HorizonEnd.IsZero() && start.After(opts.HorizonEnd) {
			return out, false
		}
		if steps >= maxRuleSteps {
			slog.Warn("rule step limit reached", "uid", base.UID, "rrule", base.rrule)
			return out, true
		}
		if start.Before(opts.HorizonStart) {
			continue
		}
		if _, ok := exDates[start.Unix()]; ok {
			continue
		}
		if len(out) >= opts.MaxOccurrences {
			slog.Warn("occurrence cap reached", "uid", base.UID, "cap", opts.MaxOccurrences)
			return out, true
		}
		out = append(out, occurrence(start))
	}
}

// occurrenceUID names one instance of a recurring event after the start it
// has in the rule, so overrides and refreshes land on the same UID.
func occurrenceUID(uid string, start time.Time) string {
	return fmt.Sprintf("%s/%s", uid, start.UTC().Format("20060102T150405Z"))
}
