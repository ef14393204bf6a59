package ical

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// yyyyMMdd, optionally followed by Thhmmss and a trailing Z for UTC
var dateTimePattern = regexp.MustCompile(`^(\d{8})(?:T(\d{6})(Z)?)?$`)

// Parse the value of a DTSTART/DTEND/EXDATE style property.
//
// - `20240131` is a whole-day value, midnight in loc (or TZID)
// - `20240131T090000` is floating, read in TZID when given, otherwise loc
// - `20240131T090000Z` is UTC
//
// Date-times keep the zone they were written in so recurrences can be
// expanded across DST changes; callers convert to loc afterwards. A TZID that
// can't be loaded (Windows zone names from Outlook) falls back to loc.
func parseDate(value string, params map[string][]string, loc *time.Location) (time.Time, bool, error) {
	matched := dateTimePattern.FindStringSubmatch(strings.TrimSpace(value))
	if matched == nil {
		return time.Time{}, false, fmt.Errorf("unsupported date-time value %q", value)
	}

	propLoc := loc
	if tzid, ok := params["TZID"]; ok && len(tzid) > 0 {
		name := strings.Trim(tzid[0], `"`)
		if tz, err := time.LoadLocation(name); err != nil {
			slog.Debug("unknown TZID, using the configured location", "tzid", name, "error", err)
		} else {
			propLoc = tz
		}
	}

	datePart, timePart, utc := matched[1], matched[2], matched[3] == "Z"
	if timePart == "" {
		t, err := time.ParseInLocation("20060102", datePart, propLoc)
		if err != nil {
			return time.Time{}, false, err
		}
		// whole-day values stay on their calendar day in loc
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true, nil
	}

	if utc {
		t, err := time.Parse("20060102T150405", datePart+"T"+timePart)
		if err != nil {
			return time.Time{}, false, err
		}
		return t, false, nil
	}
	t, err := time.ParseInLocation("20060102T150405", datePart+"T"+timePart, propLoc)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}
