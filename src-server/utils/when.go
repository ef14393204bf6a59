package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

func NewWhenParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

var exactLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime reads an exact timestamp first and falls back to natural
// language ("tomorrow at 3pm") relative to now. Times without an offset are
// read in now's location.
func ParseTime(w *when.Parser, text string, now time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("ParseTime: blank input")
	}
	if strings.EqualFold(text, "now") {
		return now, nil
	}
	for _, layout := range exactLayouts {
		if t, err := time.ParseInLocation(layout, text, now.Location()); err == nil {
			return t, nil
		}
	}
	if w == nil {
		return time.Time{}, fmt.Errorf("ParseTime: can't parse %q", text)
	}
	result, err := w.Parse(text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseTime: %w", err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("ParseTime: can't parse %q", text)
	}
	return result.Time, nil
}
