package ical

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lines are joined with CRLF
func calendar(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

var sample = calendar(
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//Test//Test//EN",
	"X-WR-CALNAME:Work",
	"BEGIN:VEVENT",
	"UID:one@test",
	"DTSTAMP:20240101T000000Z",
	"SUMMARY:Standup",
	"DESCRIPTION:Daily sync",
	"LOCATION:Room 1",
	"DTSTART:20240501T090000Z",
	"DTEND:20240501T091500Z",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:two@test",
	"DTSTAMP:20240101T000000Z",
	"SUMMARY:Holiday",
	"DTSTART;VALUE=DATE:20240502",
	"DTEND;VALUE=DATE:20240503",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:three@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART:20240503T090000Z",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:four@test",
	"DTSTAMP:20240101T000000Z",
	"SUMMARY:Broken",
	"DTSTART:sometime",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:five@test",
	"DTSTAMP:20240101T000000Z",
	"SUMMARY:No end",
	"DTSTART;TZID=Europe/Berlin:20240504T100000",
	"END:VEVENT",
	"END:VCALENDAR",
)

func TestParse(t *testing.T) {
	report, err := Parse(strings.NewReader(sample), Options{Location: time.UTC})
	require.NoError(t, err)

	assert.Equal(t, "Work", report.Name)
	// no SUMMARY and an unreadable DTSTART
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, report.Events, 3)

	standup := report.Events[0]
	assert.Equal(t, "one@test", standup.UID)
	assert.Equal(t, "Standup", standup.Title)
	assert.Equal(t, "Daily sync", standup.Description)
	assert.Equal(t, "Room 1", standup.Location)
	assert.True(t, standup.Start.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))
	assert.True(t, standup.End.Equal(time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)))
	assert.False(t, standup.AllDay)

	holiday := report.Events[1]
	assert.True(t, holiday.AllDay)
	assert.True(t, holiday.Start.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))

	noEnd := report.Events[2]
	assert.True(t, noEnd.Start.Equal(time.Date(2024, 5, 4, 8, 0, 0, 0, time.UTC)))
	assert.True(t, noEnd.End.Equal(noEnd.Start))

	builders := report.Builders()
	require.Len(t, builders, 3)
	e, err := builders[0].SetID(1).SetOwner(1).Build()
	require.NoError(t, err)
	assert.Equal(t, "Standup", e.Title)
	assert.Equal(t, "one@test", e.UID)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(strings.NewReader("this is not a calendar"), Options{})
	require.Error(t, err)
	var calErr *CustomError
	assert.ErrorAs(t, err, &calErr)
}

func TestParseRecurring(t *testing.T) {
	recurring := calendar(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//Test//EN",
		"BEGIN:VEVENT",
		"UID:daily@test",
		"DTSTAMP:20240101T000000Z",
		"SUMMARY:Walk",
		"DTSTART:20240501T070000Z",
		"DTEND:20240501T073000Z",
		"RRULE:FREQ=DAILY;COUNT=5",
		"EXDATE:20240503T070000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	opts := Options{
		Location:     time.UTC,
		HorizonStart: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		HorizonEnd:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("expanded minus exdates", func(t *testing.T) {
		report, err := Parse(strings.NewReader(recurring), opts)
		require.NoError(t, err)
		require.Len(t, report.Events, 4)
		days := make([]int, 0)
		for _, e := range report.Events {
			days = append(days, e.Start.Day())
			assert.Equal(t, 30*time.Minute, e.End.Sub(e.Start))
			assert.True(t, strings.HasPrefix(e.UID, "daily@test/"))
		}
		assert.Equal(t, []int{1, 2, 4, 5}, days)
		assert.Empty(t, report.Truncated)
	})

	t.Run("horizon", func(t *testing.T) {
		narrow := opts
		narrow.HorizonStart = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
		narrow.HorizonEnd = time.Date(2024, 5, 4, 23, 0, 0, 0, time.UTC)
		report, err := Parse(strings.NewReader(recurring), narrow)
		require.NoError(t, err)
		require.Len(t, report.Events, 2)
		assert.Equal(t, 2, report.Events[0].Start.Day())
		assert.Equal(t, 4, report.Events[1].Start.Day())
	})

	t.Run("cap", func(t *testing.T) {
		capped := opts
		capped.MaxOccurrences = 2
		report, err := Parse(strings.NewReader(recurring), capped)
		require.NoError(t, err)
		assert.Len(t, report.Events, 2)
		assert.Equal(t, []string{"daily@test"}, report.Truncated)
	})

	t.Run("no horizon keeps the first occurrence", func(t *testing.T) {
		report, err := Parse(strings.NewReader(recurring), Options{Location: time.UTC})
		require.NoError(t, err)
		require.Len(t, report.Events, 1)
		assert.Equal(t, 1, report.Events[0].Start.Day())
	})
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.ics")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	report, err := ParseFile(path, Options{Location: time.UTC})
	require.NoError(t, err)
	assert.Len(t, report.Events, 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.ics"), Options{})
	assert.Error(t, err)
}

func TestSourceHelpers(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.ics"))
	assert.True(t, IsRemote("WEBCAL://example.com/a.ics"))
	assert.False(t, IsRemote("./a.ics"))
	assert.False(t, IsRemote("/home/me/https.ics"))

	u, err := NormalizeURL("webcal://example.com/a.ics")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.ics", u)
	_, err = NormalizeURL("not a url")
	assert.Error(t, err)
}

func TestParseRecurringKeepsWallClockAcrossDST(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	weekly := calendar(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//Test//EN",
		"BEGIN:VEVENT",
		"UID:weekly@test",
		"DTSTAMP:20240101T000000Z",
		"SUMMARY:Planning",
		"DTSTART;TZID=America/New_York:20240108T090000",
		"DTEND;TZID=America/New_York:20240108T100000",
		"RRULE:FREQ=WEEKLY;COUNT=15",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	report, err := Parse(strings.NewReader(weekly), Options{
		Location:     time.UTC,
		HorizonStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		HorizonEnd:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, report.Events, 15)

	for _, e := range report.Events {
		assert.Equal(t, time.UTC, e.Start.Location())
		assert.Equal(t, 9, e.Start.In(newYork).Hour(), e.Start)
		assert.Equal(t, time.Hour, e.End.Sub(e.Start))
	}
	// EST before March 10th, EDT after
	assert.Equal(t, 14, report.Events[0].Start.Hour())
	assert.True(t, report.Events[12].Start.Equal(time.Date(2024, 4, 1, 13, 0, 0, 0, time.UTC)))
}

func TestParseUnknownTZID(t *testing.T) {
	outlook := calendar(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Microsoft Corporation//Outlook 16.0 MIMEDIR//EN",
		"BEGIN:VEVENT",
		"UID:outlook@test",
		"DTSTAMP:20240101T000000Z",
		"SUMMARY:Review",
		"DTSTART;TZID=Eastern Standard Time:20240501T090000",
		"DTEND;TZID=Eastern Standard Time:20240501T100000",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	report, err := Parse(strings.NewReader(outlook), Options{Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, report.Events, 1)
	assert.True(t, report.Events[0].Start.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))
}

func TestParseEditedInstances(t *testing.T) {
	series := calendar(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//Test//EN",
		"BEGIN:VEVENT",
		"UID:standup@test",
		"DTSTAMP:20240101T000000Z",
		"SUMMARY:Standup",
		"DTSTART:20240501T090000Z",
		"DTEND:20240501T091500Z",
		"RRULE:FREQ=DAILY;COUNT=4",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:standup@test",
		"DTSTAMP:20240101T000000Z",
		"RECURRENCE-ID:20240502T090000Z",
		"DTSTART:20240502T150000Z",
		"DTEND:20240502T151500Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:standup@test",
		"DTSTAMP:20240101T000000Z",
		"RECURRENCE-ID:20240503T090000Z",
		"SUMMARY:Standup",
		"STATUS:CANCELLED",
		"DTSTART:20240503T090000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:gone@test",
		"DTSTAMP:20240101T000000Z",
		"RECURRENCE-ID:20240510T090000Z",
		"SUMMARY:Lone instance",
		"DTSTART:20240510T100000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	report, err := Parse(strings.NewReader(series), Options{
		Location:     time.UTC,
		HorizonStart: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		HorizonEnd:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Skipped)

	starts := make([]string, 0)
	for _, e := range report.Events {
		starts = append(starts, e.Start.Format(time.RFC3339)+" "+e.Title)
	}
	assert.Equal(t, []string{
		"2024-05-01T09:00:00Z Standup",
		"2024-05-02T15:00:00Z Standup",
		"2024-05-04T09:00:00Z Standup",
		"2024-05-10T10:00:00Z Lone instance",
	}, starts)

	moved := report.Events[1]
	assert.Equal(t, "standup@test/20240502T090000Z", moved.UID)
	assert.Equal(t, 15*time.Minute, moved.End.Sub(moved.Start))
	assert.Equal(t, "gone@test/20240510T090000Z", report.Events[3].UID)
}

func TestParseRecurringStopsAtTheCap(t *testing.T) {
	everySecond := calendar(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//Test//EN",
		"BEGIN:VEVENT",
		"UID:flood@test",
		"DTSTAMP:20240101T000000Z",
		"SUMMARY:Flood",
		"DTSTART:20240501T000000Z",
		"RRULE:FREQ=SECONDLY",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	report, err := Parse(strings.NewReader(everySecond), Options{
		Location:       time.UTC,
		HorizonStart:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		HorizonEnd:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		MaxOccurrences: 5,
	})
	require.NoError(t, err)
	require.Len(t, report.Events, 5)
	assert.Equal(t, []string{"flood@test"}, report.Truncated)
	assert.Equal(t, 4, report.Events[4].Start.Second())
}
