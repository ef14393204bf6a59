package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"alignify/src-server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportRoundTrip(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	events := []model.Event{
		{
			ID:               1,
			UID:              "meeting@alignify",
			Title:            "Meeting",
			Description:      "Quarterly",
			Location:         "Room 3",
			StartDateUnixUTC: start.Unix(),
			EndDateUnixUTC:   start.Add(time.Hour).Unix(),
		},
		{
			ID:               2,
			Title:            "Offsite",
			StartDateUnixUTC: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC).Unix(),
			EndDateUnixUTC:   time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC).Unix(),
			IsWholeDay:       true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "Ada Lovelace", events, time.UTC))
	out := buf.String()
	assert.Contains(t, out, "PRODID:"+ProdID)
	assert.Contains(t, out, "X-WR-CALNAME:Ada Lovelace")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240503")

	report, err := Parse(strings.NewReader(out), Options{Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", report.Name)
	require.Len(t, report.Events, 2)

	meeting := report.Events[0]
	assert.Equal(t, "meeting@alignify", meeting.UID)
	assert.Equal(t, "Meeting", meeting.Title)
	assert.Equal(t, "Quarterly", meeting.Description)
	assert.Equal(t, "Room 3", meeting.Location)
	assert.True(t, meeting.Start.Equal(start))
	assert.True(t, meeting.End.Equal(start.Add(time.Hour)))

	offsite := report.Events[1]
	assert.NotEmpty(t, offsite.UID)
	assert.True(t, offsite.AllDay)
	assert.Equal(t, 3, offsite.Start.Day())
}
