package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"alignify/src-server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("parse and print", func(t *testing.T) {
		d, err := model.ParseDate("2024-02-29")
		require.NoError(t, err)
		assert.Equal(t, model.Date{Year: 2024, Month: time.February, Day: 29}, d)
		assert.Equal(t, "2024-02-29", d.String())

		_, err = model.ParseDate("2023-02-29")
		assert.Error(t, err)
		_, err = model.ParseDate("29/02/2024")
		assert.Error(t, err)
	})

	t.Run("date of a time depends on its location", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)
		instant := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
		assert.Equal(t, model.Date{Year: 2024, Month: time.May, Day: 1}, model.DateOf(instant))
		assert.Equal(t, model.Date{Year: 2024, Month: time.May, Day: 2}, model.DateOf(instant.In(tokyo)))
	})

	t.Run("add days crosses months and years", func(t *testing.T) {
		d := model.Date{Year: 2023, Month: time.December, Day: 31}
		assert.Equal(t, model.Date{Year: 2024, Month: time.January, Day: 1}, d.AddDays(1))
		assert.Equal(t, model.Date{Year: 2023, Month: time.November, Day: 30}, d.AddDays(-31))
		assert.True(t, d.Before(d.AddDays(1)))
		assert.False(t, d.Before(d))
	})

	t.Run("month dates", func(t *testing.T) {
		assert.Len(t, model.MonthDates(2024, time.February), 29)
		assert.Len(t, model.MonthDates(2023, time.February), 28)
		dates := model.MonthDates(2024, time.April)
		require.Len(t, dates, 30)
		assert.Equal(t, 1, dates[0].Day)
		assert.Equal(t, 30, dates[29].Day)
	})

	t.Run("json", func(t *testing.T) {
		b, err := json.Marshal(model.Date{Year: 2024, Month: time.March, Day: 7})
		require.NoError(t, err)
		assert.Equal(t, `"2024-03-07"`, string(b))

		var d model.Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-07"`), &d))
		assert.Equal(t, model.Date{Year: 2024, Month: time.March, Day: 7}, d)
		assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &d))
	})
}
