package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"alignify/src-server/handler"
	"alignify/src-server/manager"
	"alignify/src-server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newTestAppState(t *testing.T, databasePath string) *utils.AppState {
	t.Helper()
	for _, name := range []string{"PORT", "SEED_FILE", "LOG_LEVEL", "REFRESH_CRON", "FETCH_TIMEOUT", "MAX_OCCURRENCES"} {
		t.Setenv(name, "")
	}
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("DATABASE_PATH", databasePath)
	// wide enough for the fixed 2024 dates below
	t.Setenv("HORIZON_PAST", "87600h")
	t.Setenv("HORIZON_FUTURE", "87600h")

	config, err := utils.NewConfig()
	require.NoError(t, err)
	as, err := utils.NewAppState(ctx, config)
	require.NoError(t, err)
	t.Cleanup(as.GracefulShutdown)
	return as
}

func ics(events ...string) string {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//Test//Test//EN"}
	for i, e := range events {
		title, start, _ := strings.Cut(e, "@")
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+title+"-"+string(rune('a'+i)),
			"DTSTAMP:20240101T000000Z",
			"SUMMARY:"+title,
			"DTSTART:"+start,
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestCreateUser(t *testing.T) {
	as := newTestAppState(t, "")

	t.Run("with ics text", func(t *testing.T) {
		user, result, err := handler.CreateUser(ctx, as, handler.NewUser{
			FirstName: "ada",
			LastName:  "lovelace",
			ICS:       ics("Tea@20240501T160000Z", "Chess@20240502T090000Z"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", user.FullName())
		assert.Len(t, result.Imported, 2)
		assert.Equal(t, 0, result.Skipped)
	})

	t.Run("with a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "alan.ics")
		require.NoError(t, os.WriteFile(path, []byte(ics("Run@20240501T070000Z")), 0o600))
		user, result, err := handler.CreateUser(ctx, as, handler.NewUser{FirstName: "Alan", LastName: "Turing", Source: path})
		require.NoError(t, err)
		assert.Equal(t, path, user.Source)
		assert.Len(t, result.Imported, 1)
	})

	t.Run("calendar is required", func(t *testing.T) {
		_, _, err := handler.CreateUser(ctx, as, handler.NewUser{FirstName: "Grace", LastName: "Hopper"})
		assert.ErrorIs(t, err, manager.ErrFieldRequired)
	})

	t.Run("a broken calendar creates nobody", func(t *testing.T) {
		before := len(as.Registry.Users())
		_, _, err := handler.CreateUser(ctx, as, handler.NewUser{FirstName: "Grace", LastName: "Hopper", ICS: "garbage"})
		assert.Error(t, err)
		assert.Len(t, as.Registry.Users(), before)
	})

	t.Run("names are still required", func(t *testing.T) {
		_, _, err := handler.CreateUser(ctx, as, handler.NewUser{FirstName: "Grace", ICS: ics()})
		assert.ErrorIs(t, err, manager.ErrFieldRequired)
	})
}

func TestImportICS(t *testing.T) {
	as := newTestAppState(t, "")
	user, _, err := handler.CreateUser(ctx, as, handler.NewUser{FirstName: "Ada", LastName: "Lovelace", ICS: ics()})
	require.NoError(t, err)

	result, err := handler.ImportICS(ctx, as, user.ID, strings.NewReader(ics("Tea@20240501T160000Z", "Broken@never")))
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, 1, result.Skipped)

	_, err = handler.ImportICS(ctx, as, 99, strings.NewReader(ics()))
	assert.ErrorIs(t, err, manager.ErrNotFound)
}

func TestRefreshCalendar(t *testing.T) {
	as := newTestAppState(t, ":memory:")

	var body atomic.Value
	body.Store(ics("Tea@20240501T160000Z"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body.Load().(string)))
	}))
	defer server.Close()
	as.HTTPClient = server.Client()

	user, result, err := handler.CreateUser(ctx, as, handler.NewUser{FirstName: "Ada", LastName: "Lovelace", Source: server.URL + "/ada.ics"})
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)

	hash, changed, err := handler.RefreshCalendar(ctx, as, user, "")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotEmpty(t, hash)

	// same content
	hash2, changed, err := handler.RefreshCalendar(ctx, as, user, hash)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, hash, hash2)

	body.Store(ics("Tea@20240501T160000Z", "Dinner@20240501T190000Z"))
	_, changed, err = handler.RefreshCalendar(ctx, as, user, hash)
	require.NoError(t, err)
	assert.True(t, changed)
	events, err := as.Registry.UserEvents(user.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	// and the store agrees
	_, stored, err := as.Store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	local, _, err := handler.CreateUser(ctx, as, handler.NewUser{FirstName: "Alan", LastName: "Turing", ICS: ics()})
	require.NoError(t, err)
	_, _, err = handler.RefreshCalendar(ctx, as, local, "")
	assert.Error(t, err)
}

func TestApplySeed(t *testing.T) {
	as := newTestAppState(t, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "ada.ics")
	require.NoError(t, os.WriteFile(path, []byte(ics("Tea@20240501T160000Z")), 0o600))

	seed := &utils.Seed{Users: []utils.SeedUser{
		{FirstName: "Ada", LastName: "Lovelace", ICS: path},
		{FirstName: "Ghost", LastName: "User", ICS: filepath.Join(dir, "missing.ics")},
	}}
	assert.Equal(t, 1, handler.ApplySeed(ctx, as, seed))
	assert.Len(t, as.Registry.Users(), 1)

	// not applied twice
	assert.Equal(t, 0, handler.ApplySeed(ctx, as, seed))
	assert.Len(t, as.Registry.Users(), 1)
}

func TestPing(t *testing.T) {
	as := newTestAppState(t, ":memory:")
	_, err := as.Registry.CreateEvent(ctx, manager.EventInput{Title: "x", Start: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	info, err := handler.Ping(ctx, as)
	require.NoError(t, err)
	assert.Equal(t, 1, info.CreatedEvents)
	assert.NotEmpty(t, info.GoVersion)
	assert.GreaterOrEqual(t, info.DatabaseMicros, int64(0))
}
