package route

import (
	"bytes"
	"log/slog"
	"net/http"

	"alignify/src-server/ical"
	"alignify/src-server/manager"
	"alignify/src-server/model"
	"alignify/src-server/utils"
)

func Ical(muxer *http.ServeMux, as *utils.AppState) {
	write := func(w http.ResponseWriter, name string, events []model.Event) {
		var buf bytes.Buffer
		if err := ical.Export(&buf, name, events, as.Registry.Location()); err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
		}
	}

	muxer.HandleFunc("GET /users/{id}/ical", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		user, exists := as.Registry.User(id)
		if !exists {
			writeError(w, manager.ErrNotFound)
			return
		}
		events, err := as.Registry.UserEvents(id)
		if err != nil {
			writeError(w, err)
			return
		}
		write(w, user.FullName(), events)
	})

	muxer.HandleFunc("GET /agenda/ical", func(w http.ResponseWriter, r *http.Request) {
		events, err := as.Registry.UserEvents(model.AgendaOwnerID)
		if err != nil {
			writeError(w, err)
			return
		}
		write(w, "Agenda", events)
	})
}
