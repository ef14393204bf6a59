package route

import (
	"encoding/json"
	"net/http"
	"time"

	"alignify/src-server/manager"
	"alignify/src-server/model"
	"alignify/src-server/utils"
)

func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	// #region - agenda events

	// create an event on the agenda
	muxer.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		var reqBody manager.EventInput
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			writeText(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		event, err := as.Registry.CreateEvent(r.Context(), reqBody)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, event)
	})

	// any event; agenda events come with the users free at their start
	muxer.HandleFunc("GET /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		details, err := as.Registry.EventDetails(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, details)
	})

	muxer.HandleFunc("GET /events/{id}/available", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		users, err := as.Registry.AvailableUsers(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	})

	muxer.HandleFunc("PUT /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var reqBody manager.EventInput
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			writeText(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		event, err := as.Registry.EditEvent(r.Context(), id, reqBody)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, event)
	})

	muxer.HandleFunc("DELETE /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := as.Registry.DeleteEvent(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// #endregion

	// #region - dates

	muxer.HandleFunc("GET /dates/{date}", func(w http.ResponseWriter, r *http.Request) {
		date, err := model.ParseDate(r.PathValue("date"))
		if err != nil {
			writeText(w, http.StatusBadRequest, "Date must look like 2006-01-02")
			return
		}
		writeJSON(w, http.StatusOK, as.Registry.EventsOn(date))
	})

	// ?month=2006-01, ?from=2006-01-02&to=2006-01-31, or nothing for every
	// date that has an event
	muxer.HandleFunc("GET /marks", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		switch {
		case query.Get("month") != "":
			month, err := time.Parse("2006-01", query.Get("month"))
			if err != nil {
				writeText(w, http.StatusBadRequest, "Month must look like 2006-01")
				return
			}
			writeJSON(w, http.StatusOK, as.Registry.MonthMarks(month.Year(), month.Month()))
		case query.Get("from") != "" || query.Get("to") != "":
			from, err := model.ParseDate(query.Get("from"))
			if err != nil {
				writeText(w, http.StatusBadRequest, "From must look like 2006-01-02")
				return
			}
			to, err := model.ParseDate(query.Get("to"))
			if err != nil {
				writeText(w, http.StatusBadRequest, "To must look like 2006-01-02")
				return
			}
			marks, err := as.Registry.MarksBetween(from, to)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, marks)
		default:
			writeJSON(w, http.StatusOK, as.Registry.MarkedDates())
		}
	})

	// #endregion

	type FreeRespBody struct {
		At        time.Time          `json:"at"`
		Available []manager.UserView `json:"available"`
	}

	// ?at= accepts RFC3339, "2006-01-02 15:04" or plain English
	muxer.HandleFunc("GET /free", func(w http.ResponseWriter, r *http.Request) {
		at, err := utils.ParseTime(as.When, r.URL.Query().Get("at"), time.Now().In(as.Registry.Location()))
		if err != nil {
			writeText(w, http.StatusBadRequest, "Can't understand the time in ?at=")
			return
		}
		writeJSON(w, http.StatusOK, FreeRespBody{
			At:        at,
			Available: as.Registry.AvailableAt(at),
		})
	})
}
