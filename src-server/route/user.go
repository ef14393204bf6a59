package route

import (
	"encoding/json"
	"net/http"

	"alignify/src-server/handler"
	"alignify/src-server/ical"
	"alignify/src-server/manager"
	"alignify/src-server/model"
	"alignify/src-server/utils"
)

func User(muxer *http.ServeMux, as *utils.AppState) {
	type CreateUserRespBody struct {
		User   model.User            `json:"user"`
		Import *handler.ImportResult `json:"import"`
	}

	// create a user together with their calendar
	muxer.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		var reqBody handler.NewUser
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, utils.MaxCalendarBytes)).Decode(&reqBody); err != nil {
			writeText(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		// local files are only readable from the CLI and the seed file
		if reqBody.Source != "" && !ical.IsRemote(reqBody.Source) {
			writeText(w, http.StatusBadRequest, "Source must be an http(s) or webcal URL")
			return
		}
		user, result, err := handler.CreateUser(r.Context(), as, reqBody)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, CreateUserRespBody{User: user, Import: result})
	})

	muxer.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		users := as.Registry.Users()
		respBody := make([]manager.UserDetails, 0, len(users))
		for _, u := range users {
			details, err := as.Registry.UserDetails(u.ID)
			if err != nil {
				// deleted in between
				continue
			}
			respBody = append(respBody, details)
		}
		writeJSON(w, http.StatusOK, respBody)
	})

	muxer.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		details, err := as.Registry.UserDetails(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, details)
	})

	// the response lists the dates that lost events, with their new marks
	muxer.HandleFunc("DELETE /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		marks, err := as.Registry.DeleteUser(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, marks)
	})

	muxer.HandleFunc("GET /users/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if id == model.AgendaOwnerID {
			writeError(w, manager.ErrNotFound)
			return
		}
		events, err := as.Registry.UserEvents(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	})

	// append a raw text/calendar body to the user's calendar
	muxer.HandleFunc("POST /users/{id}/import", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if _, exists := as.Registry.User(id); !exists {
			writeError(w, manager.ErrNotFound)
			return
		}
		result, err := handler.ImportICS(r.Context(), as, id, http.MaxBytesReader(w, r.Body, utils.MaxCalendarBytes))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})
}
