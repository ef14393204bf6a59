package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"alignify/src-server/ical"
	"alignify/src-server/manager"
	"alignify/src-server/utils"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	respBodyJson, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't marshal response body"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(respBodyJson)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

// writeError picks the status code from the error kind.
func writeError(w http.ResponseWriter, err error) {
	var calErr *ical.CustomError
	switch {
	case errors.Is(err, manager.ErrFieldRequired),
		errors.Is(err, manager.ErrInvalidEvent),
		errors.Is(err, manager.ErrInvalidRange):
		writeText(w, http.StatusBadRequest, userMessage(err))
	case errors.As(err, &calErr):
		slog.Debug("invalid calendar", calErr.Args()...)
		writeText(w, http.StatusBadRequest, "Invalid calendar: "+calErr.Error())
	case errors.Is(err, utils.ErrFetch):
		slog.Debug("calendar download failed", "error", err)
		writeText(w, http.StatusBadGateway, "Can't download calendar: "+err.Error())
	case errors.Is(err, manager.ErrNotFound):
		writeText(w, http.StatusNotFound, userMessage(err))
	case errors.Is(err, manager.ErrReadOnly):
		writeText(w, http.StatusConflict, "Imported events can't be modified")
	default:
		slog.Error("request failed", "where", "route/response.go", "error", err)
		writeText(w, http.StatusInternalServerError, "Internal server error")
	}
}

// userMessage strips the "Registry.Method: " chain for a field error.
func userMessage(err error) string {
	var fieldErr *manager.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Error()
	}
	return err.Error()
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 0 {
		writeText(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
