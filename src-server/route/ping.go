package route

import (
	"net/http"

	"alignify/src-server/handler"
	"alignify/src-server/utils"
)

func Ping(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		info, err := handler.Ping(r.Context(), as)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	})
}
