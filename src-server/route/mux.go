package route

import (
	"net/http"

	"alignify/src-server/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler mounts every route, wrapped in the request logger.
func NewHandler(as *utils.AppState) http.Handler {
	muxer := http.NewServeMux()
	muxer.Handle("GET /metrics", promhttp.Handler())
	User(muxer, as)
	Ical(muxer, as)
	Calendar(muxer, as)
	Ping(muxer, as)
	return LogMiddleware(muxer)
}
