package handler

import (
	"context"
	"runtime"

	"alignify/src-server/utils"
)

type PingInfo struct {
	Uptime         string  `json:"uptime"`
	GoVersion      string  `json:"goVersion"`
	MemoryMB       float64 `json:"memoryMB"`
	DatabaseMicros int64   `json:"databaseMicros,omitempty"`
	Users          int     `json:"users"`
	CreatedEvents  int     `json:"createdEvents"`
	ImportedEvents int     `json:"importedEvents"`
}

func Ping(ctx context.Context, as *utils.AppState) (PingInfo, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := as.Registry.Stats()
	info := PingInfo{
		Uptime:         as.GetUptime().String(),
		GoVersion:      runtime.Version(),
		MemoryMB:       float64(m.Sys) / 1024 / 1024,
		Users:          stats.Users,
		CreatedEvents:  stats.CreatedEvents,
		ImportedEvents: stats.ImportedEvents,
	}
	if as.Store != nil {
		latency, err := as.Store.Ping(ctx)
		if err != nil {
			return info, err
		}
		info.DatabaseMicros = latency.Microseconds()
	}
	return info, nil
}
