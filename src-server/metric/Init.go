package metric

import (
	"log/slog"
	"time"

	"alignify/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
)

// register tolerates collectors registered by an earlier Init in the same
// process (tests, CLI subcommands).
func register(name string, c prometheus.Collector) bool {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register metric", "metric", name, "error", err)
			return false
		}
	}
	slog.Debug("metric registered", "metric", name)
	return true
}

func unregister(name string, c prometheus.Collector) {
	switch prometheus.Unregister(c) {
	case true:
		slog.Debug("metric unregistered", "metric", name)
	case false:
		slog.Warn("metric not registered", "metric", name)
	}
}

// sampled polls sample every tickerInterval until shutdown.
func sampled(as *utils.AppState, name, help string, tickerInterval time.Duration, sample func() (float64, error)) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	if register(name, gauge) {
		gauge.Set(0)
	}
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case <-ticker.C:
				value, err := sample()
				if err != nil {
					slog.Error("can't sample metric", "metric", name, "error", err)
					continue
				}
				gauge.Set(value)
			}
		}
	}()
}

// latency shows the last value received on ch, and resets to 0 when nothing
// arrives for clearTickerInterval.
func latency(as *utils.AppState, name, help string, clearTickerInterval time.Duration, ch <-chan float64) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	if register(name, gauge) {
		gauge.Set(0)
	}
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		clearTicker := time.NewTicker(clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case value := <-ch:
				gauge.Set(value)
				clearTicker.Reset(clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	sampled(as, "alignify_users", "The number of registered users", tickerInterval, func() (float64, error) {
		return float64(as.Registry.Stats().Users), nil
	})
	sampled(as, "alignify_events", "The number of events, created and imported", tickerInterval, func() (float64, error) {
		s := as.Registry.Stats()
		return float64(s.CreatedEvents + s.ImportedEvents), nil
	})
	latency(as, "alignify_calendar_fetch_microsec", "The latency of a remote calendar download in microseconds", clearTickerInterval, as.MetricChans.CalendarFetch)

	if as.Store == nil {
		slog.Debug("no database, database metrics disabled")
		return
	}
	sampled(as, "alignify_database_empty_read_microsec", "The latency of an empty database read in microseconds", tickerInterval, func() (float64, error) {
		return database(as)
	})
	latency(as, "alignify_database_write_microsec", "The latency of a database write in microseconds", clearTickerInterval, as.MetricChans.DatabaseWrite)
}
