package utils

// Latencies in microseconds, consumed by the metric package.
type Metric struct {
	DatabaseWrite chan float64
	CalendarFetch chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseWrite: make(chan float64, 16),
		CalendarFetch: make(chan float64, 16),
	}
}

// Observe sends without blocking; samples are dropped when nobody listens.
func Observe(ch chan<- float64, microsec float64) {
	select {
	case ch <- microsec:
	default:
	}
}
