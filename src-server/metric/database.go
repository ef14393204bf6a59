package metric

import (
	"context"
	"time"

	"alignify/src-server/utils"
)

func database(as *utils.AppState) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	latency, err := as.Store.Ping(ctx)
	if err != nil {
		return 0, err
	}
	return float64(latency.Microseconds()), nil
}
