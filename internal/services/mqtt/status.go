package mqtt

import (
	"context"
	"time"

	"peopledetect/internal/services/gate"
)

// StatusSource is the gate state mirrored to the status topic.
type StatusSource interface {
	Status() gate.Status
	Stats() gate.Stats
}

// WatchStatus polls src every interval and publishes the status whenever it
// changes, starting with the current one. It returns when ctx is done.
func WatchStatus(ctx context.Context, src StatusSource, interval time.Duration, publish func(gate.Status, gate.Stats) error, onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := gate.Status(-1)
	for {
		if status := src.Status(); status != last {
			if err := publish(status, src.Stats()); err != nil {
				if onError != nil {
					onError(err)
				}
			} else {
				last = status
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
