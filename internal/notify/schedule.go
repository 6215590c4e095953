package notify

import (
	"context"
	"time"
)

// Schedule decides when the syncer polls again. Start returns a channel that
// yields one value per poll and is closed once ctx is done.
type Schedule interface {
	Start(ctx context.Context) <-chan time.Time
}

// Interval polls at a fixed period
type Interval time.Duration

// Start implements Schedule
func (d Interval) Start(ctx context.Context) <-chan time.Time {
	period := time.Duration(d)
	if period <= 0 {
		period = DefaultPollInterval
	}

	ticks := make(chan time.Time)
	go func() {
		defer close(ticks)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				select {
				case ticks <- t:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ticks
}
