package focus

import (
	"context"
	"math/rand"
	"time"
)

// Run drives a simulator to completion on a fixed interval and streams the
// display values. The channel closes when the counter reaches 100 or the
// context is cancelled; cancellation stops the tick loop without leaking
// the goroutine. A non-positive interval uses DefaultTickInterval.
func Run(ctx context.Context, interval time.Duration, rng *rand.Rand) <-chan int {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	sim := NewSimulator(rng)
	out := make(chan int)

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				v := sim.Tick()
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
				if sim.Done() {
					return
				}
			}
		}
	}()
	return out
}
