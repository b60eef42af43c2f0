package stepper

import (
	"context"
	"time"
)

// Run calls d.Advance on every tick with the wall-clock time since the
// previous tick, then onTick with the number of steps taken. It returns the
// first error, or ctx.Err() once the context is done.
func Run(ctx context.Context, d Driver, interval time.Duration, onTick func(steps int) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			steps, err := d.Advance(elapsed)
			if err != nil {
				return err
			}
			if onTick != nil {
				if err := onTick(steps); err != nil {
					return err
				}
			}
		}
	}
}
