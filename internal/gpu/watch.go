package gpu

import (
	"context"
	"time"
)

// Watch queries q, passes the snapshot to emit, then sleeps for interval()
// before the next query. Queries never overlap. The interval is read every
// cycle so it can change while watching.
//
// Watch returns nil once ctx is done, or the first error from emit.
func Watch(ctx context.Context, q Querier, interval func() time.Duration, emit func(Info) error) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		if err := emit(q.Query()); err != nil {
			return err
		}

		timer := time.NewTimer(interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
