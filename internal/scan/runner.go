package scan

import (
	"context"
	"sync"
	"sync/atomic"
)

// runBounded executes worker over items with at most limit goroutines,
// returning results in input order. shouldStop is consulted before each item
// is claimed and again after; once it reports true no further items are
// dispatched, though items already in flight run to completion. Slots left
// undispatched keep the zero value of R.
func runBounded[T, R any](ctx context.Context, items []T, limit int, worker func(context.Context, T) R, shouldStop func() bool) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	if limit > len(items) {
		limit = len(items)
	}
	if limit < 1 {
		limit = 1
	}

	var (
		cursor atomic.Int64
		wg     sync.WaitGroup
	)

	for range limit {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				if shouldStop() || ctx.Err() != nil {
					return
				}

				idx := int(cursor.Add(1)) - 1
				if idx >= len(items) {
					return
				}

				if shouldStop() {
					return
				}

				results[idx] = worker(ctx, items[idx])
			}
		}()
	}

	wg.Wait()
	return results
}
