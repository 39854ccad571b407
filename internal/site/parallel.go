package site

import (
	"context"
	"sync"
)

// runOrdered calls fn for every item with at most concurrency calls in flight
// and returns the results in item order. Items still waiting for a slot when
// ctx is done are passed to fn with the done context so they fail fast.
func runOrdered[T any, R any](ctx context.Context, items []T, concurrency int, fn func(context.Context, T) R) []R {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]R, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
			}
			results[i] = fn(ctx, item)
		}(i, item)
	}
	wg.Wait()
	return results
}
