// Package parallel splits index ranges across a bounded number of
// goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinChunk is the smallest range handed to a single goroutine.
const MinChunk = 16

// Workers resolves a requested worker count; zero or negative means one
// worker per schedulable CPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// For calls fn over disjoint chunks covering [0, n) using at most workers
// goroutines. Small ranges and a single worker run inline on the caller's
// goroutine. Cancellation is observed between chunks.
func For(ctx context.Context, n, workers int, fn func(start, end int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	workers = Workers(workers)
	if workers == 1 || n <= MinChunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, n)
		return nil
	}

	chunk := (n + 4*workers - 1) / (4 * workers)
	if chunk < MinChunk {
		chunk = MinChunk
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
