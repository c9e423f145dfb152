// Package parallel fans independent evaluations out over worker goroutines.
//
// A tape is single-threaded, so every worker owns private state (typically
// an evaluator and its tape) created once and reused for all the items the
// worker picks up.
package parallel

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool `yaml:"enabled"`                         // Whether parallel execution is enabled.
	NumWorkers   int  `yaml:"num_workers" validate:"gte=0"`    // Number of worker goroutines; 0 means one per CPU.
	MinChunkSize int  `yaml:"min_chunk_size" validate:"gte=0"` // Minimum item count worth spreading over workers.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 2, // A single evaluation is never worth a goroutine.
	}
}

// Workers returns how many goroutines ForEach uses for n items.
func (c Config) Workers(n int) int {
	if !c.Enabled || n < max(c.MinChunkSize, 2) {
		return 1
	}
	w := c.NumWorkers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return min(w, n)
}

// ForEach calls f(ctx, state, i) for every i in [0, n).
//
// Each worker calls newState once and passes the result to every f it
// runs, so state is never shared between goroutines. Items are handed out
// in index order. The first error cancels the context passed to the other
// workers and is returned; once the context is done no new items are
// started, but a running f is never interrupted.
//
// Falls back to a sequential loop on the calling goroutine if parallelism
// is disabled or n is too small.
func ForEach[S any](ctx context.Context, n int, cfg Config, newState func() S, f func(ctx context.Context, state S, i int) error) error {
	workers := cfg.Workers(n)
	if workers <= 1 {
		if n == 0 {
			return nil
		}
		state := newState()
		for i := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f(ctx, state, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	var next atomic.Int64
	for range workers {
		g.Go(func() error {
			state := newState()
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1) - 1)
				if i >= n {
					return nil
				}
				if err := f(ctx, state, i); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
