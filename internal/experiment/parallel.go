package experiment

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/dynblocks/internal/systems"
)

// ParallelSweep computes the same samples as Sweep, splitting the points
// across workers. Each worker evaluates against its own context, so the
// experiment's context is left untouched. workers <= 0 uses GOMAXPROCS.
func (e *Experiment) ParallelSweep(ctx context.Context, workers int) ([]Sample, error) {
	port, err := e.sweepPort()
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	x0 := e.ctx.State()
	points := e.cfg.Sweep.Points()
	samples := make([]Sample, len(points))

	var (
		mu       sync.Mutex
		firstErr error
	)
	parallelFor(len(points), workers, func(start, end int) {
		wctx, err := e.workerContext()
		for i := start; i < end && err == nil; i++ {
			if err = ctx.Err(); err != nil {
				break
			}
			samples[i], err = e.sampleAt(wctx, port, x0, points[i])
		}
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	e.logger.Debug("parallel sweep complete", "block", e.model.Pathname(),
		"samples", len(samples), "workers", workers)
	return samples, nil
}

func (e *Experiment) workerContext() (*systems.LeafContext, error) {
	wctx := e.model.CreateDefaultContext()
	if err := e.cfg.Apply(wctx); err != nil {
		return nil, err
	}
	return wctx, nil
}

// parallelFor runs fn over [0, n) in at most workers contiguous chunks.
func parallelFor(n, workers int, fn func(start, end int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
