package sim

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/MillerLab-UCDavis/ARTRS/log"
	"github.com/MillerLab-UCDavis/ARTRS/response"
	"github.com/MillerLab-UCDavis/ARTRS/scene"
	"github.com/MillerLab-UCDavis/ARTRS/tracer"
)

var (
	ErrNoSources   = errors.New("sim: scene defines no sources")
	ErrNoReceivers = errors.New("sim: scene defines no receivers")
)

// Options control batch execution.
type Options struct {
	// Number of worker goroutines. Values <= 0 select runtime.NumCPU().
	Workers int
}

// A Result holds the outcome of one (source, receiver) job. A failed pair
// records its error here without affecting the rest of the batch.
type Result struct {
	Source   int
	Receiver int

	Paths    []tracer.Path
	Response *response.ImpulseResponse
	Err      error
}

// A Simulator traces every (source, receiver) pair of a scene over a worker
// pool. Workers share only the frozen scene, so no synchronization beyond
// the final merge is required, and the merged output is ordered by pair
// index regardless of scheduling.
type Simulator struct {
	sc      *scene.Scene
	tr      *tracer.Tracer
	acc     *response.Accumulator
	workers int
	logger  log.Logger
}

func New(sc *scene.Scene, opts Options) (*Simulator, error) {
	if len(sc.Sources()) == 0 {
		return nil, ErrNoSources
	}
	if len(sc.Receivers()) == 0 {
		return nil, ErrNoReceivers
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Simulator{
		sc:      sc,
		tr:      tracer.New(sc),
		acc:     response.NewAccumulator(sc),
		workers: workers,
		logger:  log.New("sim"),
	}, nil
}

// Run traces all pairs and returns one Result per pair, ordered by source
// index then receiver index. Cancellation is honored at job granularity:
// jobs not started when ctx is done are marked with ctx.Err() and Run
// returns ctx.Err() alongside the partial results.
func (s *Simulator) Run(ctx context.Context) ([]Result, error) {
	sources := s.sc.Sources()
	receivers := s.sc.Receivers()

	results := make([]Result, len(sources)*len(receivers))
	for idx := range results {
		results[idx].Source = idx / len(receivers)
		results[idx].Receiver = idx % len(receivers)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				s.runJob(ctx, &results[idx], sources[results[idx].Source], receivers[results[idx].Receiver])
			}
		}()
	}

	var cancelled error
feed:
	for idx := range results {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			for rest := idx; rest < len(results); rest++ {
				results[rest].Err = cancelled
			}
			break feed
		default:
		}

		select {
		case jobs <- idx:
		case <-ctx.Done():
			cancelled = ctx.Err()
			// Jobs from idx on were never dispatched; no worker touches
			// their result slots.
			for rest := idx; rest < len(results); rest++ {
				results[rest].Err = cancelled
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	s.logger.Infof(
		"batch complete: %d pairs, %d workers, %s",
		len(results), s.workers, time.Since(start).Round(time.Millisecond),
	)
	return results, cancelled
}

func (s *Simulator) runJob(ctx context.Context, res *Result, src scene.Source, rcv scene.Receiver) {
	if err := ctx.Err(); err != nil {
		res.Err = err
		return
	}

	paths, err := s.tr.Trace(src, rcv)
	if err != nil {
		res.Err = err
		return
	}
	res.Paths = paths

	ir, err := s.acc.Accumulate(src, paths)
	if err != nil {
		res.Err = err
		return
	}
	res.Response = ir
}
