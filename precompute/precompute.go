package precompute

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/katalvlaran/warepath/dijkstra"
	"github.com/katalvlaran/warepath/internal/logging"
	"github.com/katalvlaran/warepath/invalidate"
)

// Job is a running precompute. All methods are safe for concurrent use.
type Job struct {
	generation invalidate.Stamp
	total      int
	events     chan Event
	done       chan struct{}
	cancel     context.CancelFunc

	// set before done is closed
	outcome *Outcome
	err     error
}

// Events returns the job's event stream. It is closed after EventDone.
func (j *Job) Events() <-chan Event { return j.events }

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel asks the job to stop before starting further sources. Sources
// already running finish normally.
func (j *Job) Cancel() { j.cancel() }

// Generation returns the stamp the job's maps carry.
func (j *Job) Generation() invalidate.Stamp { return j.generation }

// Total returns the number of sources in the job.
func (j *Job) Total() int { return j.total }

// Wait blocks until the job finishes and returns its Outcome. The Outcome
// is non-nil even when err is set:
//
//   - context.Canceled (or the parent context's error) if any source was
//     skipped because of cancellation;
//   - ErrAllSourcesFailed if no source produced maps;
//   - nil otherwise, including partial success with Outcome.Failed set.
func (j *Job) Wait() (*Outcome, error) {
	<-j.done
	return j.outcome, j.err
}

// Run validates req and starts computing maps for every source. It returns
// immediately; request errors are reported synchronously and no worker
// starts.
//
// Validation (in order):
//  1. req.Grid non-nil (ErrNilGrid).
//  2. At least one source (ErrNoSources).
//  3. Every source named with a finite point (ErrInvalidSource), names
//     unique (ErrDuplicateSource).
func Run(ctx context.Context, req Request, opts ...Option) (*Job, error) {
	// 1) Build Options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate the request.
	if err := validate(req); err != nil {
		return nil, err
	}

	// 3) Start the job.
	ctx, cancel := context.WithCancel(ctx)
	total := len(req.Sources)
	j := &Job{
		generation: req.Generation,
		total:      total,
		events:     make(chan Event, 2*total+1),
		done:       make(chan struct{}),
		cancel:     cancel,
	}
	go j.run(ctx, req, cfg)

	return j, nil
}

// Compute runs req to completion and returns its Outcome, discarding events.
func Compute(ctx context.Context, req Request, opts ...Option) (*Outcome, error) {
	j, err := Run(ctx, req, opts...)
	if err != nil {
		return nil, err
	}
	return j.Wait()
}

func validate(req Request) error {
	if req.Grid == nil {
		return ErrNilGrid
	}
	if len(req.Sources) == 0 {
		return ErrNoSources
	}
	seen := make(map[string]struct{}, len(req.Sources))
	for i, s := range req.Sources {
		if s.Name == "" {
			return fmt.Errorf("%w: source %d has no name", ErrInvalidSource, i)
		}
		if !finite(s.Point.X) || !finite(s.Point.Y) {
			return fmt.Errorf("%w: source %q has non-finite point", ErrInvalidSource, s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateSource, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// result is what a worker hands back for one source.
type result struct {
	idx     int
	maps    *SourceMap
	err     error
	skipped bool
}

// run owns the pool and is the only writer of events.
func (j *Job) run(ctx context.Context, req Request, cfg Options) {
	defer close(j.done)
	defer j.cancel()

	log := logging.Logger()
	start := time.Now()
	total := j.total
	workers := min(cfg.Workers, total)

	log.Info("precompute: started",
		"generation", uint64(req.Generation), "sources", total, "workers", workers)

	// 1) Queue every source up front; workers pull until the queue drains.
	tasks := make(chan int, total)
	for i := range req.Sources {
		tasks <- i
	}
	close(tasks)

	// 2) Workers. Each task yields exactly one result.
	results := make(chan result, total)
	// A failed source never stops its siblings, so workers report through
	// results rather than a shared error.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				if ctx.Err() != nil {
					results <- result{idx: i, skipped: true}
					continue
				}
				results <- computeOne(req, i, cfg.Dijkstra)
			}
		}()
	}

	// 3) Collect.
	out := &Outcome{
		Generation: req.Generation,
		Maps:       make(map[string]*SourceMap, total),
	}
	completed := 0
	for n := 0; n < total; n++ {
		res := <-results
		name := req.Sources[res.idx].Name
		switch {
		case res.skipped:
			out.Skipped = append(out.Skipped, name)
			continue
		case res.err != nil:
			out.Failed = append(out.Failed, Failure{Name: name, Err: res.err})
			log.Warn("precompute: source failed", "source", name, "err", res.err)
			completed++
			j.emit(Event{Kind: EventSourceFailed, Source: name, Err: res.err, Completed: completed})
		default:
			out.Maps[name] = res.maps
			log.Debug("precompute: source done",
				"source", name, "reached", res.maps.ReachedCount(), "elapsed", res.maps.Elapsed)
			completed++
		}
		j.emit(Event{Kind: EventProgress, Source: name, Completed: completed})
	}
	wg.Wait()

	// 4) Finish.
	sort.Slice(out.Failed, func(a, b int) bool { return out.Failed[a].Name < out.Failed[b].Name })
	sort.Strings(out.Skipped)
	out.Canceled = len(out.Skipped) > 0
	out.Elapsed = time.Since(start)

	var err error
	switch {
	case out.Canceled:
		err = context.Cause(ctx)
	case len(out.Maps) == 0:
		reasons := make([]string, len(out.Failed))
		for i, f := range out.Failed {
			reasons[i] = f.String()
		}
		err = fmt.Errorf("%w: %s", ErrAllSourcesFailed, strings.Join(reasons, ", "))
	}
	j.outcome, j.err = out, err

	log.Info("precompute: finished",
		"generation", uint64(req.Generation), "ok", len(out.Maps), "failed", len(out.Failed),
		"skipped", len(out.Skipped), "elapsed", out.Elapsed)

	j.emit(Event{Kind: EventDone, Completed: completed, Err: err})
	close(j.events)
}

// emit fills the shared fields and sends e. The buffer holds every event a
// job can produce, so the send never blocks.
func (j *Job) emit(e Event) {
	e.Total = j.total
	e.Generation = j.generation
	e.Fraction = float64(e.Completed) / float64(j.total)
	j.events <- e
}

// computeOne maps source i to its clamped cell and runs Dijkstra from it.
func computeOne(req Request, i int, dopts []dijkstra.Option) result {
	src := req.Sources[i]
	g := req.Grid
	cell := g.ClampCell(g.CellOf(src.Point))

	opts := make([]dijkstra.Option, 0, len(dopts)+1)
	opts = append(opts, dopts...)
	opts = append(opts, dijkstra.Source(g.Index(cell)))

	start := time.Now()
	m, err := dijkstra.Dijkstra(g, opts...)
	if err != nil {
		if errors.Is(err, dijkstra.ErrSourceBlocked) {
			err = &UnreachableSourceError{Name: src.Name, Point: src.Point, Cell: cell, Err: err}
		} else {
			err = fmt.Errorf("precompute: source %q: %w", src.Name, err)
		}
		return result{idx: i, err: err}
	}

	return result{idx: i, maps: &SourceMap{
		Maps:       m,
		Name:       src.Name,
		Point:      src.Point,
		Cell:       cell,
		Generation: req.Generation,
		Elapsed:    time.Since(start),
	}}
}
