package precompute

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/dijkstra"
	"github.com/katalvlaran/warepath/gridgraph"
	"github.com/katalvlaran/warepath/invalidate"
)

// Sentinel errors.
var (
	// ErrNilGrid indicates a Request without a grid.
	ErrNilGrid = errors.New("precompute: grid is nil")
	// ErrNoSources indicates a Request without source points.
	ErrNoSources = errors.New("precompute: no source points")
	// ErrInvalidSource indicates a source with an empty name or a non-finite point.
	ErrInvalidSource = errors.New("precompute: invalid source point")
	// ErrDuplicateSource indicates two sources sharing a name.
	ErrDuplicateSource = errors.New("precompute: duplicate source name")
	// ErrAllSourcesFailed is returned by Wait when no source produced maps.
	ErrAllSourcesFailed = errors.New("precompute: every source failed")
	// ErrUnreachableSource is the sentinel matched by every *UnreachableSourceError.
	ErrUnreachableSource = errors.New("precompute: unreachable source")
)

// UnreachableSourceError reports a source point whose cell is impassable.
type UnreachableSourceError struct {
	Name  string
	Point r2.Vec
	Cell  gridgraph.Cell
	Err   error // underlying dijkstra error
}

func (e *UnreachableSourceError) Error() string {
	return fmt.Sprintf("precompute: source %q at (%g, %g) maps to impassable cell %v",
		e.Name, e.Point.X, e.Point.Y, e.Cell)
}

// Is matches ErrUnreachableSource.
func (e *UnreachableSourceError) Is(target error) bool { return target == ErrUnreachableSource }

// Unwrap returns the underlying dijkstra error.
func (e *UnreachableSourceError) Unwrap() error { return e.Err }

// Source is a named start point in world coordinates.
type Source struct {
	Name  string
	Point r2.Vec
}

// Request is the immutable input of one precompute run.
type Request struct {
	Grid       *gridgraph.CostGrid
	Sources    []Source
	Generation invalidate.Stamp
}

// SourceMap is the finished result of one source.
type SourceMap struct {
	*dijkstra.Maps
	Name       string
	Point      r2.Vec
	Cell       gridgraph.Cell
	Generation invalidate.Stamp
	Elapsed    time.Duration
}

// Failure names a source that produced no maps and why.
type Failure struct {
	Name string
	Err  error
}

// String formats the failure as "name (reason)".
func (f Failure) String() string {
	reason := "unknown error"
	if f.Err != nil {
		reason = f.Err.Error()
		if errors.Is(f.Err, ErrUnreachableSource) {
			reason = "impassable start cell"
		}
	}
	return fmt.Sprintf("%s (%s)", f.Name, reason)
}

// Outcome is the result of a finished job.
type Outcome struct {
	Generation invalidate.Stamp
	Maps       map[string]*SourceMap
	Failed     []Failure // sorted by name
	Skipped    []string  // never started because of cancellation, sorted
	Canceled   bool
	Elapsed    time.Duration
}

// Names returns the sorted names of sources with maps.
func (o *Outcome) Names() []string {
	names := make([]string, 0, len(o.Maps))
	for n := range o.Maps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FailedNames returns the sorted names of failed sources.
func (o *Outcome) FailedNames() []string {
	names := make([]string, len(o.Failed))
	for i, f := range o.Failed {
		names[i] = f.Name
	}
	return names
}

// EventKind classifies an Event.
type EventKind int

const (
	// EventProgress follows every finished source, successful or not.
	EventProgress EventKind = iota
	// EventSourceFailed precedes the progress event of a failed source.
	EventSourceFailed
	// EventDone is the final event of a job.
	EventDone
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventSourceFailed:
		return "source-failed"
	case EventDone:
		return "done"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is emitted on Job.Events().
type Event struct {
	Kind       EventKind
	Source     string  // finished or failed source; empty for EventDone
	Fraction   float64 // Completed/Total
	Completed  int
	Total      int
	Err        error // set for EventSourceFailed
	Generation invalidate.Stamp
}

// Options configures a run.
type Options struct {
	Workers  int
	Dijkstra []dijkstra.Option
}

// Option represents a functional option for configuring Run.
type Option func(*Options)

// WithWorkers bounds the pool size. n ≤ 0 selects the default.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Workers = n
		}
	}
}

// WithDijkstraOptions forwards options to every single-source run. The
// source cell is always set by the scheduler.
func WithDijkstraOptions(opts ...dijkstra.Option) Option {
	return func(o *Options) {
		o.Dijkstra = append(o.Dijkstra, opts...)
	}
}

// DefaultOptions returns one worker per available CPU.
func DefaultOptions() Options {
	return Options{Workers: runtime.GOMAXPROCS(0)}
}
