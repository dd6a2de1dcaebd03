// Package dijkstra implements Dijkstra's shortest-path algorithm on an
// 8-connected cost grid.
//
// Complexity:
//
//   - Time:  O(N log N), N = Rows×Cols (at most 8 edges per cell).
//   - Space: O(N) for Dist/Prev plus O(E) worst-case heap entries under
//     lazy decrease-key.
//
// Notes on implementation choices:
//
//   - Neighbors are expanded in gridgraph.Directions order (N, NE, E, SE,
//     S, SW, W, NW), and the heap breaks distance ties by cell index, so a
//     given grid and source always produce identical maps.
//   - Relaxation is strict (<): the first predecessor to reach a distance
//     keeps it.
//   - We stop exploring once the minimum distance in the heap exceeds
//     MaxDistance.
package dijkstra

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/warepath/gridgraph"
)

// Dijkstra computes shortest distances from the source cell to every cell
// of g. g is only read, so concurrent calls may share it.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. Source must be set (ErrNoSource) and inside g (ErrSourceOutOfBounds).
//  3. The source cell must have finite cost (ErrSourceBlocked).
//
// Edge weights come from g.EdgeWeight: the mean of the two endpoint costs,
// times √2 on diagonals. Without corner cutting a diagonal is also skipped
// when either flanking orthogonal cell is impassable.
func Dijkstra(g *gridgraph.CostGrid, opts ...Option) (*Maps, error) {
	// 1) Build Options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs.
	if g == nil {
		return nil, ErrNilGraph
	}
	if cfg.Source == noSource {
		return nil, ErrNoSource
	}
	if cfg.Source < 0 || cfg.Source >= g.Len() {
		return nil, fmt.Errorf("%w: index %d, grid %dx%d", ErrSourceOutOfBounds, cfg.Source, g.Rows, g.Cols)
	}
	if !g.Passable(cfg.Source) {
		return nil, fmt.Errorf("%w: cell %v", ErrSourceBlocked, g.Coordinate(cfg.Source))
	}

	// 3) Prepare per-run state.
	n := g.Len()
	r := &runner{
		g:       g,
		options: cfg,
		dist:    make([]float64, n),
		prev:    make([]int32, n),
		visited: make([]bool, n),
		pq:      make(nodePQ, 0, 64),
	}

	// 4) Run.
	r.init()
	r.process()

	return &Maps{
		Rows:   g.Rows,
		Cols:   g.Cols,
		Source: cfg.Source,
		Dist:   r.dist,
		Prev:   r.prev,
	}, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       *gridgraph.CostGrid
	options Options
	dist    []float64
	prev    []int32
	visited []bool
	pq      nodePQ
}

// init sets dist = +Inf and prev = NoPredecessor everywhere, then seeds the
// heap with the source at distance 0.
func (r *runner) init() {
	inf := math.Inf(1)
	for i := range r.dist {
		r.dist[i] = inf
		r.prev[i] = NoPredecessor
	}
	r.dist[r.options.Source] = 0

	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{idx: r.options.Source, dist: 0})
}

// process pops cells in (distance, index) order until the heap is empty or
// the frontier passes MaxDistance.
func (r *runner) process() {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.idx

		// Stale entry left behind by lazy decrease-key.
		if r.visited[u] {
			continue
		}
		if item.dist > r.options.MaxDistance {
			break
		}

		r.visited[u] = true
		r.relax(u)
	}
}

// relax tries every neighbor of the finalized cell u in compass order.
func (r *runner) relax(u int) {
	du := r.dist[u]
	for _, d := range gridgraph.Directions {
		v, w, ok := r.g.EdgeWeight(u, d)
		if !ok || r.visited[v] {
			continue
		}
		if !r.options.CornerCutting && !r.g.DiagonalOpen(u, d) {
			continue
		}

		nd := du + w
		if nd > r.options.MaxDistance {
			continue
		}
		if nd >= r.dist[v] {
			continue
		}

		r.dist[v] = nd
		r.prev[v] = int32(u)
		heap.Push(&r.pq, &nodeItem{idx: v, dist: nd})
	}
}

// nodeItem is a heap entry: a cell and a tentative distance.
type nodeItem struct {
	idx  int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by dist, then idx.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].idx < pq[j].idx
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
