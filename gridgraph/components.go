package gridgraph

// NoComponent labels impassable cells in ComponentLabels.
const NoComponent int32 = -1

// ComponentLabels assigns every passable cell the id of its connected
// region under 8-connectivity; impassable cells get NoComponent. Ids are
// dense, starting at 0, in row-major order of each region's first cell.
// When cornerCutting is false, diagonal steps between two cells are only
// followed if DiagonalOpen reports both flanks passable, matching the
// default shortest-path rule.
//
// Time:   O(R·C·8).
// Memory: O(R·C) for labels and the BFS queue.
func (g *CostGrid) ComponentLabels(cornerCutting bool) (labels []int32, count int) {
	total := g.Len()
	labels = make([]int32, total)
	for i := range labels {
		labels[i] = NoComponent
	}

	queue := make([]int, 0, 64)
	for i0 := 0; i0 < total; i0++ {
		if labels[i0] != NoComponent || !g.Passable(i0) {
			continue
		}
		id := int32(count)
		count++
		labels[i0] = id
		queue = append(queue[:0], i0)
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			for _, d := range Directions {
				v, _, ok := g.EdgeWeight(u, d)
				if !ok || labels[v] != NoComponent {
					continue
				}
				if !cornerCutting && !g.DiagonalOpen(u, d) {
					continue
				}
				labels[v] = id
				queue = append(queue, v)
			}
		}
	}
	return labels, count
}

// ConnectedComponents returns every passable region as a slice of
// row-major indices in BFS discovery order.
func (g *CostGrid) ConnectedComponents(cornerCutting bool) [][]int {
	labels, count := g.ComponentLabels(cornerCutting)
	comps := make([][]int, count)
	for i, l := range labels {
		if l != NoComponent {
			comps[l] = append(comps[l], i)
		}
	}
	return comps
}
