// File: game/match.go
package game

// FindConnectedSameColor walks the hex adjacency from origin through
// settled bubbles of the same color and returns the full connected
// component, origin included. Breadth-first, deterministic order.
func FindConnectedSameColor(grid *Grid, origin *Bubble) []*Bubble {
	if origin == nil {
		return nil
	}

	visited := map[Cell]bool{{Row: origin.Row, Col: origin.Col}: true}
	component := []*Bubble{origin}
	queue := []*Bubble{origin}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, cell := range grid.Neighbors(current.Row, current.Col) {
			if visited[cell] {
				continue
			}
			neighbor := grid.Get(cell.Row, cell.Col)
			if neighbor == nil || neighbor.Color != origin.Color {
				continue
			}
			visited[cell] = true
			component = append(component, neighbor)
			queue = append(queue, neighbor)
		}
	}

	return component
}

// FindFloating returns every settled bubble that is not ceiling-connected:
// not reachable from a row-0 occupant through occupied neighbor chains.
// Row 0 counts as anchored regardless of anything else. Idempotent for a
// grid with no removals since the last check.
func FindFloating(grid *Grid) []*Bubble {
	reached := make(map[Cell]bool)
	queue := make([]*Bubble, 0)

	for _, bubble := range grid.All() {
		if bubble.Row == 0 {
			reached[Cell{Row: bubble.Row, Col: bubble.Col}] = true
			queue = append(queue, bubble)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, cell := range grid.Neighbors(current.Row, current.Col) {
			if reached[cell] {
				continue
			}
			neighbor := grid.Get(cell.Row, cell.Col)
			if neighbor == nil {
				continue
			}
			reached[cell] = true
			queue = append(queue, neighbor)
		}
	}

	floating := make([]*Bubble, 0)
	for _, bubble := range grid.All() {
		if !reached[Cell{Row: bubble.Row, Col: bubble.Col}] {
			floating = append(floating, bubble)
		}
	}
	return floating
}
