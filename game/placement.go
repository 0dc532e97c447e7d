// File: game/placement.go
package game

import (
	"github.com/bubblepop/bubblepop/utils"
)

// FindPlacement picks the cell where a shot that stopped at stop settles:
// the empty valid ceiling-anchored cell nearest the stop point (Euclidean)
// among the 3x3 neighborhood of the geometrically nearest cell. A cell is
// ceiling-anchored if it is row 0 or adjacent to an existing occupant.
//
// ok is false when no candidate exists. That should not happen under
// correct geometry; the caller discards the shot and carries on.
func FindPlacement(grid *Grid, stop Vec2) (Cell, bool) {
	nearest := grid.WorldToCell(stop.X, stop.Y)

	var best Cell
	bestDist := -1.0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			row, col := nearest.Row+dr, nearest.Col+dc
			if !grid.IsValidCell(row, col) {
				continue
			}
			if grid.Get(row, col) != nil {
				continue
			}
			if row != 0 && !grid.HasNeighborOccupant(row, col) {
				continue
			}
			x, y := grid.CellToWorld(row, col)
			dist := utils.Distance(stop.X, stop.Y, x, y)
			if bestDist < 0 || dist < bestDist {
				best = Cell{Row: row, Col: col}
				bestDist = dist
			}
		}
	}

	return best, bestDist >= 0
}
