// File: game/geometry.go
package game

import (
	"math"

	"github.com/bubblepop/bubblepop/utils"
)

// Cell addresses one hex-grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Geometry maps between hex grid cells and continuous world positions.
// Rows alternate between full width (ColsPerRow cells) and offset width
// (one fewer cell, shifted right one radius). Which parity is offset is a
// property of the grid, not the row index alone: each descent shifts every
// row down one and flips it, so the functions take it as a parameter.
// All functions are total; WorldToCell may return an invalid cell and
// callers must validate.
type Geometry struct {
	cfg utils.Config
}

func NewGeometry(cfg utils.Config) Geometry {
	return Geometry{cfg: cfg}
}

// RowIsOffset reports whether the row is a short, half-diameter-shifted row.
func (g Geometry) RowIsOffset(row, parity int) bool {
	return (row+parity)%2 == 1
}

// ColsInRow returns the number of valid columns in the row.
func (g Geometry) ColsInRow(row, parity int) int {
	if g.RowIsOffset(row, parity) {
		return g.cfg.ColsPerRow - 1
	}
	return g.cfg.ColsPerRow
}

// CellToWorld returns the world center of a cell. Offset rows add a
// half-diameter horizontal shift; row spacing is diameter * sqrt(3)/2.
func (g Geometry) CellToWorld(row, col, parity int) (x, y float64) {
	x = float64(col)*g.cfg.BubbleDiameter + g.cfg.BubbleRadius
	if g.RowIsOffset(row, parity) {
		x += g.cfg.BubbleRadius
	}
	y = float64(row)*g.cfg.RowPitch + g.cfg.BubbleRadius
	return x, y
}

// WorldToCell inverts CellToWorld by rounding. The result is not guaranteed
// to be a valid cell.
func (g Geometry) WorldToCell(x, y float64, parity int) Cell {
	row := int(math.Round((y - g.cfg.BubbleRadius) / g.cfg.RowPitch))
	cx := x - g.cfg.BubbleRadius
	if g.RowIsOffset(row, parity) {
		cx -= g.cfg.BubbleRadius
	}
	col := int(math.Round(cx / g.cfg.BubbleDiameter))
	return Cell{Row: row, Col: col}
}

// IsValidCell reports whether (row, col) addresses a real cell.
func (g Geometry) IsValidCell(row, col, parity int) bool {
	return row >= 0 && col >= 0 && col < g.ColsInRow(row, parity)
}

// Neighbors returns the valid hex-adjacent cells of (row, col), up to six.
// The offset set differs between full and offset rows.
func (g Geometry) Neighbors(row, col, parity int) []Cell {
	var offsets [6][2]int
	if g.RowIsOffset(row, parity) {
		offsets = [6][2]int{{0, -1}, {0, 1}, {-1, 0}, {-1, 1}, {1, 0}, {1, 1}}
	} else {
		offsets = [6][2]int{{0, -1}, {0, 1}, {-1, -1}, {-1, 0}, {1, -1}, {1, 0}}
	}

	neighbors := make([]Cell, 0, 6)
	for _, offset := range offsets {
		r, c := row+offset[0], col+offset[1]
		if g.IsValidCell(r, c, parity) {
			neighbors = append(neighbors, Cell{Row: r, Col: c})
		}
	}
	return neighbors
}
