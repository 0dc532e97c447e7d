// File: game/grid.go
package game

import (
	"sort"

	"github.com/bubblepop/bubblepop/utils"
)

// Grid is the authoritative collection of settled bubbles: one bubble per
// cell, every coordinate within its row's valid range. It owns the row
// parity, which flips on every descent so that shifted rows keep their
// column capacity. Only the session actor mutates it.
type Grid struct {
	cfg    utils.Config
	geo    Geometry
	parity int
	cells  map[Cell]*Bubble
}

func NewGrid(cfg utils.Config, geo Geometry) *Grid {
	return &Grid{
		cfg:   cfg,
		geo:   geo,
		cells: make(map[Cell]*Bubble),
	}
}

// Parity returns the current row-parity offset (0 or 1).
func (g *Grid) Parity() int { return g.parity }

// Get returns the settled bubble at (row, col), or nil.
func (g *Grid) Get(row, col int) *Bubble {
	return g.cells[Cell{Row: row, Col: col}]
}

// Insert settles a new bubble at (row, col). Invalid or occupied cells are
// a silent no-op returning nil: callers pre-validate.
func (g *Grid) Insert(row, col, color int) *Bubble {
	if !g.geo.IsValidCell(row, col, g.parity) {
		return nil
	}
	cell := Cell{Row: row, Col: col}
	if g.cells[cell] != nil {
		return nil
	}
	bubble := NewBubble(row, col, color)
	bubble.X, bubble.Y = g.geo.CellToWorld(row, col, g.parity)
	g.cells[cell] = bubble
	return bubble
}

// Remove takes a settled bubble out of the grid and marks it removed.
func (g *Grid) Remove(bubble *Bubble) {
	if bubble == nil {
		return
	}
	cell := Cell{Row: bubble.Row, Col: bubble.Col}
	if g.cells[cell] == bubble {
		delete(g.cells, cell)
		bubble.State = StateRemoved
	}
}

// Detach removes a bubble from the grid and hands it back as falling,
// keeping its world position.
func (g *Grid) Detach(bubble *Bubble) {
	if bubble == nil {
		return
	}
	cell := Cell{Row: bubble.Row, Col: bubble.Col}
	if g.cells[cell] == bubble {
		delete(g.cells, cell)
		bubble.State = StateFalling
	}
}

// All returns every settled bubble in deterministic row-major order.
func (g *Grid) All() []*Bubble {
	bubbles := make([]*Bubble, 0, len(g.cells))
	for _, bubble := range g.cells {
		bubbles = append(bubbles, bubble)
	}
	sort.Slice(bubbles, func(i, j int) bool {
		if bubbles[i].Row != bubbles[j].Row {
			return bubbles[i].Row < bubbles[j].Row
		}
		return bubbles[i].Col < bubbles[j].Col
	})
	return bubbles
}

// Count returns the number of settled bubbles.
func (g *Grid) Count() int { return len(g.cells) }

// HasNeighborOccupant reports whether any hex neighbor of (row, col) holds
// a settled bubble.
func (g *Grid) HasNeighborOccupant(row, col int) bool {
	for _, cell := range g.geo.Neighbors(row, col, g.parity) {
		if g.cells[cell] != nil {
			return true
		}
	}
	return false
}

// Neighbors exposes hex adjacency under the grid's current parity.
func (g *Grid) Neighbors(row, col int) []Cell {
	return g.geo.Neighbors(row, col, g.parity)
}

// CellToWorld exposes cell centers under the grid's current parity.
func (g *Grid) CellToWorld(row, col int) (x, y float64) {
	return g.geo.CellToWorld(row, col, g.parity)
}

// WorldToCell exposes the inverse mapping under the grid's current parity.
func (g *Grid) WorldToCell(x, y float64) Cell {
	return g.geo.WorldToCell(x, y, g.parity)
}

// IsValidCell exposes cell validity under the grid's current parity.
func (g *Grid) IsValidCell(row, col int) bool {
	return g.geo.IsValidCell(row, col, g.parity)
}

// ShiftDown moves every settled bubble one row down, preserving colors and
// relative columns, flips the parity so every row keeps its width, and
// injects a fully populated fresh row 0 rolled from the unlocked palette.
// Returns the injected bubbles.
func (g *Grid) ShiftDown(unlockedColors int) []*Bubble {
	shifted := make(map[Cell]*Bubble, len(g.cells))
	g.parity = 1 - g.parity
	for _, bubble := range g.cells {
		bubble.Row++
		bubble.X, bubble.Y = g.geo.CellToWorld(bubble.Row, bubble.Col, g.parity)
		shifted[Cell{Row: bubble.Row, Col: bubble.Col}] = bubble
	}
	g.cells = shifted

	injected := make([]*Bubble, 0, g.geo.ColsInRow(0, g.parity))
	for col := 0; col < g.geo.ColsInRow(0, g.parity); col++ {
		if bubble := g.Insert(0, col, utils.RandomColor(unlockedColors)); bubble != nil {
			injected = append(injected, bubble)
		}
	}
	return injected
}

// Seed resets the grid and fills the first rows rows from the palette.
func (g *Grid) Seed(rows, unlockedColors int) {
	g.parity = 0
	g.cells = make(map[Cell]*Bubble)
	for row := 0; row < rows; row++ {
		for col := 0; col < g.geo.ColsInRow(row, g.parity); col++ {
			g.Insert(row, col, utils.RandomColor(unlockedColors))
		}
	}
}

// Overflowed reports whether any settled bubble's lower extent reaches or
// passes the bottom boundary.
func (g *Grid) Overflowed() bool {
	for _, bubble := range g.cells {
		if bubble.Y+g.cfg.BubbleRadius >= g.cfg.BottomBoundaryY {
			return true
		}
	}
	return false
}
