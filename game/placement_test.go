// File: game/placement_test.go
package game

import (
	"testing"

	"github.com/bubblepop/bubblepop/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPlacement_CeilingStopTakesRowZero(t *testing.T) {
	grid := newTestGrid()

	x, y := grid.CellToWorld(0, 6)
	cell, ok := FindPlacement(grid, Vec2{X: x, Y: y})

	require.True(t, ok)
	assert.Equal(t, Cell{Row: 0, Col: 6}, cell)
}

func TestFindPlacement_SnapsToNearestAnchoredCell(t *testing.T) {
	grid := newTestGrid()
	require.NotNil(t, grid.Insert(0, 5, 1))
	require.NotNil(t, grid.Insert(0, 6, 1))

	// A contact stop just under the pair should settle in row 1 between
	// them, not in a free-floating row-1 cell further away.
	x, y := grid.CellToWorld(1, 5)
	cell, ok := FindPlacement(grid, Vec2{X: x, Y: y + 2})

	require.True(t, ok)
	assert.Equal(t, Cell{Row: 1, Col: 5}, cell)
}

func TestFindPlacement_SkipsOccupiedCells(t *testing.T) {
	grid := newTestGrid()
	require.NotNil(t, grid.Insert(0, 6, 1))

	// The stop is exactly on the occupant's center; the placement must be
	// one of its free neighbors, never the occupied cell itself.
	x, y := grid.CellToWorld(0, 6)
	cell, ok := FindPlacement(grid, Vec2{X: x, Y: y})

	require.True(t, ok)
	assert.NotEqual(t, Cell{Row: 0, Col: 6}, cell)
	assert.Nil(t, grid.Get(cell.Row, cell.Col))
	assert.True(t, cell.Row == 0 || grid.HasNeighborOccupant(cell.Row, cell.Col))
}

func TestFindPlacement_NoCandidateInOpenSpace(t *testing.T) {
	grid := newTestGrid()

	// Deep in an empty grid nothing is row 0 or neighbor-anchored.
	x, y := grid.CellToWorld(6, 5)
	_, ok := FindPlacement(grid, Vec2{X: x, Y: y})

	assert.False(t, ok)
}

func TestFindPlacement_PrefersCloserCandidate(t *testing.T) {
	cfg := utils.DefaultConfig()
	grid := NewGrid(cfg, NewGeometry(cfg))
	require.NotNil(t, grid.Insert(0, 5, 1))

	// Stop nudged toward (1,5); both (1,4) and (1,5) touch the occupant
	// but (1,5) is closer to the stop.
	x, y := grid.CellToWorld(1, 5)
	cell, ok := FindPlacement(grid, Vec2{X: x + 1, Y: y})

	require.True(t, ok)
	assert.Equal(t, Cell{Row: 1, Col: 5}, cell)
}
