// File: game/geometry_test.go
package game

import (
	"testing"

	"github.com/bubblepop/bubblepop/utils"
	"github.com/stretchr/testify/assert"
)

func TestGeometry_ColsInRow(t *testing.T) {
	geo := NewGeometry(utils.DefaultConfig())

	cases := []struct {
		name     string
		row      int
		parity   int
		expected int
	}{
		{"EvenRowParity0", 0, 0, 12},
		{"OddRowParity0", 1, 0, 11},
		{"EvenRowParity1", 0, 1, 11},
		{"OddRowParity1", 1, 1, 12},
		{"DeepEvenRowParity0", 8, 0, 12},
		{"DeepOddRowParity1", 9, 1, 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, geo.ColsInRow(tc.row, tc.parity))
		})
	}
}

func TestGeometry_CellToWorld(t *testing.T) {
	cfg := utils.DefaultConfig()
	geo := NewGeometry(cfg)

	// Full row: centers at radius + col*diameter.
	x, y := geo.CellToWorld(0, 0, 0)
	assert.Equal(t, cfg.BubbleRadius, x)
	assert.Equal(t, cfg.BubbleRadius, y)

	x, _ = geo.CellToWorld(0, 3, 0)
	assert.Equal(t, cfg.BubbleRadius+3*cfg.BubbleDiameter, x)

	// Offset row: shifted right one radius.
	xFull, _ := geo.CellToWorld(0, 0, 0)
	xOffset, _ := geo.CellToWorld(1, 0, 0)
	assert.Equal(t, cfg.BubbleRadius, xOffset-xFull)

	// Row spacing is the hex pitch, not the diameter.
	_, y0 := geo.CellToWorld(0, 0, 0)
	_, y1 := geo.CellToWorld(1, 0, 0)
	assert.InDelta(t, cfg.RowPitch, y1-y0, 1e-9)
}

func TestGeometry_WorldToCellRoundTrip(t *testing.T) {
	cfg := utils.DefaultConfig()
	geo := NewGeometry(cfg)

	for parity := 0; parity <= 1; parity++ {
		for row := 0; row < 6; row++ {
			for col := 0; col < geo.ColsInRow(row, parity); col++ {
				x, y := geo.CellToWorld(row, col, parity)
				cell := geo.WorldToCell(x, y, parity)
				assert.Equal(t, Cell{Row: row, Col: col}, cell,
					"round trip failed for row=%d col=%d parity=%d", row, col, parity)
			}
		}
	}
}

func TestGeometry_IsValidCell(t *testing.T) {
	geo := NewGeometry(utils.DefaultConfig())

	assert.True(t, geo.IsValidCell(0, 0, 0))
	assert.True(t, geo.IsValidCell(0, 11, 0))
	assert.False(t, geo.IsValidCell(0, 12, 0))
	assert.False(t, geo.IsValidCell(1, 11, 0), "offset rows hold one fewer cell")
	assert.True(t, geo.IsValidCell(1, 11, 1))
	assert.False(t, geo.IsValidCell(-1, 0, 0))
	assert.False(t, geo.IsValidCell(0, -1, 0))
}

func TestGeometry_NeighborsInterior(t *testing.T) {
	geo := NewGeometry(utils.DefaultConfig())

	// Interior cells always have six neighbors.
	assert.Len(t, geo.Neighbors(3, 5, 0), 6)
	assert.Len(t, geo.Neighbors(4, 5, 0), 6)

	// Corner of the grid loses the out-of-range ones.
	corner := geo.Neighbors(0, 0, 0)
	assert.Len(t, corner, 2)
	assert.Contains(t, corner, Cell{Row: 0, Col: 1})
	assert.Contains(t, corner, Cell{Row: 1, Col: 0})
}

func TestGeometry_NeighborsSymmetric(t *testing.T) {
	geo := NewGeometry(utils.DefaultConfig())

	// If b is a neighbor of a, a must be a neighbor of b.
	for parity := 0; parity <= 1; parity++ {
		for row := 0; row < 5; row++ {
			for col := 0; col < geo.ColsInRow(row, parity); col++ {
				for _, neighbor := range geo.Neighbors(row, col, parity) {
					back := geo.Neighbors(neighbor.Row, neighbor.Col, parity)
					assert.Contains(t, back, Cell{Row: row, Col: col},
						"adjacency not symmetric between (%d,%d) and (%d,%d) parity=%d",
						row, col, neighbor.Row, neighbor.Col, parity)
				}
			}
		}
	}
}

func TestGeometry_NeighborCentersAreOneDiameterApart(t *testing.T) {
	cfg := utils.DefaultConfig()
	geo := NewGeometry(cfg)

	for _, parity := range []int{0, 1} {
		for _, origin := range []Cell{{Row: 2, Col: 4}, {Row: 3, Col: 4}} {
			ox, oy := geo.CellToWorld(origin.Row, origin.Col, parity)
			for _, neighbor := range geo.Neighbors(origin.Row, origin.Col, parity) {
				nx, ny := geo.CellToWorld(neighbor.Row, neighbor.Col, parity)
				assert.InDelta(t, cfg.BubbleDiameter, utils.Distance(ox, oy, nx, ny), 1e-6,
					"hex packing distance wrong between (%d,%d) and (%d,%d)",
					origin.Row, origin.Col, neighbor.Row, neighbor.Col)
			}
		}
	}
}
