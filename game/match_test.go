// File: game/match_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConnectedSameColor_SingleBubble(t *testing.T) {
	grid := newTestGrid()
	origin := grid.Insert(0, 0, 1)
	require.NotNil(t, origin)

	component := FindConnectedSameColor(grid, origin)
	assert.Len(t, component, 1)
	assert.Same(t, origin, component[0])
}

func TestFindConnectedSameColor_StopsAtColorBoundary(t *testing.T) {
	grid := newTestGrid()
	origin := grid.Insert(0, 0, 1)
	require.NotNil(t, origin)
	require.NotNil(t, grid.Insert(0, 1, 1))
	require.NotNil(t, grid.Insert(1, 0, 1))
	require.NotNil(t, grid.Insert(0, 2, 2), "different color blocks the walk")
	require.NotNil(t, grid.Insert(1, 1, 2))

	component := FindConnectedSameColor(grid, origin)
	assert.Len(t, component, 3)
	for _, bubble := range component {
		assert.Equal(t, 1, bubble.Color)
	}
}

func TestFindConnectedSameColor_CrossesRowParity(t *testing.T) {
	grid := newTestGrid()

	// Chain that zigzags between a full row and an offset row.
	origin := grid.Insert(0, 4, 3)
	require.NotNil(t, origin)
	require.NotNil(t, grid.Insert(1, 4, 3))
	require.NotNil(t, grid.Insert(2, 5, 3))

	component := FindConnectedSameColor(grid, origin)
	assert.Len(t, component, 3)
}

func TestFindConnectedSameColor_IgnoresDiagonalNonNeighbors(t *testing.T) {
	grid := newTestGrid()
	origin := grid.Insert(0, 0, 1)
	require.NotNil(t, origin)
	require.NotNil(t, grid.Insert(2, 0, 1), "same color two rows away is not adjacent")

	component := FindConnectedSameColor(grid, origin)
	assert.Len(t, component, 1)
}

func TestFindFloating_EmptyAndFullyAnchored(t *testing.T) {
	grid := newTestGrid()
	assert.Empty(t, FindFloating(grid))

	grid.Seed(3, 4)
	assert.Empty(t, FindFloating(grid), "a seeded grid is fully ceiling-connected")
}

func TestFindFloating_DetectsOrphanedCluster(t *testing.T) {
	grid := newTestGrid()
	require.NotNil(t, grid.Insert(0, 0, 1))
	require.NotNil(t, grid.Insert(3, 5, 2))
	require.NotNil(t, grid.Insert(3, 6, 2))

	floating := FindFloating(grid)
	require.Len(t, floating, 2)
	for _, bubble := range floating {
		assert.Equal(t, 3, bubble.Row)
	}
}

func TestFindFloating_RowZeroAlwaysAnchored(t *testing.T) {
	grid := newTestGrid()
	require.NotNil(t, grid.Insert(0, 11, 1))

	assert.Empty(t, FindFloating(grid))
}

func TestFindFloating_ChainThroughAnyColorAnchors(t *testing.T) {
	grid := newTestGrid()

	// Mixed-color chain from the ceiling: connectivity ignores color.
	require.NotNil(t, grid.Insert(0, 4, 1))
	require.NotNil(t, grid.Insert(1, 4, 2))
	require.NotNil(t, grid.Insert(2, 5, 3))

	assert.Empty(t, FindFloating(grid))
}

func TestFindFloating_AfterRemovingTheBridge(t *testing.T) {
	grid := newTestGrid()
	require.NotNil(t, grid.Insert(0, 4, 1))
	bridge := grid.Insert(1, 4, 2)
	require.NotNil(t, bridge)
	hanging := grid.Insert(2, 5, 3)
	require.NotNil(t, hanging)

	grid.Remove(bridge)

	floating := FindFloating(grid)
	require.Len(t, floating, 1)
	assert.Same(t, hanging, floating[0])
}
