package interp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTurnRing(t *testing.T) {
	w := NewWorld(3, 3)
	require.Equal(t, "north", w.Facing)

	for _, want := range []string{"east", "south", "west", "north"} {
		w.TurnRight()
		require.Equal(t, want, w.Facing)
	}
	for _, want := range []string{"west", "south", "east", "north"} {
		w.TurnLeft()
		require.Equal(t, want, w.Facing)
	}
}

func TestMoveBounds(t *testing.T) {
	w := NewWorld(2, 2)

	// Facing north at the north-west corner: off the grid.
	require.Error(t, w.Move())
	require.Equal(t, 0, w.AgentX)
	require.Equal(t, 0, w.AgentY)

	w.Facing = "east"
	require.NoError(t, w.Move())
	require.Equal(t, 1, w.AgentX)
	require.Error(t, w.Move(), "second move east must hit the border")

	w.Facing = "south"
	require.NoError(t, w.Move())
	require.Equal(t, 1, w.AgentY)
}

func TestCleanAndSense(t *testing.T) {
	w := NewWorld(3, 3)
	w.Dirt[Cell{0, 0}] = true

	require.True(t, w.Sense())
	require.True(t, w.Clean())
	require.False(t, w.Sense())
	require.False(t, w.Clean(), "cleaning a clean cell removes nothing")
}

func TestSeedDefaultDirtClipsToGrid(t *testing.T) {
	small := NewWorld(2, 2)
	small.SeedDefaultDirt()
	require.Empty(t, small.Dirt, "default cells all fall outside a 2x2 grid")

	big := NewWorld(5, 5)
	big.SeedDefaultDirt()
	require.Len(t, big.Dirt, 3)
	require.True(t, big.Dirt[Cell{2, 2}])
}

func TestSnapshotOrdersDirt(t *testing.T) {
	w := NewWorld(4, 4)
	w.Dirt[Cell{3, 1}] = true
	w.Dirt[Cell{1, 3}] = true
	w.Dirt[Cell{2, 2}] = true

	snap := w.Snapshot()
	require.Equal(t, []Cell{{3, 1}, {2, 2}, {1, 3}}, snap.Dirt)
}

func TestRenderShowsAgentAndDirt(t *testing.T) {
	w := NewWorld(2, 2)
	w.Facing = "east"
	w.Dirt[Cell{1, 1}] = true

	out := w.Render()
	require.Contains(t, out, ">")
	require.Contains(t, out, "*")
	require.Contains(t, out, "Agent: (0, 0) facing east")
	require.Contains(t, out, "Dirt remaining: 1 cells")
	require.True(t, strings.HasPrefix(out, "---------"), "grid starts with a border row")
}
