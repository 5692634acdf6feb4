package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robocore-labs/maze-rover/maze"
)

// assertConsistent checks 4-adjacency and the absence of walls along a
// returned path.
func assertConsistent(t *testing.T, m *maze.Map, path []maze.Point) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		dx := cur.X - prev.X
		dy := cur.Y - prev.Y
		require.Equal(t, 1, dx*dx+dy*dy, "steps must be 4-adjacent")

		var d maze.Dir
		switch {
		case dy == -1:
			d = maze.North
		case dx == 1:
			d = maze.East
		case dy == 1:
			d = maze.South
		default:
			d = maze.West
		}
		assert.False(t, m.At(prev.X, prev.Y).Wall(d))
		assert.False(t, m.At(cur.X, cur.Y).Wall(d.Opposite()))
	}
}

func TestPlan(t *testing.T) {
	t.Run("straight route on an open grid", func(t *testing.T) {
		m := maze.New(3, 1)
		path, ok := Plan(m, maze.Point{X: 0, Y: 0}, maze.Point{X: 2, Y: 0})
		require.True(t, ok)
		assert.Equal(t, []maze.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, path)
	})

	t.Run("goal equals start", func(t *testing.T) {
		m := maze.New(4, 4)
		path, ok := Plan(m, maze.Point{X: 2, Y: 2}, maze.Point{X: 2, Y: 2})
		require.True(t, ok)
		assert.Equal(t, []maze.Point{{X: 2, Y: 2}}, path)
	})

	t.Run("endpoints out of bounds", func(t *testing.T) {
		m := maze.New(3, 3)
		_, ok := Plan(m, maze.Point{X: -1, Y: 0}, maze.Point{X: 2, Y: 2})
		assert.False(t, ok)
		_, ok = Plan(m, maze.Point{X: 0, Y: 0}, maze.Point{X: 3, Y: 0})
		assert.False(t, ok)
	})

	t.Run("unreachable goal", func(t *testing.T) {
		m := maze.New(2, 1)
		m.SetWall(0, 0, maze.East, true)
		_, ok := Plan(m, maze.Point{X: 0, Y: 0}, maze.Point{X: 1, Y: 0})
		assert.False(t, ok)
	})

	t.Run("routes around a single wall", func(t *testing.T) {
		// Open 4x3 grid with a wall between (1,1) and (2,1): the
		// direct step is blocked, so the route detours.
		m := maze.New(4, 3)
		m.SetWall(1, 1, maze.East, true)
		path, ok := Plan(m, maze.Point{X: 1, Y: 1}, maze.Point{X: 2, Y: 1})
		require.True(t, ok)
		assert.GreaterOrEqual(t, len(path), 3)
		assert.Equal(t, maze.Point{X: 1, Y: 1}, path[0])
		assert.Equal(t, maze.Point{X: 2, Y: 1}, path[len(path)-1])
		assertConsistent(t, m, path)
	})

	t.Run("shortest route through a perfect maze", func(t *testing.T) {
		for seed := int64(1); seed <= 4; seed++ {
			m := maze.NewPerfect(8, 6, 12345+seed)
			path, ok := Plan(m, maze.Point{X: 0, Y: 0}, maze.Point{X: 7, Y: 5})
			require.True(t, ok, "path must exist in a perfect maze")
			assert.GreaterOrEqual(t, len(path), 2)
			assertConsistent(t, m, path)
		}
	})

	t.Run("equal-length ties resolve east before south", func(t *testing.T) {
		// On an open 2x2 grid both E,S and S,E reach the diagonal;
		// the fixed N,E,S,W expansion makes the east-first route win.
		m := maze.New(2, 2)
		path, ok := Plan(m, maze.Point{X: 0, Y: 0}, maze.Point{X: 1, Y: 1})
		require.True(t, ok)
		assert.Equal(t, []maze.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, path)
	})
}
