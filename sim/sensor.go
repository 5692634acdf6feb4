package sim

import (
	"github.com/robocore-labs/maze-rover/maze"
	"github.com/robocore-labs/maze-rover/nav"
)

// SensorFunc produces the discretized three-way reading for the agent's
// pose. The default implementation reads the ground-truth maze; tests
// substitute noisy variants.
type SensorFunc func(truth *maze.Map, pos maze.Point, heading maze.Dir) nav.SensorRead

// Sense reads the true walls around pos relative to heading. The grid
// boundary counts as a wall.
func Sense(truth *maze.Map, pos maze.Point, heading maze.Dir) nav.SensorRead {
	return nav.SensorRead{
		LeftFree:  truth.Open(pos, heading.Left()),
		FrontFree: truth.Open(pos, heading),
		RightFree: truth.Open(pos, heading.Right()),
	}
}

// CanMove reports whether one forward step from pos along heading stays
// on the grid and crosses no wall.
func CanMove(truth *maze.Map, pos maze.Point, heading maze.Dir) bool {
	return truth.Open(pos, heading)
}

// ApplyMove advances the externally tracked pose by one action: turns
// rotate in place, Back rotates 180 degrees without translating, and
// Forward translates one cell along the heading.
func ApplyMove(pos maze.Point, heading maze.Dir, a nav.Action) (maze.Point, maze.Dir) {
	switch a {
	case nav.Left:
		return pos, heading.Left()
	case nav.Right:
		return pos, heading.Right()
	case nav.Back:
		return pos, heading.Opposite()
	default:
		return heading.Step(pos), heading
	}
}
