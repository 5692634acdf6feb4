/*
Package nav implements the decision core of the maze robot.

The Navigator owns the learned wall map, a per-cell visit counter, the
current route plan, and the heuristic weights. Each control tick the
caller feeds it one sensor reading plus the externally tracked pose; the
Navigator updates the map, optionally replans, and returns a single
action. It never tracks pose itself and it never blocks.
*/
package nav

import (
	"math"
	"sort"

	"github.com/robocore-labs/maze-rover/learning"
	"github.com/robocore-labs/maze-rover/maze"
	"github.com/robocore-labs/maze-rover/planner"
)

// maxVisits is the saturation value of a cell's visit counter; it also
// stands in for the visit count of out-of-bounds neighbors so they rank
// last during candidate sorting.
const maxVisits = 255

// Navigator fuses plan guidance, exploration novelty, and learned
// heuristic weights into one action per tick.
type Navigator struct {
	strategy Strategy

	m       *maze.Map
	start   maze.Point
	goal    maze.Point
	hasGoal bool
	plan    []maze.Point

	heur learning.Heuristics

	// seen counts observations per cell, saturating at maxVisits.
	seen []uint8
}

// New creates a navigator with a 1x1 empty map, neutral heuristics, and
// the right-hand fallback strategy.
func New() *Navigator {
	n := &Navigator{
		strategy: RightHand,
		heur:     learning.Default(),
	}
	n.SetMapDimensions(1, 1)
	return n
}

// SetStrategy selects the fallback policy.
func (n *Navigator) SetStrategy(s Strategy) {
	n.strategy = s
}

// SetMapDimensions reallocates the internal map and visit counters and
// clears any stored plan.
func (n *Navigator) SetMapDimensions(w, h int) {
	n.m = maze.New(w, h)
	n.seen = make([]uint8, n.m.Width()*n.m.Height())
	n.plan = nil
}

// SetStartGoal records the route endpoints and enables planning.
func (n *Navigator) SetStartGoal(start, goal maze.Point) {
	n.start = start
	n.goal = goal
	n.hasGoal = true
}

// Map exposes the internal map for persistence restore and simulator
// warm starts. The reference must not be retained across ticks.
func (n *Navigator) Map() *maze.Map {
	return n.m
}

// Heuristics returns a copy of the current weights.
func (n *Navigator) Heuristics() learning.Heuristics {
	return n.heur
}

// SetHeuristics replaces the weights, e.g. from persisted state.
func (n *Navigator) SetHeuristics(h learning.Heuristics) {
	n.heur = h
}

// ApplyReward adjusts the weight of the action just taken.
func (n *Navigator) ApplyReward(a Action, reward float32) {
	learning.Apply(&n.heur, a.Index(), reward)
}

// VisitCount returns how many times cell p has been observed, or
// maxVisits when p is out of bounds.
func (n *Navigator) VisitCount(p maze.Point) uint8 {
	if !n.m.InBounds(p.X, p.Y) {
		return maxVisits
	}
	return n.seen[p.Y*n.m.Width()+p.X]
}

// ObserveCellWalls maps the left/front/right readings onto absolute
// directions for the given heading and records the observed walls, then
// counts the visit. A free reading clears the wall, a blocked reading
// sets it; the freshest sensor data always wins over the stored map.
func (n *Navigator) ObserveCellWalls(cell maze.Point, sr SensorRead, heading maze.Dir) {
	n.m.SetWall(cell.X, cell.Y, heading.Left(), !sr.LeftFree)
	n.m.SetWall(cell.X, cell.Y, heading, !sr.FrontFree)
	n.m.SetWall(cell.X, cell.Y, heading.Right(), !sr.RightFree)

	if n.m.InBounds(cell.X, cell.Y) {
		id := cell.Y*n.m.Width() + cell.X
		if n.seen[id] < maxVisits {
			n.seen[id]++
		}
	}
}

// PlanRoute computes a route from start to goal over the known map and
// stores it. Returns true iff a goal is set and a non-empty route was
// found; on failure the stored plan is cleared.
func (n *Navigator) PlanRoute() bool {
	if !n.hasGoal {
		return false
	}
	path, ok := planner.Plan(n.m, n.start, n.goal)
	if !ok {
		n.plan = nil
		return false
	}
	n.plan = path
	return len(n.plan) > 0
}

// ClearPlan drops the stored plan, e.g. after the goal handshake or a
// map change that staled it.
func (n *Navigator) ClearPlan() {
	n.plan = nil
}

// HasPlan reports whether a non-empty plan is stored.
func (n *Navigator) HasPlan() bool {
	return len(n.plan) > 0
}

// CurrentPlan returns the stored route for visualization. The slice is
// shared; callers must treat it as read-only.
func (n *Navigator) CurrentPlan() []maze.Point {
	return n.plan
}

// scoreFor converts the heuristic weight of an action into the 0..10
// logging scale, penalizing blocked directions.
func (n *Navigator) scoreFor(a Action, sr SensorRead) uint8 {
	var base float32
	switch a {
	case Right:
		if sr.RightFree {
			base = n.heur.WRight
		} else {
			base = 0.1
		}
	case Forward:
		if sr.FrontFree {
			base = n.heur.WFront
		} else {
			base = 0.1
		}
	case Left:
		if sr.LeftFree {
			base = n.heur.WLeft
		} else {
			base = 0.1
		}
	case Back:
		if !sr.LeftFree && !sr.FrontFree && !sr.RightFree {
			base = n.heur.WBack
		} else {
			base = 0.2
		}
	}
	score := math.Round(float64(base) / 3.0 * 10.0)
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return uint8(score)
}

// Decide picks the next action from sensor readings alone using the
// configured fallback strategy. The right-hand rule prefers right, then
// front, then left, and turns back when boxed in.
func (n *Navigator) Decide(sr SensorRead) Decision {
	var d Decision
	if n.strategy == RightHand {
		switch {
		case sr.RightFree:
			d.Action = Right
		case sr.FrontFree:
			d.Action = Forward
		case sr.LeftFree:
			d.Action = Left
		default:
			d.Action = Back
		}
	}
	d.Score = n.scoreFor(d.Action, sr)
	return d
}

// candidate is one free side under consideration by DecidePlanned.
type candidate struct {
	action      Action
	seen        int
	matchesPlan bool
}

// planWantedDir derives the absolute direction the plan asks for from
// the current cell, or ok=false when the cell is absent from the plan or
// already its last element.
func (n *Navigator) planWantedDir(current maze.Point) (maze.Dir, bool) {
	for i, p := range n.plan {
		if p != current {
			continue
		}
		if i+1 >= len(n.plan) {
			return 0, false
		}
		next := n.plan[i+1]
		switch {
		case next.X == current.X && next.Y == current.Y-1:
			return maze.North, true
		case next.X == current.X+1 && next.Y == current.Y:
			return maze.East, true
		case next.X == current.X && next.Y == current.Y+1:
			return maze.South, true
		case next.X == current.X-1 && next.Y == current.Y:
			return maze.West, true
		}
		return 0, false
	}
	return 0, false
}

// DecidePlanned picks the next action considering the stored plan, the
// novelty of neighboring cells, and the heuristic weights.
//
// Free sides are ranked lexicographically: unseen neighbors first, then
// fewest visits, then plan alignment, then heuristic score. Novelty
// outranks the plan on purpose: the plan only routes through passages
// the map already knows, so an unseen neighbor is always worth the
// detour. With all three sides blocked the decision is Back.
func (n *Navigator) DecidePlanned(current maze.Point, heading maze.Dir, sr SensorRead) Decision {
	wantedDir, hasWanted := n.planWantedDir(current)

	cands := make([]candidate, 0, 3)
	push := func(abs maze.Dir, action Action, free bool) {
		if !free {
			return
		}
		next := abs.Step(current)
		cands = append(cands, candidate{
			action:      action,
			seen:        int(n.VisitCount(next)),
			matchesPlan: hasWanted && abs == wantedDir,
		})
	}
	push(heading.Left(), Left, sr.LeftFree)
	push(heading, Forward, sr.FrontFree)
	push(heading.Right(), Right, sr.RightFree)

	if len(cands) == 0 {
		return Decision{Action: Back, Score: n.scoreFor(Back, sr)}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		au, bu := a.seen == 0, b.seen == 0
		if au != bu {
			return au
		}
		if a.seen != b.seen {
			return a.seen < b.seen
		}
		if a.matchesPlan != b.matchesPlan {
			return a.matchesPlan
		}
		return n.scoreFor(a.action, sr) > n.scoreFor(b.action, sr)
	})

	best := cands[0].action
	return Decision{Action: best, Score: n.scoreFor(best, sr)}
}
