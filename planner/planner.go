// Package planner computes shortest routes over a known maze map.
package planner

import "github.com/robocore-labs/maze-rover/maze"

// Plan runs a breadth-first search from start to goal over the implicit
// graph of m, where 4-adjacent cells are connected iff no wall separates
// them. It returns the cell sequence including both endpoints, in
// start-to-goal order, or nil and false when either endpoint is out of
// bounds or the goal is unreachable. Ties between equal-length routes
// resolve by the fixed N, E, S, W expansion order.
func Plan(m *maze.Map, start, goal maze.Point) ([]maze.Point, bool) {
	w := m.Width()
	h := m.Height()
	if !m.InBounds(start.X, start.Y) || !m.InBounds(goal.X, goal.Y) {
		return nil, false
	}

	idx := func(p maze.Point) int { return p.Y*w + p.X }
	prev := make([]int, w*h)
	for i := range prev {
		prev[i] = -1
	}
	visited := make([]bool, w*h)

	queue := make([]maze.Point, 0, w*h)
	queue = append(queue, start)
	visited[idx(start)] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == goal {
			break
		}
		for d := maze.North; d <= maze.West; d++ {
			if m.At(p.X, p.Y).Wall(d) {
				continue
			}
			n := d.Step(p)
			if !m.InBounds(n.X, n.Y) {
				continue
			}
			j := idx(n)
			if visited[j] {
				continue
			}
			visited[j] = true
			prev[j] = idx(p)
			queue = append(queue, n)
		}
	}

	if !visited[idx(goal)] {
		return nil, false
	}

	path := make([]maze.Point, 0, w+h)
	for cur := idx(goal); cur != -1; cur = prev[cur] {
		path = append(path, maze.Point{X: cur % w, Y: cur / w})
		if cur == idx(start) {
			break
		}
	}
	reverse(path)
	return path, true
}

func reverse(p []maze.Point) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
