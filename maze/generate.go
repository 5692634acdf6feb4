package maze

import (
	"fmt"
	"math/rand"
)

// move pairs a neighbor position with the direction leading to it.
type move struct {
	to  Point
	dir Dir
}

// CloseAll puts a wall on every face of every cell, producing a grid of
// fully closed cells for a carver to open passages in.
func CloseAll(m *Map) {
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			for d := North; d <= West; d++ {
				m.SetWall(x, y, d, true)
			}
		}
	}
}

// neighbors lists the in-bounds moves from pos in fixed N, E, S, W order.
func neighbors(m *Map, pos Point) []move {
	result := make([]move, 0, 4)
	for d := North; d <= West; d++ {
		n := d.Step(pos)
		if m.InBounds(n.X, n.Y) {
			result = append(result, move{to: n, dir: d})
		}
	}
	return result
}

// CarveDFS opens passages with a randomized depth-first walk (recursive
// backtracker), producing a perfect maze. The walk is deterministic for
// a given rng state. The map should be fully closed beforehand.
func CarveDFS(m *Map, start Point, rng *rand.Rand) {
	visited := make([]bool, m.Width()*m.Height())
	idx := func(p Point) int { return p.Y*m.Width() + p.X }

	stack := []Point{start}
	visited[idx(start)] = true

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		unvisited := make([]move, 0, 4)
		for _, nbr := range neighbors(m, cur) {
			if !visited[idx(nbr.to)] {
				unvisited = append(unvisited, nbr)
			}
		}
		if len(unvisited) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := unvisited[rng.Intn(len(unvisited))]
		m.SetWall(cur.X, cur.Y, next.dir, false)
		visited[idx(next.to)] = true
		stack = append(stack, next.to)
	}
}

// CarveWilson opens passages with Wilson's algorithm: loop-erased random
// walks from unvisited cells into the visited region. Produces a perfect
// maze with an unbiased spanning tree. The map should be fully closed
// beforehand.
func CarveWilson(m *Map, rng *rand.Rand) {
	visited := make(map[string]struct{})
	key := func(p Point) string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

	start := Point{rng.Intn(m.Width()), rng.Intn(m.Height())}
	visited[key(start)] = struct{}{}

	for len(visited) < m.Width()*m.Height() {
		for cell, mv := range randomWalk(m, visited, rng) {
			m.SetWall(cell.X, cell.Y, mv.dir, false)
			visited[key(cell)] = struct{}{}
		}
	}
}

// randomWalk walks from a random unvisited cell until it hits the
// visited region, remembering only the last exit taken from each cell
// (the loop erasure).
func randomWalk(m *Map, visited map[string]struct{}, rng *rand.Rand) map[Point]move {
	key := func(p Point) string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

	var start Point
	for {
		start = Point{rng.Intn(m.Width()), rng.Intn(m.Height())}
		if _, included := visited[key(start)]; !included {
			break
		}
	}

	visits := make(map[Point]move)
	cell := start
	for {
		nbrs := neighbors(m, cell)
		next := nbrs[rng.Intn(len(nbrs))]
		visits[cell] = next
		if _, included := visited[key(next.to)]; included {
			break
		}
		cell = next.to
	}
	return visits
}

// NewPerfect builds a fully closed map of the given dimensions and
// carves a perfect maze with a deterministic DFS walk from (0,0).
func NewPerfect(width, height int, seed int64) *Map {
	m := New(width, height)
	CloseAll(m)
	CarveDFS(m, Point{0, 0}, rand.New(rand.NewSource(seed)))
	return m
}
