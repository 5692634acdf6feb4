/*
Package maze provides tools for representing and generating rectangular
grid mazes.

It defines the `Map` structure, a W x H grid of `Cell` values holding
wall configurations. The single wall mutator keeps the two faces of every
shared edge in agreement, so a wall seen from one cell is always seen
from its neighbor.

The package includes generators for perfect mazes (recursive backtracker
and Wilson's algorithm), neighbor enumeration, and ASCII visualization of
the grid.
*/
package maze

import "strings"

// Map is a rectangular maze grid with per-face wall flags.
type Map struct {
	width  int
	height int
	grid   []Cell // row-major, y*width + x
}

// New creates a map of the given dimensions with every wall absent.
func New(width, height int) *Map {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Map{
		width:  width,
		height: height,
		grid:   make([]Cell, width*height),
	}
}

// Width returns the number of columns.
func (m *Map) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *Map) Height() int {
	return m.height
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// At returns the cell at (x, y). Out-of-bounds coordinates are a
// contract violation and are not checked: they panic via the slice
// bounds check only when y*width+x falls outside the grid; otherwise
// they address another cell.
func (m *Map) At(x, y int) *Cell {
	return &m.grid[y*m.width+x]
}

// SetWall sets or clears the wall on the given side of cell (x, y).
// When the neighbor across that face is in bounds its opposing face is
// updated too, preserving wall reciprocity. Out-of-bounds base
// coordinates are silently discarded.
func (m *Map) SetWall(x, y int, d Dir, present bool) {
	if !m.InBounds(x, y) {
		return
	}
	m.At(x, y).SetSide(d, present)
	n := d.Step(Point{x, y})
	if m.InBounds(n.X, n.Y) {
		m.At(n.X, n.Y).SetSide(d.Opposite(), present)
	}
}

// Open reports whether a step from p in direction d stays on the grid
// and crosses no wall.
func (m *Map) Open(p Point, d Dir) bool {
	if !m.InBounds(p.X, p.Y) {
		return false
	}
	n := d.Step(p)
	return m.InBounds(n.X, n.Y) && !m.At(p.X, p.Y).Wall(d)
}

// CopyFrom overwrites this map's walls with those of src. Both maps must
// have the same dimensions; mismatched sources are ignored.
func (m *Map) CopyFrom(src *Map) {
	if src == nil || src.width != m.width || src.height != m.height {
		return
	}
	copy(m.grid, src.grid)
}

// Clone returns an independent copy of the map.
func (m *Map) Clone() *Map {
	c := New(m.width, m.height)
	copy(c.grid, m.grid)
	return c
}

// String provides a textual representation of the maze.
func (m *Map) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+")
	for x := 0; x < m.width; x++ {
		if m.At(x, 0).NorthWall {
			output.WriteString("---+")
		} else {
			output.WriteString("   +")
		}
	}
	output.WriteString("\n")

	for y := 0; y < m.height; y++ {
		// Cell row
		if m.At(0, y).WestWall {
			output.WriteString("|")
		} else {
			output.WriteString(" ")
		}
		for x := 0; x < m.width; x++ {
			if m.At(x, y).EastWall {
				output.WriteString("   |")
			} else {
				output.WriteString("    ")
			}
		}
		output.WriteString("\n")

		// Wall row
		output.WriteString("+")
		for x := 0; x < m.width; x++ {
			if m.At(x, y).SouthWall {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
