package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	t.Run("new map is open and in bounds checks work", func(t *testing.T) {
		m := New(4, 3)
		assert.Equal(t, 4, m.Width())
		assert.Equal(t, 3, m.Height())
		assert.True(t, m.InBounds(0, 0))
		assert.True(t, m.InBounds(3, 2))
		assert.False(t, m.InBounds(4, 0))
		assert.False(t, m.InBounds(0, 3))
		assert.False(t, m.InBounds(-1, 0))

		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				assert.EqualValues(t, 0, m.At(x, y).Mask())
			}
		}
	})

	t.Run("SetWall keeps both faces of an edge in agreement", func(t *testing.T) {
		m := New(4, 3)
		m.SetWall(1, 1, East, true)
		assert.True(t, m.At(1, 1).EastWall)
		assert.True(t, m.At(2, 1).WestWall)

		m.SetWall(2, 1, West, false)
		assert.False(t, m.At(1, 1).EastWall)
		assert.False(t, m.At(2, 1).WestWall)

		m.SetWall(1, 1, South, true)
		assert.True(t, m.At(1, 1).SouthWall)
		assert.True(t, m.At(1, 2).NorthWall)
	})

	t.Run("reciprocity holds after arbitrary writes", func(t *testing.T) {
		m := New(5, 5)
		writes := []struct {
			x, y    int
			d       Dir
			present bool
		}{
			{0, 0, East, true}, {1, 0, West, false}, {2, 2, North, true},
			{2, 1, South, true}, {4, 4, West, true}, {3, 4, East, true},
			{2, 2, North, false},
		}
		for _, w := range writes {
			m.SetWall(w.x, w.y, w.d, w.present)
		}

		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				if m.InBounds(x+1, y) {
					assert.Equal(t, m.At(x, y).EastWall, m.At(x+1, y).WestWall, "edge (%d,%d)-(%d,%d)", x, y, x+1, y)
				}
				if m.InBounds(x, y+1) {
					assert.Equal(t, m.At(x, y).SouthWall, m.At(x, y+1).NorthWall, "edge (%d,%d)-(%d,%d)", x, y, x, y+1)
				}
			}
		}
	})

	t.Run("boundary faces affect only the boundary cell", func(t *testing.T) {
		m := New(2, 2)
		m.SetWall(0, 0, North, true)
		m.SetWall(0, 0, West, true)
		assert.True(t, m.At(0, 0).NorthWall)
		assert.True(t, m.At(0, 0).WestWall)
	})

	t.Run("out of bounds writes are discarded", func(t *testing.T) {
		m := New(2, 2)
		m.SetWall(-1, 0, East, true)
		m.SetWall(2, 5, North, true)
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				assert.EqualValues(t, 0, m.At(x, y).Mask())
			}
		}
	})

	t.Run("Open honors walls and the grid boundary", func(t *testing.T) {
		m := New(2, 1)
		assert.True(t, m.Open(Point{0, 0}, East))
		assert.False(t, m.Open(Point{0, 0}, North))
		assert.False(t, m.Open(Point{0, 0}, West))
		m.SetWall(0, 0, East, true)
		assert.False(t, m.Open(Point{0, 0}, East))
	})

	t.Run("CopyFrom and Clone duplicate walls", func(t *testing.T) {
		src := New(3, 3)
		src.SetWall(1, 1, North, true)
		src.SetWall(0, 2, East, true)

		dst := New(3, 3)
		dst.CopyFrom(src)
		assert.Equal(t, src.String(), dst.String())

		clone := src.Clone()
		clone.SetWall(1, 1, North, false)
		assert.True(t, src.At(1, 1).NorthWall)

		// Mismatched dimensions are ignored.
		other := New(2, 2)
		other.SetWall(0, 0, East, true)
		dst.CopyFrom(other)
		assert.True(t, dst.At(1, 1).NorthWall)
	})
}

func TestCellMask(t *testing.T) {
	var c Cell
	c.SetMask(0b1010)
	assert.False(t, c.NorthWall)
	assert.True(t, c.EastWall)
	assert.False(t, c.SouthWall)
	assert.True(t, c.WestWall)
	assert.EqualValues(t, 0b1010, c.Mask())
}

func TestDir(t *testing.T) {
	assert.Equal(t, West, North.Left())
	assert.Equal(t, East, North.Right())
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, North, West.Right())
	assert.Equal(t, Point{1, 0}, East.Step(Point{0, 0}))
	assert.Equal(t, Point{0, -1}, North.Step(Point{0, 0}))
	assert.Equal(t, Point{0, 1}, South.Step(Point{0, 0}))
	assert.Equal(t, Point{-1, 0}, West.Step(Point{0, 0}))
}
