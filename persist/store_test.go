package persist

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robocore-labs/maze-rover/learning"
	"github.com/robocore-labs/maze-rover/maze"
)

func sampleHeuristics() learning.Heuristics {
	return learning.Heuristics{WRight: 1.25, WFront: 2.9, WLeft: 0.2, WBack: 0.45}
}

func sampleMap() *maze.Map {
	m := maze.NewPerfect(6, 5, 42)
	return m
}

func TestStoreSectorBackend(t *testing.T) {
	t.Run("heuristics round trip bit-identical", func(t *testing.T) {
		store := NewStore(NewSectorBackend())
		h := sampleHeuristics()
		require.NoError(t, store.SaveHeuristics(h))

		got, ok := store.LoadHeuristics()
		require.True(t, ok)
		assert.Equal(t, h, got)
	})

	t.Run("map snapshot round trip", func(t *testing.T) {
		store := NewStore(NewSectorBackend())
		m := sampleMap()
		require.NoError(t, store.SaveHeuristics(sampleHeuristics()))
		require.NoError(t, store.SaveMapSnapshot(m))

		out := maze.New(m.Width(), m.Height())
		require.True(t, store.LoadMapSnapshot(out))
		for y := 0; y < m.Height(); y++ {
			for x := 0; x < m.Width(); x++ {
				assert.Equal(t, m.At(x, y).Mask(), out.At(x, y).Mask(), "cell (%d,%d)", x, y)
			}
		}
	})

	t.Run("dimension mismatch leaves the target unchanged", func(t *testing.T) {
		store := NewStore(NewSectorBackend())
		require.NoError(t, store.SaveMapSnapshot(sampleMap()))

		out := maze.New(4, 4)
		out.SetWall(1, 1, maze.East, true)
		assert.False(t, store.LoadMapSnapshot(out))
		assert.True(t, out.At(1, 1).EastWall)
		assert.EqualValues(t, 0, out.At(0, 0).Mask())
	})

	t.Run("oversized snapshot is rejected by the page budget", func(t *testing.T) {
		store := NewStore(NewSectorBackend())
		big := maze.New(16, 16)
		assert.ErrorIs(t, store.SaveMapSnapshot(big), ErrTooLarge)
	})

	t.Run("load fails on an erased sector", func(t *testing.T) {
		store := NewStore(NewSectorBackend())
		_, ok := store.LoadHeuristics()
		assert.False(t, ok)
		out := maze.New(3, 3)
		assert.False(t, store.LoadMapSnapshot(out))
	})

	t.Run("corrupt magic and version are rejected", func(t *testing.T) {
		backend := NewSectorBackend()
		store := NewStore(backend)
		require.NoError(t, store.SaveHeuristics(sampleHeuristics()))

		raw, err := backend.ReadHeuristics()
		require.NoError(t, err)

		bad := append([]byte(nil), raw...)
		binary.LittleEndian.PutUint32(bad[0:], 0xDEADBEEF)
		require.NoError(t, backend.WriteHeuristics(bad))
		st := NewStore(backend)
		_, ok := st.LoadHeuristics()
		assert.False(t, ok)

		bad = append(bad[:0:0], raw...)
		binary.LittleEndian.PutUint16(bad[4:], 2)
		require.NoError(t, backend.WriteHeuristics(bad))
		st = NewStore(backend)
		_, ok = st.LoadHeuristics()
		assert.False(t, ok)
	})

	t.Run("write fault degrades to the in-RAM copy", func(t *testing.T) {
		backend := NewSectorBackend()
		store := NewStore(backend)
		require.NoError(t, store.SaveHeuristics(sampleHeuristics()))

		backend.FailWrites = true
		updated := learning.Heuristics{WRight: 2.0, WFront: 2.0, WLeft: 2.0, WBack: 2.0}
		assert.ErrorIs(t, store.SaveHeuristics(updated), ErrWriteFault)

		got, ok := store.LoadHeuristics()
		require.True(t, ok)
		assert.Equal(t, sampleHeuristics(), got)
	})

	t.Run("erase all clears status and records", func(t *testing.T) {
		store := NewStore(NewSectorBackend())
		assert.EqualValues(t, 0, store.Status().SavedCount)

		require.NoError(t, store.SaveHeuristics(sampleHeuristics()))
		assert.EqualValues(t, 1, store.Status().SavedCount)

		require.NoError(t, store.EraseAll())
		assert.EqualValues(t, 0, store.Status().SavedCount)
		_, ok := store.LoadHeuristics()
		assert.False(t, ok)
	})
}

func TestStoreFileBackend(t *testing.T) {
	t.Run("round trips through the filesystem", func(t *testing.T) {
		backend, err := NewFileBackend(t.TempDir())
		require.NoError(t, err)
		store := NewStore(backend)

		h := sampleHeuristics()
		m := sampleMap()
		require.NoError(t, store.SaveHeuristics(h))
		require.NoError(t, store.SaveMapSnapshot(m))

		// A fresh store over the same directory sees the records.
		reopened := NewStore(backend)
		got, ok := reopened.LoadHeuristics()
		require.True(t, ok)
		assert.Equal(t, h, got)

		out := maze.New(m.Width(), m.Height())
		require.True(t, reopened.LoadMapSnapshot(out))
		assert.Equal(t, m.String(), out.String())
	})

	t.Run("erase removes both files", func(t *testing.T) {
		backend, err := NewFileBackend(t.TempDir())
		require.NoError(t, err)
		store := NewStore(backend)
		require.NoError(t, store.SaveHeuristics(sampleHeuristics()))
		require.NoError(t, store.SaveMapSnapshot(sampleMap()))

		require.NoError(t, store.EraseAll())
		assert.EqualValues(t, 0, store.Status().SavedCount)
		assert.False(t, store.LoadMapSnapshot(maze.New(6, 5)))

		// Erasing again with nothing on disk still succeeds.
		require.NoError(t, store.EraseAll())
	})
}
