package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristics(t *testing.T) {
	t.Run("defaults are neutral", func(t *testing.T) {
		h := Default()
		assert.EqualValues(t, 1.0, h.WRight)
		assert.EqualValues(t, 1.0, h.WFront)
		assert.EqualValues(t, 1.0, h.WLeft)
		assert.EqualValues(t, 1.0, h.WBack)
	})

	t.Run("reward adjusts only the taken action", func(t *testing.T) {
		h := Default()
		Apply(&h, IndexFront, 1.0)
		assert.InDelta(t, 1.05, h.WFront, 1e-6)
		assert.EqualValues(t, 1.0, h.WRight)
		assert.EqualValues(t, 1.0, h.WLeft)
		assert.EqualValues(t, 1.0, h.WBack)

		Apply(&h, IndexBack, -2.0)
		assert.InDelta(t, 0.9, h.WBack, 1e-6)
	})

	t.Run("weights saturate at the upper bound", func(t *testing.T) {
		h := Default()
		for i := 0; i < 100; i++ {
			Apply(&h, IndexRight, 1.0)
		}
		assert.EqualValues(t, 3.0, h.WRight)
	})

	t.Run("weights saturate at the lower bound", func(t *testing.T) {
		h := Default()
		for i := 0; i < 100; i++ {
			Apply(&h, IndexLeft, -1.0)
		}
		assert.InDelta(t, 0.2, h.WLeft, 1e-6)
	})

	t.Run("bounds hold under alternating rewards", func(t *testing.T) {
		h := Default()
		for i := 0; i < 500; i++ {
			r := float32(7.5)
			if i%3 == 0 {
				r = -11.0
			}
			Apply(&h, ActionIndex(i%4), r)
			for _, w := range []float32{h.WRight, h.WFront, h.WLeft, h.WBack} {
				assert.GreaterOrEqual(t, w, float32(0.2))
				assert.LessOrEqual(t, w, float32(3.0))
			}
		}
	})
}
