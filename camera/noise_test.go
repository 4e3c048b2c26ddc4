package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoise_Range(t *testing.T) {
	n := NewNoise(3)

	for i := range 5000 {
		x := float64(i)*0.137 - 300
		s := n.Simplex(x)
		p := n.Perlin(x, 5)
		assert.True(t, s >= 0 && s <= 1, "Simplex(%v) = %v", x, s)
		assert.True(t, p >= 0 && p <= 1, "Perlin(%v, 5) = %v", x, p)
	}
}

func TestNoise_LatticeIsNeutral(t *testing.T) {
	n := NewNoise(3)

	for _, x := range []float64{-2, 0, 1, 17} {
		assert.InDelta(t, 0.5, n.Simplex(x), 1e-12)
		assert.InDelta(t, 0.5, n.Perlin(x, 5), 1e-12)
	}
}

func TestNoise_Smooth(t *testing.T) {
	n := NewNoise(11)

	for x := 0.0; x < 50; x += 0.01 {
		assert.Less(t, math.Abs(n.Simplex(x+0.001)-n.Simplex(x)), 0.01)
		assert.Less(t, math.Abs(n.Perlin(x+0.001, 5)-n.Perlin(x, 5)), 0.01)
	}
}

func TestNoise_Seeded(t *testing.T) {
	a, b, c := NewNoise(5), NewNoise(5), NewNoise(6)

	same, differs := true, false
	for x := 0.5; x < 20; x += 0.7 {
		same = same && a.Simplex(x) == b.Simplex(x) && a.Perlin(x, 5) == b.Perlin(x, 5)
		differs = differs || a.Simplex(x) != c.Simplex(x)
	}

	assert.True(t, same)
	assert.True(t, differs)
}
