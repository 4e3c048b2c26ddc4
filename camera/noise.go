package camera

import (
	"math"
	"math/rand"

	"github.com/akmonengine/drivetrain/mathutil"
)

// Noise samples smooth gradient noise, remapped to [0, 1].
type Noise struct {
	perm [512]int
}

func NewNoise(seed int64) *Noise {
	n := &Noise{}
	p := rand.New(rand.NewSource(seed)).Perm(256)
	for i := range 512 {
		n.perm[i] = p[i&255]
	}
	return n
}

// Simplex samples one dimensional simplex noise.
func (n *Noise) Simplex(x float64) float64 {
	i0 := math.Floor(x)
	x0 := x - i0
	x1 := x0 - 1
	i := int(i0) & 255

	t0 := 1 - x0*x0
	t0 *= t0
	n0 := t0 * t0 * grad1(n.perm[i], x0)

	t1 := 1 - x1*x1
	t1 *= t1
	n1 := t1 * t1 * grad1(n.perm[i+1], x1)

	// 0.395 brings the sum back into [-1, 1]
	return mathutil.Clamp01((0.395*(n0+n1) + 1) / 2)
}

// Perlin samples two dimensional gradient noise.
func (n *Noise) Perlin(x, y float64) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	xi, yi := int(fx)&255, int(fy)&255
	xf, yf := x-fx, y-fy

	u, v := fade(xf), fade(yf)

	aa := n.perm[n.perm[xi]+yi]
	ab := n.perm[n.perm[xi]+yi+1]
	ba := n.perm[n.perm[xi+1]+yi]
	bb := n.perm[n.perm[xi+1]+yi+1]

	x1 := lerp(grad2(aa, xf, yf), grad2(ba, xf-1, yf), u)
	x2 := lerp(grad2(ab, xf, yf-1), grad2(bb, xf-1, yf-1), u)

	return mathutil.Clamp01((lerp(x1, x2, v) + 1) / 2)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func grad1(hash int, x float64) float64 {
	h := hash & 15
	g := 1 + float64(h&7)
	if h&8 != 0 {
		g = -g
	}
	return g * x
}

func grad2(hash int, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}
