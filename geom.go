package piste

import (
	"math"
	"math/rand/v2"
)

// Intersects reports whether a and b overlap on both axes.
// Boxes that only share an edge do not intersect.
func Intersects(a, b Box) bool {
	return a.Right > b.Left && a.Left < b.Right &&
		a.Bottom > b.Top && a.Top < b.Bottom
}

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// AngleBetween returns the angle in radians of the segment from p1 to p2,
// measured from the positive x-axis, in (-π, π].
func AngleBetween(p1, p2 Point) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
}

// EaseTowards moves current a strength fraction of the way to target, snapping
// to target once the remaining distance is below epsilon. The step is not
// scaled by frame time; callers tune strength and epsilon for their tick.
func EaseTowards(current, target, strength, epsilon float64) float64 {
	diff := target - current
	if math.Abs(diff) < epsilon {
		return target
	}
	return current + diff*strength
}

// Clamp limits v to [lo, hi].
func Clamp(lo, v, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// RandomInt returns a uniformly chosen integer in [lo, hi).
// An empty range returns lo.
func RandomInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rand.IntN(hi-lo)
}

// RandomPointIn returns a point with integer coordinates inside b.
func RandomPointIn(b Box) Point {
	return Point{
		X: float64(RandomInt(int(math.Floor(b.Left)), int(math.Ceil(b.Right)))),
		Y: float64(RandomInt(int(math.Floor(b.Top)), int(math.Ceil(b.Bottom)))),
	}
}

// shadowDecay is chosen so the shadow peaks near z = 29 at about 0.42 alpha.
const shadowDecay = 0.034657

// ShadowAlpha returns the opacity of the ground shadow under an entity at
// elevation z. It rises from 0, peaks near z = 29 and decays asymptotically.
func ShadowAlpha(z float64) float64 {
	return z / 25 * math.Exp(-shadowDecay*z)
}

// shadowScale shrinks the ground shadow as the entity rises.
func shadowScale(z float64) float64 {
	return 1 - math.Pow(z, 0.35)/10
}
