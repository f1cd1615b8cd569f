// Package geom provides the planar primitives the terrain pipeline is built
// on: point-to-segment distance, point-in-ring tests, and segment
// intersection. Points are orb.Point with X as east and Y as south (world z).
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Epsilon below which lengths and determinants are treated as degenerate.
const Epsilon = 1e-9

// Dist returns the Euclidean distance between two points.
func Dist(a, b orb.Point) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	return math.Hypot(dx, dy)
}

// DistSq returns the squared Euclidean distance between two points.
func DistSq(a, b orb.Point) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	return dx*dx + dy*dy
}

// DistToSegment returns the distance from p to the closed segment ab.
// A zero-length segment degenerates to point distance.
func DistToSegment(p, a, b orb.Point) float64 {
	abx := b[0] - a[0]
	aby := b[1] - a[1]
	lenSq := abx*abx + aby*aby
	if lenSq < Epsilon {
		return Dist(p, a)
	}
	t := ((p[0]-a[0])*abx + (p[1]-a[1])*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := orb.Point{a[0] + t*abx, a[1] + t*aby}
	return Dist(p, proj)
}

// DistToSegmentSq is DistToSegment without the final square root, for
// comparison-only callers.
func DistToSegmentSq(p, a, b orb.Point) float64 {
	abx := b[0] - a[0]
	aby := b[1] - a[1]
	lenSq := abx*abx + aby*aby
	if lenSq < Epsilon {
		return DistSq(p, a)
	}
	t := ((p[0]-a[0])*abx + (p[1]-a[1])*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := orb.Point{a[0] + t*abx, a[1] + t*aby}
	return DistSq(p, proj)
}

// PerpDistToLine returns the perpendicular distance from p to the infinite
// line through a and b. Used by Douglas-Peucker, where the segment endpoints
// are already known to be kept.
func PerpDistToLine(p, a, b orb.Point) float64 {
	abx := b[0] - a[0]
	aby := b[1] - a[1]
	length := math.Hypot(abx, aby)
	if length < Epsilon {
		return Dist(p, a)
	}
	return math.Abs(abx*(a[1]-p[1])-(a[0]-p[0])*aby) / length
}

// PointInRing reports whether p lies inside the closed ring using the even-odd
// ray-casting rule. The ring need not repeat its first point; the closing edge
// is implied.
func PointInRing(p orb.Point, ring orb.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		yi, yj := ring[i][1], ring[j][1]
		if (yi > p[1]) != (yj > p[1]) {
			x := (ring[j][0]-ring[i][0])*(p[1]-yi)/(yj-yi) + ring[i][0]
			if p[0] < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SegIntersect returns the intersection point of segments ab and cd.
// Parallel, collinear, and non-crossing pairs report ok=false; callers treat
// absence as "no intersection", not an error.
func SegIntersect(a, b, c, d orb.Point) (orb.Point, bool) {
	r := orb.Point{b[0] - a[0], b[1] - a[1]}
	s := orb.Point{d[0] - c[0], d[1] - c[1]}
	denom := r[0]*s[1] - r[1]*s[0]
	if math.Abs(denom) < Epsilon {
		return orb.Point{}, false
	}
	acx := c[0] - a[0]
	acy := c[1] - a[1]
	t := (acx*s[1] - acy*s[0]) / denom
	u := (acx*r[1] - acy*r[0]) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return orb.Point{}, false
	}
	return orb.Point{a[0] + t*r[0], a[1] + t*r[1]}, true
}

// Smoothstep returns the classic cubic ease between edge0 and edge1, clamped
// to [0,1]. edge0 > edge1 is allowed and inverts the ramp.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// RingArea returns the unsigned area of a ring by the shoelace formula. The
// closing edge from last back to first is implied.
func RingArea(ring orb.Ring) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		sum += (ring[j][0] + ring[i][0]) * (ring[j][1] - ring[i][1])
		j = i
	}
	return math.Abs(sum) / 2
}
