package contour

import (
	"github.com/paulmach/orb"

	"github.com/talgya/terragen/internal/geom"
)

// Simplify reduces a polyline with the Douglas-Peucker algorithm, keeping
// every point farther than epsilon from the chord of its span. Uses an
// explicit work stack so pathological inputs cannot exhaust call-stack depth.
// The two endpoints are always kept.
func Simplify(line orb.LineString, epsilon float64) orb.LineString {
	n := len(line)
	if n <= 2 {
		return append(orb.LineString(nil), line...)
	}

	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true

	type span struct{ first, last int }
	stack := []span{{0, n - 1}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.last-s.first < 2 {
			continue
		}

		// Farthest interior point from the chord.
		maxDist := 0.0
		maxIdx := -1
		for i := s.first + 1; i < s.last; i++ {
			d := geom.PerpDistToLine(line[i], line[s.first], line[s.last])
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}

		if maxIdx >= 0 && maxDist > epsilon {
			keep[maxIdx] = true
			stack = append(stack, span{s.first, maxIdx}, span{maxIdx, s.last})
		}
	}

	out := make(orb.LineString, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, line[i])
		}
	}
	return out
}

// SimplifyAll simplifies each polyline independently.
func SimplifyAll(lines []orb.LineString, epsilon float64) []orb.LineString {
	out := make([]orb.LineString, len(lines))
	for i, line := range lines {
		out[i] = Simplify(line, epsilon)
	}
	return out
}

// IsClosedLoop reports whether the polyline forms a loop: at least three
// points with first and last within tolerance of each other.
func IsClosedLoop(line orb.LineString, tolerance float64) bool {
	if len(line) < 3 {
		return false
	}
	return geom.Dist(line[0], line[len(line)-1]) <= tolerance
}
