package field

import "math"

// ChamferTransform computes an approximate Euclidean distance field from a
// binary occupancy mask using two raster passes over the 8-connected
// neighborhood. Cardinal steps cost cellSize, diagonal steps cellSize*sqrt2.
// Cells set in the mask get distance zero; a mask with no set cells yields
// +Inf everywhere. The result is coarse (mask-resolution) and meant for fast
// rejection and visualization, not authoritative geometry.
func ChamferTransform(mask []bool, width, height int, cellSize float64) []float64 {
	dist := make([]float64, width*height)
	for i, occupied := range mask {
		if occupied {
			dist[i] = 0
		} else {
			dist[i] = math.Inf(1)
		}
	}

	cardinal := cellSize
	diagonal := cellSize * math.Sqrt2

	// Forward pass: top-left to bottom-right, pulling from already-visited
	// neighbors (W, NW, N, NE).
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			i := row*width + col
			d := dist[i]
			if col > 0 {
				d = math.Min(d, dist[i-1]+cardinal)
			}
			if row > 0 {
				d = math.Min(d, dist[i-width]+cardinal)
				if col > 0 {
					d = math.Min(d, dist[i-width-1]+diagonal)
				}
				if col < width-1 {
					d = math.Min(d, dist[i-width+1]+diagonal)
				}
			}
			dist[i] = d
		}
	}

	// Backward pass: bottom-right to top-left (E, SE, S, SW).
	for row := height - 1; row >= 0; row-- {
		for col := width - 1; col >= 0; col-- {
			i := row*width + col
			d := dist[i]
			if col < width-1 {
				d = math.Min(d, dist[i+1]+cardinal)
			}
			if row < height-1 {
				d = math.Min(d, dist[i+width]+cardinal)
				if col < width-1 {
					d = math.Min(d, dist[i+width+1]+diagonal)
				}
				if col > 0 {
					d = math.Min(d, dist[i+width-1]+diagonal)
				}
			}
			dist[i] = d
		}
	}

	return dist
}
