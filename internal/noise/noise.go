// Package noise wraps the seeded noise primitives used by terrain
// generation: simplex fBm for elevation and river meander, perlin for lake
// boundary perturbation, plus deterministic seed derivation so every
// subsystem draws from an independent stream of the same root seed.
package noise

import (
	"hash/fnv"
	"math/rand"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Func samples 2D noise at a world position, returning a value in [-1, 1].
type Func func(x, y float64) float64

// FBmConfig controls fractal Brownian motion layering.
type FBmConfig struct {
	Octaves     int
	Persistence float64 // Amplitude falloff per octave
	Lacunarity  float64 // Frequency growth per octave
	Frequency   float64 // Base frequency
}

// DefaultFBmConfig returns the layering used for elevation detail.
func DefaultFBmConfig() FBmConfig {
	return FBmConfig{
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Frequency:   0.08,
	}
}

// NewSimplex returns a seeded simplex noise function in [-1, 1].
func NewSimplex(seed int64) Func {
	n := opensimplex.New(seed)
	return func(x, y float64) float64 {
		return n.Eval2(x, y)
	}
}

// NewFBm layers multiple octaves of simplex noise. Output stays in [-1, 1]
// because the octave sum is normalized by total amplitude.
func NewFBm(seed int64, cfg FBmConfig) Func {
	n := opensimplex.New(seed)
	octaves := cfg.Octaves
	if octaves < 1 {
		octaves = 1
	}
	return func(x, y float64) float64 {
		total := 0.0
		amplitude := 1.0
		maxVal := 0.0
		freq := cfg.Frequency
		for i := 0; i < octaves; i++ {
			total += n.Eval2(x*freq, y*freq) * amplitude
			maxVal += amplitude
			amplitude *= cfg.Persistence
			freq *= cfg.Lacunarity
		}
		return total / maxVal
	}
}

// NewPerlin returns a seeded perlin noise function, roughly in [-1, 1].
// Used where a different grain from the simplex layers is wanted (lake
// shorelines, ridge detail).
func NewPerlin(seed int64) Func {
	p := perlin.NewPerlin(2, 2, 3, seed)
	return func(x, y float64) float64 {
		return p.Noise2D(x, y)
	}
}

// DeriveSeed maps a parent seed and a purpose key to an independent child
// seed. Different keys give uncorrelated streams; the same key is stable
// across runs, which is what keeps whole-world generation reproducible.
func DeriveSeed(parent int64, key string) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(parent >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(key))
	return int64(h.Sum64())
}

// NewRand returns a deterministic PRNG for the given seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
