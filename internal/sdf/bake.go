package sdf

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/talgya/terragen/internal/contour"
	"github.com/talgya/terragen/internal/field"
	"github.com/talgya/terragen/internal/geom"
)

// Texture is a baked byte field over world bounds, row-major like every
// other grid in the pipeline.
type Texture struct {
	Width  int
	Height int
	Bounds field.Bounds
	Pix    []uint8
}

// At returns the texel value at (col,row), clamping out-of-range indices.
func (t *Texture) At(col, row int) uint8 {
	if col < 0 {
		col = 0
	} else if col >= t.Width {
		col = t.Width - 1
	}
	if row < 0 {
		row = 0
	} else if row >= t.Height {
		row = t.Height - 1
	}
	return t.Pix[row*t.Width+col]
}

// TexelAt returns the texel indices for a world position.
func (t *Texture) TexelAt(x, z float64) (col, row int) {
	if t.Width < 2 || t.Height < 2 {
		return 0, 0
	}
	resX := t.Bounds.Width() / float64(t.Width-1)
	resZ := t.Bounds.Height() / float64(t.Height-1)
	return int(math.Round((x - t.Bounds.MinX) / resX)), int(math.Round((z - t.Bounds.MinZ) / resZ))
}

// InfluenceOptions configures BakeInfluence.
type InfluenceOptions struct {
	Resolution  float64 // World-space texel spacing
	InnerRadius float64 // Full influence (255) at or inside this distance
	OuterRadius float64 // Zero influence at or beyond this distance
	Bounds      field.Bounds
}

// newTexture allocates the output grid for the given bounds and spacing.
func newTexture(b field.Bounds, resolution float64) *Texture {
	cols := int(math.Ceil(b.Width()/resolution)) + 1
	rows := int(math.Ceil(b.Height()/resolution)) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Texture{
		Width:  cols,
		Height: rows,
		Bounds: b,
		Pix:    make([]uint8, cols*rows),
	}
}

// BakeInfluence converts polylines into a smooth 0-255 proximity texture:
// 255 within InnerRadius of any segment, 0 beyond OuterRadius, smoothstep
// falloff between. Empty input or a non-positive outer radius short-circuits
// to an all-zero texture.
func BakeInfluence(lines []orb.LineString, opts InfluenceOptions) *Texture {
	tex := newTexture(opts.Bounds, opts.Resolution)
	if len(lines) == 0 || opts.OuterRadius <= 0 {
		return tex
	}

	grid := NewSegmentGrid(lines, opts.Bounds, GridCellSize(opts.Bounds, opts.OuterRadius))

	for row := 0; row < tex.Height; row++ {
		z := opts.Bounds.MinZ + float64(row)*opts.Resolution
		for col := 0; col < tex.Width; col++ {
			x := opts.Bounds.MinX + float64(col)*opts.Resolution
			dist := grid.MinDistance(x, z)
			if dist >= opts.OuterRadius {
				continue // stays zero
			}
			v := geom.Smoothstep(opts.OuterRadius, opts.InnerRadius, dist)
			tex.Pix[row*tex.Width+col] = uint8(math.Round(v * 255))
		}
	}
	return tex
}

// CoastlineOptions configures BakeCoastline.
type CoastlineOptions struct {
	Resolution      float64 // World-space texel spacing
	BeachWidth      float64 // Land-side ramp: 255 at or beyond this distance inland
	TransitionWidth float64 // Ocean-side ramp: 0 at or beyond this distance offshore
	Bounds          field.Bounds
}

// BakeCoastline produces the signed shoreline encoding: 127 on the coastline
// itself, ramping to 255 over BeachWidth on the land side and to 0 over
// TransitionWidth on the ocean side. The side is decided by even-odd
// ray-casting against every closed input polyline, toggling per containing
// ring so islands inside lakes come out as land again. With no input
// polylines everything is land.
func BakeCoastline(lines []orb.LineString, opts CoastlineOptions) *Texture {
	tex := newTexture(opts.Bounds, opts.Resolution)
	if len(lines) == 0 {
		for i := range tex.Pix {
			tex.Pix[i] = 255
		}
		return tex
	}

	maxRadius := math.Max(opts.BeachWidth, opts.TransitionWidth)
	grid := NewSegmentGrid(lines, opts.Bounds, GridCellSize(opts.Bounds, maxRadius))

	var rings []orb.Ring
	for _, line := range lines {
		if contour.IsClosedLoop(line, opts.Resolution*0.5) {
			rings = append(rings, orb.Ring(line))
		}
	}

	for row := 0; row < tex.Height; row++ {
		z := opts.Bounds.MinZ + float64(row)*opts.Resolution
		for col := 0; col < tex.Width; col++ {
			x := opts.Bounds.MinX + float64(col)*opts.Resolution
			p := orb.Point{x, z}

			land := false
			for _, ring := range rings {
				if geom.PointInRing(p, ring) {
					land = !land
				}
			}

			dist := grid.MinDistance(x, z)
			var v float64
			if land {
				if opts.BeachWidth <= 0 {
					v = 255
				} else {
					v = 127 + 128*geom.Smoothstep(0, opts.BeachWidth, dist)
				}
			} else {
				if opts.TransitionWidth <= 0 {
					v = 0
				} else {
					v = 127 - 127*geom.Smoothstep(0, opts.TransitionWidth, dist)
				}
			}
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			tex.Pix[row*tex.Width+col] = uint8(math.Round(v))
		}
	}
	return tex
}
