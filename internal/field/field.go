// Package field provides the row-major scalar grids the pipeline passes
// between stages: the elevation field, byte influence textures, and the
// chamfer distance transform used for river/lake SDFs.
package field

import (
	"fmt"
	"math"
)

// Bounds is an axis-aligned world-space rectangle. X runs east, Z south.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Width returns the east-west span.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the north-south span.
func (b Bounds) Height() float64 { return b.MaxZ - b.MinZ }

// Valid reports whether the bounds enclose a nonzero area.
func (b Bounds) Valid() bool {
	return b.MaxX > b.MinX && b.MaxZ > b.MinZ
}

// Pad returns bounds grown by margin on every side.
func (b Bounds) Pad(margin float64) Bounds {
	return Bounds{
		MinX: b.MinX - margin, MaxX: b.MaxX + margin,
		MinZ: b.MinZ - margin, MaxZ: b.MaxZ + margin,
	}
}

// Contains reports whether the world point lies inside the bounds.
func (b Bounds) Contains(x, z float64) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

// Elevation is an immutable heightfield sampled on a regular grid.
// data is row-major: index = row*Width + col, row advancing in +Z.
type Elevation struct {
	Width  int
	Height int
	Bounds Bounds
	Data   []float64
}

// NewElevation allocates a zeroed heightfield. Returns an error on
// non-positive dimensions or degenerate bounds so misconfiguration fails at
// the call site rather than deep in a trace.
func NewElevation(width, height int, b Bounds) (*Elevation, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("elevation grid %dx%d: dimensions must be positive", width, height)
	}
	if !b.Valid() {
		return nil, fmt.Errorf("elevation bounds %+v: zero or negative span", b)
	}
	return &Elevation{
		Width:  width,
		Height: height,
		Bounds: b,
		Data:   make([]float64, width*height),
	}, nil
}

// CellSizeX returns the world-space spacing between columns.
func (e *Elevation) CellSizeX() float64 {
	if e.Width < 2 {
		return e.Bounds.Width()
	}
	return e.Bounds.Width() / float64(e.Width-1)
}

// CellSizeZ returns the world-space spacing between rows.
func (e *Elevation) CellSizeZ() float64 {
	if e.Height < 2 {
		return e.Bounds.Height()
	}
	return e.Bounds.Height() / float64(e.Height-1)
}

// At returns the elevation at a cell, clamping out-of-range indices to the
// border. Sampling functions call this at coordinates derived from arbitrary
// world positions, which may fall outside the grid by epsilon.
func (e *Elevation) At(col, row int) float64 {
	if col < 0 {
		col = 0
	} else if col >= e.Width {
		col = e.Width - 1
	}
	if row < 0 {
		row = 0
	} else if row >= e.Height {
		row = e.Height - 1
	}
	return e.Data[row*e.Width+col]
}

// Set writes a cell value. Out-of-range indices are ignored.
func (e *Elevation) Set(col, row int, v float64) {
	if col < 0 || col >= e.Width || row < 0 || row >= e.Height {
		return
	}
	e.Data[row*e.Width+col] = v
}

// InGrid reports whether the cell indices are inside the grid.
func (e *Elevation) InGrid(col, row int) bool {
	return col >= 0 && col < e.Width && row >= 0 && row < e.Height
}

// CellToWorld returns the world position of a cell center.
func (e *Elevation) CellToWorld(col, row int) (x, z float64) {
	x = e.Bounds.MinX + float64(col)*e.CellSizeX()
	z = e.Bounds.MinZ + float64(row)*e.CellSizeZ()
	return x, z
}

// WorldToCell returns the nearest cell indices for a world position.
// The result may be out of grid range; callers clamp or reject as needed.
func (e *Elevation) WorldToCell(x, z float64) (col, row int) {
	col = int(math.Round((x - e.Bounds.MinX) / e.CellSizeX()))
	row = int(math.Round((z - e.Bounds.MinZ) / e.CellSizeZ()))
	return col, row
}

// Sample returns a bilinearly interpolated elevation at a world position.
// Positions outside the bounds clamp to the border cells.
func (e *Elevation) Sample(x, z float64) float64 {
	fx := (x - e.Bounds.MinX) / e.CellSizeX()
	fz := (z - e.Bounds.MinZ) / e.CellSizeZ()

	c0 := int(math.Floor(fx))
	r0 := int(math.Floor(fz))
	tx := fx - float64(c0)
	tz := fz - float64(r0)

	v00 := e.At(c0, r0)
	v10 := e.At(c0+1, r0)
	v01 := e.At(c0, r0+1)
	v11 := e.At(c0+1, r0+1)

	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*tz
}
