// Package dsp holds the sample kernels of the adaptive loop filter: the
// classified luma filter and the single-filter chroma filter.
//
// Kernels use a full-buffer + base-offset approach: each tap is read as
// src.Pix[o+off] or src.Pix[o-off] with off precomputed from the stride, so
// taps above and to the left of the filtered sample resolve to valid indices
// as long as the caller keeps the whole support inside the allocated area.
package dsp

import (
	"github.com/deepteams/alf/internal/classify"
	"github.com/deepteams/alf/internal/coeff"
	"github.com/deepteams/alf/internal/shape"
	"github.com/deepteams/alf/picture"
)

// MaxTaps is the largest number of spatial taps of any shape.
const MaxTaps = 41

// roundOffset rounds the fixed-point sum to nearest.
const roundOffset = 1 << (coeff.FixedPointShift - 1)

// Filter function types.
type (
	LumaFunc   func(dst, src *picture.Plane, set *coeff.Set, m *classify.Map, s *shape.Shape, x, y, w, h, maxVal int)
	ChromaFunc func(dst, src *picture.Plane, c []int, s *shape.Shape, x, y, w, h, bitDepth int)
)

// Filter function variables for dispatch.
// These are set to pure-Go implementations by Init().
var (
	LumaFilter   LumaFunc
	ChromaFilter ChromaFunc
)

// Init initialises all function pointers to their pure-Go implementations.
func Init() {
	LumaFilter = FilterLuma
	ChromaFilter = FilterChroma
}

func init() {
	Init()
}
