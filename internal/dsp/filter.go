package dsp

import (
	"github.com/deepteams/alf/internal/classify"
	"github.com/deepteams/alf/internal/coeff"
	"github.com/deepteams/alf/internal/shape"
	"github.com/deepteams/alf/picture"
)

// tapOffsets converts the taps of s to offsets into a buffer of the given
// stride.
func tapOffsets(s *shape.Shape, stride int) (offs [MaxTaps]int) {
	for k, t := range s.Taps {
		offs[k] = t.DY*stride + t.DX
	}
	return offs
}

// FilterLuma filters the rectangle (x, y, w, h) of src into dst. Each sample
// uses the coefficient row of the bin of its 4x4 block in m:
//
//	sum = dc + sum_k c[k]*(s[+k] + s[-k]) + c[centre]*s[0]
//	out = clip((sum + 128) >> 8)
//
// src must hold valid samples over the rectangle grown by the shape's
// half-support; dst and src must not share storage.
func FilterLuma(dst, src *picture.Plane, set *coeff.Set, m *classify.Map, s *shape.Shape, x, y, w, h, maxVal int) {
	n := s.NumTaps()
	last := n - 1
	offs := tapOffsets(s, src.Stride)

	// Gather the rows once so the inner loop indexes them densely.
	var rows [coeff.NumBins][MaxTaps + 1]int
	dc := set.SparseLen() - 1
	for bin := range rows {
		r := set.Row(bin)
		for k, p := range s.Pos {
			rows[bin][k] = r[p]
		}
		rows[bin][n] = r[dc]
	}

	pix := src.Pix
	for j := y; j < y+h; j++ {
		bins := m.Row(j >> classify.BlockShift)
		so := src.Offset(x, j)
		out := dst.Pix[dst.Offset(x, j) : dst.Offset(x, j)+w]
		for i := range out {
			c := &rows[bins[(x+i)>>classify.BlockShift]]
			o := so + i
			sum := c[n]
			for k := 0; k < last; k++ {
				sum += c[k] * (int(pix[o+offs[k]]) + int(pix[o-offs[k]]))
			}
			sum += c[last] * int(pix[o])
			out[i] = ClipPel((sum+roundOffset)>>coeff.FixedPointShift, maxVal)
		}
	}
}

// FilterChroma filters the rectangle (x, y, w, h) of src into dst with the
// single coefficient row c, taps in shape order followed by the DC term. The
// DC term is scaled from 8-bit to bitDepth before it is added.
func FilterChroma(dst, src *picture.Plane, c []int, s *shape.Shape, x, y, w, h, bitDepth int) {
	n := s.NumTaps()
	last := n - 1
	offs := tapOffsets(s, src.Stride)
	c = c[:n+1]
	dc := c[n] << (bitDepth - 8)
	maxVal := 1<<bitDepth - 1

	pix := src.Pix
	for j := y; j < y+h; j++ {
		so := src.Offset(x, j)
		out := dst.Pix[dst.Offset(x, j) : dst.Offset(x, j)+w]
		for i := range out {
			o := so + i
			sum := 0
			for k := 0; k < last; k++ {
				sum += c[k] * (int(pix[o+offs[k]]) + int(pix[o-offs[k]]))
			}
			sum += c[last]*int(pix[o]) + dc
			out[i] = ClipPel((sum+roundOffset)>>coeff.FixedPointShift, maxVal)
		}
	}
}
