// Package shape holds the filter support catalogs of the adaptive loop
// filter.
//
// Two families exist. The diamond family offers 9x9, 7x7 and 5x5 diamonds for
// luma and squares of the same sizes for chroma; the star/cross family offers a
// 5x5 star and an 11x5 cross for both components. A stream picks one family
// for its whole lifetime.
package shape

import "fmt"

// Family selects a shape catalog.
type Family int

const (
	Diamond Family = iota
	StarCross
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case Diamond:
		return "diamond"
	case StarCross:
		return "star-cross"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Tap is the offset of one sample of a symmetric pair, relative to the
// filtered sample. The partner sample is at (-DY, -DX).
type Tap struct {
	DY, DX int
}

// Shape describes one filter support.
type Shape struct {
	ID   int
	Name string

	// HalfWidth and HalfHeight are the horizontal and vertical reach of the
	// support. Border padding extends a region by these amounts.
	HalfWidth, HalfHeight int

	// Taps lists the upper half of the support in coefficient order. The last
	// entry is the centre tap (0, 0).
	Taps []Tap

	// Pos is the position of each tap in the family's coefficient grid.
	Pos []int

	// Weights is the quantization scale of each tap, used by DC prediction.
	Weights []int
}

// NumCoeff returns the number of coefficients of the shape: one per tap
// plus the DC offset.
func (s *Shape) NumCoeff() int { return len(s.Taps) + 1 }

// NumTaps returns the number of spatial coefficients.
func (s *Shape) NumTaps() int { return len(s.Taps) }

// Catalog is the set of shapes of one family.
type Catalog struct {
	Family Family

	// GridWidth and GridHeight size the sparse coefficient grid shared by
	// all luma shapes of the family.
	GridWidth, GridHeight int

	luma   []*Shape
	chroma []*Shape
}

// SparseLen returns the length of a sparse coefficient row: the upper half of
// the grid including the centre, plus the DC slot.
func (c *Catalog) SparseLen() int {
	return (c.GridWidth*c.GridHeight+1)/2 + 1
}

// DCPos returns the index of the DC term in a sparse row.
func (c *Catalog) DCPos() int { return c.SparseLen() - 1 }

// NumLuma returns the number of luma shapes.
func (c *Catalog) NumLuma() int { return len(c.luma) }

// NumChroma returns the number of chroma shapes.
func (c *Catalog) NumChroma() int { return len(c.chroma) }

// ValidLuma reports whether id names a luma shape.
func (c *Catalog) ValidLuma(id int) bool { return id >= 0 && id < len(c.luma) }

// ValidChroma reports whether id names a chroma shape.
func (c *Catalog) ValidChroma(id int) bool { return id >= 0 && id < len(c.chroma) }

// Luma returns luma shape id. An invalid id is a programming error.
func (c *Catalog) Luma(id int) *Shape {
	if !c.ValidLuma(id) {
		panic(fmt.Sprintf("shape: %s catalog has no luma shape %d", c.Family, id))
	}
	return c.luma[id]
}

// Chroma returns chroma shape id. An invalid id is a programming error.
func (c *Catalog) Chroma(id int) *Shape {
	if !c.ValidChroma(id) {
		panic(fmt.Sprintf("shape: %s catalog has no chroma shape %d", c.Family, id))
	}
	return c.chroma[id]
}

// MaxHalfWidth returns the widest horizontal reach over all shapes.
func (c *Catalog) MaxHalfWidth() int {
	m := 0
	for _, s := range c.luma {
		m = max(m, s.HalfWidth)
	}
	for _, s := range c.chroma {
		m = max(m, s.HalfWidth)
	}
	return m
}

// MaxHalfHeight returns the tallest vertical reach over all shapes.
func (c *Catalog) MaxHalfHeight() int {
	m := 0
	for _, s := range c.luma {
		m = max(m, s.HalfHeight)
	}
	for _, s := range c.chroma {
		m = max(m, s.HalfHeight)
	}
	return m
}

var catalogs [2]*Catalog

// Lookup returns the catalog of family f.
func Lookup(f Family) *Catalog {
	if f < 0 || int(f) >= len(catalogs) {
		panic(fmt.Sprintf("shape: unknown family %d", int(f)))
	}
	return catalogs[f]
}

// newShape builds a shape from its grid pattern. The reach is derived from
// the taps.
func newShape(id int, name string, gridW, gridH int, pattern, weights []int) *Shape {
	s := &Shape{
		ID:      id,
		Name:    name,
		Pos:     pattern,
		Weights: weights,
		Taps:    make([]Tap, len(pattern)),
	}
	if len(weights) != len(pattern) {
		panic(fmt.Sprintf("shape: %s has %d taps but %d weights", name, len(pattern), len(weights)))
	}
	for i, p := range pattern {
		t := Tap{DY: p/gridW - gridH/2, DX: p%gridW - gridW/2}
		s.Taps[i] = t
		s.HalfWidth = max(s.HalfWidth, abs(t.DX))
		s.HalfHeight = max(s.HalfHeight, abs(t.DY))
	}
	if last := s.Taps[len(s.Taps)-1]; last != (Tap{}) {
		panic(fmt.Sprintf("shape: %s does not end with the centre tap", name))
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func init() {
	catalogs[Diamond] = &Catalog{
		Family:     Diamond,
		GridWidth:  9,
		GridHeight: 9,
		luma: []*Shape{
			newShape(0, "diamond9x9", 9, 9, diamond9Pattern, pairWeights(len(diamond9Pattern))),
			newShape(1, "diamond7x7", 9, 9, diamond7Pattern, pairWeights(len(diamond7Pattern))),
			newShape(2, "diamond5x5", 9, 9, diamond5Pattern, pairWeights(len(diamond5Pattern))),
		},
		chroma: []*Shape{
			newShape(0, "square9x9", 9, 9, squarePattern(9), pairWeights(41)),
			newShape(1, "square7x7", 9, 9, squarePattern(7), pairWeights(25)),
			newShape(2, "square5x5", 9, 9, squarePattern(5), pairWeights(13)),
		},
	}

	star := newShape(0, "star5x5", 11, 5, star5Pattern, pairWeights(len(star5Pattern)))
	cross := newShape(1, "cross11x5", 11, 5, cross11Pattern, pairWeights(len(cross11Pattern)))
	catalogs[StarCross] = &Catalog{
		Family:     StarCross,
		GridWidth:  11,
		GridHeight: 5,
		luma:       []*Shape{star, cross},
		chroma:     []*Shape{star, cross},
	}
}
