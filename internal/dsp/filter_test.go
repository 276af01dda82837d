package dsp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/alf/internal/classify"
	"github.com/deepteams/alf/internal/coeff"
	"github.com/deepteams/alf/internal/shape"
	"github.com/deepteams/alf/picture"
)

// lumaSet builds a table with the same row for every bin.
func lumaSet(t *testing.T, cat *shape.Catalog, s *shape.Shape, row []int) *coeff.Set {
	t.Helper()
	set, err := coeff.Reconstruct(coeff.Input{
		FiltersPerGroup:     1,
		FiltersPerGroupDiff: 1,
		Coeff:               [][]int{row},
	}, s, cat.SparseLen())
	require.NoError(t, err)
	return set
}

func identity(s *shape.Shape) []int {
	row := make([]int, s.NumCoeff())
	row[s.NumTaps()-1] = 1 << coeff.FixedPointShift
	return row
}

func randomPlane(rng *rand.Rand, w, h, maxVal int) *picture.Plane {
	p := picture.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(x, y, uint16(rng.Intn(maxVal+1)))
		}
	}
	p.ExtendBorders()
	return p
}

func TestFilterLumaIdentityUniform(t *testing.T) {
	cat := shape.Lookup(shape.Diamond)
	s := cat.Luma(cat.NumLuma() - 1)
	src := picture.New(16, 16)
	src.Fill(128)
	src.ExtendBorders()
	dst := picture.New(16, 16)

	LumaFilter(dst, src, lumaSet(t, cat, s, identity(s)), classify.NewMap(16, 16), s, 0, 0, 16, 16, 255)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			require.Equal(t, uint16(128), dst.At(x, y))
		}
	}
}

func TestFilterLumaIdentityEveryShape(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, f := range []shape.Family{shape.Diamond, shape.StarCross} {
		cat := shape.Lookup(f)
		for id := 0; id < cat.NumLuma(); id++ {
			s := cat.Luma(id)
			src := randomPlane(rng, 24, 16, 1023)
			dst := picture.New(24, 16)
			FilterLuma(dst, src, lumaSet(t, cat, s, identity(s)), classify.NewMap(24, 16), s, 0, 0, 24, 16, 1023)
			assert.True(t, picture.Equal(src, dst), "%s", s.Name)
		}
	}
}

func TestFilterLumaImpulse(t *testing.T) {
	cat := shape.Lookup(shape.Diamond)
	s := cat.Luma(2)
	row := make([]int, s.NumCoeff())
	for k, tap := range s.Taps {
		switch tap {
		case shape.Tap{DY: 0, DX: -1}:
			row[k] = 64
		case shape.Tap{}:
			row[k] = 128
		}
	}
	src := picture.New(16, 16)
	src.Set(8, 8, 200)
	src.ExtendBorders()
	dst := picture.New(16, 16)
	FilterLuma(dst, src, lumaSet(t, cat, s, row), classify.NewMap(16, 16), s, 0, 0, 16, 16, 255)

	assert.Equal(t, uint16(100), dst.At(8, 8))
	assert.Equal(t, uint16(50), dst.At(7, 8))
	assert.Equal(t, uint16(50), dst.At(9, 8))
	assert.Equal(t, uint16(0), dst.At(8, 7))
}

func TestFilterLumaDCAndClip(t *testing.T) {
	cat := shape.Lookup(shape.Diamond)
	s := cat.Luma(0)
	row := identity(s)
	row[s.NumTaps()] = 1 << coeff.FixedPointShift
	src := picture.New(8, 8)
	src.Fill(255)
	src.Set(0, 0, 100)
	src.ExtendBorders()
	dst := picture.New(8, 8)
	FilterLuma(dst, src, lumaSet(t, cat, s, row), classify.NewMap(8, 8), s, 0, 0, 8, 8, 255)
	assert.Equal(t, uint16(101), dst.At(0, 0), "luma DC is not scaled")
	assert.Equal(t, uint16(255), dst.At(4, 4), "clipped to the sample range")
}

func TestFilterLumaUsesBlockBins(t *testing.T) {
	cat := shape.Lookup(shape.Diamond)
	s := cat.Luma(1)
	half := identity(s)
	half[s.NumTaps()-1] = 1 << (coeff.FixedPointShift - 1)
	in := coeff.Input{
		FiltersPerGroup:     2,
		FiltersPerGroupDiff: 2,
		Coeff:               [][]int{identity(s), half},
	}
	in.VarIndTab[3] = 1
	set, err := coeff.Reconstruct(in, s, cat.SparseLen())
	require.NoError(t, err)

	m := classify.NewMap(8, 8)
	m.Set(1, 0, 3)
	src := picture.New(8, 8)
	src.Fill(100)
	src.ExtendBorders()
	dst := picture.New(8, 8)
	FilterLuma(dst, src, set, m, s, 0, 0, 8, 8, 255)
	assert.Equal(t, uint16(100), dst.At(3, 0))
	assert.Equal(t, uint16(50), dst.At(4, 0))
	assert.Equal(t, uint16(50), dst.At(7, 3))
	assert.Equal(t, uint16(100), dst.At(4, 4))
}

func TestFilterLumaBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cat := shape.Lookup(shape.StarCross)
	s := cat.Luma(1)
	row := make([]int, s.NumCoeff())
	for i := range row {
		row[i] = rng.Intn(1024) - 512
	}
	src := randomPlane(rng, 32, 32, 255)
	dst := picture.New(32, 32)
	FilterLuma(dst, src, lumaSet(t, cat, s, row), classify.NewMap(32, 32), s, 4, 4, 24, 24, 255)
	for y := 4; y < 28; y++ {
		for x := 4; x < 28; x++ {
			require.LessOrEqual(t, dst.At(x, y), uint16(255))
		}
	}
	assert.Equal(t, uint16(0), dst.At(0, 0), "outside the rectangle")
}

func TestFilterChroma(t *testing.T) {
	cat := shape.Lookup(shape.Diamond)
	for id := 0; id < cat.NumChroma(); id++ {
		s := cat.Chroma(id)
		c := identity(s)
		c[s.NumTaps()] = 64
		src := picture.New(8, 8)
		src.Fill(100)
		src.ExtendBorders()
		dst := picture.New(8, 8)
		ChromaFilter(dst, src, c, s, 0, 0, 8, 8, 10)
		assert.Equal(t, uint16(101), dst.At(3, 3), "%s: DC scaled by bit depth", s.Name)

		ChromaFilter(dst, src, c, s, 0, 0, 8, 8, 8)
		assert.Equal(t, uint16(100), dst.At(3, 3), "%s: 64/256 rounds away", s.Name)
	}
}

func TestClipPel(t *testing.T) {
	tests := []struct {
		v, maxVal int
		want      uint16
	}{
		{-5, 255, 0},
		{0, 255, 0},
		{255, 255, 255},
		{256, 255, 255},
		{1023, 1023, 1023},
		{5000, 4095, 4095},
		{-1 << 40, 1023, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClipPel(tt.v, tt.maxVal), "%+v", tt)
	}
}
