package alf

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/deepteams/alf/internal/classify"
	"github.com/deepteams/alf/internal/coeff"
	"github.com/deepteams/alf/internal/region"
	"github.com/deepteams/alf/internal/shape"
)

// ShapeFamily selects the filter shape catalog of a stream.
type ShapeFamily = shape.Family

// Shape families.
const (
	// Diamond offers 9x9, 7x7 and 5x5 diamonds for luma (ids 0, 1, 2) and
	// squares of the same sizes for chroma.
	Diamond = shape.Diamond
	// StarCross offers a 5x5 star (id 0) and an 11x5 cross (id 1) for both
	// components.
	StarCross = shape.StarCross
)

// ClassMethod selects how luma blocks are assigned to bins.
type ClassMethod = classify.Method

// Classification methods.
const (
	Gradient   = classify.Gradient
	RegionGrid = classify.RegionGrid
)

// NumBins is the number of classification bins.
const NumBins = coeff.NumBins

// FixedPointShift is the precision of filter coefficients.
const FixedPointShift = coeff.FixedPointShift

// Partition types shared with the coding layer.
type (
	// Geometry is the LCU grid of a picture. Its methods convert between
	// z-scan SU indices, raster positions and picture SU addresses.
	Geometry = region.Geometry

	// QuadTree reports the depth of the coding unit covering an SU.
	QuadTree = region.QuadTree

	// UniformTree splits every LCU down to the same depth.
	UniformTree = region.UniformTree

	// DepthMap records an arbitrary coding quad-tree.
	DepthMap = region.DepthMap

	// SliceSpec is the inclusive SU address range of one slice.
	SliceSpec = region.SliceSpec
)

// Config holds the stream-level settings of a Filter.
type Config struct {
	// Family selects the shape catalog (default Diamond).
	Family ShapeFamily

	// Width and Height are the luma picture size. Both must be multiples of
	// the smallest coding unit, LCUSize >> MaxCUDepth.
	Width, Height int

	// BitDepth is the sample precision, 8 to 12 (default 8).
	BitDepth int

	// LCUSize is the side of the largest coding unit (default 64).
	LCUSize int

	// MaxCUDepth is the depth of the smallest coding unit (default 4).
	MaxCUDepth int

	// SliceGranularityDepth is the quad-tree depth slice boundaries are
	// aligned to (default 0, whole LCUs).
	SliceGranularityDepth int

	// NonCrossSlices filters every slice on its own: samples of other slices
	// are replaced by padding instead of being read.
	NonCrossSlices bool

	// Workers bounds the number of slices filtered at once when
	// NonCrossSlices is set. 0 or 1 filters them one after the other.
	Workers int
}

// DefaultConfig returns the configuration of an 8-bit stream with 64x64
// LCUs, the diamond catalog and one worker per CPU.
func DefaultConfig(width, height int) Config {
	return Config{
		Family:     Diamond,
		Width:      width,
		Height:     height,
		BitDepth:   8,
		LCUSize:    64,
		MaxCUDepth: 4,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

func (c *Config) validate() error {
	switch {
	case c.Family != Diamond && c.Family != StarCross:
		return errors.Wrapf(ErrConfig, "unknown shape family %d", int(c.Family))
	case c.BitDepth < 8 || c.BitDepth > 12:
		return errors.Wrapf(ErrConfig, "bit depth %d outside [8, 12]", c.BitDepth)
	case c.Width&1 != 0 || c.Height&1 != 0:
		return errors.Wrapf(ErrConfig, "4:2:0 picture needs even dimensions, got %dx%d", c.Width, c.Height)
	case c.SliceGranularityDepth < 0 || c.SliceGranularityDepth > c.MaxCUDepth:
		return errors.Wrapf(ErrConfig, "slice granularity depth %d outside [0, %d]", c.SliceGranularityDepth, c.MaxCUDepth)
	case c.Workers < 0:
		return errors.Wrapf(ErrConfig, "negative worker count %d", c.Workers)
	}
	return nil
}
