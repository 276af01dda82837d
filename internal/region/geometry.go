// Package region partitions a picture into the units the adaptive loop
// filter switches on and off: largest coding units (LCUs) split by a coding
// quad-tree, and independently filtered slices made of slice-granularity
// units (SGUs).
//
// Inside an LCU, the smallest units (SUs) are addressed in z-scan order. A
// picture-level SU address is lcu*NumSU + z.
package region

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Geometry describes the LCU grid of a picture.
type Geometry struct {
	Width, Height int

	// LCUSize is the side of an LCU in samples, MaxDepth the depth of the
	// smallest coding unit.
	LCUSize  int
	MaxDepth int

	// SUSize is the side of the smallest unit, LCUSize >> MaxDepth.
	SUSize int

	// SUPerRow is the number of SUs along one side of an LCU.
	SUPerRow int

	// NumSU is the number of SUs in an LCU.
	NumSU int

	// LCUCols and LCURows size the LCU grid; partial LCUs at the right and
	// bottom edges count.
	LCUCols, LCURows int

	zToRaster []int
	rasterToZ []int
}

// NewGeometry returns the geometry of a picture. The picture size must be a
// multiple of the smallest unit.
func NewGeometry(width, height, lcuSize, maxDepth int) (*Geometry, error) {
	if lcuSize < 8 || bits.OnesCount(uint(lcuSize)) != 1 {
		return nil, errors.Errorf("region: LCU size %d is not a power of two >= 8", lcuSize)
	}
	if maxDepth < 0 || lcuSize>>maxDepth < 4 {
		return nil, errors.Errorf("region: depth %d splits a %d LCU below 4 samples", maxDepth, lcuSize)
	}
	su := lcuSize >> maxDepth
	if width <= 0 || height <= 0 || width%su != 0 || height%su != 0 {
		return nil, errors.Errorf("region: picture %dx%d is not a multiple of the %d sample unit", width, height, su)
	}
	g := &Geometry{
		Width:    width,
		Height:   height,
		LCUSize:  lcuSize,
		MaxDepth: maxDepth,
		SUSize:   su,
		SUPerRow: 1 << maxDepth,
		NumSU:    1 << (2 * maxDepth),
		LCUCols:  (width + lcuSize - 1) / lcuSize,
		LCURows:  (height + lcuSize - 1) / lcuSize,
	}
	g.zToRaster = make([]int, g.NumSU)
	g.rasterToZ = make([]int, g.NumSU)
	for z := 0; z < g.NumSU; z++ {
		var col, row int
		for b := 0; b < maxDepth; b++ {
			col |= (z >> (2 * b) & 1) << b
			row |= (z >> (2*b + 1) & 1) << b
		}
		r := row*g.SUPerRow + col
		g.zToRaster[z] = r
		g.rasterToZ[r] = z
	}
	return g, nil
}

// NumLCUs returns the number of LCUs in the picture.
func (g *Geometry) NumLCUs() int { return g.LCUCols * g.LCURows }

// NumSUInPicture returns the size of the picture-level SU address space.
func (g *Geometry) NumSUInPicture() int { return g.NumLCUs() * g.NumSU }

// ZToRaster converts a z-scan SU index to its raster index inside the LCU.
func (g *Geometry) ZToRaster(z int) int { return g.zToRaster[z] }

// RasterToZ converts a raster SU index inside the LCU to z-scan order.
func (g *Geometry) RasterToZ(r int) int { return g.rasterToZ[r] }

// LCUPos returns the top-left sample of an LCU.
func (g *Geometry) LCUPos(lcu int) (x, y int) {
	return lcu % g.LCUCols * g.LCUSize, lcu / g.LCUCols * g.LCUSize
}

// SUPos returns the top-left sample of SU z of an LCU.
func (g *Geometry) SUPos(lcu, z int) (x, y int) {
	lx, ly := g.LCUPos(lcu)
	r := g.zToRaster[z]
	return lx + r%g.SUPerRow*g.SUSize, ly + r/g.SUPerRow*g.SUSize
}

// Inside reports whether sample (x, y) lies in the picture.
func (g *Geometry) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// SUInside reports whether SU z of an LCU lies in the picture.
func (g *Geometry) SUInside(lcu, z int) bool {
	return g.Inside(g.SUPos(lcu, z))
}

// Address returns the picture-level SU address of the SU containing sample
// (x, y), which must lie in the picture.
func (g *Geometry) Address(x, y int) int {
	lcu := y/g.LCUSize*g.LCUCols + x/g.LCUSize
	col := x % g.LCUSize / g.SUSize
	row := y % g.LCUSize / g.SUSize
	return lcu*g.NumSU + g.rasterToZ[row*g.SUPerRow+col]
}

// partsAt returns the number of SUs in a coding unit of the given depth.
func (g *Geometry) partsAt(depth int) int { return g.NumSU >> (2 * depth) }
