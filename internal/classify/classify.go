// Package classify assigns every 4x4 luma block of a picture to one of the
// classification bins that select a filter row.
package classify

import (
	"fmt"

	"github.com/deepteams/alf/internal/coeff"
	"github.com/deepteams/alf/picture"
)

// BlockSize is the side of a classification block in samples.
const (
	BlockSize  = 4
	BlockShift = 2
)

// Method selects how bins are assigned.
type Method int

const (
	// Gradient classifies blocks by local activity and direction.
	Gradient Method = iota
	// RegionGrid splits the picture into a fixed 4x4 grid of regions,
	// independent of content.
	RegionGrid
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case Gradient:
		return "gradient"
	case RegionGrid:
		return "region-grid"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Map holds one bin per classification block.
type Map struct {
	Bins []uint8

	// Width and Height are in blocks.
	Width, Height int
}

// NewMap allocates a map covering a picture of the given size in samples.
func NewMap(picWidth, picHeight int) *Map {
	w := (picWidth + BlockSize - 1) >> BlockShift
	h := (picHeight + BlockSize - 1) >> BlockShift
	return &Map{Bins: make([]uint8, w*h), Width: w, Height: h}
}

// At returns the bin of block (bx, by).
func (m *Map) At(bx, by int) int { return int(m.Bins[by*m.Width+bx]) }

// Set stores the bin of block (bx, by).
func (m *Map) Set(bx, by, bin int) { m.Bins[by*m.Width+bx] = uint8(bin) }

// Row returns the bins of block row by.
func (m *Map) Row(by int) []uint8 { return m.Bins[by*m.Width : (by+1)*m.Width] }

// Classifier fills the part of a map that covers a rectangle of samples.
type Classifier interface {
	Classify(p *picture.Plane, m *Map, x, y, w, h, bitDepth int)
}

// For returns the classifier of method.
func For(method Method) Classifier {
	switch method {
	case Gradient:
		return gradient{}
	case RegionGrid:
		return regionGrid{}
	}
	panic(fmt.Sprintf("classify: unknown method %d", int(method)))
}

// activity quantizes the clipped average activity of a block.
var activity = [coeff.NumBins]int{0, 1, 2, 2, 2, 3, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4}

// activityLevels is the number of activity levels per direction minus one.
const activityLevels = coeff.NumBins/3 - 1

type gradient struct{}

func (gradient) Classify(p *picture.Plane, m *Map, x, y, w, h, bitDepth int) {
	Classify(p, m, x, y, w, h, bitDepth)
}

// Classify computes the bin of every block that starts inside the rectangle
// (x, y, w, h). x and y must be multiples of BlockSize.
//
// Only four samples of each block are measured: those at even offsets
// (0, 0), (2, 0), (0, 2) and (2, 2). Each measurement reads its four direct
// neighbours, so the rectangle needs one valid sample above and to the left;
// everything else lies inside the block.
func Classify(p *picture.Plane, m *Map, x, y, w, h, bitDepth int) {
	shift := bitDepth - 8 + 1
	stride := p.Stride
	for by := y; by < y+h; by += BlockSize {
		for bx := x; bx < x+w; bx += BlockSize {
			var ver, hor int
			for dy := 0; dy <= 2; dy += 2 {
				off := p.Offset(bx, by+dy)
				for dx := 0; dx <= 2; dx += 2 {
					o := off + dx
					c := int(p.Pix[o]) << 1
					ver += abs(c - int(p.Pix[o-stride]) - int(p.Pix[o+stride]))
					hor += abs(c - int(p.Pix[o-1]) - int(p.Pix[o+1]))
				}
			}
			m.Set(bx>>BlockShift, by>>BlockShift, binOf(ver, hor, shift))
		}
	}
}

// binOf maps the gradient sums of one block to its bin.
func binOf(ver, hor, shift int) int {
	direction := 0
	if ver > 2*hor {
		direction = 1
	}
	if hor > 2*ver {
		direction = 2
	}
	avg := (ver + hor) >> 2
	avg = min(avg>>shift, coeff.NumBins-1)
	return min(activity[avg], activityLevels) + (activityLevels+1)*direction
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
