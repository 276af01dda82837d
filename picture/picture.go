package picture

import "fmt"

// Component identifies a plane of a Picture.
type Component int

const (
	Luma Component = iota
	Cb
	Cr
)

// String returns the component name.
func (c Component) String() string {
	switch c {
	case Luma:
		return "Y"
	case Cb:
		return "Cb"
	case Cr:
		return "Cr"
	}
	return fmt.Sprintf("Component(%d)", int(c))
}

// Picture is a 4:2:0 picture: a full resolution luma plane and two chroma
// planes subsampled by two in both directions.
type Picture struct {
	Y, Cb, Cr *Plane

	// BitDepth is the number of bits per sample (8..12).
	BitDepth int
}

// NewPicture allocates a zeroed 4:2:0 picture. Width and height must be even.
func NewPicture(width, height, bitDepth int) *Picture {
	if width&1 != 0 || height&1 != 0 {
		panic(fmt.Sprintf("picture: 4:2:0 picture needs even dimensions, got %dx%d", width, height))
	}
	return &Picture{
		Y:        New(width, height),
		Cb:       New(width/2, height/2),
		Cr:       New(width/2, height/2),
		BitDepth: bitDepth,
	}
}

// Plane returns the plane of component c.
func (p *Picture) Plane(c Component) *Plane {
	switch c {
	case Luma:
		return p.Y
	case Cb:
		return p.Cb
	case Cr:
		return p.Cr
	}
	panic(fmt.Sprintf("picture: unknown component %d", int(c)))
}

// MaxValue returns the largest representable sample value.
func (p *Picture) MaxValue() int {
	return 1<<p.BitDepth - 1
}

// Clone returns a deep copy of p.
func (p *Picture) Clone() *Picture {
	return &Picture{
		Y:        p.Y.Clone(),
		Cb:       p.Cb.Clone(),
		Cr:       p.Cr.Clone(),
		BitDepth: p.BitDepth,
	}
}

// ExtendBorders replicates the border samples of all three planes into their
// margins.
func (p *Picture) ExtendBorders() {
	p.Y.ExtendBorders()
	p.Cb.ExtendBorders()
	p.Cr.ExtendBorders()
}
