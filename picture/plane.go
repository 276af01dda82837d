// Package picture provides the sample buffers the loop filter reads and
// writes: owned row-major planes with an explicit stride and a replicated
// margin on every side.
//
// All accessors take picture coordinates. A plane created with New covers the
// whole picture; a plane created with Window covers a rectangle of another
// plane but is still addressed in the coordinates of the full picture, so the
// filter code never has to translate between the two.
package picture

import "fmt"

// DefaultMargin is the number of samples allocated around every plane. It is
// larger than the widest filter half-support (5) plus the one-sample reach of
// the gradient classifier.
const DefaultMargin = 8

// Plane is a single component of a picture.
type Plane struct {
	// Pix holds the samples, including the margin.
	Pix []uint16

	// Stride is the distance in elements between two vertically adjacent
	// samples.
	Stride int

	// X0, Y0 are the picture coordinates of the first interior sample.
	X0, Y0 int

	// Width, Height describe the interior rectangle.
	Width, Height int

	// Margin is the number of samples allocated outside the interior on each
	// side.
	Margin int
}

// New allocates a zeroed plane of the given size with DefaultMargin.
func New(width, height int) *Plane {
	return NewWithMargin(width, height, DefaultMargin)
}

// NewWithMargin allocates a zeroed plane with an explicit margin.
func NewWithMargin(width, height, margin int) *Plane {
	if width <= 0 || height <= 0 || margin < 0 {
		panic(fmt.Sprintf("picture: invalid plane geometry %dx%d margin %d", width, height, margin))
	}
	stride := width + 2*margin
	return &Plane{
		Pix:    make([]uint16, stride*(height+2*margin)),
		Stride: stride,
		Width:  width,
		Height: height,
		Margin: margin,
	}
}

// Offset returns the index into Pix of the sample at picture coordinates
// (x, y). Coordinates inside the margin are valid.
func (p *Plane) Offset(x, y int) int {
	return (y-p.Y0+p.Margin)*p.Stride + x - p.X0 + p.Margin
}

// At returns the sample at (x, y).
func (p *Plane) At(x, y int) uint16 {
	return p.Pix[p.Offset(x, y)]
}

// Set stores v at (x, y).
func (p *Plane) Set(x, y int, v uint16) {
	p.Pix[p.Offset(x, y)] = v
}

// Fill sets every interior sample to v.
func (p *Plane) Fill(v uint16) {
	for y := p.Y0; y < p.Y0+p.Height; y++ {
		row := p.Pix[p.Offset(p.X0, y):]
		for i := 0; i < p.Width; i++ {
			row[i] = v
		}
	}
}

// Contains reports whether (x, y) lies in the allocated area, margin
// included.
func (p *Plane) Contains(x, y int) bool {
	return x >= p.X0-p.Margin && x < p.X0+p.Width+p.Margin &&
		y >= p.Y0-p.Margin && y < p.Y0+p.Height+p.Margin
}

// ExtendBorders replicates the outermost interior samples into the margin.
func (p *Plane) ExtendBorders() {
	m := p.Margin
	if m == 0 {
		return
	}
	for y := p.Y0; y < p.Y0+p.Height; y++ {
		off := p.Offset(p.X0, y)
		left := p.Pix[off]
		right := p.Pix[off+p.Width-1]
		for i := 1; i <= m; i++ {
			p.Pix[off-i] = left
			p.Pix[off+p.Width-1+i] = right
		}
	}
	top := p.Pix[p.Offset(p.X0-m, p.Y0) : p.Offset(p.X0-m, p.Y0)+p.Stride]
	bottom := p.Pix[p.Offset(p.X0-m, p.Y0+p.Height-1) : p.Offset(p.X0-m, p.Y0+p.Height-1)+p.Stride]
	for i := 1; i <= m; i++ {
		copy(p.Pix[p.Offset(p.X0-m, p.Y0-i):], top)
		copy(p.Pix[p.Offset(p.X0-m, p.Y0+p.Height-1+i):], bottom)
	}
}

// CopyRect copies the rectangle (x, y, w, h) from src into p. Both planes
// must contain the rectangle, margins included.
func (p *Plane) CopyRect(src *Plane, x, y, w, h int) {
	for j := y; j < y+h; j++ {
		copy(p.Pix[p.Offset(x, j):p.Offset(x, j)+w], src.Pix[src.Offset(x, j):src.Offset(x, j)+w])
	}
}

// Clone returns a deep copy of p.
func (p *Plane) Clone() *Plane {
	c := *p
	c.Pix = make([]uint16, len(p.Pix))
	copy(c.Pix, p.Pix)
	return &c
}

// Window returns a plane covering the rectangle (x, y, w, h) of p with the
// given margin, backed by buf when it is large enough. The window interior
// and every margin sample that falls inside p's allocated area are copied
// from p; the rest of the margin is left as found in buf.
func (p *Plane) Window(x, y, w, h, margin int, buf []uint16) *Plane {
	stride := w + 2*margin
	size := stride * (h + 2*margin)
	if cap(buf) < size {
		buf = make([]uint16, size)
	}
	win := &Plane{
		Pix:    buf[:size],
		Stride: stride,
		X0:     x,
		Y0:     y,
		Width:  w,
		Height: h,
		Margin: margin,
	}
	x0 := max(x-margin, p.X0-p.Margin)
	x1 := min(x+w+margin, p.X0+p.Width+p.Margin)
	y0 := max(y-margin, p.Y0-p.Margin)
	y1 := min(y+h+margin, p.Y0+p.Height+p.Margin)
	if x1 > x0 && y1 > y0 {
		win.CopyRect(p, x0, y0, x1-x0, y1-y0)
	}
	return win
}

// Equal reports whether the interiors of a and b hold the same samples.
func Equal(a, b *Plane) bool {
	if a.Width != b.Width || a.Height != b.Height || a.X0 != b.X0 || a.Y0 != b.Y0 {
		return false
	}
	for y := a.Y0; y < a.Y0+a.Height; y++ {
		ra := a.Pix[a.Offset(a.X0, y) : a.Offset(a.X0, y)+a.Width]
		rb := b.Pix[b.Offset(b.X0, y) : b.Offset(b.X0, y)+b.Width]
		for i := range ra {
			if ra[i] != rb[i] {
				return false
			}
		}
	}
	return true
}
