package region

import "github.com/deepteams/alf/picture"

// ExtendBorder replaces the samples around the rectangle (x, y, w, h) of p
// that belong to another slice, or lie outside the picture, with copies of
// the rectangle's own edge samples. extX and extY give the reach of the
// padding. Sides are padded before corners; an unavailable corner is only
// padded when both adjacent sides were.
//
// With forClassification set only the top, left and top-left neighbours are
// padded, one sample deep; those are the only ones the gradient classifier
// reads.
func ExtendBorder(p *picture.Plane, x, y, w, h int, avail *[NumDirections]bool, extX, extY int, forClassification bool) {
	if forClassification {
		extX, extY = 1, 1
	}
	pix, stride := p.Pix, p.Stride

	if !avail[Left] {
		for j := y; j < y+h; j++ {
			off := p.Offset(x, j)
			v := pix[off]
			for i := 1; i <= extX; i++ {
				pix[off-i] = v
			}
		}
	}
	if !forClassification && !avail[Right] {
		for j := y; j < y+h; j++ {
			off := p.Offset(x+w-1, j)
			v := pix[off]
			for i := 1; i <= extX; i++ {
				pix[off+i] = v
			}
		}
	}
	if !avail[Top] {
		n := w
		if avail[TopRight] {
			n = max(w-extX, 0)
		}
		src := p.Offset(x, y)
		for i := 1; i <= extY; i++ {
			copy(pix[src-i*stride:src-i*stride+n], pix[src:src+n])
		}
	}
	if !forClassification && !avail[Bottom] {
		start, n := x, w
		if avail[BottomLeft] {
			start, n = x+extX, max(w-extX, 0)
		}
		src := p.Offset(start, y+h-1)
		for i := 1; i <= extY; i++ {
			copy(pix[src+i*stride:src+i*stride+n], pix[src:src+n])
		}
	}

	if !avail[TopLeft] && !avail[Top] && !avail[Left] {
		copyCorner(p, x-extX, y, extX, -extY)
	}
	if forClassification {
		return
	}
	if !avail[TopRight] && !avail[Top] && !avail[Right] {
		copyCorner(p, x+w, y, extX, -extY)
	}
	if !avail[BottomLeft] && !avail[Bottom] && !avail[Left] {
		copyCorner(p, x-extX, y+h-1, extX, extY)
	}
	if !avail[BottomRight] && !avail[Bottom] && !avail[Right] {
		copyCorner(p, x+w, y+h-1, extX, extY)
	}
}

// copyCorner replicates n samples of row y starting at x over |rows| rows
// above (rows < 0) or below it.
func copyCorner(p *picture.Plane, x, y, n, rows int) {
	step := p.Stride
	if rows < 0 {
		step, rows = -step, -rows
	}
	src := p.Offset(x, y)
	for i := 1; i <= rows; i++ {
		dst := src + i*step
		copy(p.Pix[dst:dst+n], p.Pix[src:src+n])
	}
}
