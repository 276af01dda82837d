package region

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepteams/alf/picture"
)

func ramp(w, h int) *picture.Plane {
	p := picture.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(x, y, uint16(x+w*y))
		}
	}
	p.ExtendBorders()
	return p
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func TestExtendBorderReplicatesEdges(t *testing.T) {
	p := ramp(16, 16)
	orig := p.Clone()
	var none [NumDirections]bool
	ExtendBorder(p, 0, 0, 8, 8, &none, 4, 4, false)

	for y := -4; y < 12; y++ {
		for x := -4; x < 12; x++ {
			want := orig.At(clamp(x, 0, 7), clamp(y, 0, 7))
			assert.Equal(t, want, p.At(x, y), "(%d, %d)", x, y)
		}
	}
}

func TestExtendBorderForClassification(t *testing.T) {
	p := ramp(16, 16)
	orig := p.Clone()
	var none [NumDirections]bool
	ExtendBorder(p, 4, 4, 8, 8, &none, 3, 3, true)

	for i := 4; i < 12; i++ {
		assert.Equal(t, orig.At(4, i), p.At(3, i), "left %d", i)
		assert.Equal(t, orig.At(i, 4), p.At(i, 3), "top %d", i)
		assert.Equal(t, orig.At(12, i), p.At(12, i), "right untouched")
		assert.Equal(t, orig.At(i, 12), p.At(i, 12), "bottom untouched")
		assert.Equal(t, orig.At(i, 2), p.At(i, 2), "one sample deep")
	}
	assert.Equal(t, orig.At(4, 4), p.At(3, 3))
}

func TestExtendBorderNarrowsNextToAvailableCorner(t *testing.T) {
	p := ramp(16, 16)
	orig := p.Clone()
	avail := [NumDirections]bool{true, true, false, true, true, true, true, true}
	ExtendBorder(p, 4, 4, 8, 8, &avail, 2, 2, false)

	for _, y := range []int{2, 3} {
		for x := 4; x < 10; x++ {
			assert.Equal(t, orig.At(x, 4), p.At(x, y), "(%d, %d)", x, y)
		}
		for x := 10; x < 12; x++ {
			assert.Equal(t, orig.At(x, y), p.At(x, y), "top-right neighbour kept (%d, %d)", x, y)
		}
	}
	assert.Equal(t, orig.At(3, 3), p.At(3, 3))
	assert.Equal(t, orig.At(3, 8), p.At(3, 8))
}

func TestExtendBorderKeepsAvailableCorner(t *testing.T) {
	p := ramp(16, 16)
	orig := p.Clone()
	var avail [NumDirections]bool
	avail[TopLeft] = true
	ExtendBorder(p, 4, 4, 8, 8, &avail, 2, 2, false)

	assert.Equal(t, orig.At(2, 2), p.At(2, 2))
	assert.Equal(t, orig.At(3, 3), p.At(3, 3))
	assert.Equal(t, orig.At(4, 4), p.At(3, 4), "left side still padded")
	assert.Equal(t, orig.At(4, 4), p.At(4, 3), "top side still padded")
	assert.Equal(t, orig.At(11, 11), p.At(13, 13), "other corners padded")
}
