package alf

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/deepteams/alf/picture"
)

func loadTestPicture(b *testing.B, w, h int) *picture.Picture {
	b.Helper()
	pic := picture.NewPicture(w, h, 8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pic.Y.Set(x, y, uint16((x+2*y)%256))
		}
	}
	for y := 0; y < h/2; y++ {
		for x := 0; x < w/2; x++ {
			pic.Cb.Set(x, y, uint16(x%256))
			pic.Cr.Set(x, y, uint16(y%256))
		}
	}
	return pic
}

func benchmarkProcess(b *testing.B, cfg Config, shapeID int, specs []SliceSpec) {
	f, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	src := loadTestPicture(b, cfg.Width, cfg.Height)
	p := randomParams(rand.New(rand.NewSource(1)), f, shapeID, shapeID)
	pic := src.Clone()
	b.SetBytes(int64(cfg.Width * cfg.Height * 3 / 2))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := f.Process(pic, p, nil, nil, specs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcess(b *testing.B) {
	for _, shapeID := range []int{0, 1, 2} {
		b.Run(fmt.Sprintf("diamond%d", shapeID), func(b *testing.B) {
			benchmarkProcess(b, DefaultConfig(1280, 720), shapeID, nil)
		})
	}
}

func BenchmarkProcessStarCross(b *testing.B) {
	cfg := DefaultConfig(1280, 720)
	cfg.Family = StarCross
	for _, shapeID := range []int{0, 1} {
		b.Run(fmt.Sprintf("shape%d", shapeID), func(b *testing.B) {
			benchmarkProcess(b, cfg, shapeID, nil)
		})
	}
}

// BenchmarkProcessSlices filters 720p pictures split into one slice per LCU
// row, sequentially and on every CPU.
func BenchmarkProcessSlices(b *testing.B) {
	cfg := DefaultConfig(1280, 720)
	cfg.NonCrossSlices = true
	g, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	geo := g.Geometry()
	perRow := geo.LCUCols * geo.NumSU
	var specs []SliceSpec
	for r := 0; r < geo.LCURows; r++ {
		specs = append(specs, SliceSpec{Start: r * perRow, End: (r+1)*perRow - 1})
	}
	for _, workers := range []int{1, cfg.Workers} {
		cfg.Workers = workers
		b.Run(fmt.Sprintf("workers%d", workers), func(b *testing.B) {
			benchmarkProcess(b, cfg, 1, specs)
		})
	}
}
