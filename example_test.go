package alf_test

import (
	"errors"
	"fmt"

	"github.com/deepteams/alf"
	"github.com/deepteams/alf/picture"
)

// stepPicture returns a 32x32 picture whose left half is dark and right
// half bright, with flat chroma.
func stepPicture() *picture.Picture {
	pic := picture.NewPicture(32, 32, 8)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := uint16(60)
			if x >= 16 {
				v = 200
			}
			pic.Y.Set(x, y, v)
		}
	}
	pic.Cb.Fill(60)
	pic.Cr.Fill(60)
	return pic
}

func ExampleFilter_Process() {
	f, err := alf.New(alf.DefaultConfig(32, 32))
	if err != nil {
		fmt.Println(err)
		return
	}
	pic := stepPicture()

	p := &alf.Params{
		Enabled:             true,
		Shape:               2, // 5x5 diamond: six tap pairs, centre, DC
		FiltersPerGroup:     1,
		FiltersPerGroupDiff: 1,
		Coeff:               [][]int{{8, 8, 8, 8, 8, 8, 160, 0}},
		Chroma: alf.ChromaParams{
			Idc:   3,
			Shape: 2, // 5x5 square: twelve tap pairs, centre, DC
			Coeff: []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 512},
		},
	}
	if err := f.Process(pic, p, nil, nil, nil); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Y:", pic.Y.At(4, 16), pic.Y.At(15, 16), pic.Y.At(16, 16), pic.Y.At(28, 16))
	fmt.Println("Cb:", pic.Cb.At(3, 3), "Cr:", pic.Cr.At(12, 7))
	// Output:
	// Y: 60 78 183 200
	// Cb: 62 Cr: 62
}

func ExampleFilter_Process_contractViolation() {
	f, err := alf.New(alf.DefaultConfig(32, 32))
	if err != nil {
		fmt.Println(err)
		return
	}
	pic := stepPicture()

	p := &alf.Params{
		Enabled:             true,
		Shape:               2,
		FiltersPerGroup:     1,
		FiltersPerGroupDiff: 2,
		Coeff:               [][]int{{0, 0, 0, 0, 0, 0, 256, 0}},
	}
	err = f.Process(pic, p, nil, nil, nil)
	fmt.Println(errors.Is(err, alf.ErrContract))
	fmt.Println("Y:", pic.Y.At(15, 16))
	// Output:
	// true
	// Y: 60
}

func ExampleDefaultConfig() {
	cfg := alf.DefaultConfig(1920, 1080)
	fmt.Printf("%dx%d, %d-bit, %s shapes\n", cfg.Width, cfg.Height, cfg.BitDepth, cfg.Family)
	fmt.Printf("LCU %d, smallest unit %d\n", cfg.LCUSize, cfg.LCUSize>>cfg.MaxCUDepth)
	// Output:
	// 1920x1080, 8-bit, diamond shapes
	// LCU 64, smallest unit 4
}
