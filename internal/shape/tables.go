package shape

// Shape definitions. Each pattern lists the grid positions of the taps of the
// upper half of the support in raster order, ending with the centre tap. The
// grid is GridWidth x GridHeight and centred on the filtered sample; the
// lower half of the support is the point reflection of the upper half.
//
// Weights are the quantization scale factors of the taps: every tap that
// stands for a symmetric pair counts twice, the centre once.

// Diamond family, 9x9 grid.
var (
	diamond9Pattern = []int{
		4,
		12, 13, 14,
		20, 21, 22, 23, 24,
		28, 29, 30, 31, 32, 33, 34,
		36, 37, 38, 39, 40,
	}
	diamond7Pattern = []int{
		13,
		21, 22, 23,
		29, 30, 31, 32, 33,
		37, 38, 39, 40,
	}
	diamond5Pattern = []int{
		22,
		30, 31, 32,
		38, 39, 40,
	}
)

// Star/cross family, 11x5 grid.
var (
	star5Pattern = []int{
		3, 5, 7,
		15, 16, 17,
		25, 26, 27,
	}
	cross11Pattern = []int{
		5,
		16,
		22, 23, 24, 25, 26, 27,
	}
)

// squarePattern returns the pattern of an n x n square support inside a 9x9
// grid. Chroma of the diamond family uses square supports.
func squarePattern(n int) []int {
	h := n / 2
	var p []int
	for dy := -h; dy <= 0; dy++ {
		for dx := -h; dx <= h; dx++ {
			if dy == 0 && dx > 0 {
				break
			}
			p = append(p, (dy+4)*9+dx+4)
		}
	}
	return p
}

// pairWeights returns n weights of 2 followed by the centre weight 1.
func pairWeights(taps int) []int {
	w := make([]int, taps)
	for i := range w {
		w[i] = 2
	}
	w[taps-1] = 1
	return w
}
