package classify

import "github.com/deepteams/alf/picture"

// regionTable orders the 16 grid regions so that neighbouring regions get
// consecutive bins.
var regionTable = [16]uint8{0, 1, 4, 5, 15, 2, 3, 6, 14, 11, 10, 7, 13, 12, 9, 8}

type regionGrid struct{}

// Classify does nothing: the grid depends only on the picture size and is
// built once by FillRegionGrid.
func (regionGrid) Classify(*picture.Plane, *Map, int, int, int, int, int) {}

// FillRegionGrid splits a picture of the given size into 4x4 regions aligned
// on 64 samples and stores the bin of every block in m. The last region
// column and row absorb the remainder.
func FillRegionGrid(m *Map, picWidth, picHeight int) {
	xInterval := ((picWidth+63)/64 + 1) / 4 * 64 >> BlockShift
	yInterval := ((picHeight+63)/64 + 1) / 4 * 64 >> BlockShift
	blocksW := picWidth >> BlockShift
	blocksH := picHeight >> BlockShift

	for ry := 0; ry < 4; ry++ {
		y0 := ry * yInterval
		y1 := y0 + yInterval
		if ry == 3 {
			y1 = blocksH
		}
		for by := y0; by < min(y1, blocksH); by++ {
			row := m.Row(by)
			for rx := 0; rx < 4; rx++ {
				x0 := rx * xInterval
				x1 := x0 + xInterval
				if rx == 3 {
					x1 = blocksW
				}
				for bx := x0; bx < min(x1, blocksW); bx++ {
					row[bx] = regionTable[ry*4+rx]
				}
			}
		}
	}
}
