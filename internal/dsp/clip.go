package dsp

// ClipPel clamps a filtered sample to [0, maxVal], where maxVal is
// (1<<bitDepth)-1 for the plane being written.
func ClipPel(v, maxVal int) uint16 {
	if uint(v) <= uint(maxVal) {
		return uint16(v)
	}
	// Negative sums go to 0, overflows to maxVal.
	return uint16(^(v >> 63) & maxVal)
}
