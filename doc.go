// Package alf implements the adaptive loop filter (ALF) of a block-based
// video decoder: a Wiener-style FIR filter applied to a reconstructed
// picture, with coefficients chosen per 4x4 luma block by local activity and
// direction.
//
// The package supports:
//   - Two shape catalogs: diamonds (with square chroma supports) and
//     star/cross shapes
//   - Gradient block classification and a static 4x4 region grid
//   - Whole-frame filtering and CU-adaptive filtering driven by a coding
//     quad-tree and one enable flag per coding unit
//   - Independent slices filtered with slice-local border padding, in
//     parallel when Config.Workers > 1
//   - 8 to 12 bit 4:2:0 pictures, with optional Cb and Cr filtering
//
// Basic usage:
//
//	f, err := alf.New(alf.DefaultConfig(width, height))
//	if err != nil {
//		return err
//	}
//	err = f.Process(pic, params, nil, nil, nil)
//
// Decoded parameters are checked in full before the picture is touched: a
// malformed set returns an error matching ErrContract and leaves the picture
// as it was.
package alf
