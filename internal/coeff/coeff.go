// Package coeff rebuilds the per-bin filter coefficient table of the
// adaptive loop filter from the compact form carried in the decoded
// parameters.
package coeff

import (
	"github.com/pkg/errors"

	"github.com/deepteams/alf/internal/shape"
)

// NumBins is the number of classification bins.
const NumBins = 16

// FixedPointShift is the precision of filter coefficients: a coefficient of
// 1 << FixedPointShift is a gain of one.
const FixedPointShift = 8

// Errors reported when the decoded parameters do not describe a valid set.
var (
	ErrFilterCount = errors.New("coeff: inconsistent filter counts")
	ErrCodedBins   = errors.New("coeff: coded bin count mismatch")
	ErrRowLength   = errors.New("coeff: coefficient row has wrong length")
	ErrBinMapping  = errors.New("coeff: bin maps to a missing filter")
)

// PredictDC applies the DC-term prediction to the centre tap of coeff in
// place. weights holds one quantization scale per spatial tap; the centre tap
// is the last of them. The transform is its own inverse.
func PredictDC(coeff, weights []int) {
	n := len(weights)
	sum := 0
	for i := 0; i < n-1; i++ {
		sum += weights[i] * coeff[i]
	}
	pred := 1<<FixedPointShift - sum
	coeff[n-1] = pred - coeff[n-1]
}

// Input is the compact coefficient representation of one picture.
type Input struct {
	// FiltersPerGroup is the number of filter rows after merging bins.
	FiltersPerGroup int

	// FiltersPerGroupDiff is the number of rows actually transmitted.
	FiltersPerGroupDiff int

	// PredMethod enables delta prediction between consecutive rows.
	PredMethod bool

	// ForceCoeff0 marks some rows as all-zero; CodedVarBins tells which rows
	// were transmitted.
	ForceCoeff0  bool
	CodedVarBins []bool

	// VarIndTab maps every classification bin to a filter row.
	VarIndTab [NumBins]int

	// Coeff holds FiltersPerGroupDiff dense rows of NumCoeff values each.
	Coeff [][]int

	// Disabled yields an all-zero table with every bin mapped to row 0.
	Disabled bool
}

// Validate checks in against shape s without touching any table.
func (in *Input) Validate(s *shape.Shape) error {
	if in.Disabled {
		return nil
	}
	fpg, diff := in.FiltersPerGroup, in.FiltersPerGroupDiff
	if fpg < 1 || fpg > NumBins || diff < 1 || diff > fpg {
		return errors.Wrapf(ErrFilterCount, "filtersPerGroup=%d filtersPerGroupDiff=%d", fpg, diff)
	}
	if len(in.Coeff) < diff {
		return errors.Wrapf(ErrFilterCount, "%d rows present, %d declared", len(in.Coeff), diff)
	}
	for i := 0; i < diff; i++ {
		if len(in.Coeff[i]) != s.NumCoeff() {
			return errors.Wrapf(ErrRowLength, "row %d has %d values, shape %s needs %d",
				i, len(in.Coeff[i]), s.Name, s.NumCoeff())
		}
	}
	if in.ForceCoeff0 {
		if diff >= fpg {
			return errors.Wrapf(ErrFilterCount, "forced-zero rows need filtersPerGroupDiff (%d) < filtersPerGroup (%d)", diff, fpg)
		}
		if len(in.CodedVarBins) < fpg {
			return errors.Wrapf(ErrCodedBins, "%d coded flags for %d rows", len(in.CodedVarBins), fpg)
		}
		coded := 0
		for _, c := range in.CodedVarBins[:fpg] {
			if c {
				coded++
			}
		}
		if coded != diff {
			return errors.Wrapf(ErrCodedBins, "%d rows flagged as coded, %d transmitted", coded, diff)
		}
	} else if diff != fpg {
		return errors.Wrapf(ErrFilterCount, "filtersPerGroupDiff=%d must equal filtersPerGroup=%d without forced-zero rows", diff, fpg)
	}
	for bin, row := range in.VarIndTab {
		if row < 0 || row >= fpg {
			return errors.Wrapf(ErrBinMapping, "bin %d maps to row %d of %d", bin, row, fpg)
		}
	}
	return nil
}

// Set is the reconstructed coefficient table: one sparse row per
// classification bin, laid out on the shape family's coefficient grid with
// the DC term in the last slot.
type Set struct {
	rows      [NumBins][]int
	sparseLen int
	shape     *shape.Shape

	// scratch rows, one per transmitted filter
	dense [][]int
}

// NewSet allocates a table for rows of sparseLen values.
func NewSet(sparseLen int) *Set {
	s := &Set{sparseLen: sparseLen}
	buf := make([]int, NumBins*sparseLen)
	for i := range s.rows {
		s.rows[i] = buf[i*sparseLen : (i+1)*sparseLen : (i+1)*sparseLen]
	}
	s.dense = make([][]int, NumBins)
	for i := range s.dense {
		s.dense[i] = make([]int, sparseLen)
	}
	return s
}

// Reconstruct allocates a table and fills it from in.
func Reconstruct(in Input, s *shape.Shape, sparseLen int) (*Set, error) {
	set := NewSet(sparseLen)
	if err := set.Reconstruct(&in, s); err != nil {
		return nil, err
	}
	return set, nil
}

// SparseLen returns the row length.
func (set *Set) SparseLen() int { return set.sparseLen }

// Shape returns the shape the table was last built for.
func (set *Set) Shape() *shape.Shape { return set.shape }

// Row returns the sparse coefficient row of bin. The slice aliases the table.
func (set *Set) Row(bin int) []int { return set.rows[bin] }

// Dense returns the coefficients of bin in shape order, DC last.
func (set *Set) Dense(bin int) []int {
	row := set.rows[bin]
	out := make([]int, 0, set.shape.NumCoeff())
	for _, p := range set.shape.Pos {
		out = append(out, row[p])
	}
	return append(out, row[set.sparseLen-1])
}

// Reconstruct rebuilds every row of the table from in for shape s. The table
// is fully rewritten; nothing of a previous picture survives. On error the
// table is left unchanged.
func (set *Set) Reconstruct(in *Input, s *shape.Shape) error {
	if err := in.Validate(s); err != nil {
		return err
	}
	if s.Pos[len(s.Pos)-1] >= set.sparseLen-1 {
		panic("coeff: shape does not fit the table layout")
	}
	set.shape = s
	for _, row := range set.rows {
		clear(row)
	}
	if in.Disabled {
		return nil
	}

	n := s.NumCoeff()
	diff := in.FiltersPerGroupDiff

	// Undo the inter-filter prediction into the first diff scratch rows.
	for i := 0; i < diff; i++ {
		d := set.dense[i][:n]
		copy(d, in.Coeff[i])
		if in.PredMethod && i > 0 {
			prev := set.dense[i-1][:n]
			for k := range d {
				d[k] += prev[k]
			}
		}
	}

	// Scatter the transmitted rows over the filter rows. Rows flagged as not
	// coded stay nil and read as zero.
	var filters [NumBins][]int
	if in.ForceCoeff0 {
		src := 0
		for i := 0; i < in.FiltersPerGroup; i++ {
			if in.CodedVarBins[i] {
				filters[i] = set.dense[src][:n]
				src++
			}
		}
	} else {
		for i := 0; i < in.FiltersPerGroup; i++ {
			filters[i] = set.dense[i][:n]
		}
	}

	dc := set.sparseLen - 1
	for bin := range set.rows {
		f := filters[in.VarIndTab[bin]]
		if f == nil {
			continue
		}
		row := set.rows[bin]
		for k, p := range s.Pos {
			row[p] = f[k]
		}
		row[dc] = f[n-1]
	}
	return nil
}
