package coeff

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/alf/internal/shape"
)

func randomRow(rng *rand.Rand, n int) []int {
	row := make([]int, n)
	for i := range row {
		row[i] = rng.Intn(512) - 256
	}
	return row
}

func TestPredictDCRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, f := range []shape.Family{shape.Diamond, shape.StarCross} {
		c := shape.Lookup(f)
		for id := 0; id < c.NumLuma(); id++ {
			s := c.Luma(id)
			for trial := 0; trial < 20; trial++ {
				orig := randomRow(rng, s.NumCoeff())
				got := append([]int(nil), orig...)
				PredictDC(got, s.Weights)
				PredictDC(got, s.Weights)
				require.Equal(t, orig, got, s.Name)
			}
		}
		for id := 0; id < c.NumChroma(); id++ {
			s := c.Chroma(id)
			orig := randomRow(rng, s.NumCoeff())
			got := append([]int(nil), orig...)
			PredictDC(got, s.Weights)
			PredictDC(got, s.Weights)
			require.Equal(t, orig, got, s.Name)
		}
	}
}

func TestPredictDCIdentity(t *testing.T) {
	// All spatial taps zero: the centre becomes 256 minus the transmitted value.
	s := shape.Lookup(shape.Diamond).Luma(2)
	row := make([]int, s.NumCoeff())
	PredictDC(row, s.Weights)
	assert.Equal(t, 1<<FixedPointShift, row[s.NumTaps()-1])
	assert.Equal(t, 0, row[s.NumTaps()], "DC slot untouched")

	row = make([]int, s.NumCoeff())
	row[0] = 3
	row[s.NumTaps()-1] = 10
	PredictDC(row, s.Weights)
	assert.Equal(t, 256-2*3-10, row[s.NumTaps()-1])
}

func TestReconstructForcedZero(t *testing.T) {
	s := shape.Lookup(shape.Diamond).Luma(1)
	rng := rand.New(rand.NewSource(7))
	in := Input{
		FiltersPerGroup:     6,
		FiltersPerGroupDiff: 3,
		ForceCoeff0:         true,
		CodedVarBins:        []bool{false, true, false, true, true, false},
	}
	for i := 0; i < 3; i++ {
		in.Coeff = append(in.Coeff, randomRow(rng, s.NumCoeff()))
	}
	for bin := range in.VarIndTab {
		in.VarIndTab[bin] = bin % 6
	}
	set, err := Reconstruct(in, s, 42)
	require.NoError(t, err)

	nonZero := map[int][]int{}
	for bin := 0; bin < NumBins; bin++ {
		d := set.Dense(bin)
		row := in.VarIndTab[bin]
		if !in.CodedVarBins[row] {
			assert.Equal(t, make([]int, s.NumCoeff()), d, "bin %d", bin)
			continue
		}
		nonZero[row] = d
	}
	assert.Len(t, nonZero, in.FiltersPerGroupDiff)
	assert.Equal(t, in.Coeff[0], nonZero[1])
	assert.Equal(t, in.Coeff[1], nonZero[3])
	assert.Equal(t, in.Coeff[2], nonZero[4])
}

func TestReconstructDeltaPrediction(t *testing.T) {
	s := shape.Lookup(shape.StarCross).Luma(0)
	in := Input{
		FiltersPerGroup:     3,
		FiltersPerGroupDiff: 3,
		PredMethod:          true,
	}
	for i := 0; i < 3; i++ {
		row := make([]int, s.NumCoeff())
		for k := range row {
			row[k] = i + k
		}
		in.Coeff = append(in.Coeff, row)
	}
	for bin := range in.VarIndTab {
		in.VarIndTab[bin] = min(bin, 2)
	}
	set, err := Reconstruct(in, s, 29)
	require.NoError(t, err)

	for k := 0; k < s.NumCoeff(); k++ {
		assert.Equal(t, k, set.Dense(0)[k])
		assert.Equal(t, k+(1+k), set.Dense(1)[k])
		assert.Equal(t, k+(1+k)+(2+k), set.Dense(15)[k])
	}
}

func TestReconstructSparseLayout(t *testing.T) {
	s := shape.Lookup(shape.Diamond).Luma(2)
	row := make([]int, s.NumCoeff())
	for k := range row {
		row[k] = 100 + k
	}
	in := Input{FiltersPerGroup: 1, FiltersPerGroupDiff: 1, Coeff: [][]int{row}}
	set, err := Reconstruct(in, s, 42)
	require.NoError(t, err)

	sparse := set.Row(9)
	require.Len(t, sparse, 42)
	inShape := map[int]bool{}
	for k, p := range s.Pos {
		inShape[p] = true
		assert.Equal(t, 100+k, sparse[p])
	}
	assert.Equal(t, 100+s.NumTaps(), sparse[41])
	for p := 0; p < 41; p++ {
		if !inShape[p] {
			assert.Zero(t, sparse[p], "position %d", p)
		}
	}
}

func TestReconstructDisabled(t *testing.T) {
	s := shape.Lookup(shape.Diamond).Luma(0)
	set := NewSet(42)
	in := &Input{FiltersPerGroup: 1, FiltersPerGroupDiff: 1, Coeff: [][]int{randomRow(rand.New(rand.NewSource(3)), s.NumCoeff())}}
	require.NoError(t, set.Reconstruct(in, s))

	require.NoError(t, set.Reconstruct(&Input{Disabled: true}, s))
	for bin := 0; bin < NumBins; bin++ {
		for _, v := range set.Row(bin) {
			require.Zero(t, v)
		}
	}
}

func TestReconstructContractViolations(t *testing.T) {
	s := shape.Lookup(shape.Diamond).Luma(2)
	row := func() []int { return make([]int, s.NumCoeff()) }
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"diff above groups", Input{FiltersPerGroup: 2, FiltersPerGroupDiff: 3, Coeff: [][]int{row(), row(), row()}}, ErrFilterCount},
		{"diff below groups without forced zero", Input{FiltersPerGroup: 3, FiltersPerGroupDiff: 2, Coeff: [][]int{row(), row()}}, ErrFilterCount},
		{"forced zero with equal counts", Input{FiltersPerGroup: 2, FiltersPerGroupDiff: 2, ForceCoeff0: true, CodedVarBins: []bool{true, true}, Coeff: [][]int{row(), row()}}, ErrFilterCount},
		{"coded count mismatch", Input{FiltersPerGroup: 3, FiltersPerGroupDiff: 1, ForceCoeff0: true, CodedVarBins: []bool{true, true, false}, Coeff: [][]int{row()}}, ErrCodedBins},
		{"short row", Input{FiltersPerGroup: 1, FiltersPerGroupDiff: 1, Coeff: [][]int{{1, 2}}}, ErrRowLength},
		{"missing rows", Input{FiltersPerGroup: 2, FiltersPerGroupDiff: 2, Coeff: [][]int{row()}}, ErrFilterCount},
		{"too many groups", Input{FiltersPerGroup: 17, FiltersPerGroupDiff: 17}, ErrFilterCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewSet(42)
			before := append([]int(nil), set.Row(0)...)
			err := set.Reconstruct(&tt.in, s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, before, set.Row(0))
		})
	}

	in := Input{FiltersPerGroup: 2, FiltersPerGroupDiff: 2, Coeff: [][]int{row(), row()}}
	in.VarIndTab[5] = 2
	_, err := Reconstruct(in, s, 42)
	assert.True(t, errors.Is(err, ErrBinMapping))
}
