package alf

// Params holds the decoded filter parameters of one picture.
type Params struct {
	// Enabled switches the filter on for the picture. When false Process
	// returns without touching anything.
	Enabled bool `json:"enabled"`

	// Shape is the luma shape id in the configured catalog.
	Shape int `json:"shape"`

	// ClassMethod selects gradient classification or the static grid.
	ClassMethod ClassMethod `json:"class_method"`

	// FiltersPerGroup is the number of filter rows after bin merging;
	// FiltersPerGroupDiff the number of rows transmitted in Coeff.
	FiltersPerGroup     int `json:"filters_per_group"`
	FiltersPerGroupDiff int `json:"filters_per_group_diff"`

	// VarIndTab maps every bin to a filter row.
	VarIndTab [NumBins]int `json:"var_ind_tab"`

	// Coeff holds one row per transmitted filter: one value per tap of the
	// shape followed by the DC term.
	Coeff [][]int `json:"coeff"`

	// ForceCoeff0 marks rows not listed in CodedVarBins as all-zero.
	ForceCoeff0  bool   `json:"force_coeff0"`
	CodedVarBins []bool `json:"coded_var_bins"`

	// PredMethod codes every row after the first as a delta to its
	// predecessor.
	PredMethod bool `json:"pred_method"`

	// PredictLumaDC applies DC-term prediction to the centre tap of every
	// luma row. Entropy decoders that already did so leave it unset.
	PredictLumaDC bool `json:"predict_luma_dc"`

	// Disabled leaves luma unfiltered while chroma is still processed.
	Disabled bool `json:"disabled"`

	Chroma ChromaParams `json:"chroma"`
}

// ChromaParams holds the single chroma filter of a picture. Its DC term is
// always predicted.
type ChromaParams struct {
	// Idc selects the filtered planes: bit 1 Cb, bit 0 Cr.
	Idc int `json:"idc"`

	// Shape is the chroma shape id in the configured catalog.
	Shape int `json:"shape"`

	// Coeff holds one value per tap followed by the DC term.
	Coeff []int `json:"coeff"`
}

// CUControl switches the filter per coding unit inside one slice, or inside
// the whole picture when slices are not used.
type CUControl struct {
	Enabled bool `json:"enabled"`

	// MaxDepth is the deepest quad-tree level that carries its own flag;
	// deeper coding units share the flag of their ancestor at MaxDepth.
	MaxDepth int `json:"max_depth"`

	// Flags holds one enable flag per flagged coding unit, in z-scan order.
	Flags []bool `json:"flags"`
}

func (c *ChromaParams) filterCb() bool { return c.Idc&2 != 0 }
func (c *ChromaParams) filterCr() bool { return c.Idc&1 != 0 }
