package alf

import (
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/deepteams/alf/internal/classify"
	"github.com/deepteams/alf/internal/coeff"
	"github.com/deepteams/alf/internal/dsp"
	"github.com/deepteams/alf/internal/pool"
	"github.com/deepteams/alf/internal/region"
	"github.com/deepteams/alf/internal/shape"
	"github.com/deepteams/alf/picture"
)

// Filter applies the adaptive loop filter to the pictures of one stream.
// All per-picture state is allocated once by New and reused.
//
// A Filter is not safe for concurrent use; Process spreads independent
// slices over Config.Workers goroutines itself.
type Filter struct {
	cfg Config
	cat *shape.Catalog
	geo *region.Geometry

	set     *coeff.Set
	classes *classify.Map
	grid    *classify.Map
	flags   *region.CtrlFlags
	chroma  []int

	// src holds the unfiltered picture with replicated borders.
	src *picture.Picture

	// part is the slice layout built for specs.
	part  *region.Partition
	specs []SliceSpec
}

// New returns a Filter for pictures described by cfg.
func New(cfg Config) (*Filter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	geo, err := region.NewGeometry(cfg.Width, cfg.Height, cfg.LCUSize, cfg.MaxCUDepth)
	if err != nil {
		return nil, errors.Wrapf(ErrConfig, "%v", err)
	}
	cat := shape.Lookup(cfg.Family)
	f := &Filter{
		cfg:     cfg,
		cat:     cat,
		geo:     geo,
		set:     coeff.NewSet(cat.SparseLen()),
		classes: classify.NewMap(cfg.Width, cfg.Height),
		grid:    classify.NewMap(cfg.Width, cfg.Height),
		flags:   region.NewCtrlFlags(geo),
		src:     picture.NewPicture(cfg.Width, cfg.Height, cfg.BitDepth),
	}
	classify.FillRegionGrid(f.grid, cfg.Width, cfg.Height)
	return f, nil
}

// Config returns the configuration the filter was built with.
func (f *Filter) Config() Config { return f.cfg }

// Geometry returns the LCU grid of the configured picture size.
func (f *Filter) Geometry() *Geometry { return f.geo }

// NewDepthMap returns a coding quad-tree with every LCU unsplit, to be
// filled with DepthMap.SetCU.
func (f *Filter) NewDepthMap() *DepthMap { return region.NewDepthMap(f.geo) }

// pass is the validated work of one Process call.
type pass struct {
	pic *picture.Picture

	// luma is nil when luma is not filtered, chroma when no chroma plane is.
	luma   *shape.Shape
	chroma *shape.Shape
	cb, cr bool

	method  ClassMethod
	classes *classify.Map
	tree    QuadTree

	// adaptive is set when at least one enable flag list is in effect.
	adaptive bool

	part      *region.Partition
	sliceCtrl []bool
}

func (ps *pass) chromaPlanes() []picture.Component {
	var cs []picture.Component
	if ps.cb {
		cs = append(cs, picture.Cb)
	}
	if ps.cr {
		cs = append(cs, picture.Cr)
	}
	return cs
}

// Process filters pic in place.
//
// ctrl carries the CU enable flags: nothing for an unconditionally filtered
// picture, one entry for an unsliced picture, or one entry per slice. tree
// is the coding quad-tree the flags refer to; it may be nil when no entry of
// ctrl is enabled. specs lists the slices in decoding order and may be nil
// for a single-slice picture.
//
// Every parameter is checked before any sample is written. An error wrapping
// ErrContract leaves pic unchanged.
func (f *Filter) Process(pic *picture.Picture, p *Params, ctrl []CUControl, tree QuadTree, specs []SliceSpec) error {
	if p == nil {
		return errors.Wrap(ErrContract, "nil parameters")
	}
	if !p.Enabled {
		return nil
	}
	ps, err := f.prepare(pic, p, ctrl, tree, specs)
	if err != nil {
		return err
	}
	if ps.luma == nil && ps.chroma == nil {
		return nil
	}

	for c := picture.Luma; c <= picture.Cr; c++ {
		src := f.src.Plane(c)
		src.CopyRect(pic.Plane(c), 0, 0, src.Width, src.Height)
		src.ExtendBorders()
	}

	if f.cfg.NonCrossSlices {
		return f.filterSlices(ps)
	}
	f.filterFrame(ps)
	return nil
}

func (f *Filter) prepare(pic *picture.Picture, p *Params, ctrl []CUControl, tree QuadTree, specs []SliceSpec) (*pass, error) {
	if err := f.checkPicture(pic); err != nil {
		return nil, err
	}
	ps := &pass{pic: pic, method: p.ClassMethod, tree: tree}

	if !p.Disabled {
		if !f.cat.ValidLuma(p.Shape) {
			return nil, errors.Wrapf(ErrContract, "luma shape %d not in the %s catalog", p.Shape, f.cat.Family)
		}
		ps.luma = f.cat.Luma(p.Shape)
		switch p.ClassMethod {
		case Gradient:
			ps.classes = f.classes
		case RegionGrid:
			ps.classes = f.grid
		default:
			return nil, errors.Wrapf(ErrContract, "unknown classification method %d", int(p.ClassMethod))
		}
	}

	c := &p.Chroma
	if c.Idc < 0 || c.Idc > 3 {
		return nil, errors.Wrapf(ErrContract, "chroma idc %d outside [0, 3]", c.Idc)
	}
	if c.Idc != 0 {
		if !f.cat.ValidChroma(c.Shape) {
			return nil, errors.Wrapf(ErrContract, "chroma shape %d not in the %s catalog", c.Shape, f.cat.Family)
		}
		ps.chroma = f.cat.Chroma(c.Shape)
		if len(c.Coeff) != ps.chroma.NumCoeff() {
			return nil, errors.Wrapf(ErrContract, "chroma row has %d values, shape %s needs %d",
				len(c.Coeff), ps.chroma.Name, ps.chroma.NumCoeff())
		}
		ps.cb, ps.cr = c.filterCb(), c.filterCr()
	}

	if err := f.assignControl(ps, ctrl, tree, specs); err != nil {
		return nil, err
	}

	// The coefficient table goes last: it is rewritten only once everything
	// else is known to hold.
	if ps.luma != nil {
		if err := f.reconstruct(p, ps.luma); err != nil {
			return nil, err
		}
	}
	if ps.chroma != nil {
		f.chroma = append(f.chroma[:0], c.Coeff...)
		coeff.PredictDC(f.chroma, ps.chroma.Weights)
	}
	return ps, nil
}

func (f *Filter) checkPicture(pic *picture.Picture) error {
	if pic == nil || pic.Y == nil || pic.Cb == nil || pic.Cr == nil {
		return errors.Wrap(ErrContract, "incomplete picture")
	}
	if pic.BitDepth != f.cfg.BitDepth {
		return errors.Wrapf(ErrContract, "picture bit depth %d, filter configured for %d", pic.BitDepth, f.cfg.BitDepth)
	}
	for c := picture.Luma; c <= picture.Cr; c++ {
		got, want := pic.Plane(c), f.src.Plane(c)
		if got.Width != want.Width || got.Height != want.Height || got.X0 != 0 || got.Y0 != 0 {
			return errors.Wrapf(ErrContract, "%s plane is %dx%d at (%d, %d), want %dx%d at the origin",
				c, got.Width, got.Height, got.X0, got.Y0, want.Width, want.Height)
		}
	}
	return nil
}

func (f *Filter) reconstruct(p *Params, s *shape.Shape) error {
	in := coeff.Input{
		FiltersPerGroup:     p.FiltersPerGroup,
		FiltersPerGroupDiff: p.FiltersPerGroupDiff,
		PredMethod:          p.PredMethod,
		ForceCoeff0:         p.ForceCoeff0,
		CodedVarBins:        p.CodedVarBins,
		VarIndTab:           p.VarIndTab,
		Coeff:               p.Coeff,
	}
	if p.PredictLumaDC {
		if err := in.Validate(s); err != nil {
			return contract(err, "luma filter set")
		}
		rows := make([][]int, in.FiltersPerGroupDiff)
		for i := range rows {
			rows[i] = slices.Clone(p.Coeff[i])
			coeff.PredictDC(rows[i], s.Weights)
		}
		in.Coeff = rows
	}
	if err := f.set.Reconstruct(&in, s); err != nil {
		return contract(err, "luma filter set")
	}
	return nil
}

// assignControl builds the slice layout and expands every enable flag list
// onto the SUs it covers. Slices without a list are enabled throughout.
func (f *Filter) assignControl(ps *pass, ctrl []CUControl, tree QuadTree, specs []SliceSpec) error {
	if f.cfg.NonCrossSlices && len(specs) == 0 {
		specs = []SliceSpec{{Start: 0, End: f.geo.NumSUInPicture() - 1}}
	}

	if len(specs) == 0 {
		switch {
		case len(ctrl) > 1:
			return errors.Wrapf(ErrContract, "%d CU control lists for an unsliced picture", len(ctrl))
		case len(ctrl) == 0 || !ctrl[0].Enabled:
			return nil
		case tree == nil:
			return errors.Wrap(ErrContract, "CU control without a coding quad-tree")
		}
		if err := region.AssignFrameFlags(f.geo, tree, ctrl[0].MaxDepth, ctrl[0].Flags, f.flags); err != nil {
			return contract(err, "CU control flags")
		}
		ps.adaptive = true
		return nil
	}

	part, err := f.partition(specs)
	if err != nil {
		return contract(err, "slice layout")
	}
	if len(ctrl) != 0 && len(ctrl) != len(part.Slices) {
		return errors.Wrapf(ErrContract, "%d CU control lists for %d slices", len(ctrl), len(part.Slices))
	}
	ps.part = part
	ps.sliceCtrl = make([]bool, len(part.Slices))
	for i, s := range part.Slices {
		if len(ctrl) == 0 || !ctrl[i].Enabled {
			s.SetFlags(true, f.flags)
			continue
		}
		if tree == nil {
			return errors.Wrapf(ErrContract, "slice %d: CU control without a coding quad-tree", i)
		}
		if _, err := s.AssignFlags(tree, ctrl[i].MaxDepth, ctrl[i].Flags, f.flags); err != nil {
			return contract(err, "slice %d CU control flags", i)
		}
		ps.sliceCtrl[i] = true
		ps.adaptive = true
	}
	return nil
}

// partition returns the slice layout of specs, rebuilding it only when the
// slice boundaries change.
func (f *Filter) partition(specs []SliceSpec) (*region.Partition, error) {
	if f.part != nil && slices.Equal(f.specs, specs) {
		return f.part, nil
	}
	part, err := region.BuildSlices(f.geo, specs, f.cfg.SliceGranularityDepth)
	if err != nil {
		return nil, err
	}
	f.part = part
	f.specs = append(f.specs[:0], specs...)
	return part, nil
}

// filterFrame filters the whole picture, reading across slice boundaries.
func (f *Filter) filterFrame(ps *pass) {
	pic := ps.pic
	if ps.luma != nil {
		classify.For(ps.method).Classify(f.src.Y, ps.classes, 0, 0, f.cfg.Width, f.cfg.Height, pic.BitDepth)
		maxVal := pic.MaxValue()
		filter := func(x, y, w, h int) {
			dsp.LumaFilter(pic.Y, f.src.Y, f.set, ps.classes, ps.luma, x, y, w, h, maxVal)
		}
		if ps.adaptive {
			region.WalkCU(f.geo, ps.tree, f.flags, filter)
		} else {
			filter(0, 0, f.cfg.Width, f.cfg.Height)
		}
	}
	for _, c := range ps.chromaPlanes() {
		dsp.ChromaFilter(pic.Plane(c), f.src.Plane(c), f.chroma, ps.chroma, 0, 0, f.cfg.Width/2, f.cfg.Height/2, pic.BitDepth)
	}
}

// filterSlices filters every slice on its own, up to Config.Workers at once.
func (f *Filter) filterSlices(ps *pass) error {
	var g errgroup.Group
	g.SetLimit(max(f.cfg.Workers, 1))
	for i, s := range ps.part.Slices {
		if !s.Valid {
			continue
		}
		i, s := i, s
		g.Go(func() error {
			f.filterSlice(ps, s, ps.sliceCtrl[i])
			return nil
		})
	}
	return g.Wait()
}

// filterSlice filters one slice from a private copy of the source samples
// around it. Each SGU is padded for classification right before it is
// classified; every SGU is padded for filtering before the first one is
// filtered.
func (f *Filter) filterSlice(ps *pass, s *region.Slice, ctrl bool) {
	pic := ps.pic
	x0, y0, x1, y1 := s.Bounds()

	if ps.luma != nil {
		win := f.window(f.src.Y, x0, y0, x1-x0, y1-y0)
		if ps.method == Gradient {
			s.ForEachSGU(func(u *region.SGU) {
				region.ExtendBorder(win, u.X, u.Y, u.Width, u.Height, &u.Avail, 1, 1, true)
				classify.Classify(win, ps.classes, u.X, u.Y, u.Width, u.Height, pic.BitDepth)
			})
		}
		s.ForEachSGU(func(u *region.SGU) {
			region.ExtendBorder(win, u.X, u.Y, u.Width, u.Height, &u.Avail, ps.luma.HalfWidth, ps.luma.HalfHeight, false)
		})
		maxVal := pic.MaxValue()
		for _, lu := range s.LCUs {
			for i := range lu.SGUs {
				u := &lu.SGUs[i]
				if !ctrl {
					dsp.LumaFilter(pic.Y, win, f.set, ps.classes, ps.luma, u.X, u.Y, u.Width, u.Height, maxVal)
					continue
				}
				for z := u.StartSU; z <= u.EndSU; z++ {
					if !f.geo.SUInside(lu.Addr, z) || !f.flags.Enabled(lu.Addr, z) {
						continue
					}
					x, y := f.geo.SUPos(lu.Addr, z)
					dsp.LumaFilter(pic.Y, win, f.set, ps.classes, ps.luma, x, y, f.geo.SUSize, f.geo.SUSize, maxVal)
				}
			}
		}
		pool.Put(win.Pix)
	}

	cs := ps.chroma
	for _, c := range ps.chromaPlanes() {
		win := f.window(f.src.Plane(c), x0/2, y0/2, (x1-x0)/2, (y1-y0)/2)
		s.ForEachSGU(func(u *region.SGU) {
			region.ExtendBorder(win, u.X/2, u.Y/2, u.Width/2, u.Height/2, &u.Avail, cs.HalfWidth, cs.HalfHeight, false)
		})
		s.ForEachSGU(func(u *region.SGU) {
			dsp.ChromaFilter(pic.Plane(c), win, f.chroma, cs, u.X/2, u.Y/2, u.Width/2, u.Height/2, pic.BitDepth)
		})
		pool.Put(win.Pix)
	}
}

// window copies a rectangle of p, with its margin, into a pooled buffer.
func (f *Filter) window(p *picture.Plane, x, y, w, h int) *picture.Plane {
	m := picture.DefaultMargin
	return p.Window(x, y, w, h, m, pool.Get((w+2*m)*(h+2*m)))
}
