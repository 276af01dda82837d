package region

import "github.com/pkg/errors"

// ErrFlagCount is returned when the decoded control flags do not match the
// number of units that carry one.
var ErrFlagCount = errors.New("region: control flag count mismatch")

// QuadTree reports the coding quad-tree of every LCU: the depth of the
// coding unit that contains SU z.
type QuadTree interface {
	Depth(lcu, z int) int
}

// UniformTree splits every LCU down to the same depth.
type UniformTree int

// Depth implements QuadTree.
func (t UniformTree) Depth(int, int) int { return int(t) }

// DepthMap records an arbitrary coding quad-tree, one depth per SU.
type DepthMap struct {
	geo   *Geometry
	depth []uint8
}

// NewDepthMap returns a map with every LCU left unsplit.
func NewDepthMap(g *Geometry) *DepthMap {
	return &DepthMap{geo: g, depth: make([]uint8, g.NumSUInPicture())}
}

// Depth implements QuadTree.
func (d *DepthMap) Depth(lcu, z int) int {
	return int(d.depth[lcu*d.geo.NumSU+z])
}

// SetCU records a coding unit of the given depth starting at SU z.
func (d *DepthMap) SetCU(lcu, z, depth int) {
	base := lcu*d.geo.NumSU + z
	n := d.geo.partsAt(depth)
	for i := base; i < base+n; i++ {
		d.depth[i] = uint8(depth)
	}
}

// CtrlFlags holds the filter enable flag of every SU of a picture.
type CtrlFlags struct {
	geo *Geometry
	on  []bool
}

// NewCtrlFlags returns a picture with every SU disabled.
func NewCtrlFlags(g *Geometry) *CtrlFlags {
	return &CtrlFlags{geo: g, on: make([]bool, g.NumSUInPicture())}
}

// Enabled reports the flag of SU z of an LCU.
func (f *CtrlFlags) Enabled(lcu, z int) bool { return f.on[lcu*f.geo.NumSU+z] }

// SetAll sets every flag to v.
func (f *CtrlFlags) SetAll(v bool) {
	for i := range f.on {
		f.on[i] = v
	}
}

func (f *CtrlFlags) set(lcu, z, n int, v bool) {
	base := lcu*f.geo.NumSU + z
	for i := base; i < base+n; i++ {
		f.on[i] = v
	}
}

// cuSplits reports whether the walk descends below the CU at depth d
// starting at SU z.
func cuSplits(g *Geometry, tree QuadTree, lcu, z, d int) bool {
	x, y := g.SUPos(lcu, z)
	size := g.LCUSize >> d
	boundary := x+size > g.Width || y+size > g.Height
	return d < g.MaxDepth && (boundary || d < tree.Depth(lcu, z))
}

// AssignFrameFlags distributes flags over the coding units of the whole
// picture in LCU raster order and z-order inside an LCU. A leaf CU no deeper
// than alfDepth takes one flag; leaves below alfDepth share the flag of the
// alfDepth block containing them, taken by the first of them. Every flag
// must be used exactly once.
func AssignFrameFlags(g *Geometry, tree QuadTree, alfDepth int, flags []bool, dst *CtrlFlags) error {
	if alfDepth < 0 || alfDepth > g.MaxDepth {
		return errors.Wrapf(ErrFlagCount, "control depth %d outside [0, %d]", alfDepth, g.MaxDepth)
	}
	idx := 0
	for lcu := 0; lcu < g.NumLCUs(); lcu++ {
		if err := assignCU(g, tree, alfDepth, flags, dst, lcu, 0, 0, &idx); err != nil {
			return err
		}
	}
	if idx != len(flags) {
		return errors.Wrapf(ErrFlagCount, "%d flags decoded, %d coding units", len(flags), idx)
	}
	return nil
}

func assignCU(g *Geometry, tree QuadTree, alfDepth int, flags []bool, dst *CtrlFlags, lcu, z, d int, idx *int) error {
	if cuSplits(g, tree, lcu, z, d) {
		q := g.partsAt(d + 1)
		for i := 0; i < 4; i++ {
			if g.SUInside(lcu, z+i*q) {
				if err := assignCU(g, tree, alfDepth, flags, dst, lcu, z+i*q, d+1, idx); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if d > alfDepth && z%g.partsAt(alfDepth) != 0 {
		return nil
	}
	if *idx >= len(flags) {
		return errors.Wrapf(ErrFlagCount, "%d flags decoded, more coding units remain at LCU %d", len(flags), lcu)
	}
	dst.set(lcu, z, g.partsAt(min(d, alfDepth)), flags[*idx])
	*idx++
	return nil
}

// WalkCU visits the leaf coding units of the picture top-down and calls fn
// with the rectangle of every leaf whose flag is set, clipped to the
// picture.
func WalkCU(g *Geometry, tree QuadTree, flags *CtrlFlags, fn func(x, y, w, h int)) {
	for lcu := 0; lcu < g.NumLCUs(); lcu++ {
		walkCU(g, tree, flags, lcu, 0, 0, fn)
	}
}

func walkCU(g *Geometry, tree QuadTree, flags *CtrlFlags, lcu, z, d int, fn func(x, y, w, h int)) {
	if cuSplits(g, tree, lcu, z, d) {
		q := g.partsAt(d + 1)
		for i := 0; i < 4; i++ {
			if g.SUInside(lcu, z+i*q) {
				walkCU(g, tree, flags, lcu, z+i*q, d+1, fn)
			}
		}
		return
	}
	if !flags.Enabled(lcu, z) {
		return
	}
	x, y := g.SUPos(lcu, z)
	size := g.LCUSize >> d
	fn(x, y, min(size, g.Width-x), min(size, g.Height-y))
}
