package region

import "github.com/pkg/errors"

// ErrSliceLayout is returned for slice boundaries that do not tile the
// picture.
var ErrSliceLayout = errors.New("region: invalid slice layout")

// Direction indexes the neighbour availability of an SGU.
type Direction int

const (
	Left Direction = iota
	Right
	Top
	Bottom
	TopLeft
	TopRight
	BottomLeft
	BottomRight
	NumDirections
)

var directionNames = [NumDirections]string{"L", "R", "T", "B", "TL", "TR", "BL", "BR"}

// String returns the short direction name.
func (d Direction) String() string { return directionNames[d] }

// SliceSpec is the SU address range [Start, End] of one slice, both ends
// included.
type SliceSpec struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SGU is a slice-granularity unit: the part of an aligned block of SUs that
// lies inside the picture.
type SGU struct {
	X, Y, Width, Height int

	// StartSU and EndSU are the first and last in-picture SUs, z-scan order.
	StartSU, EndSU int

	// Avail tells, per direction, whether the neighbouring samples belong to
	// the same slice.
	Avail [NumDirections]bool
}

// LCUUnit is the part of an LCU covered by one slice.
type LCUUnit struct {
	Addr           int
	StartSU, EndSU int
	SGUs           []SGU
}

// Slice is an independently filtered run of SUs.
type Slice struct {
	ID int

	// Valid is false when no SU of the slice lies inside the picture.
	Valid bool

	LCUs []LCUUnit

	geo *Geometry
}

// Partition is the slice layout of a picture.
type Partition struct {
	Slices []*Slice

	geo *Geometry
	ids []int32
}

// SliceID returns the slice owning sample (x, y), or -1 outside the picture.
func (p *Partition) SliceID(x, y int) int {
	if !p.geo.Inside(x, y) {
		return -1
	}
	return int(p.ids[p.geo.Address(x, y)])
}

// BuildSlices splits the picture into slices, groups each slice into SGUs of
// the given depth and computes the neighbour availability of every SGU.
// The specs must tile the whole SU address space in order and start and end
// on SGU boundaries.
func BuildSlices(g *Geometry, specs []SliceSpec, sgDepth int) (*Partition, error) {
	if sgDepth < 0 || sgDepth > g.MaxDepth {
		return nil, errors.Wrapf(ErrSliceLayout, "granularity depth %d outside [0, %d]", sgDepth, g.MaxDepth)
	}
	if len(specs) == 0 {
		return nil, errors.Wrap(ErrSliceLayout, "no slices")
	}
	perSGU := g.partsAt(sgDepth)
	next := 0
	for i, sp := range specs {
		switch {
		case sp.Start != next:
			return nil, errors.Wrapf(ErrSliceLayout, "slice %d starts at %d, want %d", i, sp.Start, next)
		case sp.End < sp.Start || sp.End >= g.NumSUInPicture():
			return nil, errors.Wrapf(ErrSliceLayout, "slice %d ends at %d", i, sp.End)
		case sp.Start%perSGU != 0 || (sp.End+1)%perSGU != 0:
			return nil, errors.Wrapf(ErrSliceLayout, "slice %d [%d, %d] is not aligned to %d SUs", i, sp.Start, sp.End, perSGU)
		}
		next = sp.End + 1
	}
	if next != g.NumSUInPicture() {
		return nil, errors.Wrapf(ErrSliceLayout, "slices cover %d of %d SUs", next, g.NumSUInPicture())
	}

	p := &Partition{geo: g, ids: make([]int32, g.NumSUInPicture())}
	for i := range p.ids {
		p.ids[i] = -1
	}
	for i, sp := range specs {
		s := &Slice{ID: i, geo: g}
		p.Slices = append(p.Slices, s)
		for lcu := sp.Start / g.NumSU; lcu <= sp.End/g.NumSU; lcu++ {
			u := LCUUnit{Addr: lcu, StartSU: 0, EndSU: g.NumSU - 1}
			if lcu == sp.Start/g.NumSU {
				u.StartSU = sp.Start % g.NumSU
			}
			if lcu == sp.End/g.NumSU {
				u.EndSU = sp.End % g.NumSU
			}
			for z := u.StartSU; z <= u.EndSU; z += perSGU {
				if sgu, ok := p.newSGU(lcu, z, sgDepth, s.ID); ok {
					u.SGUs = append(u.SGUs, sgu)
				}
			}
			if len(u.SGUs) > 0 {
				s.LCUs = append(s.LCUs, u)
			}
		}
		s.Valid = len(s.LCUs) > 0
	}

	for _, s := range p.Slices {
		for i := range s.LCUs {
			for j := range s.LCUs[i].SGUs {
				p.setAvailability(&s.LCUs[i].SGUs[j], s.ID)
			}
		}
	}
	return p, nil
}

// newSGU builds the SGU whose first SU is z and claims its SUs for slice id.
func (p *Partition) newSGU(lcu, z, sgDepth, id int) (SGU, bool) {
	g := p.geo
	if !g.SUInside(lcu, z) {
		return SGU{}, false
	}
	x, y := g.SUPos(lcu, z)
	side := g.LCUSize >> sgDepth
	sgu := SGU{
		X:       x,
		Y:       y,
		Width:   min(side, g.Width-x),
		Height:  min(side, g.Height-y),
		StartSU: z,
	}
	for i := z; i < z+g.partsAt(sgDepth); i++ {
		if g.SUInside(lcu, i) {
			p.ids[lcu*g.NumSU+i] = int32(id)
			sgu.EndSU = i
		}
	}
	return sgu, true
}

func (p *Partition) setAvailability(sgu *SGU, id int) {
	x, y, r, b := sgu.X, sgu.Y, sgu.X+sgu.Width, sgu.Y+sgu.Height
	same := func(px, py int) bool { return p.SliceID(px, py) == id }
	sgu.Avail = [NumDirections]bool{
		Left:        same(x-1, y),
		Right:       same(r, y),
		Top:         same(x, y-1),
		Bottom:      same(x, b),
		TopLeft:     same(x-1, y-1),
		TopRight:    same(r, y-1),
		BottomLeft:  same(x-1, b),
		BottomRight: same(r, b),
	}
}

// NumSGUs returns the number of SGUs of the slice.
func (s *Slice) NumSGUs() int {
	n := 0
	for _, u := range s.LCUs {
		n += len(u.SGUs)
	}
	return n
}

// ForEachSGU calls fn for every SGU of the slice in decoding order.
func (s *Slice) ForEachSGU(fn func(*SGU)) {
	for i := range s.LCUs {
		for j := range s.LCUs[i].SGUs {
			fn(&s.LCUs[i].SGUs[j])
		}
	}
}

// Bounds returns the bounding rectangle of the slice.
func (s *Slice) Bounds() (x0, y0, x1, y1 int) {
	x0, y0 = s.geo.Width, s.geo.Height
	s.ForEachSGU(func(u *SGU) {
		x0, y0 = min(x0, u.X), min(y0, u.Y)
		x1, y1 = max(x1, u.X+u.Width), max(y1, u.Y+u.Height)
	})
	return x0, y0, x1, y1
}

// AssignFlags distributes the control flags of the slice over its coding
// units and stores them in dst. A CU is its coding unit clipped to
// alfDepth. One flag is read per CU holding at least one SU that lies both
// in the slice and in the picture, so CUs past the right or bottom picture
// edge take no flag even when the LCU is shared with another slice. The
// flag covers only those SUs. It returns the number of flags used, which
// must be len(flags).
func (s *Slice) AssignFlags(tree QuadTree, alfDepth int, flags []bool, dst *CtrlFlags) (int, error) {
	g := s.geo
	if alfDepth < 0 || alfDepth > g.MaxDepth {
		return 0, errors.Wrapf(ErrFlagCount, "slice %d: control depth %d outside [0, %d]", s.ID, alfDepth, g.MaxDepth)
	}
	n := 0
	for _, u := range s.LCUs {
		inUnit := func(z int) bool {
			return z >= u.StartSU && z <= u.EndSU && g.SUInside(u.Addr, z)
		}
		cur := u.StartSU
		first := true
		for cur <= u.EndSU {
			for cur <= u.EndSU && !g.SUInside(u.Addr, cur) {
				cur++
			}
			if cur > u.EndSU {
				break
			}
			num := g.partsAt(min(alfDepth, tree.Depth(u.Addr, cur)))
			if first {
				cur = cur / num * num
				first = false
			}
			valid := false
			for z := cur; z < cur+num; z++ {
				if inUnit(z) {
					valid = true
					break
				}
			}
			if valid {
				if n >= len(flags) {
					return n, errors.Wrapf(ErrFlagCount, "slice %d: %d flags decoded, more coding units remain", s.ID, len(flags))
				}
				for z := cur; z < cur+num; z++ {
					if inUnit(z) {
						dst.set(u.Addr, z, 1, flags[n])
					}
				}
				n++
			}
			cur += num
		}
	}
	if n != len(flags) {
		return n, errors.Wrapf(ErrFlagCount, "slice %d: %d flags decoded, %d coding units", s.ID, len(flags), n)
	}
	return n, nil
}

// SetFlags sets the flag of every SU of the slice to v.
func (s *Slice) SetFlags(v bool, dst *CtrlFlags) {
	for _, u := range s.LCUs {
		dst.set(u.Addr, u.StartSU, u.EndSU-u.StartSU+1, v)
	}
}
