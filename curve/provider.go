package curve

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/railgrind/railgrind/assert"
	"github.com/railgrind/railgrind/rerror"
	"github.com/railgrind/railgrind/worker"
)

// Set is an immutable, insertion-ordered collection of rails. It satisfies the
// curve provider contract the locomotion core consumes; rails are addressed by
// index in the core and by name everywhere humans are involved.
type Set struct {
	byName *orderedmap.OrderedMap[string, *Rail]
	rails  []*Rail
}

// NewSet builds a rail set from the given rails. Arc lengths and bounds of all
// rails are precomputed on the worker pool so the first tick never pays for
// them. Rail names must be unique.
func NewSet(rails ...*Rail) (*Set, error) {
	s := &Set{
		byName: orderedmap.NewOrderedMap[string, *Rail](),
		rails:  make([]*Rail, 0, len(rails)),
	}
	for _, r := range rails {
		if _, ok := s.byName.Get(r.name); ok {
			return nil, rerror.New("duplicate rail name %q", r.name)
		}
		s.byName.Set(r.name, r)
		s.rails = append(s.rails, r)
	}

	precompute := make([]func(), len(s.rails))
	for i, r := range s.rails {
		r := r
		precompute[i] = func() { r.ensure() }
	}
	worker.SubmitAll(precompute...)
	return s, nil
}

// RailCount returns the number of rails in the set.
func (s *Set) RailCount() int {
	return len(s.rails)
}

// IsValid reports whether the given index addresses a rail in the set.
func (s *Set) IsValid(rail int) bool {
	return rail >= 0 && rail < len(s.rails)
}

// Rail returns the rail at the given index.
func (s *Set) Rail(rail int) *Rail {
	assert.IsTrue(s.IsValid(rail), "rail index %d out of range (%d rails)", rail, len(s.rails))
	return s.rails[rail]
}

// ByName returns the rail with the given authored name.
func (s *Set) ByName(name string) (*Rail, bool) {
	return s.byName.Get(name)
}

// Names returns the rail names in insertion order.
func (s *Set) Names() []string {
	names := make([]string, 0, s.byName.Len())
	for el := s.byName.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// Evaluate returns the local position, tangent and up of the given rail at
// the given normalized parameter.
func (s *Set) Evaluate(rail int, t float32) (pos, tangent, up mgl32.Vec3) {
	return s.Rail(rail).Evaluate(t)
}

// ArcLength returns the cached arc length of the given rail.
func (s *Set) ArcLength(rail int) float32 {
	return s.Rail(rail).ArcLength()
}

// ToWorldPoint transforms a local point on the given rail into world space.
func (s *Set) ToWorldPoint(rail int, local mgl32.Vec3) mgl32.Vec3 {
	return s.Rail(rail).WorldPoint(local)
}

// ToWorldDir transforms a local direction on the given rail into world space.
func (s *Set) ToWorldDir(rail int, local mgl32.Vec3) mgl32.Vec3 {
	return s.Rail(rail).WorldDir(local)
}

// Bounds returns the world bounds of the given rail. The locomotion core uses
// these to cull rails before running the nearest-point search.
func (s *Set) Bounds(rail int) cube.BBox {
	return s.Rail(rail).Bounds()
}
