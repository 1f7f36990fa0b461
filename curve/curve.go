package curve

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/railgrind/railgrind/game"
	"github.com/railgrind/railgrind/internal"
	"github.com/railgrind/railgrind/rerror"
	"github.com/zeebo/xxh3"
)

const (
	// arcLengthSegments is the number of chords summed when approximating
	// the arc length of a rail.
	arcLengthSegments = 256
	// boundsInflation pads a rail's world bounds so that points riding a
	// surface offset off the centerline still fall inside them.
	boundsInflation = float32(1.0)
)

// Rail is a pre-authored space curve. The curve is a uniform Catmull-Rom
// spline through the authored control points, evaluated over a normalized
// parameter in [0,1] and placed in the world by a placement transform.
// Rails are immutable once built.
type Rail struct {
	name      string
	points    []mgl32.Vec3
	loop      bool
	placement mgl32.Mat4

	cacheKey uint64
	length   float32
	bounds   cube.BBox
}

// NewRail creates a rail from the given local-space control points. A looping
// rail requires at least 3 control points, an open one at least 2.
func NewRail(name string, placement mgl32.Mat4, loop bool, points ...mgl32.Vec3) (*Rail, error) {
	min := 2
	if loop {
		min = 3
	}
	if len(points) < min {
		return nil, rerror.New("rail %s: need at least %d control points, got %d", name, min, len(points))
	}
	for i, p := range points {
		if !game.Vec3Finite(p) {
			return nil, rerror.New("rail %s: control point %d is not finite", name, i)
		}
	}

	pts := make([]mgl32.Vec3, len(points))
	copy(pts, points)
	return &Rail{
		name:      name,
		points:    pts,
		loop:      loop,
		placement: placement,
	}, nil
}

// Name returns the authored name of the rail.
func (r *Rail) Name() string {
	return r.name
}

// Loops returns true if the rail is a closed curve.
func (r *Rail) Loops() bool {
	return r.loop
}

// Placement returns the local-to-world placement transform of the rail.
func (r *Rail) Placement() mgl32.Mat4 {
	return r.placement
}

// segments returns the number of spline segments the rail consists of.
func (r *Rail) segments() int {
	if r.loop {
		return len(r.points)
	}
	return len(r.points) - 1
}

// point returns the control point at the given index, wrapping on looping
// rails and clamping on open ones.
func (r *Rail) point(i int) mgl32.Vec3 {
	n := len(r.points)
	if r.loop {
		return r.points[((i%n)+n)%n]
	}
	if i < 0 {
		i = 0
	} else if i >= n {
		i = n - 1
	}
	return r.points[i]
}

// Evaluate returns the local-space position, tangent and up vector of the
// rail at the given normalized parameter. The parameter wraps on looping
// rails and clamps on open ones; the tangent is normalized.
func (r *Rail) Evaluate(t float32) (pos, tangent, up mgl32.Vec3) {
	if r.loop {
		t = game.Wrap01(t)
	} else {
		t = game.ClampFloat(t, 0, 1)
	}

	segs := r.segments()
	scaled := t * float32(segs)
	seg := int(math32.Floor(scaled))
	if seg >= segs {
		seg = segs - 1
	}
	u := scaled - float32(seg)

	p0, p1 := r.point(seg-1), r.point(seg)
	p2, p3 := r.point(seg+1), r.point(seg+2)

	pos = catmullRom(p0, p1, p2, p3, u)
	tangent = catmullRomDeriv(p0, p1, p2, p3, u)
	if tangent.LenSqr() < 1e-12 {
		// Degenerate control data (coincident points). Fall back to the chord.
		tangent = p2.Sub(p1)
	}
	if tangent.LenSqr() >= 1e-12 {
		tangent = tangent.Normalize()
	}

	up = railUp(tangent)
	return pos, tangent, up
}

// catmullRom evaluates the uniform Catmull-Rom basis for the segment p1->p2.
func catmullRom(p0, p1, p2, p3 mgl32.Vec3, u float32) mgl32.Vec3 {
	u2 := u * u
	u3 := u2 * u
	out := p1.Mul(2)
	out = out.Add(p2.Sub(p0).Mul(u))
	out = out.Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(u2))
	out = out.Add(p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(u3))
	return out.Mul(0.5)
}

// catmullRomDeriv evaluates the derivative of the uniform Catmull-Rom basis.
func catmullRomDeriv(p0, p1, p2, p3 mgl32.Vec3, u float32) mgl32.Vec3 {
	u2 := u * u
	out := p2.Sub(p0)
	out = out.Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(2 * u))
	out = out.Add(p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(3 * u2))
	return out.Mul(0.5)
}

// railUp derives an up vector perpendicular to the given tangent by
// orthogonalizing the local +Y axis against it. A near-vertical tangent
// falls back to the +Z axis.
func railUp(tangent mgl32.Vec3) mgl32.Vec3 {
	ref := mgl32.Vec3{0, 1, 0}
	up := ref.Sub(tangent.Mul(ref.Dot(tangent)))
	if up.LenSqr() < 1e-6 {
		ref = mgl32.Vec3{0, 0, 1}
		up = ref.Sub(tangent.Mul(ref.Dot(tangent)))
	}
	if up.LenSqr() < 1e-12 {
		return mgl32.Vec3{0, 1, 0}
	}
	return up.Normalize()
}

// WorldPoint transforms a local-space point into world space.
func (r *Rail) WorldPoint(local mgl32.Vec3) mgl32.Vec3 {
	return r.placement.Mul4x1(local.Vec4(1)).Vec3()
}

// WorldDir transforms a local-space direction into world space.
func (r *Rail) WorldDir(local mgl32.Vec3) mgl32.Vec3 {
	return r.placement.Mul4x1(local.Vec4(0)).Vec3()
}

// ArcLength returns the total arc length of the rail in world units,
// recomputing the cached value when the rail's content hash changes.
func (r *Rail) ArcLength() float32 {
	r.ensure()
	return r.length
}

// Bounds returns the world-space bounding box of the rail, inflated to cover
// surface-offset poses around the centerline.
func (r *Rail) Bounds() cube.BBox {
	r.ensure()
	return r.bounds
}

func (r *Rail) ensure() {
	key := r.contentHash()
	if key == r.cacheKey && key != 0 {
		return
	}
	r.recompute()
	r.cacheKey = key
}

// recompute walks the curve with a fixed number of chords, accumulating the
// length in float64 and tracking the world-space extents.
func (r *Rail) recompute() {
	var length float64
	start, _, _ := r.Evaluate(0)
	prev := r.WorldPoint(start)
	lo, hi := prev, prev

	for i := 1; i <= arcLengthSegments; i++ {
		t := float32(i) / arcLengthSegments
		p, _, _ := r.Evaluate(t)
		world := r.WorldPoint(p)

		length += game.Vec32To64(world).Sub(game.Vec32To64(prev)).Len()
		for axis := 0; axis < 3; axis++ {
			lo[axis] = math32.Min(lo[axis], world[axis])
			hi[axis] = math32.Max(hi[axis], world[axis])
		}
		prev = world
	}

	r.length = float32(length)
	r.bounds = cube.Box(lo[0], lo[1], lo[2], hi[0], hi[1], hi[2]).Grow(boundsInflation)
}

// contentHash hashes the control points and placement of the rail. It keys
// the arc-length and bounds cache, so a rail rebuilt by authoring tools with
// identical content reuses nothing stale.
func (r *Rail) contentHash() uint64 {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	var scratch [4]byte
	put := func(f float32) {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(f))
		buf.Write(scratch[:])
	}

	for _, p := range r.points {
		put(p[0])
		put(p[1])
		put(p[2])
	}
	for _, f := range r.placement {
		put(f)
	}
	if r.loop {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return xxh3.Hash(buf.Bytes())
}
