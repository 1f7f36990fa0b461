package railsim

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// lineRail is a straight segment from start to start+span, so every scenario
// quantity (length, nearest point, endpoints) has an exact closed form to
// check against.
type lineRail struct {
	start mgl32.Vec3
	span  mgl32.Vec3
}

func (r lineRail) length() float32 {
	return r.span.Len()
}

// mockCurves serves line rails in local space with an identity placement.
type mockCurves struct {
	rails []lineRail

	// evalOverride lets a test inject malformed curve data for a rail.
	evalOverride func(rail int, t float32) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3, bool)
}

func (m *mockCurves) RailCount() int {
	return len(m.rails)
}

func (m *mockCurves) IsValid(rail int) bool {
	return rail >= 0 && rail < len(m.rails)
}

func (m *mockCurves) ArcLength(rail int) float32 {
	return m.rails[rail].length()
}

func (m *mockCurves) Evaluate(rail int, t float32) (pos, tangent, up mgl32.Vec3) {
	if m.evalOverride != nil {
		if p, tan, u, ok := m.evalOverride(rail, t); ok {
			return p, tan, u
		}
	}
	r := m.rails[rail]
	pos = r.start.Add(r.span.Mul(t))
	tangent = r.span.Normalize()
	up = mgl32.Vec3{0, 1, 0}
	return pos, tangent, up
}

func (m *mockCurves) ToWorldPoint(rail int, local mgl32.Vec3) mgl32.Vec3 {
	return local
}

func (m *mockCurves) ToWorldDir(rail int, local mgl32.Vec3) mgl32.Vec3 {
	return local
}

// boundedCurves adds exact AABBs for each line rail so culling can be tested
// against the uncullled provider.
type boundedCurves struct {
	mockCurves
}

func (m *boundedCurves) Bounds(rail int) cube.BBox {
	r := m.rails[rail]
	end := r.start.Add(r.span)
	return cube.Box(
		math32.Min(r.start[0], end[0]), math32.Min(r.start[1], end[1]), math32.Min(r.start[2], end[2]),
		math32.Max(r.start[0], end[0]), math32.Max(r.start[1], end[1]), math32.Max(r.start[2], end[2]),
	)
}

// waveCurves is a single sine arc used by the projector tests; its nearest
// point has no closed form, which is exactly what the sampling search is for.
type waveCurves struct{}

func (waveCurves) RailCount() int        { return 1 }
func (waveCurves) IsValid(rail int) bool { return rail == 0 }

func (waveCurves) ArcLength(rail int) float32 { return 25 }

func (waveCurves) Evaluate(rail int, t float32) (pos, tangent, up mgl32.Vec3) {
	x := t * 20
	pos = mgl32.Vec3{x, 2 * math32.Sin(x*0.5), 0}
	tangent = mgl32.Vec3{1, math32.Cos(x*0.5) * 1, 0}.Normalize()
	up = mgl32.Vec3{0, 1, 0}
	return pos, tangent, up
}

func (waveCurves) ToWorldPoint(rail int, local mgl32.Vec3) mgl32.Vec3 { return local }
func (waveCurves) ToWorldDir(rail int, local mgl32.Vec3) mgl32.Vec3   { return local }

// mockBody records the pose and velocity writes the simulator makes. Tests
// drive Position manually to stand in for free-fall physics.
type mockBody struct {
	pos mgl32.Vec3
	rot mgl32.Quat
	vel mgl32.Vec3

	freeFall bool
	poseSets int
}

func (b *mockBody) SetPose(pos mgl32.Vec3, orientation mgl32.Quat) {
	b.pos = pos
	b.rot = orientation
	b.poseSets++
}

func (b *mockBody) SetFreeFall(enabled bool) {
	b.freeFall = enabled
}

func (b *mockBody) SetVelocity(vel mgl32.Vec3) {
	b.vel = vel
}

func (b *mockBody) Position() mgl32.Vec3 {
	return b.pos
}

func (b *mockBody) Velocity() mgl32.Vec3 {
	return b.vel
}

// testOptions returns deterministic tuning with the surface offset zeroed so
// positions land exactly on the centerline.
func testOptions() Options {
	opts := DefaultOptions()
	opts.TickDelta = 0.02
	opts.SurfaceOffset = 0
	opts.Gravity = mgl32.Vec3{0, -10, 0}
	opts.GravityAlongRail = 0
	return opts
}
