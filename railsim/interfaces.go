package railsim

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// CurveProvider bridges the rail authoring system. Rails are addressed by a
// plain index; the provider owns curve evaluation, placement transforms and
// arc-length caching. Implementations are treated as read-only and are never
// mutated by the core.
type CurveProvider interface {
	RailCount() int
	IsValid(rail int) bool
	ArcLength(rail int) float32
	Evaluate(rail int, t float32) (pos, tangent, up mgl32.Vec3)
	ToWorldPoint(rail int, local mgl32.Vec3) mgl32.Vec3
	ToWorldDir(rail int, local mgl32.Vec3) mgl32.Vec3
}

// BoundsProvider is an optional extension of CurveProvider. When implemented,
// the projector culls rails whose world bounds lie entirely outside the search
// budget before sampling them. Providers without bounds are simply never culled.
type BoundsProvider interface {
	Bounds(rail int) cube.BBox
}

// Embodiment bridges the physical body the rider controls. While on a rail
// the core drives it with teleport-style pose sets; after a jump it hands
// control to free-fall physics and only reads position/velocity back.
type Embodiment interface {
	SetPose(pos mgl32.Vec3, orientation mgl32.Quat)
	SetFreeFall(enabled bool)
	SetVelocity(vel mgl32.Vec3)
	Position() mgl32.Vec3
	Velocity() mgl32.Vec3
}
