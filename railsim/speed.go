package railsim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/railgrind/railgrind/game"
)

// integrateSpeed converts the one-dimensional move signal into a signed
// along-rail speed. The speed is rate-limited toward input*maxSpeed with an
// asymmetric accel/brake rate and never jumps discontinuously; the optional
// slope-assist term projects gravity onto the rail tangent afterward.
func integrateSpeed(v float32, in InputState, tangentWorld mgl32.Vec3, opts *Options) float32 {
	input := game.ClampFloat(in.MoveAxis, -1, 1)
	target := input * opts.MaxSpeed

	rate := opts.Brake
	if math32.Abs(target) > math32.Abs(v) {
		rate = opts.Accel
	}
	v = game.MoveToward(v, target, rate*opts.TickDelta)

	if opts.GravityAlongRail != 0 {
		v += opts.Gravity.Dot(tangentWorld) * opts.GravityAlongRail * opts.TickDelta
	}
	return v
}
