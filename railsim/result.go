package railsim

import "github.com/go-gl/mathgl/mgl32"

// TickOutcome describes which path the simulator took for the current tick.
type TickOutcome uint8

const (
	// OutcomeOnRail is an ordinary on-rail advance.
	OutcomeOnRail TickOutcome = iota
	// OutcomeTransferred means the rider ran off a rail end and snapped onto
	// a nearby endpoint.
	OutcomeTransferred
	// OutcomeClampedAtEnd means the rider ran off a rail end with no endpoint
	// within snapping distance and was stopped at the boundary.
	OutcomeClampedAtEnd
	// OutcomeJumped is the on-rail to in-air transition.
	OutcomeJumped
	// OutcomeAirborne is an ordinary in-air advance.
	OutcomeAirborne
	// OutcomeReattached means an airborne rider grabbed a rail again.
	OutcomeReattached
	// OutcomeRespawned means a fail condition reset the rider to the last
	// safe pose.
	OutcomeRespawned
	// OutcomeNumericFault means the evaluated pose was non-finite and
	// movement was skipped for the tick.
	OutcomeNumericFault
	// OutcomeDisabled means the simulator latched a configuration fault and
	// refuses to run until reconfigured.
	OutcomeDisabled
)

// String ...
func (o TickOutcome) String() string {
	switch o {
	case OutcomeOnRail:
		return "on-rail"
	case OutcomeTransferred:
		return "transferred"
	case OutcomeClampedAtEnd:
		return "clamped-at-end"
	case OutcomeJumped:
		return "jumped"
	case OutcomeAirborne:
		return "airborne"
	case OutcomeReattached:
		return "reattached"
	case OutcomeRespawned:
		return "respawned"
	case OutcomeNumericFault:
		return "numeric-fault"
	case OutcomeDisabled:
		return "disabled"
	}
	return "unknown"
}

// TickResult captures the outcome of a single simulation tick along with a
// snapshot of the rider state after it.
type TickResult struct {
	Outcome TickOutcome

	Rail  int
	T     float32
	Speed float32
	Mode  Mode

	Position mgl32.Vec3
	Tangent  mgl32.Vec3

	// Err is set only for OutcomeDisabled and carries the latched
	// configuration fault.
	Err error
}
