package railsim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/railgrind/railgrind/game"
	"github.com/railgrind/railgrind/rerror"
)

// OffsetAxis selects which frame axis the surface offset displaces the pose
// along, modeling an entity riding the outside of a tube-shaped rail.
type OffsetAxis uint8

const (
	OffsetAxisUp OffsetAxis = iota
	OffsetAxisRight
)

// InputPolicy defines how a zero move signal is treated while on a rail.
type InputPolicy uint8

const (
	// InputPolicyZeroTarget forces the target speed to exactly 0 with no
	// input, so residual speed decays at the brake rate.
	InputPolicyZeroTarget InputPolicy = iota
	// InputPolicyFreeze suppresses parameter advance entirely with no input
	// while still letting residual speed decay.
	InputPolicyFreeze
)

// Options define the full configuration surface of the simulator.
type Options struct {
	// TickDelta is the fixed timestep in seconds.
	TickDelta float32

	// LoopOnCurrent wraps the parameter modulo [0,1) at rail ends instead of
	// clamping and attempting an endpoint transfer.
	LoopOnCurrent   bool
	EndSnapDistance float32

	MaxSpeed float32
	Accel    float32
	Brake    float32

	// GravityAlongRail scales the slope-assist term; 0 disables it.
	GravityAlongRail float32
	Gravity          mgl32.Vec3

	InputPolicy InputPolicy

	SurfaceOffset float32
	OffsetAxis    OffsetAxis
	// UseCurveUp orients the rider with the curve's up vector instead of
	// world up.
	UseCurveUp bool

	JumpImpulse      float32
	JumpForwardBoost float32
	CoyoteTime       float32
	JumpBufferTime   float32

	AirAccel    float32
	AirMaxSpeed float32

	KillY             float32
	MaxDetachDistance float32
	MaxAirTime        float32

	RegrabDistance float32
	RegrabLockout  float32

	// Debugf receives internal simulation trace logs for callers that need
	// deep diagnostics.
	Debugf func(format string, args ...any)
}

// DefaultOptions returns the default simulator tuning.
func DefaultOptions() Options {
	return Options{
		TickDelta:         1.0 / game.DefaultTickRate,
		EndSnapDistance:   game.DefaultEndSnapDistance,
		MaxSpeed:          game.DefaultMaxSpeed,
		Accel:             game.DefaultAccel,
		Brake:             game.DefaultBrake,
		GravityAlongRail:  game.DefaultGravityAlongRail,
		Gravity:           mgl32.Vec3{0, game.DefaultGravityY, 0},
		SurfaceOffset:     game.DefaultSurfaceOffset,
		OffsetAxis:        OffsetAxisUp,
		UseCurveUp:        true,
		JumpImpulse:       game.DefaultJumpImpulse,
		JumpForwardBoost:  game.DefaultJumpForwardBoost,
		CoyoteTime:        game.DefaultCoyoteTime,
		JumpBufferTime:    game.DefaultJumpBufferTime,
		AirAccel:          game.DefaultAirAccel,
		AirMaxSpeed:       game.DefaultAirMaxSpeed,
		KillY:             game.DefaultKillY,
		MaxDetachDistance: game.DefaultMaxDetachDistance,
		MaxAirTime:        game.DefaultMaxAirTime,
		RegrabDistance:    game.DefaultRegrabDistance,
		RegrabLockout:     game.DefaultRegrabLockout,
	}
}

// Simulator owns the rail-constrained locomotion state machine for a single
// rider. It is single-threaded: exactly one Tick runs per fixed interval with
// no suspension points inside it.
type Simulator struct {
	Curves  CurveProvider
	Body    Embodiment
	Options Options

	state      RiderState
	railLength float32
	fault      error
}

// NewSimulator activates a rider against the given rail set. The rider starts
// on the rail nearest the body's current position, or rail 0 when nothing is
// within the detach budget, with the parameter nudged off the exact boundary.
func NewSimulator(curves CurveProvider, body Embodiment, opts Options) (*Simulator, error) {
	if curves == nil {
		return nil, rerror.New(game.ErrorNoCurveProvider)
	}
	if body == nil {
		return nil, rerror.New(game.ErrorNoEmbodiment)
	}
	if curves.RailCount() == 0 {
		return nil, rerror.New(game.ErrorNoRails)
	}
	if opts.TickDelta <= 0 {
		opts.TickDelta = 1.0 / game.DefaultTickRate
	}

	s := &Simulator{
		Curves:  curves,
		Body:    body,
		Options: opts,
		state:   newRiderState(),
	}

	s.state.Rail = 0
	s.state.T = boundaryEpsilon
	if proj, ok := s.nearestOnAnyRail(body.Position(), opts.MaxDetachDistance); ok {
		s.state.Rail = proj.rail
		s.state.T = nudgeT(proj.t)
	}

	if err := s.setRail(s.state.Rail); err != nil {
		return nil, err
	}
	pos, tangent, up, ok := s.poseAt(s.state.Rail, s.state.T)
	if !ok {
		return nil, rerror.New(game.ErrorInternalNonFinitePose, s.state.Rail, s.state.T)
	}
	body.SetFreeFall(false)
	body.SetVelocity(mgl32.Vec3{})
	s.commitPose(pos, tangent, up)
	s.state.SafeRail, s.state.SafeT = s.state.Rail, s.state.T
	return s, nil
}

// State returns a copy of the rider state after the most recent tick.
func (s *Simulator) State() RiderState {
	return s.state
}

// Fault returns the latched configuration fault, if any. A faulted simulator
// stays disabled until it is reconfigured and recreated.
func (s *Simulator) Fault() error {
	return s.fault
}

// RailLength returns the cached arc length of the active rail.
func (s *Simulator) RailLength() float32 {
	return s.railLength
}

// setRail switches the active rail and recomputes the cached arc length.
func (s *Simulator) setRail(rail int) error {
	if !s.Curves.IsValid(rail) {
		return rerror.New(game.ErrorInternalInvalidRail, rail)
	}
	length := s.Curves.ArcLength(rail)
	if !game.Finite32(length) {
		return rerror.New(game.ErrorInternalNonFiniteLength, rail)
	}
	if length < minRailLength {
		return rerror.New(game.ErrorInternalZeroLengthRail, rail, length)
	}
	s.state.Rail = rail
	s.railLength = length
	return nil
}

// configCheck re-validates the configuration before every tick, clamping the
// rail index into range first so every access stays valid.
func (s *Simulator) configCheck() error {
	count := s.Curves.RailCount()
	if count == 0 {
		return rerror.New(game.ErrorNoRails)
	}
	rail := s.state.Rail
	if rail < 0 {
		rail = 0
	} else if rail >= count {
		rail = count - 1
	}
	return s.setRail(rail)
}

// poseAt evaluates the world pose on the given rail, applies the surface
// offset, and reports whether the result is finite.
func (s *Simulator) poseAt(rail int, t float32) (pos, tangent, up mgl32.Vec3, ok bool) {
	localPos, localTangent, localUp := s.Curves.Evaluate(rail, t)
	pos = s.Curves.ToWorldPoint(rail, localPos)
	tangent = s.Curves.ToWorldDir(rail, localTangent)
	up = s.Curves.ToWorldDir(rail, localUp)

	if tangent.LenSqr() >= 1e-12 {
		tangent = tangent.Normalize()
	}
	if up.LenSqr() >= 1e-12 {
		up = up.Normalize()
	}

	offsetDir := up
	if s.Options.OffsetAxis == OffsetAxisRight {
		offsetDir = up.Cross(tangent)
		if offsetDir.LenSqr() >= 1e-12 {
			offsetDir = offsetDir.Normalize()
		}
	}
	pos = pos.Add(offsetDir.Mul(s.Options.SurfaceOffset))

	ok = game.Vec3Finite(pos) && game.Vec3Finite(tangent) && tangent.LenSqr() >= 1e-12
	return pos, tangent, up, ok
}

// commitPose teleports the embodiment to the given pose and mirrors it on the
// rider state.
func (s *Simulator) commitPose(pos, tangent, up mgl32.Vec3) {
	upRef := mgl32.Vec3{0, 1, 0}
	if s.Options.UseCurveUp && up.LenSqr() >= 1e-12 {
		upRef = up
	}
	s.Body.SetPose(pos, mgl32.QuatLookAtV(mgl32.Vec3{}, tangent, upRef))

	s.state.Pos = pos
	s.state.Tangent = tangent
	s.state.Up = up
}

// nudgeT keeps a normalized parameter a small epsilon off the exact curve
// boundaries.
func nudgeT(t float32) float32 {
	return game.ClampFloat(t, boundaryEpsilon, 1-boundaryEpsilon)
}

func (s *Simulator) debugf(format string, args ...any) {
	if s.Options.Debugf != nil {
		s.Options.Debugf(format, args...)
	}
}
