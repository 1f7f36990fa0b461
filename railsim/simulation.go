package railsim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/railgrind/railgrind/game"
)

// Tick advances the rider by one fixed timestep. It always runs to completion;
// the worst a malformed curve can do is degrade the tick to a no-op movement.
func (s *Simulator) Tick(in InputState) TickResult {
	if s.fault != nil {
		return s.disabledResult()
	}
	if err := s.configCheck(); err != nil {
		s.fault = err
		s.debugf("configuration fault, disabling: %v", err)
		return s.disabledResult()
	}

	s.state.TimeSinceJumpPressed = saturateTimer(s.state.TimeSinceJumpPressed + s.Options.TickDelta)
	if in.JumpPressed {
		s.state.TimeSinceJumpPressed = 0
	}

	if s.state.Mode == ModeInAir {
		return s.inAirTick(in)
	}
	return s.onRailTick(in)
}

// onRailTick integrates speed, advances the parameter, resolves rail ends and
// commits the evaluated pose to the embodiment.
func (s *Simulator) onRailTick(in InputState) TickResult {
	opts := &s.Options

	v := integrateSpeed(s.state.Speed, in, s.state.Tangent, opts)

	deltaT := v * opts.TickDelta / s.railLength
	if opts.InputPolicy == InputPolicyFreeze && game.Float32ApproxEq(in.MoveAxis, 0) {
		deltaT = 0
	}

	tNext := s.state.T + deltaT
	leaving := false
	if opts.LoopOnCurrent {
		tNext = game.Wrap01(tNext)
	} else {
		leaving = tNext > 1 || tNext < 0
		tNext = game.ClampFloat(tNext, 0, 1)
	}

	pos, tangent, up, ok := s.poseAt(s.state.Rail, tNext)
	if !ok {
		return s.numericFault(tNext)
	}

	outcome := OutcomeOnRail
	if leaving {
		if next, endT, found := s.nearestEndpoint(pos, opts.EndSnapDistance, s.state.Rail, tNext); found {
			if err := s.setRail(next); err != nil {
				s.fault = err
				s.debugf("transfer target fault, disabling: %v", err)
				return s.disabledResult()
			}
			// Enter the new rail traveling away from the endpoint grabbed.
			if endT == 0 {
				tNext = boundaryEpsilon
				v = math32.Abs(v)
			} else {
				tNext = 1 - boundaryEpsilon
				v = -math32.Abs(v)
			}
			pos, tangent, up, ok = s.poseAt(next, tNext)
			if !ok {
				return s.numericFault(tNext)
			}
			outcome = OutcomeTransferred
			s.debugf("end-of-rail transfer to rail %d at t=%.0f", next, endT)
		} else {
			v = 0
			outcome = OutcomeClampedAtEnd
		}
	}

	s.state.T = tNext
	s.state.Speed = v
	s.commitPose(pos, tangent, up)

	s.state.SafeRail, s.state.SafeT = s.state.Rail, s.state.T

	// The jump check runs against the timer value carried into this tick, so
	// a rider that just re-grabbed keeps a coyote window open while steady
	// riding keeps it closed.
	if s.jumpAllowed(in) {
		s.doJump()
		return s.result(OutcomeJumped)
	}
	s.state.TimeSinceLeftRail = timerExpired
	return s.result(outcome)
}

// jumpAllowed reports whether a jump triggers this tick: either a press was
// buffered within the jump-buffer window, or the control is held and the rider
// left a rail within the coyote window.
func (s *Simulator) jumpAllowed(in InputState) bool {
	if s.state.TimeSinceJumpPressed <= s.Options.JumpBufferTime {
		return true
	}
	return in.JumpHeld && s.state.TimeSinceLeftRail <= s.Options.CoyoteTime
}

// doJump switches the rider into free fall with the launch velocity built
// from the rail tangent and the configured impulses.
func (s *Simulator) doJump() {
	opts := &s.Options
	launch := s.state.Tangent.Mul(s.state.Speed + opts.JumpForwardBoost).
		Add(mgl32.Vec3{0, 1, 0}.Mul(opts.JumpImpulse))

	s.state.Mode = ModeInAir
	s.state.TimeSinceLeftRail = 0
	s.state.TimeSinceJumpPressed = timerExpired

	s.Body.SetFreeFall(true)
	s.Body.SetVelocity(launch)
	s.debugf("jump: launch velocity %v", launch)
}

// inAirTick applies light air control, checks the fail conditions and runs
// the re-attach search once the regrab lockout has elapsed.
func (s *Simulator) inAirTick(in InputState) TickResult {
	opts := &s.Options
	s.state.TimeSinceLeftRail = saturateTimer(s.state.TimeSinceLeftRail + opts.TickDelta)

	// Clamped-delta air control along the flattened forward direction;
	// perpendicular components (gravity) are preserved.
	vel := s.Body.Velocity()
	if fwd := game.FlattenVec3(s.state.Tangent); fwd.LenSqr() >= 1e-12 {
		along := vel.Dot(fwd)
		target := game.Sign32(in.MoveAxis) * opts.AirMaxSpeed
		moved := game.MoveToward(along, target, opts.AirAccel*opts.TickDelta)
		vel = vel.Add(fwd.Mul(moved - along))
		s.Body.SetVelocity(vel)
	}

	pos := s.Body.Position()
	if pos.Y() < opts.KillY {
		return s.respawn("below kill height")
	}
	if s.state.TimeSinceLeftRail > opts.MaxAirTime {
		return s.respawn("airtime exceeded")
	}

	proj, found := s.nearestOnAnyRail(pos, opts.MaxDetachDistance)
	if !found {
		return s.respawn("detached beyond every rail")
	}

	if s.state.TimeSinceLeftRail >= opts.RegrabLockout &&
		proj.distSqr <= opts.RegrabDistance*opts.RegrabDistance {
		return s.reattach(proj)
	}
	return s.result(OutcomeAirborne)
}

// reattach snaps an airborne rider back onto the projected rail point and
// returns pose control to the rail.
func (s *Simulator) reattach(proj projection) TickResult {
	if err := s.setRail(proj.rail); err != nil {
		s.fault = err
		s.debugf("reattach target fault, disabling: %v", err)
		return s.disabledResult()
	}
	t := nudgeT(proj.t)
	pos, tangent, up, ok := s.poseAt(proj.rail, t)
	if !ok {
		// Malformed pose at the grab point: stay airborne this tick.
		s.debugf("reattach aborted: non-finite pose on rail %d at t=%.4f", proj.rail, t)
		return s.result(OutcomeAirborne)
	}

	s.state.Mode = ModeOnRail
	s.state.T = t
	s.state.Speed = 0
	// Landing opens a short coyote window; a buffered press is honored on the
	// next on-rail tick.
	s.state.TimeSinceLeftRail = 0

	s.Body.SetFreeFall(false)
	s.Body.SetVelocity(mgl32.Vec3{})
	s.commitPose(pos, tangent, up)
	s.debugf("reattached to rail %d at t=%.4f", proj.rail, t)
	return s.result(OutcomeReattached)
}

// respawn resets the rider to the last safe pose. This is the only way mode
// returns to on-rail other than an explicit re-attach.
func (s *Simulator) respawn(reason string) TickResult {
	s.debugf("respawn (%s): rail %d t=%.4f", reason, s.state.SafeRail, s.state.SafeT)
	if err := s.setRail(s.state.SafeRail); err != nil {
		s.fault = err
		return s.disabledResult()
	}

	s.state.Mode = ModeOnRail
	s.state.Speed = 0
	s.state.TimeSinceLeftRail = timerExpired
	s.Body.SetFreeFall(false)
	s.Body.SetVelocity(mgl32.Vec3{})

	t := s.state.SafeT
	pos, tangent, up, ok := s.poseAt(s.state.Rail, t)
	if !ok {
		return s.numericFault(t)
	}
	s.state.T = t
	s.commitPose(pos, tangent, up)
	return s.result(OutcomeRespawned)
}

// numericFault recovers from a non-finite evaluated pose: movement is skipped
// for the tick, the parameter resets near the rail start and speed zeroes.
// The simulator keeps running.
func (s *Simulator) numericFault(t float32) TickResult {
	s.debugf("non-finite pose on rail %d at t=%.4f, skipping movement", s.state.Rail, t)
	s.state.T = boundaryEpsilon
	s.state.Speed = 0
	return s.result(OutcomeNumericFault)
}

func (s *Simulator) result(outcome TickOutcome) TickResult {
	return TickResult{
		Outcome:  outcome,
		Rail:     s.state.Rail,
		T:        s.state.T,
		Speed:    s.state.Speed,
		Mode:     s.state.Mode,
		Position: s.state.Pos,
		Tangent:  s.state.Tangent,
	}
}

func (s *Simulator) disabledResult() TickResult {
	r := s.result(OutcomeDisabled)
	r.Err = s.fault
	return r
}

func saturateTimer(t float32) float32 {
	return math32.Min(t, timerExpired)
}
