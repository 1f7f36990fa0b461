package railsim

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineSim(t *testing.T, opts Options, rails ...lineRail) (*Simulator, *mockBody, *mockCurves) {
	t.Helper()
	curves := &mockCurves{rails: rails}
	body := &mockBody{}
	sim, err := NewSimulator(curves, body, opts)
	require.NoError(t, err)
	return sim, body, curves
}

func TestOnRailAdvanceScenario(t *testing.T) {
	// Rail length 10m, accel=14, maxSpeed=20, input held for 1.0s.
	opts := testOptions()
	opts.Accel = 14
	opts.MaxSpeed = 20
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	var travelled float32
	for i := 0; i < 50; i++ {
		res := sim.Tick(InputState{MoveAxis: 1})
		require.Equal(t, OutcomeOnRail, res.Outcome)
		travelled += res.Speed * opts.TickDelta
	}

	st := sim.State()
	assert.InDelta(t, 14, st.Speed, 1e-2, "v(1s) = accel * 1s")
	assert.InDelta(t, travelled/10, st.T, 1e-3, "parameter advance is the integral of v dt over the rail length")
	assert.InDelta(t, travelled, body.pos.X(), 0.05)
}

func TestClampAtEndWithoutSnapTarget(t *testing.T) {
	opts := testOptions()
	opts.Accel = 1000
	sim, _, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	var clamped bool
	for i := 0; i < 100; i++ {
		if res := sim.Tick(InputState{MoveAxis: 1}); res.Outcome == OutcomeClampedAtEnd {
			clamped = true
			assert.Equal(t, float32(1), res.T, "clamp lands exactly on the boundary")
			assert.Equal(t, float32(0), res.Speed, "clamping forces v to 0")
			assert.Equal(t, ModeOnRail, res.Mode)
			break
		}
	}
	assert.True(t, clamped, "a lone rail must clamp at its end")
}

func TestLoopWrapsInsteadOfClamping(t *testing.T) {
	opts := testOptions()
	opts.LoopOnCurrent = true
	sim, _, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	sim.state.T = 0.99
	sim.state.Speed = 10
	res := sim.Tick(InputState{MoveAxis: 1})
	assert.Equal(t, OutcomeOnRail, res.Outcome)
	assert.Less(t, res.T, float32(0.05), "t must wrap past 1, not clamp")
	assert.Greater(t, res.T, float32(0))

	sim.state.T = 0.01
	sim.state.Speed = -10
	res = sim.Tick(InputState{MoveAxis: -1})
	assert.Equal(t, OutcomeOnRail, res.Outcome)
	assert.Greater(t, res.T, float32(0.95), "negative t must wrap back below 1")
}

func TestEndOfRailTransfer(t *testing.T) {
	// Rail endpoints 1m apart; endSnapDistance=1.5 transfers, 0.5 clamps.
	a := lineRail{span: mgl32.Vec3{10, 0, 0}}
	b := lineRail{start: mgl32.Vec3{11, 0, 0}, span: mgl32.Vec3{10, 0, 0}}

	opts := testOptions()
	opts.EndSnapDistance = 1.5
	sim, _, _ := lineSim(t, opts, a, b)
	sim.state.T = 0.99
	sim.state.Speed = 10

	var res TickResult
	for i := 0; i < 10; i++ {
		if res = sim.Tick(InputState{MoveAxis: 1}); res.Outcome != OutcomeOnRail {
			break
		}
	}
	require.Equal(t, OutcomeTransferred, res.Outcome)
	assert.Equal(t, 1, res.Rail)
	assert.InDelta(t, 0, res.T, float64(2*boundaryEpsilon), "entry at the matched endpoint, nudged off the boundary")
	assert.Greater(t, res.Speed, float32(0), "entering at t=0 keeps the rider moving up the new rail")

	opts.EndSnapDistance = 0.5
	sim, _, _ = lineSim(t, opts, a, b)
	sim.state.T = 0.99
	sim.state.Speed = 10
	for i := 0; i < 10; i++ {
		if res = sim.Tick(InputState{MoveAxis: 1}); res.Outcome != OutcomeOnRail {
			break
		}
	}
	require.Equal(t, OutcomeClampedAtEnd, res.Outcome)
	assert.Equal(t, 0, res.Rail)
	assert.Equal(t, float32(0), res.Speed)
}

func TestTransferOntoFarEndpointReversesSpeed(t *testing.T) {
	// Rail B runs backward: its t=1 endpoint sits next to rail A's far end,
	// so continuing means traveling down B's parameter.
	a := lineRail{span: mgl32.Vec3{10, 0, 0}}
	b := lineRail{start: mgl32.Vec3{21, 0, 0}, span: mgl32.Vec3{-10, 0, 0}}

	opts := testOptions()
	sim, _, _ := lineSim(t, opts, a, b)
	sim.state.T = 0.99
	sim.state.Speed = 10

	var res TickResult
	for i := 0; i < 10; i++ {
		if res = sim.Tick(InputState{MoveAxis: 1}); res.Outcome != OutcomeOnRail {
			break
		}
	}
	require.Equal(t, OutcomeTransferred, res.Outcome)
	assert.Equal(t, 1, res.Rail)
	assert.InDelta(t, 1, res.T, float64(2*boundaryEpsilon))
	assert.Less(t, res.Speed, float32(0))
}

func TestJumpOnPress(t *testing.T) {
	opts := testOptions()
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	res := sim.Tick(InputState{MoveAxis: 1, JumpPressed: true})
	require.Equal(t, OutcomeJumped, res.Outcome)
	assert.Equal(t, ModeInAir, res.Mode)
	assert.True(t, body.freeFall)

	wantLaunch := mgl32.Vec3{1, 0, 0}.Mul(res.Speed + opts.JumpForwardBoost).
		Add(mgl32.Vec3{0, opts.JumpImpulse, 0})
	assert.InDelta(t, wantLaunch.X(), body.vel.X(), 1e-4)
	assert.InDelta(t, wantLaunch.Y(), body.vel.Y(), 1e-4)
	assert.InDelta(t, wantLaunch.Z(), body.vel.Z(), 1e-4)
}

func TestJumpCoyoteWindow(t *testing.T) {
	opts := testOptions()
	sim, _, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	// Inside the window with the control held: allowed.
	sim.state.TimeSinceLeftRail = opts.CoyoteTime / 2
	res := sim.Tick(InputState{JumpHeld: true})
	assert.Equal(t, OutcomeJumped, res.Outcome)

	// Outside the window: denied.
	sim, _, _ = lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})
	sim.state.TimeSinceLeftRail = opts.CoyoteTime * 3
	res = sim.Tick(InputState{JumpHeld: true})
	assert.Equal(t, OutcomeOnRail, res.Outcome)
	assert.Equal(t, ModeOnRail, res.Mode)

	// Held but never pressed, window long expired: denied.
	res = sim.Tick(InputState{JumpHeld: true})
	assert.Equal(t, OutcomeOnRail, res.Outcome)
}

func TestJumpDeniedWithoutBufferOrCoyote(t *testing.T) {
	opts := testOptions()
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	for i := 0; i < 20; i++ {
		res := sim.Tick(InputState{MoveAxis: 1})
		require.Equal(t, OutcomeOnRail, res.Outcome)
	}
	assert.False(t, body.freeFall)
}

func TestRegrabLockout(t *testing.T) {
	opts := testOptions()
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	res := sim.Tick(InputState{MoveAxis: 1, JumpPressed: true})
	require.Equal(t, OutcomeJumped, res.Outcome)

	// The body never leaves the rail's side, yet re-attach must wait out the
	// lockout even though it is within regrab distance the whole time.
	ticksUntilRegrab := 0
	for i := 0; i < 100; i++ {
		res = sim.Tick(InputState{})
		ticksUntilRegrab++
		if res.Outcome == OutcomeReattached {
			break
		}
		require.Equal(t, OutcomeAirborne, res.Outcome)
	}
	require.Equal(t, OutcomeReattached, res.Outcome)
	assert.GreaterOrEqual(t, float32(ticksUntilRegrab)*opts.TickDelta, opts.RegrabLockout)
	assert.Equal(t, ModeOnRail, res.Mode)
	assert.Equal(t, float32(0), res.Speed, "re-attach zeroes speed")
	assert.False(t, body.freeFall)
}

func TestKillHeightRespawns(t *testing.T) {
	opts := testOptions()
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	for i := 0; i < 10; i++ {
		sim.Tick(InputState{MoveAxis: 1})
	}
	require.Equal(t, OutcomeJumped, sim.Tick(InputState{JumpPressed: true}).Outcome)
	safeRail, safeT := sim.state.SafeRail, sim.state.SafeT
	body.pos = mgl32.Vec3{5, opts.KillY - 1, 0}

	res := sim.Tick(InputState{})
	require.Equal(t, OutcomeRespawned, res.Outcome)
	assert.Equal(t, ModeOnRail, res.Mode)
	assert.Equal(t, safeRail, res.Rail)
	assert.Equal(t, safeT, res.T, "respawn restores the exact recorded safe parameter")
	assert.Equal(t, float32(0), res.Speed)
	assert.False(t, body.freeFall)
}

func TestMaxAirtimeRespawns(t *testing.T) {
	opts := testOptions()
	opts.MaxAirTime = 0.1
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	require.Equal(t, OutcomeJumped, sim.Tick(InputState{JumpPressed: true}).Outcome)
	// Park the body inside the detach budget but outside regrab range.
	body.pos = mgl32.Vec3{5, 10, 0}

	var res TickResult
	for i := 0; i < 20; i++ {
		if res = sim.Tick(InputState{}); res.Outcome == OutcomeRespawned {
			break
		}
	}
	require.Equal(t, OutcomeRespawned, res.Outcome)
	assert.Equal(t, ModeOnRail, res.Mode)
}

func TestTotalDetachmentRespawns(t *testing.T) {
	opts := testOptions()
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	require.Equal(t, OutcomeJumped, sim.Tick(InputState{JumpPressed: true}).Outcome)
	body.pos = mgl32.Vec3{5, opts.MaxDetachDistance + 10, 0}

	res := sim.Tick(InputState{})
	require.Equal(t, OutcomeRespawned, res.Outcome)
	assert.Equal(t, ModeOnRail, res.Mode)
}

func TestJumpBufferHonoredOnLanding(t *testing.T) {
	opts := testOptions()
	sim, _, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	require.Equal(t, OutcomeJumped, sim.Tick(InputState{JumpPressed: true}).Outcome)

	// Ride out the lockout, pressing jump just before the regrab lands.
	var res TickResult
	for i := 0; i < 100; i++ {
		if res = sim.Tick(InputState{JumpPressed: true}); res.Outcome == OutcomeReattached {
			break
		}
	}
	require.Equal(t, OutcomeReattached, res.Outcome)

	res = sim.Tick(InputState{})
	assert.Equal(t, OutcomeJumped, res.Outcome, "a press buffered in the air fires on arrival")
}

func TestNumericFaultSkipsMovement(t *testing.T) {
	opts := testOptions()
	sim, _, curves := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	nan := math32.NaN()
	curves.evalOverride = func(rail int, evalT float32) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3, bool) {
		if evalT > 0.5 {
			return mgl32.Vec3{nan, nan, nan}, mgl32.Vec3{nan, nan, nan}, mgl32.Vec3{0, 1, 0}, true
		}
		return mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}, false
	}

	sim.state.T = 0.49
	sim.state.Speed = 15
	res := sim.Tick(InputState{MoveAxis: 1})
	require.Equal(t, OutcomeNumericFault, res.Outcome)
	assert.Equal(t, boundaryEpsilon, res.T, "parameter resets just past the start")
	assert.Equal(t, float32(0), res.Speed)
	assert.Equal(t, ModeOnRail, res.Mode)

	// The controller keeps running.
	res = sim.Tick(InputState{MoveAxis: 1})
	assert.Equal(t, OutcomeOnRail, res.Outcome)
}

func TestConfigFaultDisablesController(t *testing.T) {
	opts := testOptions()
	sim, _, curves := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	curves.rails[0].span = mgl32.Vec3{}
	res := sim.Tick(InputState{MoveAxis: 1})
	require.Equal(t, OutcomeDisabled, res.Outcome)
	require.Error(t, res.Err)

	// Not recoverable at runtime, even if the data comes back.
	curves.rails[0].span = mgl32.Vec3{10, 0, 0}
	res = sim.Tick(InputState{MoveAxis: 1})
	assert.Equal(t, OutcomeDisabled, res.Outcome)
	assert.Error(t, sim.Fault())
}

func TestActivation(t *testing.T) {
	rails := []lineRail{
		{span: mgl32.Vec3{10, 0, 0}},
		{start: mgl32.Vec3{0, 5, 0}, span: mgl32.Vec3{10, 0, 0}},
	}

	body := &mockBody{pos: mgl32.Vec3{4, 5.5, 0}}
	sim, err := NewSimulator(&mockCurves{rails: rails}, body, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, sim.State().Rail, "activation grabs the nearest rail")
	assert.InDelta(t, 0.4, sim.State().T, 0.01)

	// Nothing nearby: fall back to rail 0 near its start.
	body = &mockBody{pos: mgl32.Vec3{1000, 1000, 1000}}
	sim, err = NewSimulator(&mockCurves{rails: rails}, body, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, sim.State().Rail)
	assert.Equal(t, boundaryEpsilon, sim.State().T)

	// No rails at all is a configuration fault at activation.
	_, err = NewSimulator(&mockCurves{}, &mockBody{}, testOptions())
	assert.Error(t, err)
}

func TestFreezePolicyHoldsParameter(t *testing.T) {
	opts := testOptions()
	opts.InputPolicy = InputPolicyFreeze
	sim, _, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	sim.state.T = 0.5
	sim.state.Speed = 10
	res := sim.Tick(InputState{})
	assert.Equal(t, float32(0.5), res.T, "freeze policy holds the parameter with no input")
	assert.Less(t, res.Speed, float32(10), "residual speed still decays")

	opts.InputPolicy = InputPolicyZeroTarget
	sim, _, _ = lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})
	sim.state.T = 0.5
	sim.state.Speed = 10
	res = sim.Tick(InputState{})
	assert.Greater(t, res.T, float32(0.5), "zero-target policy keeps moving while speed decays")
}

func TestSurfaceOffsetAxes(t *testing.T) {
	opts := testOptions()
	opts.SurfaceOffset = 0.5
	opts.OffsetAxis = OffsetAxisUp
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	sim.Tick(InputState{MoveAxis: 1})
	assert.InDelta(t, 0.5, body.pos.Y(), 1e-4, "up offset rides above the centerline")

	opts.OffsetAxis = OffsetAxisRight
	sim, body, _ = lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})
	sim.Tick(InputState{MoveAxis: 1})
	assert.InDelta(t, 0, body.pos.Y(), 1e-4)
	assert.InDelta(t, 0.5, math32.Abs(body.pos.Z()), 1e-4, "right offset rides beside the centerline")
}

func TestAirControlPreservesPerpendicularVelocity(t *testing.T) {
	opts := testOptions()
	sim, body, _ := lineSim(t, opts, lineRail{span: mgl32.Vec3{10, 0, 0}})

	require.Equal(t, OutcomeJumped, sim.Tick(InputState{MoveAxis: 1, JumpPressed: true}).Outcome)
	// Keep the rider away from regrab range so the air tick runs clean.
	body.pos = mgl32.Vec3{5, 10, 0}
	body.vel = mgl32.Vec3{2, -6, 1}

	res := sim.Tick(InputState{MoveAxis: 1})
	require.Equal(t, OutcomeAirborne, res.Outcome)
	assert.InDelta(t, -6, body.vel.Y(), 1e-4, "vertical velocity is untouched")
	assert.InDelta(t, 1, body.vel.Z(), 1e-4, "perpendicular horizontal velocity is untouched")
	assert.InDelta(t, 2+opts.AirAccel*opts.TickDelta, body.vel.X(), 1e-4, "forward component ramps toward airMaxSpeed")
}
