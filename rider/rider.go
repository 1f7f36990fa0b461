package rider

import (
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/railgrind/railgrind/railsim"
	"github.com/railgrind/railgrind/rerror"
	"github.com/sirupsen/logrus"
)

// InputProvider supplies the per-tick control snapshot. Implementations own
// dead-zones, key mapping and device polling; the rider samples each signal
// exactly once per tick.
type InputProvider interface {
	MoveAxis() float32
	JumpJustPressed() bool
	JumpHeld() bool
}

// Rider binds a locomotion simulator to an input source and a logger for the
// lifetime of a session. It also exposes the read-only query surface cameras
// and HUDs consume, so nothing outside the core ever needs privileged access
// to simulator internals.
type Rider struct {
	id    uuid.UUID
	log   *logrus.Logger
	input InputProvider
	sim   *railsim.Simulator
}

// New activates a rider against the given rail set and embodiment. The
// simulator's debug trace is routed into the logger at debug level.
func New(log *logrus.Logger, curves railsim.CurveProvider, body railsim.Embodiment, input InputProvider, opts railsim.Options) (*Rider, error) {
	if opts.Debugf == nil && log != nil {
		opts.Debugf = log.Debugf
	}
	sim, err := railsim.NewSimulator(curves, body, opts)
	if err != nil {
		return nil, err
	}

	r := &Rider{
		id:    uuid.New(),
		log:   log,
		input: input,
		sim:   sim,
	}
	if log != nil {
		log.Infof("rider %s activated on rail %d", r.id, sim.State().Rail)
	}
	return r, nil
}

// Tick samples the input once and advances the simulator by one fixed step.
// A panic inside the tick is captured and reported as a disabled result, never
// as a healthy zero-valued one.
func (r *Rider) Tick() (res railsim.TickResult) {
	defer func() {
		if v := recover(); v != nil {
			sentry.CurrentHub().Recover(v)
			if r.log != nil {
				r.log.Errorf("rider %s tick panicked: %v", r.id, v)
			}
			res = railsim.TickResult{
				Outcome: railsim.OutcomeDisabled,
				Err:     rerror.New("tick panic: %v", v),
				Mode:    r.sim.State().Mode,
				Rail:    r.sim.State().Rail,
			}
		}
	}()

	res = r.sim.Tick(railsim.InputState{
		MoveAxis:    r.input.MoveAxis(),
		JumpPressed: r.input.JumpJustPressed(),
		JumpHeld:    r.input.JumpHeld(),
	})

	if r.log != nil {
		switch res.Outcome {
		case railsim.OutcomeDisabled:
			r.log.Errorf("rider %s disabled: %v", r.id, res.Err)
		case railsim.OutcomeNumericFault:
			r.log.Warnf("rider %s skipped a tick on malformed curve data (rail %d)", r.id, res.Rail)
		case railsim.OutcomeRespawned:
			r.log.Infof("rider %s respawned on rail %d at t=%.3f", r.id, res.Rail, res.T)
		}
	}
	return res
}

// ID returns the session-unique identity of the rider.
func (r *Rider) ID() uuid.UUID {
	return r.id
}

// CurrentRailIndex returns the index of the rail the rider is bound to.
func (r *Rider) CurrentRailIndex() int {
	return r.sim.State().Rail
}

// NormalizedT returns the rider's normalized parameter along the active rail.
func (r *Rider) NormalizedT() float32 {
	return r.sim.State().T
}

// Mode returns the rider's current movement mode.
func (r *Rider) Mode() railsim.Mode {
	return r.sim.State().Mode
}

// Speed returns the signed along-rail speed in m/s.
func (r *Rider) Speed() float32 {
	return r.sim.State().Speed
}

// Position returns the world position committed on the last on-rail tick.
func (r *Rider) Position() mgl32.Vec3 {
	return r.sim.State().Pos
}

// Fault returns the latched configuration fault, if any.
func (r *Rider) Fault() error {
	return r.sim.Fault()
}
