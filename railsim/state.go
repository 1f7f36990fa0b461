package railsim

import "github.com/go-gl/mathgl/mgl32"

// Mode is the tagged movement state of a rider. Exactly one mode is active at
// a time; there is no transient "kinematic while airborne" combination.
type Mode uint8

const (
	ModeOnRail Mode = iota
	ModeInAir
)

// String ...
func (m Mode) String() string {
	switch m {
	case ModeOnRail:
		return "on-rail"
	case ModeInAir:
		return "in-air"
	}
	return "unknown"
}

// RiderState holds the mutable state of a single riding entity, advanced once
// per fixed tick. Multiple riders are fully independent instances sharing the
// same read-only rail set.
type RiderState struct {
	Rail  int
	T     float32
	Speed float32
	Mode  Mode

	// TimeSinceLeftRail counts up in seconds from the moment the rider left a
	// rail. While riding it is parked at the expired sentinel, so time-window
	// checks against it default to closed. In air it doubles as the airtime
	// and regrab-lockout clock.
	TimeSinceLeftRail float32
	// TimeSinceJumpPressed counts up from the last jump press; it drives the
	// jump-buffer window.
	TimeSinceJumpPressed float32

	// SafeRail and SafeT record the last pose that was successfully committed
	// while on a rail. They are read only by respawn, never by normal movement.
	SafeRail int
	SafeT    float32

	// Pos, Tangent and Up mirror the world-space pose committed on the last
	// on-rail tick.
	Pos     mgl32.Vec3
	Tangent mgl32.Vec3
	Up      mgl32.Vec3
}

// newRiderState returns a rider state with both timers parked at the expired
// sentinel so every forgiving-control window starts closed.
func newRiderState() RiderState {
	return RiderState{
		Mode:                 ModeOnRail,
		TimeSinceLeftRail:    timerExpired,
		TimeSinceJumpPressed: timerExpired,
	}
}
