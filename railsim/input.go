package railsim

// InputState represents a single tick's control input, sampled once by the
// caller before the tick runs. The core never polls mid-tick.
type InputState struct {
	// MoveAxis is the one-dimensional move signal in [-1,1]. Dead-zones and
	// key fallbacks are the input collaborator's responsibility.
	MoveAxis float32

	// JumpPressed is true only on the tick the jump control went down.
	JumpPressed bool
	// JumpHeld is true for as long as the jump control stays down.
	JumpHeld bool
}
