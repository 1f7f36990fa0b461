package rider

// ScriptStep holds one segment of a scripted control sequence. Jump registers
// as a press on the first tick of the step only; Hold keeps the jump control
// down for the whole step.
type ScriptStep struct {
	Ticks int
	Move  float32
	Jump  bool
	Hold  bool
}

// ScriptedInput replays a fixed sequence of control steps, one tick at a
// time. It implements InputProvider for demos and deterministic tests. The
// caller advances it once per simulator tick; after the last step it reports
// neutral input forever.
type ScriptedInput struct {
	steps []ScriptStep
	step  int
	tick  int
}

func NewScriptedInput(steps ...ScriptStep) *ScriptedInput {
	kept := make([]ScriptStep, 0, len(steps))
	for _, st := range steps {
		if st.Ticks > 0 {
			kept = append(kept, st)
		}
	}
	return &ScriptedInput{steps: kept}
}

func (s *ScriptedInput) MoveAxis() float32 {
	if s.Done() {
		return 0
	}
	return s.steps[s.step].Move
}

func (s *ScriptedInput) JumpJustPressed() bool {
	if s.Done() {
		return false
	}
	return s.steps[s.step].Jump && s.tick == 0
}

func (s *ScriptedInput) JumpHeld() bool {
	if s.Done() {
		return false
	}
	cur := s.steps[s.step]
	return cur.Hold || (cur.Jump && s.tick == 0)
}

// Advance moves the script forward by one tick.
func (s *ScriptedInput) Advance() {
	if s.Done() {
		return
	}
	s.tick++
	if s.tick >= s.steps[s.step].Ticks {
		s.step++
		s.tick = 0
	}
}

// Done reports whether the script has been fully consumed.
func (s *ScriptedInput) Done() bool {
	return s.step >= len(s.steps)
}
