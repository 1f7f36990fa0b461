package settings

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/railgrind/railgrind/curve"
	"github.com/railgrind/railgrind/game"
	"github.com/railgrind/railgrind/railsim"
	"github.com/railgrind/railgrind/rerror"
	"github.com/railgrind/railgrind/rider"
)

// Settings is the full on-disk configuration: simulator tuning, the authored
// rail layout and an optional demo control script.
type Settings struct {
	Simulator Simulator `toml:"simulator"`
	Rails     []Rail    `toml:"rail"`
	Script    []Step    `toml:"script"`
}

// Simulator mirrors railsim.Options in a TOML-friendly shape. Enum-valued
// options are spelled out as strings so a config file stays readable.
type Simulator struct {
	TickRate int `toml:"tick_rate"`

	LoopOnCurrent   bool    `toml:"loop_on_current"`
	EndSnapDistance float32 `toml:"end_snap_distance"`

	MaxSpeed float32 `toml:"max_speed"`
	Accel    float32 `toml:"accel"`
	Brake    float32 `toml:"brake"`

	GravityAlongRail float32    `toml:"gravity_along_rail"`
	Gravity          [3]float32 `toml:"gravity"`

	// InputPolicy is "zero_target" or "freeze".
	InputPolicy string `toml:"input_policy"`

	SurfaceOffset float32 `toml:"surface_offset"`
	// OffsetAxis is "up" or "right".
	OffsetAxis string `toml:"offset_axis"`
	UseCurveUp bool   `toml:"use_curve_up"`

	JumpImpulse      float32 `toml:"jump_impulse"`
	JumpForwardBoost float32 `toml:"jump_forward_boost"`
	CoyoteTime       float32 `toml:"coyote_time"`
	JumpBufferTime   float32 `toml:"jump_buffer_time"`

	AirAccel    float32 `toml:"air_accel"`
	AirMaxSpeed float32 `toml:"air_max_speed"`

	KillY             float32 `toml:"kill_y"`
	MaxDetachDistance float32 `toml:"max_detach_distance"`
	MaxAirTime        float32 `toml:"max_air_time"`

	RegrabDistance float32 `toml:"regrab_distance"`
	RegrabLockout  float32 `toml:"regrab_lockout"`
}

// Rail is one authored rail: local control points plus a world placement
// given as a translation and a yaw in degrees.
type Rail struct {
	Name     string       `toml:"name"`
	Loop     bool         `toml:"loop"`
	Position [3]float32   `toml:"position"`
	YawDeg   float32      `toml:"yaw_deg"`
	Points   [][3]float32 `toml:"points"`
}

// Step is one segment of the demo control script.
type Step struct {
	Ticks int     `toml:"ticks"`
	Move  float32 `toml:"move"`
	Jump  bool    `toml:"jump"`
	Hold  bool    `toml:"hold"`
}

// Default returns the settings written on first run: default tuning, a small
// authored layout and a short script that rides the first rail and jumps off
// the end.
func Default() Settings {
	return Settings{
		Simulator: Simulator{
			TickRate:          game.DefaultTickRate,
			EndSnapDistance:   game.DefaultEndSnapDistance,
			MaxSpeed:          game.DefaultMaxSpeed,
			Accel:             game.DefaultAccel,
			Brake:             game.DefaultBrake,
			GravityAlongRail:  game.DefaultGravityAlongRail,
			Gravity:           [3]float32{0, game.DefaultGravityY, 0},
			InputPolicy:       "zero_target",
			SurfaceOffset:     game.DefaultSurfaceOffset,
			OffsetAxis:        "up",
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
		},
		Rails: []Rail{
			{
				Name:   "main",
				Points: [][3]float32{{0, 0, 0}, {10, 1, 0}, {20, 0, 5}, {30, 2, 5}},
			},
			{
				Name:     "return",
				Loop:     true,
				Position: [3]float32{32, 2, 5},
				Points:   [][3]float32{{0, 0, 0}, {8, 0, 0}, {8, 0, 8}, {0, 0, 8}},
			},
		},
		Script: []Step{
			{Ticks: 120, Move: 1},
			{Ticks: 1, Move: 1, Jump: true},
			{Ticks: 60, Move: 0.5, Hold: true},
			{Ticks: 120, Move: 1},
		},
	}
}

// Read loads the settings at the given path, writing and returning the
// defaults when the file does not exist yet.
func Read(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s := Default()
		out, mErr := toml.Marshal(s)
		if mErr != nil {
			return s, mErr
		}
		return s, os.WriteFile(path, out, 0644)
	}
	if err != nil {
		return Settings{}, err
	}

	// Decode over the defaults so omitted keys keep their default values.
	s := Default()
	s.Rails = nil
	s.Script = nil
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, rerror.New("settings %s: %v", path, err)
	}
	if len(s.Rails) == 0 {
		s.Rails = Default().Rails
	}
	if len(s.Script) == 0 {
		s.Script = Default().Script
	}
	return s, nil
}

// Options converts the simulator section into railsim options.
func (s Simulator) Options() (railsim.Options, error) {
	opts := railsim.DefaultOptions()
	if s.TickRate > 0 {
		opts.TickDelta = 1.0 / float32(s.TickRate)
	}
	opts.LoopOnCurrent = s.LoopOnCurrent
	opts.EndSnapDistance = s.EndSnapDistance
	opts.MaxSpeed = s.MaxSpeed
	opts.Accel = s.Accel
	opts.Brake = s.Brake
	opts.GravityAlongRail = s.GravityAlongRail
	opts.Gravity = mgl32.Vec3{s.Gravity[0], s.Gravity[1], s.Gravity[2]}
	opts.SurfaceOffset = s.SurfaceOffset
	opts.UseCurveUp = s.UseCurveUp
	opts.JumpImpulse = s.JumpImpulse
	opts.JumpForwardBoost = s.JumpForwardBoost
	opts.CoyoteTime = s.CoyoteTime
	opts.JumpBufferTime = s.JumpBufferTime
	opts.AirAccel = s.AirAccel
	opts.AirMaxSpeed = s.AirMaxSpeed
	opts.KillY = s.KillY
	opts.MaxDetachDistance = s.MaxDetachDistance
	opts.MaxAirTime = s.MaxAirTime
	opts.RegrabDistance = s.RegrabDistance
	opts.RegrabLockout = s.RegrabLockout

	switch s.InputPolicy {
	case "", "zero_target":
		opts.InputPolicy = railsim.InputPolicyZeroTarget
	case "freeze":
		opts.InputPolicy = railsim.InputPolicyFreeze
	default:
		return opts, rerror.New("unknown input_policy %q", s.InputPolicy)
	}
	switch s.OffsetAxis {
	case "", "up":
		opts.OffsetAxis = railsim.OffsetAxisUp
	case "right":
		opts.OffsetAxis = railsim.OffsetAxisRight
	default:
		return opts, rerror.New("unknown offset_axis %q", s.OffsetAxis)
	}
	return opts, nil
}

// Build constructs the authored rail with its placement applied.
func (r Rail) Build() (*curve.Rail, error) {
	pts := make([]mgl32.Vec3, len(r.Points))
	for i, p := range r.Points {
		pts[i] = mgl32.Vec3{p[0], p[1], p[2]}
	}
	placement := mgl32.Translate3D(r.Position[0], r.Position[1], r.Position[2]).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(r.YawDeg)))
	return curve.NewRail(r.Name, placement, r.Loop, pts...)
}

// BuildRails constructs the full authored rail set in file order.
func (s Settings) BuildRails() (*curve.Set, error) {
	if len(s.Rails) == 0 {
		return nil, rerror.New(game.ErrorNoRails)
	}
	rails := make([]*curve.Rail, 0, len(s.Rails))
	for _, def := range s.Rails {
		r, err := def.Build()
		if err != nil {
			return nil, err
		}
		rails = append(rails, r)
	}
	return curve.NewSet(rails...)
}

// BuildScript converts the script section into a scripted input source.
func (s Settings) BuildScript() *rider.ScriptedInput {
	steps := make([]rider.ScriptStep, len(s.Script))
	for i, st := range s.Script {
		steps[i] = rider.ScriptStep{Ticks: st.Ticks, Move: st.Move, Jump: st.Jump, Hold: st.Hold}
	}
	return rider.NewScriptedInput(steps...)
}
