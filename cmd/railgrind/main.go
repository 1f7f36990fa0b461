package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/railgrind/railgrind"
	"github.com/railgrind/railgrind/railsim"
	"github.com/railgrind/railgrind/settings"
	"github.com/sirupsen/logrus"
)

// The following program rides the authored rail layout with the scripted
// input from the settings file, printing every notable tick outcome.
func main() {
	path := "settings.toml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	conf, err := settings.Read(path)
	if err != nil {
		log.Fatalf("failed reading settings: %v", err)
	}
	opts, err := conf.Simulator.Options()
	if err != nil {
		log.Fatalf("bad simulator settings: %v", err)
	}
	curves, err := conf.BuildRails()
	if err != nil {
		log.Fatalf("failed building rails: %v", err)
	}
	log.Infof("loaded %d rails: %v", curves.RailCount(), curves.Names())

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	script := conf.BuildScript()
	body := newDemoBody(opts.Gravity)
	session := railgrind.New()
	go func() {
		if err := session.Spawn(log, curves, body, script, opts); err != nil {
			log.Fatalf("failed spawning rider: %v", err)
		}
	}()
	r, err := session.Accept()
	if err != nil {
		log.Fatalf("session closed: %v", err)
	}
	defer session.Close()

	ticker := time.NewTicker(time.Duration(float64(opts.TickDelta) * float64(time.Second)))
	defer ticker.Stop()

	last := railsim.OutcomeOnRail
	for range ticker.C {
		if script.Done() {
			break
		}
		body.step(opts.TickDelta)
		res := r.Tick()
		script.Advance()

		if res.Outcome != last {
			pos := r.Position()
			log.Infof("tick outcome %s on rail %d (t=%.3f, speed=%.2f, pos=%.2f %.2f %.2f)",
				res.Outcome, res.Rail, res.T, res.Speed, pos.X(), pos.Y(), pos.Z())
			last = res.Outcome
		}
		if res.Outcome == railsim.OutcomeDisabled {
			log.Errorf("controller disabled: %v", res.Err)
			break
		}
	}

	session.Remove(r.ID())
	fmt.Printf("Run finished on rail %d at t=%.3f in mode %s.\n", r.CurrentRailIndex(), r.NormalizedT(), r.Mode())
}

// demoBody is a minimal embodiment for the headless demo. While the rider is
// on a rail the simulator teleports it each tick; in free fall it integrates
// gravity itself, standing in for a game engine's physics step.
type demoBody struct {
	gravity  mgl32.Vec3
	pos      mgl32.Vec3
	vel      mgl32.Vec3
	freeFall bool
}

func newDemoBody(gravity mgl32.Vec3) *demoBody {
	return &demoBody{gravity: gravity}
}

func (b *demoBody) step(dt float32) {
	if !b.freeFall {
		return
	}
	b.vel = b.vel.Add(b.gravity.Mul(dt))
	b.pos = b.pos.Add(b.vel.Mul(dt))
}

func (b *demoBody) SetPose(pos mgl32.Vec3, _ mgl32.Quat) { b.pos = pos }
func (b *demoBody) SetFreeFall(freeFall bool)            { b.freeFall = freeFall }
func (b *demoBody) SetVelocity(vel mgl32.Vec3)           { b.vel = vel }
func (b *demoBody) Position() mgl32.Vec3                 { return b.pos }
func (b *demoBody) Velocity() mgl32.Vec3                 { return b.vel }
