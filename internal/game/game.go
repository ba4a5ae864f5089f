package game

import (
	"fmt"
	"log"
	"time"

	"github.com/bravely-beep/beepcraft/internal/components"
	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/engine"
	"github.com/bravely-beep/beepcraft/internal/input"
	"github.com/bravely-beep/beepcraft/internal/input/rlinput"
	"github.com/bravely-beep/beepcraft/internal/level"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Options struct {
	ConfigPath string
	Verbose    bool
	// Workers overrides the tuning file when positive.
	Workers int
	Level   level.Options
}

type Game struct {
	Tuning    config.Tuning
	Sim       *locomotion.Simulation
	World     *physics.World
	Demo      level.Demo
	Scene     *engine.Scene
	Camera    *components.PlayerCamera
	Player    *engine.GameObject
	Verbose   bool
	DebugMode bool

	opts     Options
	keyboard *rlinput.Keyboard
	watcher  *config.Watcher
	last     locomotion.TickReport

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

// New builds the demo scene. It does not touch the window, so it can run
// before rl.InitWindow.
func New(opts Options) (*Game, error) {
	t, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Workers > 0 {
		t.Workers = opts.Workers
	}
	bindings, err := input.ParseBindings(t.Bindings)
	if err != nil {
		return nil, err
	}
	kb, err := rlinput.NewKeyboard(bindings)
	if err != nil {
		return nil, err
	}

	world := physics.NewWorld()
	reg := locomotion.NewRegistry()
	demo, err := level.Build(world, reg, t, opts.Level)
	if err != nil {
		return nil, err
	}
	sim := locomotion.NewSimulation(world, reg, t)
	sim.Verbose = opts.Verbose

	g := &Game{
		Tuning:   t,
		Sim:      sim,
		World:    world,
		Demo:     demo,
		Scene:    engine.NewScene("Demo"),
		Verbose:  opts.Verbose,
		opts:     opts,
		keyboard: kb,
	}
	g.createObjects(reg)
	return g, nil
}

func (g *Game) createObjects(reg *locomotion.Registry) {
	world := g.World
	for _, piece := range g.Demo.Pieces() {
		obj := engine.NewGameObject(piece.Name)
		obj.AddComponent(components.NewRigidbody(world, piece.Body))
		col := components.NewCollider(world, piece.Collider)
		obj.AddComponent(col)
		world.CollisionEnter.AddListener(col.OnCollisionEnter)
		world.CollisionExit.AddListener(col.OnCollisionExit)

		color := rl.NewColor(140, 140, 150, 255)
		if piece.Collider == g.Demo.Player.Collider {
			obj.Tags = append(obj.Tags, "player")
			obj.AddComponent(components.NewPlayer(reg, piece.Collider))
			color = rl.NewColor(230, 120, 40, 255)
		} else {
			obj.Tags = append(obj.Tags, "solid")
		}
		obj.AddComponent(NewMeshRenderer(col, color))
		g.Scene.AddGameObject(obj)
	}

	if players := g.Scene.FindByTag("player"); len(players) > 0 {
		g.Player = players[0]
	}

	camObj := engine.NewGameObject("Camera")
	g.Camera = components.NewPlayerCamera()
	g.Camera.Follow = g.Player
	camObj.AddComponent(g.Camera)
	g.Scene.AddGameObject(camObj)

	g.Scene.Start()
}

// Run opens the window and blocks until it is closed or the simulation
// fails.
func (g *Game) Run() error {
	rl.SetConfigFlags(rl.FlagWindowHighdpi)
	rl.InitWindow(1280, 720, "beepcraft")
	defer rl.CloseWindow()

	rl.SetTargetFPS(120)

	if g.opts.ConfigPath != "" {
		w, err := config.NewWatcher(g.opts.ConfigPath)
		if err != nil {
			log.Printf("Config: live reload disabled: %v", err)
		} else {
			g.watcher = w
			defer w.Close()
		}
	}

	for !rl.WindowShouldClose() {
		if err := g.Update(rl.GetFrameTime()); err != nil {
			return err
		}
		g.Draw()
	}
	return nil
}

func (g *Game) Update(deltaTime float32) error {
	updateStart := time.Now()
	g.pollTuning()

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		g.Camera.Orbit(d.X, d.Y)
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}

	camera := g.Camera.Rotation()
	report, err := g.Sim.Tick(g.keyboard.Poll(), &camera, deltaTime)
	if err != nil {
		return err
	}
	g.last = report
	g.Scene.Update(deltaTime)

	if g.Verbose {
		rb := engine.GetComponent[*components.Rigidbody](g.Player)
		v := rb.Velocity
		log.Printf("Player: linvel (%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
	return nil
}

// pollTuning hands reloaded tuning to the simulation; it takes effect at
// the start of the next tick.
func (g *Game) pollTuning() {
	if g.watcher == nil {
		return
	}
	select {
	case t, ok := <-g.watcher.Updates:
		if !ok {
			g.watcher = nil
			return
		}
		if g.opts.Workers > 0 {
			t.Workers = g.opts.Workers
		}
		g.Tuning = t
		g.Sim.SetTuning(t)
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("Config: reload failed: %v", err)
		}
	default:
	}
}

func (g *Game) Draw() {
	drawStart := time.Now()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	rl.BeginMode3D(g.raylibCamera())
	rl.DrawGrid(20, 1)
	g.Scene.Draw()
	rl.EndMode3D()

	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0
	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) raylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(g.Camera.Position()),
		Target:     vec3(g.Camera.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       g.Camera.FOV,
		Projection: rl.CameraPerspective,
	}
}

func (g *Game) DrawUI() {
	rl.DrawText("WASD to move, Space to jump, right mouse to orbit", 10, 10, 20, rl.LightGray)
	rl.DrawText("F1 to toggle debug view", 10, 35, 20, rl.LightGray)
	rl.DrawFPS(10, 60)

	if !g.DebugMode {
		return
	}
	rb := engine.GetComponent[*components.Rigidbody](g.Player)
	player := engine.GetComponent[*components.Player](g.Player)
	col := engine.GetComponent[*components.Collider](g.Player)
	v, want := rb.Velocity, player.DesiredVelocity()

	rl.DrawText(fmt.Sprintf("Velocity: (%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z()), 10, 85, 16, rl.Yellow)
	rl.DrawText(fmt.Sprintf("Desired:  (%.2f, %.2f, %.2f)", want.X(), want.Y(), want.Z()), 10, 105, 16, rl.Yellow)
	rl.DrawText(fmt.Sprintf("Contacts: %d  touching: %d  jumps: %d", g.last.Contacts, col.Touching, g.last.Jumps), 10, 125, 16, rl.Yellow)
	rl.DrawText(fmt.Sprintf("Steps: %d  step: %d", g.last.Steps, g.World.StepCount()), 10, 145, 16, rl.Green)
	rl.DrawText(fmt.Sprintf("Update: %.2f ms", g.updateMs), 10, 165, 16, rl.Green)
	rl.DrawText(fmt.Sprintf("Draw:   %.2f ms", g.drawMs), 10, 185, 16, rl.Green)
}
