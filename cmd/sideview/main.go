package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/input"
	"github.com/bravely-beep/beepcraft/internal/input/ebinput"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/sideview"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

const (
	screenW = 800
	screenH = 480
)

type Game struct {
	space    *sideview.Space
	sim      *locomotion.Simulation
	scene    sideview.Scene
	keyboard *ebinput.Keyboard
	watcher  *config.Watcher
	debug    bool
	verbose  bool
	offset   cp.Vector
	last     locomotion.TickReport
}

func NewGame(t config.Tuning, opts sideview.SceneOptions, verbose bool) (*Game, error) {
	bindings, err := input.ParseBindings(t.Bindings)
	if err != nil {
		return nil, err
	}
	kb, err := ebinput.NewKeyboard(bindings)
	if err != nil {
		return nil, err
	}

	space := sideview.NewSpace()
	space.Verbose = verbose
	reg := locomotion.NewRegistry()
	scene, err := sideview.BuildScene(space, reg, t, opts)
	if err != nil {
		return nil, err
	}
	sim := locomotion.NewSimulation(space, reg, t)
	sim.Verbose = verbose

	return &Game{
		space:    space,
		sim:      sim,
		scene:    scene,
		keyboard: kb,
		verbose:  verbose,
		offset:   cp.Vector{X: screenW / 2, Y: screenH - 80},
	}, nil
}

func (g *Game) Update() error {
	g.pollTuning()
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}

	dt := 1 / float32(ebiten.TPS())
	report, err := g.sim.Tick(g.keyboard.Poll(), &g.scene.Camera, dt)
	if err != nil {
		return err
	}
	g.last = report

	if g.verbose {
		b, _ := g.space.Body(g.scene.Player.Body)
		v := b.LinearVelocity
		log.Printf("Player: linvel (%.3f, %.3f)", v.X(), v.Y())
	}
	return nil
}

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
		g.sim.SetTuning(t)
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("Config: reload failed: %v", err)
		}
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 20, G: 20, B: 30, A: 255})
	cp.DrawSpace(g.space.CP(), &spaceDrawer{screen: screen, offset: g.offset})

	ebitenutil.DebugPrintAt(screen, "A/D to walk, Space to jump, F1 for debug", 8, 8)
	if !g.debug {
		return
	}
	b, _ := g.space.Body(g.scene.Player.Body)
	want := mgl32.Vec3{}
	if s, ok := g.sim.Registry.Lookup(g.scene.Player.Collider); ok {
		want = s.DesiredVelocity
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Velocity: (%.2f, %.2f)", b.LinearVelocity.X(), b.LinearVelocity.Y()), 8, 28)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Desired:  (%.2f, %.2f)", want.X(), want.Y()), 8, 44)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Contacts: %d  jumps: %d  step: %d", g.last.Contacts, g.last.Jumps, g.space.StepCount()), 8, 60)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	configPath := flag.String("config", "locomotion.yaml", "tuning file; missing files fall back to the built-in tuning")
	verbose := flag.Bool("verbose", false, "log the player's velocity every frame")
	conveyor := flag.Float64("conveyor", 0, "ground speed in units per second")
	flag.Parse()

	t, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	opts := sideview.DefaultSceneOptions()
	opts.GroundVelocity = mgl32.Vec3{float32(*conveyor), 0, 0}

	game, err := NewGame(t, opts, *verbose)
	if err != nil {
		log.Fatal(err)
	}
	if w, err := config.NewWatcher(*configPath); err != nil {
		log.Printf("Config: live reload disabled: %v", err)
	} else {
		game.watcher = w
		defer w.Close()
	}

	ebiten.SetTPS(t.FixedHz)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("beepcraft sideview")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
