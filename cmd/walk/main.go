package main

import (
	"flag"
	"log"

	"github.com/bravely-beep/beepcraft/internal/game"
	"github.com/bravely-beep/beepcraft/internal/level"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	configPath := flag.String("config", "locomotion.yaml", "tuning file; missing files fall back to the built-in tuning")
	verbose := flag.Bool("verbose", false, "log the player's velocity every frame")
	workers := flag.Int("workers", 0, "contact hook workers (0 uses the tuning file)")
	wall := flag.Bool("wall", false, "add a wall in front of the player")
	static := flag.Bool("static", false, "keep the floor still")
	flag.Parse()

	opts := level.DefaultOptions()
	opts.Wall = *wall
	if *static {
		opts.FloorVelocity = mgl32.Vec3{}
	}

	g, err := game.New(game.Options{
		ConfigPath: *configPath,
		Verbose:    *verbose,
		Workers:    *workers,
		Level:      opts,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := g.Run(); err != nil {
		log.Fatal(err)
	}
}
