// Package rlinput reads locomotion input from the raylib keyboard.
package rlinput

import (
	"github.com/bravely-beep/beepcraft/internal/input"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var keyNames = map[string]int32{
	"w":     rl.KeyW,
	"a":     rl.KeyA,
	"s":     rl.KeyS,
	"d":     rl.KeyD,
	"q":     rl.KeyQ,
	"e":     rl.KeyE,
	"up":    rl.KeyUp,
	"down":  rl.KeyDown,
	"left":  rl.KeyLeft,
	"right": rl.KeyRight,
	"space": rl.KeySpace,
	"enter": rl.KeyEnter,
	"shift": rl.KeyLeftShift,
}

func lookup(name string) (int32, bool) {
	k, ok := keyNames[input.NormalizeKey(name)]
	return k, ok
}

// Keyboard polls raylib once per control tick.
type Keyboard struct {
	keys map[input.Action][]int32
}

func NewKeyboard(b input.Bindings) (*Keyboard, error) {
	keys, err := input.Resolve(b, lookup)
	if err != nil {
		return nil, err
	}
	return &Keyboard{keys: keys}, nil
}

// Poll must be called from the goroutine that owns the raylib window.
func (k *Keyboard) Poll() input.Snapshot {
	var s input.Snapshot
	for action, keys := range k.keys {
		for _, key := range keys {
			if rl.IsKeyDown(key) {
				s.Held = s.Held.With(action)
			}
			if rl.IsKeyPressed(key) {
				s.Pressed = s.Pressed.With(action)
			}
		}
	}
	return s
}
