// Package ebinput reads locomotion input from the ebiten keyboard.
package ebinput

import (
	"github.com/bravely-beep/beepcraft/internal/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var keyNames = map[string]ebiten.Key{
	"w":     ebiten.KeyW,
	"a":     ebiten.KeyA,
	"s":     ebiten.KeyS,
	"d":     ebiten.KeyD,
	"q":     ebiten.KeyQ,
	"e":     ebiten.KeyE,
	"up":    ebiten.KeyArrowUp,
	"down":  ebiten.KeyArrowDown,
	"left":  ebiten.KeyArrowLeft,
	"right": ebiten.KeyArrowRight,
	"space": ebiten.KeySpace,
	"enter": ebiten.KeyEnter,
	"shift": ebiten.KeyShiftLeft,
}

func lookup(name string) (ebiten.Key, bool) {
	k, ok := keyNames[input.NormalizeKey(name)]
	return k, ok
}

// Keyboard polls ebiten once per Update.
type Keyboard struct {
	keys map[input.Action][]ebiten.Key
}

func NewKeyboard(b input.Bindings) (*Keyboard, error) {
	keys, err := input.Resolve(b, lookup)
	if err != nil {
		return nil, err
	}
	return &Keyboard{keys: keys}, nil
}

func (k *Keyboard) Poll() input.Snapshot {
	var s input.Snapshot
	for action, keys := range k.keys {
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				s.Held = s.Held.With(action)
			}
			if inpututil.IsKeyJustPressed(key) {
				s.Pressed = s.Pressed.With(action)
			}
		}
	}
	return s
}
