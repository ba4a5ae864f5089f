// Package input turns raw key state into per-tick locomotion snapshots.
package input

import (
	"fmt"
	"strings"
)

// Action is a logical locomotion input.
type Action uint8

const (
	ActionForward Action = iota
	ActionBack
	ActionLeft
	ActionRight
	ActionJump
	actionCount
)

var actionNames = [actionCount]string{"forward", "back", "left", "right", "jump"}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Actions lists every action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := Action(0); a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

// ParseAction maps a name such as "forward" to its Action.
func ParseAction(name string) (Action, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for a, s := range actionNames {
		if s == n {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("input: unknown action %q", name)
}

// ActionSet is a bitmask of actions.
type ActionSet uint8

func SetOf(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

func (s ActionSet) Has(a Action) bool {
	return s&(1<<a) != 0
}

func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<a
}

func (s ActionSet) String() string {
	var parts []string
	for _, a := range Actions() {
		if s.Has(a) {
			parts = append(parts, a.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Snapshot is the input state sampled once per control tick. Pressed holds
// the actions that went down since the previous tick.
type Snapshot struct {
	Held    ActionSet
	Pressed ActionSet
}

// Merge folds a later snapshot into s. Held comes from the later sample;
// press edges from both are kept.
func (s Snapshot) Merge(later Snapshot) Snapshot {
	return Snapshot{Held: later.Held, Pressed: s.Pressed | later.Pressed}
}

// Source produces one snapshot per control tick.
type Source interface {
	Poll() Snapshot
}

// EdgeTracker derives press edges from successive held sets for backends
// that only report key-down state.
type EdgeTracker struct {
	prev ActionSet
}

func (e *EdgeTracker) Next(held ActionSet) Snapshot {
	s := Snapshot{Held: held, Pressed: held &^ e.prev}
	e.prev = held
	return s
}

// Reset forgets the previous held set.
func (e *EdgeTracker) Reset() {
	e.prev = 0
}
