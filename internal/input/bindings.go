package input

import (
	"fmt"
	"sort"
	"strings"
)

// Bindings maps each action to the key names that trigger it. Key names are
// backend-neutral ("W", "Space", "Up") and resolved by rlinput or ebinput.
type Bindings map[Action][]string

func DefaultBindings() Bindings {
	return Bindings{
		ActionForward: {"W"},
		ActionBack:    {"S"},
		ActionLeft:    {"A"},
		ActionRight:   {"D"},
		ActionJump:    {"Space"},
	}
}

// ParseBindings converts a name-keyed map, as read from a tuning file, into
// Bindings. Actions missing from raw keep their defaults.
func ParseBindings(raw map[string][]string) (Bindings, error) {
	b := DefaultBindings()
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		keys := raw[name]
		if len(keys) == 0 {
			return nil, fmt.Errorf("input: action %s has no keys", a)
		}
		b[a] = append([]string(nil), keys...)
	}
	return b, nil
}

// Resolve maps every binding to backend key codes through resolve. Unknown
// key names are an error.
func Resolve[K comparable](b Bindings, resolve func(name string) (K, bool)) (map[Action][]K, error) {
	out := make(map[Action][]K, len(b))
	for _, a := range Actions() {
		for _, name := range b[a] {
			k, ok := resolve(name)
			if !ok {
				return nil, fmt.Errorf("input: unknown key %q bound to %s", name, a)
			}
			out[a] = append(out[a], k)
		}
	}
	return out, nil
}

// NormalizeKey canonicalises a key name for table lookup.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
