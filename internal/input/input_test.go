package input

import "testing"

func TestEdgeTrackerJumpIsOneShot(t *testing.T) {
	var e EdgeTracker
	held := []ActionSet{
		0,
		SetOf(ActionJump),
		SetOf(ActionJump),
		SetOf(ActionJump, ActionForward),
		0,
		SetOf(ActionJump),
	}
	want := []bool{false, true, false, false, false, true}

	for i, h := range held {
		s := e.Next(h)
		if got := s.Pressed.Has(ActionJump); got != want[i] {
			t.Errorf("tick %d: expected jump pressed=%v, got %v", i, want[i], got)
		}
		if s.Held != h {
			t.Errorf("tick %d: expected held %v, got %v", i, h, s.Held)
		}
	}
}

func TestEdgeTrackerReset(t *testing.T) {
	var e EdgeTracker
	e.Next(SetOf(ActionJump))
	e.Reset()
	if s := e.Next(SetOf(ActionJump)); !s.Pressed.Has(ActionJump) {
		t.Error("Expected a fresh edge after Reset")
	}
}

func TestSnapshotMergeKeepsEdges(t *testing.T) {
	first := Snapshot{Held: SetOf(ActionJump), Pressed: SetOf(ActionJump)}
	later := Snapshot{Held: SetOf(ActionForward)}

	m := first.Merge(later)

	if !m.Pressed.Has(ActionJump) {
		t.Error("Expected merged snapshot to keep the jump edge")
	}
	if m.Held != later.Held {
		t.Errorf("Expected held from the later snapshot, got %v", m.Held)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		want    Action
		wantErr bool
	}{
		{"forward", ActionForward, false},
		{" Jump ", ActionJump, false},
		{"LEFT", ActionLeft, false},
		{"crouch", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseBindingsOverridesDefaults(t *testing.T) {
	b, err := ParseBindings(map[string][]string{"forward": {"Up", "W"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := b[ActionForward]; len(got) != 2 || got[0] != "Up" {
		t.Errorf("Expected forward bound to [Up W], got %v", got)
	}
	if got := b[ActionJump]; len(got) != 1 || got[0] != "Space" {
		t.Errorf("Expected default jump binding, got %v", got)
	}

	if _, err := ParseBindings(map[string][]string{"jump": {}}); err == nil {
		t.Error("Expected error for an action with no keys")
	}
	if _, err := ParseBindings(map[string][]string{"fly": {"F"}}); err == nil {
		t.Error("Expected error for an unknown action")
	}
}

func TestResolveRejectsUnknownKeys(t *testing.T) {
	table := map[string]int{"w": 1, "s": 2, "a": 3, "d": 4, "space": 5}
	resolve := func(name string) (int, bool) {
		k, ok := table[NormalizeKey(name)]
		return k, ok
	}

	keys, err := Resolve(DefaultBindings(), resolve)
	if err != nil {
		t.Fatal(err)
	}
	if keys[ActionJump][0] != 5 {
		t.Errorf("Expected jump key 5, got %v", keys[ActionJump])
	}

	b := DefaultBindings()
	b[ActionJump] = []string{"Hyper"}
	if _, err := Resolve(b, resolve); err == nil {
		t.Error("Expected error for unknown key name")
	}
}

func TestActionSetString(t *testing.T) {
	if got := SetOf(ActionForward, ActionJump).String(); got != "{forward,jump}" {
		t.Errorf("Expected {forward,jump}, got %s", got)
	}
}
