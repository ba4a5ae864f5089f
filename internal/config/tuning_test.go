package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedTuningMatchesDefault(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if got.MaxWalkSpeed != def.MaxWalkSpeed || got.GroundThreshold != def.GroundThreshold {
		t.Errorf("Expected embedded speed/threshold %v/%v, got %v/%v",
			def.MaxWalkSpeed, def.GroundThreshold, got.MaxWalkSpeed, got.GroundThreshold)
	}
	if got.Up != def.Up || got.FixedHz != def.FixedHz {
		t.Errorf("Expected embedded up %v at %d Hz, got %v at %d Hz", def.Up, def.FixedHz, got.Up, got.FixedHz)
	}
	if len(got.Bindings["jump"]) != 1 || got.Bindings["jump"][0] != "Space" {
		t.Errorf("Expected jump bound to Space, got %v", got.Bindings["jump"])
	}
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	got, err := Parse([]byte("max_walk_speed: 3.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got.MaxWalkSpeed != 3.5 {
		t.Errorf("Expected speed 3.5, got %v", got.MaxWalkSpeed)
	}
	if got.GroundThreshold != 0.95 {
		t.Errorf("Expected default threshold 0.95, got %v", got.GroundThreshold)
	}
	if got.Player.Radius != 0.5 {
		t.Errorf("Expected default radius 0.5, got %v", got.Player.Radius)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	got, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.MaxWalkSpeed != Default().MaxWalkSpeed {
		t.Errorf("Expected defaults, got %+v", got)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("max_walk_sped: 2\n")); err == nil {
		t.Error("Expected error for misspelled key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		ok     bool
	}{
		{"default", func(*Tuning) {}, true},
		{"zero speed", func(t *Tuning) { t.MaxWalkSpeed = 0 }, false},
		{"threshold one", func(t *Tuning) { t.GroundThreshold = 1 }, false},
		{"threshold minus one", func(t *Tuning) { t.GroundThreshold = -1 }, false},
		{"negative threshold", func(t *Tuning) { t.GroundThreshold = -0.5 }, true},
		{"zero up", func(t *Tuning) { t.Up = [3]float32{} }, false},
		{"zero hz", func(t *Tuning) { t.FixedHz = 0 }, false},
		{"zero substeps", func(t *Tuning) { t.MaxSubsteps = 0 }, false},
		{"zero workers", func(t *Tuning) { t.Workers = 0 }, false},
		{"negative jump", func(t *Tuning) { t.JumpSpeed = -1 }, false},
		{"zero radius", func(t *Tuning) { t.Player.Radius = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu := Default()
			tt.mutate(&tu)
			err := tu.Validate()
			if tt.ok && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestUpVectorIsNormalized(t *testing.T) {
	tu := Default()
	tu.Up = [3]float32{0, 2, 0}
	if up := tu.UpVector(); up.Y() != 1 {
		t.Errorf("Expected unit up, got %v", up)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("jump_speed: 7\nworkers: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.JumpSpeed != 7 || got.Workers != 3 {
		t.Errorf("Expected jump 7 and 3 workers, got %v and %d", got.JumpSpeed, got.Workers)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if got.MaxWalkSpeed != Default().MaxWalkSpeed {
		t.Errorf("Expected embedded tuning, got %+v", got)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("fixed_hz: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

func TestWatcherDeliversReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("max_walk_speed: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("max_walk_speed: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Updates:
		if got.MaxWalkSpeed != 4 {
			t.Errorf("Expected reloaded speed 4, got %v", got.MaxWalkSpeed)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-w.Updates; ok {
		t.Error("Expected Updates to be closed")
	}
	_ = w.Close()
}
