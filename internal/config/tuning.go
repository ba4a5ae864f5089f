// Package config loads locomotion tuning from YAML.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed locomotion.yaml
var embedded []byte

var ErrInvalid = errors.New("config: invalid tuning")

type PlayerTuning struct {
	Radius     float32 `yaml:"radius"`
	HalfHeight float32 `yaml:"half_height"`
	Mass       float32 `yaml:"mass"`
	Friction   float32 `yaml:"friction"`
}

type Tuning struct {
	MaxWalkSpeed    float32             `yaml:"max_walk_speed"`
	GroundThreshold float32             `yaml:"ground_threshold"`
	Up              [3]float32          `yaml:"up"`
	Gravity         [3]float32          `yaml:"gravity"`
	JumpSpeed       float32             `yaml:"jump_speed"`
	FixedHz         int                 `yaml:"fixed_hz"`
	MaxSubsteps     int                 `yaml:"max_substeps"`
	Workers         int                 `yaml:"workers"`
	Player          PlayerTuning        `yaml:"player"`
	Bindings        map[string][]string `yaml:"bindings"`
}

// Default returns the built-in tuning.
func Default() Tuning {
	return Tuning{
		MaxWalkSpeed:    2.0,
		GroundThreshold: 0.95,
		Up:              [3]float32{0, 1, 0},
		Gravity:         [3]float32{0, -9.81, 0},
		JumpSpeed:       5.0,
		FixedHz:         60,
		MaxSubsteps:     4,
		Workers:         1,
		Player: PlayerTuning{
			Radius:     0.5,
			HalfHeight: 0.35,
			Mass:       1.0,
			Friction:   0.5,
		},
	}
}

// UpVector returns the normalized up direction.
func (t Tuning) UpVector() mgl32.Vec3 {
	return mgl32.Vec3(t.Up).Normalize()
}

func (t Tuning) GravityVector() mgl32.Vec3 {
	return mgl32.Vec3(t.Gravity)
}

// FixedStep returns the physics step length in seconds.
func (t Tuning) FixedStep() float32 {
	return 1 / float32(t.FixedHz)
}

func (t Tuning) Validate() error {
	if math.IsNaN(float64(t.MaxWalkSpeed)) || t.MaxWalkSpeed <= 0 {
		return fmt.Errorf("%w: max_walk_speed must be positive, got %v", ErrInvalid, t.MaxWalkSpeed)
	}
	if !(t.GroundThreshold > -1 && t.GroundThreshold < 1) {
		return fmt.Errorf("%w: ground_threshold must be in (-1, 1), got %v", ErrInvalid, t.GroundThreshold)
	}
	if mgl32.Vec3(t.Up).Len() < 1e-6 {
		return fmt.Errorf("%w: up must be non-zero", ErrInvalid)
	}
	if t.JumpSpeed < 0 {
		return fmt.Errorf("%w: jump_speed must not be negative, got %v", ErrInvalid, t.JumpSpeed)
	}
	if t.FixedHz <= 0 {
		return fmt.Errorf("%w: fixed_hz must be positive, got %d", ErrInvalid, t.FixedHz)
	}
	if t.MaxSubsteps <= 0 {
		return fmt.Errorf("%w: max_substeps must be positive, got %d", ErrInvalid, t.MaxSubsteps)
	}
	if t.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, t.Workers)
	}
	if t.Player.Radius <= 0 || t.Player.HalfHeight < 0 || t.Player.Mass <= 0 {
		return fmt.Errorf("%w: player shape needs a positive radius and mass", ErrInvalid)
	}
	return nil
}

// Parse decodes YAML over the defaults, so omitted keys keep their default
// values, and validates the result.
func Parse(data []byte) (Tuning, error) {
	t := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Load reads tuning from path. An empty path, or a path that does not exist,
// falls back to the embedded locomotion.yaml.
func Load(path string) (Tuning, error) {
	if path == "" {
		return parseEmbedded()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Config: %s not found, using built-in tuning", path)
		return parseEmbedded()
	}
	if err != nil {
		return Tuning{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func parseEmbedded() (Tuning, error) {
	t, err := Parse(embedded)
	if err != nil {
		return Tuning{}, fmt.Errorf("embedded locomotion.yaml: %w", err)
	}
	return t, nil
}
