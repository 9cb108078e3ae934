package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/orbits/internal/integrators"
	"github.com/san-kum/orbits/internal/physics"
	"github.com/san-kum/orbits/internal/sim"
	"gopkg.in/yaml.v3"
)

// BodiesFile is the startup document looked up beside the executable.
const BodiesFile = "config.json"

const (
	DefaultSaveDir = "saves"
	DefaultWidth   = 1280
	DefaultHeight  = 800
	DefaultFPS     = 60
)

var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings are the application settings. Every field has a usable default,
// so the settings file is optional.
type Settings struct {
	TimeStep     float32        `yaml:"time_step"`
	DisplayScale float32        `yaml:"display_scale"`
	Softening    float32        `yaml:"softening"`
	RadiusScale  float32        `yaml:"radius_scale"`
	HitMargin    float32        `yaml:"hit_margin"`
	Integrator   string         `yaml:"integrator"`
	Bodies       string         `yaml:"bodies"`
	SaveDir      string         `yaml:"save_dir"`
	Log          LogSettings    `yaml:"log"`
	Window       WindowSettings `yaml:"window"`
}

type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WindowSettings struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	FPS        int  `yaml:"fps"`
	Fullscreen bool `yaml:"fullscreen"`
}

func DefaultSettings() *Settings {
	return &Settings{
		TimeStep:     physics.TimeStep,
		DisplayScale: physics.DisplayScale,
		Softening:    physics.Softening,
		RadiusScale:  physics.RadiusScale,
		HitMargin:    physics.HitMargin,
		Integrator:   "symplectic",
		SaveDir:      DefaultSaveDir,
		Log:          LogSettings{Level: "info", Format: "text"},
		Window: WindowSettings{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
		},
	}
}

// Load reads settings from path on top of the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Settings) Validate() error {
	if s.TimeStep <= 0 {
		return fmt.Errorf("%w: time_step must be positive, got %g", ErrInvalidSettings, s.TimeStep)
	}
	if s.DisplayScale <= 0 {
		return fmt.Errorf("%w: display_scale must be positive, got %g", ErrInvalidSettings, s.DisplayScale)
	}
	if s.Softening <= 0 {
		return fmt.Errorf("%w: softening must be positive, got %g", ErrInvalidSettings, s.Softening)
	}
	if s.RadiusScale <= 0 {
		return fmt.Errorf("%w: radius_scale must be positive, got %g", ErrInvalidSettings, s.RadiusScale)
	}
	if s.HitMargin < 0 {
		return fmt.Errorf("%w: hit_margin must not be negative, got %g", ErrInvalidSettings, s.HitMargin)
	}
	if _, err := integrators.Get(s.Integrator); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// BodiesPath returns the startup document: the configured path, or
// config.json beside the running executable.
func (s *Settings) BodiesPath() (string, error) {
	if s.Bodies != "" {
		return s.Bodies, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), BodiesFile), nil
}

// ForceField derives G from the display scale.
func (s *Settings) ForceField() *physics.ForceField {
	return physics.NewScaledForceField(s.DisplayScale, s.Softening)
}

func (s *Settings) SimConfig() sim.Config {
	return sim.Config{
		Dt:          s.TimeStep,
		RadiusScale: s.RadiusScale,
		HitMargin:   s.HitMargin,
	}
}
