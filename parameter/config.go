package parameter

import (
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/verlet/vmath"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid physics config")

// WindConfig is the initial cloth wind
type WindConfig struct {
	Direction  [3]float64 `toml:"direction"`
	Strength   float64    `toml:"strength"`
	Turbulence float64    `toml:"turbulence"`
}

// Config aggregates every tunable of the physics core
// Zero-valued fields in a TOML file keep their defaults since decoding starts from Default()
type Config struct {
	Gravity              [3]float64 `toml:"gravity"`
	FixedTimestep        float64    `toml:"fixed_timestep"`
	MaxStepsPerFrame     int        `toml:"max_steps_per_frame"`
	VerletSubsteps       int        `toml:"verlet_substeps"`
	RelaxationIterations int        `toml:"relaxation_iterations"`
	VerletDamping        float64    `toml:"verlet_damping"`
	GridCellSize         float64    `toml:"grid_cell_size"`
	EntityDamping        float64    `toml:"entity_damping"`
	EntityRestitution    float64    `toml:"entity_restitution"`
	StaticFriction       float64    `toml:"static_friction"`
	Wind                 WindConfig `toml:"wind"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Gravity:              [3]float64{GravityX, GravityY, GravityZ},
		FixedTimestep:        FixedTimestep,
		MaxStepsPerFrame:     MaxStepsPerFrame,
		VerletSubsteps:       VerletSubsteps,
		RelaxationIterations: RelaxationIterations,
		VerletDamping:        VerletDamping,
		GridCellSize:         GridCellSize,
		EntityDamping:        EntityDamping,
		EntityRestitution:    EntityRestitution,
		StaticFriction:       StaticFriction,
		Wind: WindConfig{
			Direction:  [3]float64{1, 0, 0},
			Strength:   0,
			Turbulence: WindTurbulence,
		},
	}
}

// GravityVec returns Gravity as a vector
func (c Config) GravityVec() vmath.Vec3 {
	return vmath.Vec3(c.Gravity)
}

// Validate checks ranges; the returned error wraps ErrInvalidConfig
func (c Config) Validate() error {
	switch {
	case !(c.FixedTimestep > 0) || math.IsInf(c.FixedTimestep, 0):
		return errors.Wrapf(ErrInvalidConfig, "fixed_timestep must be > 0, got %v", c.FixedTimestep)
	case c.MaxStepsPerFrame < 1:
		return errors.Wrapf(ErrInvalidConfig, "max_steps_per_frame must be >= 1, got %d", c.MaxStepsPerFrame)
	case c.VerletSubsteps < 1:
		return errors.Wrapf(ErrInvalidConfig, "verlet_substeps must be >= 1, got %d", c.VerletSubsteps)
	case c.RelaxationIterations < 0:
		return errors.Wrapf(ErrInvalidConfig, "relaxation_iterations must be >= 0, got %d", c.RelaxationIterations)
	case c.VerletDamping < 0 || c.VerletDamping >= 1:
		return errors.Wrapf(ErrInvalidConfig, "verlet_damping must be in [0,1), got %v", c.VerletDamping)
	case !(c.GridCellSize > 0):
		return errors.Wrapf(ErrInvalidConfig, "grid_cell_size must be > 0, got %v", c.GridCellSize)
	case c.EntityDamping <= 0 || c.EntityDamping > 1:
		return errors.Wrapf(ErrInvalidConfig, "entity_damping must be in (0,1], got %v", c.EntityDamping)
	case c.EntityRestitution < 0 || c.EntityRestitution > 1:
		return errors.Wrapf(ErrInvalidConfig, "entity_restitution must be in [0,1], got %v", c.EntityRestitution)
	case c.StaticFriction < 0 || c.StaticFriction > 1:
		return errors.Wrapf(ErrInvalidConfig, "static_friction must be in [0,1], got %v", c.StaticFriction)
	case c.Wind.Strength < 0:
		return errors.Wrapf(ErrInvalidConfig, "wind.strength must be >= 0, got %v", c.Wind.Strength)
	}
	return nil
}

// Decode parses TOML data over the defaults and validates the result
func Decode(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "decode physics config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and decodes a TOML config file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read physics config %s", path)
	}
	return Decode(data)
}
