package interp

import (
	"bufio"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// Config controls one interpretation run. The step budget bounds loop
// iterations so unbounded-looking programs always terminate; it is fixed
// for the duration of a run.
type Config struct {
	// MaxSteps is the total statement/iteration budget for the run.
	MaxSteps int
	// StartX, StartY place the agent; Facing is its initial heading.
	StartX int
	StartY int
	Facing string
	// Dirt seeds the dirty cells. When empty the default seeding is used.
	Dirt []Cell
}

// DefaultConfig returns the run configuration matching the built-in
// world: agent at the origin facing north, a 10000-step budget, and the
// default dirt seeding.
func DefaultConfig() Config {
	return Config{
		MaxSteps: 10000,
		Facing:   "north",
	}
}

// These settings ensure that TOML keys use the same names as Go struct
// fields, and that typos in a config file are reported instead of
// silently ignored.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// LoadConfig reads a TOML run configuration, filling unset fields from
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg); err != nil {
		if line, ok := err.(*toml.LineError); ok {
			return cfg, fmt.Errorf("%s: %w", path, line)
		}
		return cfg, err
	}

	if cfg.MaxSteps <= 0 {
		return cfg, fmt.Errorf("%s: MaxSteps must be positive", path)
	}
	if _, ok := facingGlyphs[cfg.Facing]; !ok {
		return cfg, fmt.Errorf("%s: Facing must be one of north, south, east, west", path)
	}
	return cfg, nil
}
