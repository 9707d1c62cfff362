// Package config holds the compiler's built-in names and the optional
// typc.yaml project configuration.
//
// The emitted declarations reference collaborator types (number encodings,
// boolean constants) by name only; typc.yaml remaps those names and sets
// the use-lines prepended to every emitted file, so the output can target
// any host crate that provides structurally equivalent types.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Names are the collaborator type names the emitter writes into the
// generated declarations.
type Names struct {
	// Unsigned magnitudes: UTerm terminates, UInt<ms, bit> appends one
	// binary digit, B0/B1 are the digits.
	UTerm string `yaml:"uterm"`
	UInt  string `yaml:"uint"`
	B0    string `yaml:"b0"`
	B1    string `yaml:"b1"`

	// Signed integers: PInt/NInt wrap a non-zero magnitude, Z0 is zero.
	PInt string `yaml:"pint"`
	NInt string `yaml:"nint"`
	Z0   string `yaml:"z0"`

	// Boolean constants.
	True  string `yaml:"true"`
	False string `yaml:"false"`
}

// Config represents the top-level typc.yaml configuration.
type Config struct {
	// Names overrides individual collaborator type names. Empty fields
	// keep their defaults.
	Names Names `yaml:"names,omitempty"`

	// Prelude lines are emitted verbatim at the top of the output,
	// before the first declaration. Typically use-declarations pulling
	// the collaborator types into scope.
	Prelude []string `yaml:"prelude,omitempty"`
}

// DefaultNames returns the collaborator names used when no typc.yaml
// overrides them.
func DefaultNames() Names {
	return Names{
		UTerm: "UTerm",
		UInt:  "UInt",
		B0:    "B0",
		B1:    "B1",
		PInt:  "PInt",
		NInt:  "NInt",
		Z0:    "Z0",
		True:  "True",
		False: "False",
	}
}

// Default returns the configuration used when no typc.yaml is present.
func Default() *Config {
	return &Config{Names: DefaultNames()}
}

// Load reads a typc.yaml file. Missing name fields fall back to their
// defaults, so a partial override file stays valid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: cannot read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes configuration bytes and fills defaulted names.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: invalid yaml: %w", err)
	}
	cfg.Names = mergeNames(cfg.Names)
	return cfg, nil
}

func mergeNames(names Names) Names {
	defaults := DefaultNames()
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Names{
		UTerm: pick(names.UTerm, defaults.UTerm),
		UInt:  pick(names.UInt, defaults.UInt),
		B0:    pick(names.B0, defaults.B0),
		B1:    pick(names.B1, defaults.B1),
		PInt:  pick(names.PInt, defaults.PInt),
		NInt:  pick(names.NInt, defaults.NInt),
		Z0:    pick(names.Z0, defaults.Z0),
		True:  pick(names.True, defaults.True),
		False: pick(names.False, defaults.False),
	}
}
