package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"go.creack.net/intcode/op"
)

// File is the TOML run configuration.
type File struct {
	VM      VMSection      `toml:"vm"`
	Network NetworkSection `toml:"network"`
	Run     RunSection     `toml:"run"`
}

// VMSection configures each computer.
type VMSection struct {
	MemoryLimit int `toml:"memory-limit"`
	Quantum     int `toml:"quantum"`
}

// NetworkSection configures the amplifier network.
type NetworkSection struct {
	Phases   []int64 `toml:"phases"`
	Feedback bool    `toml:"feedback"`
	Seed     int64   `toml:"seed"`
}

// RunSection holds the inputs of a single computer run.
type RunSection struct {
	Inputs []int64 `toml:"inputs"`
}

// LoadFile parses a TOML run configuration.
// Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	// Defaults
	if !md.IsDefined("vm", "memory-limit") {
		f.VM.MemoryLimit = op.MemSize
	}
	if f.VM.Quantum < 0 {
		return nil, fmt.Errorf("invalid quantum %d in %s", f.VM.Quantum, path)
	}

	return &f, nil
}
