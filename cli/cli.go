// Package cli provides the functions to parse the non-standard CLI flags.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

// Usage describes the flags understood by ParseConfig.
const Usage = `[-c config.toml] [-i input]... [-p a,b,c] [-f] [-q quantum] [-m memory-limit] [-t target] [-v] program.txt`

var ErrUsage = errors.New("usage error")

// Config is the resolved run configuration.
type Config struct {
	ProgramPath string
	Program     []int64

	Inputs  []int64 // Inputs of a single computer run.
	Phases  []int64 // Phase settings of the network, empty to use the default search set.
	Network vm.NetworkConfig

	// Target, when set, is the value of memory[0] to reach by patching
	// memory[1] and memory[2].
	Target *int64

	Verbose bool
}

type flags struct {
	inputs   []int64
	phases   []int64
	feedback bool
	quantum  *int
	memSize  *int
	target   *int64
	file     string
	verbose  bool
	path     string
}

// value returns the value of the flag name at args[*i], either as the next
// argument ("-i 5") or glued to the flag ("-i5"). Advances *i accordingly.
func value(args []string, i *int, name string) (string, bool, error) {
	arg := args[*i]
	if arg == name {
		if *i+1 >= len(args) {
			return "", true, fmt.Errorf("missing value for %s flag: %w", name, ErrUsage)
		}
		*i++ // Skip the value.
		return args[*i], true, nil
	}
	if strings.HasPrefix(arg, name) {
		return strings.TrimPrefix(arg, name), true, nil
	}
	return "", false, nil
}

func parseList(s string) ([]int64, error) {
	var out []int64
	for _, elem := range strings.Split(s, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(elem), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid list element %q: %w", elem, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parse(args []string) (*flags, error) {
	f := &flags{}

	// Process arguments manually.
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-f":
			f.feedback = true
			continue
		case "-v":
			f.verbose = true
			continue
		}

		if v, ok, err := value(args, &i, "-i"); err != nil {
			return nil, err
		} else if ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number for -i flag: %q", v)
			}
			f.inputs = append(f.inputs, n)
			continue
		}
		if v, ok, err := value(args, &i, "-p"); err != nil {
			return nil, err
		} else if ok {
			phases, err := parseList(v)
			if err != nil {
				return nil, fmt.Errorf("invalid phases for -p flag: %w", err)
			}
			f.phases = phases
			continue
		}
		if v, ok, err := value(args, &i, "-q"); err != nil {
			return nil, err
		} else if ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid number for -q flag: %q", v)
			}
			f.quantum = &n
			continue
		}
		if v, ok, err := value(args, &i, "-m"); err != nil {
			return nil, err
		} else if ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid number for -m flag: %q", v)
			}
			f.memSize = &n
			continue
		}
		if v, ok, err := value(args, &i, "-t"); err != nil {
			return nil, err
		} else if ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number for -t flag: %q", v)
			}
			f.target = &n
			continue
		}
		if v, ok, err := value(args, &i, "-c"); err != nil {
			return nil, err
		} else if ok {
			f.file = v
			continue
		}

		if arg == "" || arg[0] == '-' {
			return nil, fmt.Errorf("unknown flag %q: %w", arg, ErrUsage)
		}
		// If it's not a flag, it's the program.
		if f.path != "" {
			return nil, fmt.Errorf("more than one program provided (%q and %q): %w", f.path, arg, ErrUsage)
		}
		f.path = arg
	}
	if f.path == "" {
		return nil, fmt.Errorf("no program provided: %w", ErrUsage)
	}
	return f, nil
}

// ParseConfig parses the command line arguments (without the program name).
// Values from the -c config file are applied first, flags override them.
func ParseConfig(args []string) (Config, error) {
	f, err := parse(args)
	if err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}

	cfg := Config{
		ProgramPath: f.path,
		Network:     vm.NetworkConfig{VM: vm.DefaultConfig()},
		Target:      f.target,
		Verbose:     f.verbose,
	}

	if f.file != "" {
		file, err := LoadFile(f.file)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg.Network.VM.MemSize = file.VM.MemoryLimit
		cfg.Network.Quantum = file.VM.Quantum
		cfg.Network.Feedback = file.Network.Feedback
		cfg.Network.Seed = file.Network.Seed
		cfg.Phases = file.Network.Phases
		cfg.Inputs = file.Run.Inputs
	}

	if len(f.inputs) > 0 {
		cfg.Inputs = f.inputs
	}
	if len(f.phases) > 0 {
		cfg.Phases = f.phases
	}
	if f.feedback {
		cfg.Network.Feedback = true
	}
	if f.quantum != nil {
		cfg.Network.Quantum = *f.quantum
	}
	if f.memSize != nil {
		cfg.Network.VM.MemSize = *f.memSize
	}

	prog, err := program.Load(cfg.ProgramPath)
	if err != nil {
		return Config{}, fmt.Errorf("load program: %w", err)
	}
	cfg.Program = prog

	return cfg, nil
}
