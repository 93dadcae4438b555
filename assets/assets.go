// Package assets embeds sample IntCode programs.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.creack.net/intcode/program"
)

// Programs found in the puzzle statements, one per file.
//
//go:embed programs/*.txt
var Programs embed.FS

const ext = ".txt"

// Names lists the embedded programs, sorted, without extension.
func Names() []string {
	entries, err := fs.ReadDir(Programs, "programs")
	if err != nil {
		panic(fmt.Errorf("read embedded programs: %w", err)) // Unreachable, embedded at build time.
	}
	out := make([]string, 0, len(entries))
	for _, elem := range entries {
		out = append(out, strings.TrimSuffix(elem.Name(), ext))
	}
	return out
}

// Load parses the embedded program with the given name.
func Load(name string) ([]int64, error) {
	data, err := Programs.ReadFile(path.Join("programs", name+ext))
	if err != nil {
		return nil, fmt.Errorf("load embedded program %q: %w", name, err)
	}
	p, err := program.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse embedded program %q: %w", name, err)
	}
	return p, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(name string) []int64 {
	p, err := Load(name)
	if err != nil {
		panic(err)
	}
	return p
}
