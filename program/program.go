// Package program handles the text form of IntCode programs:
// a single line of comma separated signed integers.
package program

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("syntax error")

// SeparatorChar separates the cells in the text form.
const SeparatorChar = ','

// NOTE: Only base 10 is used by published programs, the prefixes are accepted
// for hand written ones.
func parseNumber(in string) (int64, error) {
	digits := strings.TrimPrefix(in, "-")
	neg := len(digits) != len(in)
	if neg && (strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+")) {
		return 0, &strconv.NumError{Func: "parseNumber", Num: in, Err: strconv.ErrSyntax}
	}

	base := 0
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
	} else if strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0B") {
		base = 2
	}
	if base == 0 {
		return strconv.ParseInt(in, 10, 64)
	}

	u, err := strconv.ParseUint(digits[2:], base, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		if u > 1<<63 {
			return 0, &strconv.NumError{Func: "parseNumber", Num: in, Err: strconv.ErrRange}
		}
		return int64(-u), nil // -(1<<63) wraps to math.MinInt64.
	}
	if u > math.MaxInt64 {
		return 0, &strconv.NumError{Func: "parseNumber", Num: in, Err: strconv.ErrRange}
	}
	return int64(u), nil
}

// Parse decodes the text form of a program.
// Surrounding whitespace, including the trailing newline, is ignored.
func Parse(text string) ([]int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty program: %w", ErrSyntax)
	}
	parts := strings.Split(text, string(SeparatorChar))
	out := make([]int64, 0, len(parts))
	for i, elem := range parts {
		elem = strings.TrimSpace(elem)
		n, err := parseNumber(elem)
		if err != nil {
			return nil, fmt.Errorf("cell %d %q: %w: %w", i, elem, ErrSyntax, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// MustParse is like Parse but panics on error. For tests and embedded programs.
func MustParse(text string) []int64 {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Load reads and parses a program file.
func Load(path string) ([]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	p, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return p, nil
}

// Format encodes a memory image in the text form.
func Format(mem []int64) string {
	parts := make([]string, 0, len(mem))
	for _, elem := range mem {
		parts = append(parts, strconv.FormatInt(elem, 10))
	}
	return strings.Join(parts, string(SeparatorChar))
}

// Fingerprint returns a short identifier of the program content, stable across runs.
func Fingerprint(mem []int64) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 8*len(mem))
	for _, elem := range mem {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(elem))
	}
	_, _ = h.Write(buf) // Never fails.
	return h.Sum64()
}
