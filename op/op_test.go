package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpCodeTable(t *testing.T) {
	tests := []struct {
		code       Code
		name       string
		size       int
		writeParam int
	}{
		{Add, "add", 4, 3},
		{Mul, "mul", 4, 3},
		{Input, "in", 2, 1},
		{Output, "out", 2, 0},
		{JumpIfTrue, "jnz", 3, 0},
		{JumpIfFalse, "jz", 3, 0},
		{LessThan, "lt", 4, 3},
		{Equals, "eq", 4, 3},
		{AdjustRelativeBase, "arb", 2, 0},
		{Halt, "hlt", 1, 0},
	}
	require.Len(t, OpCodeTable, len(tests))
	for _, tt := range tests {
		oc, err := Lookup(tt.code)
		require.NoError(t, err)
		require.Equal(t, tt.code, oc.Code, "table key mismatch for %s", tt.name)
		require.Equal(t, tt.name, oc.Name)
		require.Equal(t, tt.size, oc.Size(), "%s size", tt.name)
		require.Equal(t, tt.writeParam, oc.WriteParam, "%s write param", tt.name)
	}
}

func TestDecodeModes(t *testing.T) {
	ins, err := Decode(1002)
	require.NoError(t, err)
	require.Equal(t, Mul, ins.OpCode.Code)
	require.Equal(t, []ParamMode{Position, Immediate, Position}, ins.Modes())

	tests := []struct {
		raw  int64
		idx  int
		want ParamMode
	}{
		{101, 1, Immediate},
		{101, 2, Position},
		{101, 3, Position},
		{1001, 1, Position},
		{1101, 2, Immediate},
		{1101, 3, Position},
		{204, 1, Relative},
		{21101, 3, Relative},
		{22201, 1, Relative},
	}
	for _, tt := range tests {
		ins, err := Decode(tt.raw)
		require.NoError(t, err, "raw %d", tt.raw)
		pm, err := ins.Mode(tt.idx)
		require.NoError(t, err)
		require.Equal(t, tt.want, pm, "raw %d param %d", tt.raw, tt.idx)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, raw := range []int64{0, 10, 98, 100 + 42, -1, -99} {
		_, err := Decode(raw)
		require.ErrorIs(t, err, ErrInvalidOpcode, "raw %d", raw)
	}
	for _, raw := range []int64{301, 3001, 30001, 904, 399} {
		_, err := Decode(raw)
		if raw == 399 {
			// Halt has no parameters, the mode digit is never looked at.
			require.NoError(t, err)
			continue
		}
		require.ErrorIs(t, err, ErrInvalidParameterMode, "raw %d", raw)
	}
}

func TestPrettyPrint(t *testing.T) {
	ins, err := Decode(21101)
	require.NoError(t, err)
	require.Equal(t, "\tadd     1, 2, [rb+3]", ins.PrettyPrint([]int64{1, 2, 3}))
	require.Equal(t, "<add (immediate, immediate, relative)>", ins.String())

	ins, err = Decode(204)
	require.NoError(t, err)
	require.Equal(t, "\tout     [rb-1]", ins.PrettyPrint([]int64{-1}))
}
