package disasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.creack.net/intcode/op"
	"go.creack.net/intcode/program"
)

func TestDisasm(t *testing.T) {
	lines := Disasm(program.MustParse("1002,4,3,4,33,109,-1,204,1,99,0,7"))
	require.Len(t, lines, 7)

	require.Equal(t, op.Mul, lines[0].Instruction.OpCode.Code)
	require.Equal(t, []int64{4, 3, 4}, lines[0].Params)
	require.Equal(t, "00000:\tmul     [4], 3, [4]", lines[0].String())
	require.Equal(t, "a * b -> c", lines[0].Comment())

	// 33 is not an opcode.
	require.Nil(t, lines[1].Instruction)
	require.Equal(t, int64(33), lines[1].Data)
	require.Equal(t, "00004:\t.data   33", lines[1].String())
	require.Empty(t, lines[1].Comment())

	require.Equal(t, "00005:\tarb     -1", lines[2].String())
	require.Equal(t, "00007:\tout     [rb+1]", lines[3].String())
	require.Equal(t, "00009:\thlt     ", lines[4].String())
	require.Nil(t, lines[5].Instruction)
	require.Nil(t, lines[6].Instruction)
}

func TestDisasmTruncated(t *testing.T) {
	// Add needs 3 params, only 1 available.
	lines := Disasm([]int64{1, 0})
	require.Len(t, lines, 2)
	require.Nil(t, lines[0].Instruction)
	require.Nil(t, lines[1].Instruction)
}

func TestIndex(t *testing.T) {
	lines := Disasm(program.MustParse("1101,1,1,5,99,0"))
	require.Equal(t, 0, Index(lines, 0))
	require.Equal(t, 0, Index(lines, 3))
	require.Equal(t, 1, Index(lines, 4))
	require.Equal(t, 2, Index(lines, 5))
	require.Equal(t, -1, Index(lines, 6))
}

func TestDump(t *testing.T) {
	require.Equal(t, "00000:\tin      [0]\n00002:\tout     [0]\n00004:\thlt     \n", Dump(program.MustParse("3,0,4,0,99")))
}
