package op

import (
	"fmt"
)

// Decoding constants.
const (
	OpCodeMod     = 100 // Opcode is the two low decimal digits of the instruction word.
	ModeBase      = 10  // Each parameter mode is one decimal digit.
	MaxParamCount = 3   // Longest instructions (add, mul, lt, eq) have 3 parameters.
)

// Memory settings.
const (
	MemSize = 1_000_000 // Default memory limit, in cells.
)

// Code is the numeric opcode, i.e. the instruction word modulo 100.
type Code int64

// Known opcodes.
const (
	Add                Code = 1
	Mul                Code = 2
	Input              Code = 3
	Output             Code = 4
	JumpIfTrue         Code = 5
	JumpIfFalse        Code = 6
	LessThan           Code = 7
	Equals             Code = 8
	AdjustRelativeBase Code = 9
	Halt               Code = 99
)

func (c Code) String() string {
	if oc, ok := OpCodeTable[c]; ok {
		return oc.Name
	}
	return fmt.Sprintf("op(%d)", int64(c))
}

// OpCode is the definition of instructions.
type OpCode struct {
	Name       string
	Code       Code
	ParamCount int
	WriteParam int // 1-based index of the parameter written to, 0 if none.
	Comment    string
	Jump       bool // Sets the instruction pointer itself.
}

// Size returns the number of cells used by the instruction, including the opcode.
func (oc OpCode) Size() int {
	return 1 + oc.ParamCount
}

// Lookup returns the definition of the given opcode.
func Lookup(c Code) (OpCode, error) {
	oc, ok := OpCodeTable[c]
	if !ok {
		return OpCode{}, fmt.Errorf("opcode %d: %w", int64(c), ErrInvalidOpcode)
	}
	return oc, nil
}
