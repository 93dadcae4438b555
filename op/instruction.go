package op

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOpcode        = errors.New("invalid opcode")
	ErrInvalidParameterMode = errors.New("invalid parameter mode")
)

// Instruction is the decoded view of one instruction word.
// It is recomputed on every fetch, never stored in memory.
type Instruction struct {
	Raw    int64  // Instruction word as found in memory.
	OpCode OpCode // OpCode reference.
}

// Decode splits the raw instruction word into its opcode and parameter modes.
// All the modes of the parameters used by the opcode are validated.
func Decode(raw int64) (Instruction, error) {
	oc, err := Lookup(Code(raw % OpCodeMod))
	if err != nil {
		return Instruction{}, fmt.Errorf("decode %d: %w", raw, err)
	}
	ins := Instruction{Raw: raw, OpCode: oc}
	for i := 1; i <= oc.ParamCount; i++ {
		if _, err := ins.Mode(i); err != nil {
			return Instruction{}, fmt.Errorf("decode %d: %w", raw, err)
		}
	}
	return ins, nil
}

// Mode returns the addressing mode of the i-th (1-based) parameter.
// mode_i = (raw / 10^(i+1)) % 10.
func (ins Instruction) Mode(i int) (ParamMode, error) {
	div := int64(OpCodeMod)
	for range i - 1 {
		div *= ModeBase
	}
	pm := ParamMode((ins.Raw / div) % ModeBase)
	if !pm.Valid() {
		return pm, fmt.Errorf("parameter %d mode %d: %w", i, int(pm), ErrInvalidParameterMode)
	}
	return pm, nil
}

// Modes returns the modes of every parameter of the instruction.
// Only valid on a decoded instruction.
func (ins Instruction) Modes() []ParamMode {
	out := make([]ParamMode, 0, ins.OpCode.ParamCount)
	for i := 1; i <= ins.OpCode.ParamCount; i++ {
		pm, _ := ins.Mode(i)
		out = append(out, pm)
	}
	return out
}

// Size returns how many cells the instruction spans.
func (ins Instruction) Size() int {
	return ins.OpCode.Size()
}

// PrettyPrint renders the instruction with the given raw parameters.
func (ins Instruction) PrettyPrint(params []int64) string {
	out := "\t" + ins.OpCode.Name
	paramStrs := make([]string, 0, len(params))
	for i, raw := range params {
		pm, _ := ins.Mode(i + 1)
		paramStrs = append(paramStrs, pm.Format(raw))
	}
	return fmt.Sprintf("%- 8s %s", out, strings.Join(paramStrs, ", "))
}

func (ins Instruction) String() string {
	out := "<" + ins.OpCode.Name
	modes := ins.Modes()
	if len(modes) == 0 {
		return out + ">"
	}
	modeStrs := make([]string, 0, len(modes))
	for _, elem := range modes {
		modeStrs = append(modeStrs, elem.String())
	}
	return out + " (" + strings.Join(modeStrs, ", ") + ")>"
}
