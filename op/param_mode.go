package op

import "strconv"

// ParamMode enum type.
type ParamMode int

// Parameter addressing modes.
const (
	Position  ParamMode = iota // Operand is an address.
	Immediate                  // Operand is a literal. Read only.
	Relative                   // Operand is an offset from the relative base.
)

func (pm ParamMode) String() string {
	switch pm {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	default:
		return "unknown param mode"
	}
}

// Valid reports whether the mode is one of the known modes.
func (pm ParamMode) Valid() bool {
	return pm == Position || pm == Immediate || pm == Relative
}

// Format renders a raw operand the way the disassembler prints it.
func (pm ParamMode) Format(raw int64) string {
	switch pm {
	case Position:
		return "[" + strconv.FormatInt(raw, 10) + "]"
	case Relative:
		if raw < 0 {
			return "[rb" + strconv.FormatInt(raw, 10) + "]"
		}
		return "[rb+" + strconv.FormatInt(raw, 10) + "]"
	default:
		return strconv.FormatInt(raw, 10)
	}
}
