// Package disasm renders IntCode memory images as readable instructions.
package disasm

import (
	"fmt"
	"strings"

	"go.creack.net/intcode/op"
)

// DataDirective marks cells that do not decode as an instruction.
const DataDirective = ".data"

// Line is one disassembled instruction, or one data cell.
type Line struct {
	Addr        int64
	Instruction *op.Instruction // nil for data.
	Params      []int64         // Raw parameters.
	Data        int64           // Raw value for data lines.
}

// Size returns the number of cells covered by the line.
func (l Line) Size() int {
	if l.Instruction == nil {
		return 1
	}
	return l.Instruction.Size()
}

// Comment describes what the instruction does, empty for data.
func (l Line) Comment() string {
	if l.Instruction == nil {
		return ""
	}
	return l.Instruction.OpCode.Comment
}

func (l Line) String() string {
	if l.Instruction == nil {
		return fmt.Sprintf("%05d:\t%- 7s %d", l.Addr, DataDirective, l.Data)
	}
	return fmt.Sprintf("%05d:%s", l.Addr, l.Instruction.PrettyPrint(l.Params))
}

// Disasm walks the memory from address 0. Cells that do not decode, or
// instructions running past the end of memory, are emitted as data.
//
// NOTE: Programs mix code and data and may modify themselves, a linear walk
// is only a best effort view.
func Disasm(mem []int64) []Line {
	var out []Line
	for addr := 0; addr < len(mem); {
		ins, err := op.Decode(mem[addr])
		if err != nil || addr+ins.Size() > len(mem) {
			out = append(out, Line{Addr: int64(addr), Data: mem[addr]})
			addr++
			continue
		}
		out = append(out, Line{
			Addr:        int64(addr),
			Instruction: &ins,
			Params:      mem[addr+1 : addr+ins.Size()],
		})
		addr += ins.Size()
	}
	return out
}

// Dump returns the disassembly as text, one line per instruction.
func Dump(mem []int64) string {
	buf := &strings.Builder{}
	for _, elem := range Disasm(mem) {
		fmt.Fprintf(buf, "%s\n", elem)
	}
	return buf.String()
}

// Index returns the position in lines of the line covering addr, -1 if none.
func Index(lines []Line, addr int64) int {
	for i, elem := range lines {
		if addr >= elem.Addr && addr < elem.Addr+int64(elem.Size()) {
			return i
		}
	}
	return -1
}
