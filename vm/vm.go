// Package vm implements the IntCode computer and the amplifier network
// scheduling several computers in a single thread.
package vm

import (
	"fmt"
	"slices"

	"go.creack.net/intcode/op"
)

// State of a computer.
type State int

const (
	Running State = iota
	Blocked       // Waiting on an input instruction with an empty input queue.
	Halted        // Executed opcode 99. Terminal.
	Faulted       // Aborted by a fatal error. Terminal.
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Blocked:
		return "blocked"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

type Config struct {
	MemSize int // Memory limit in cells, <= 0 for unbounded.

	// Messages is an optional channel where the computer sends trace messages.
	// When set, needs to be consumed otherwise the computer will block.
	Messages chan<- Message
}

// DefaultConfig returns the config used by New.
func DefaultConfig() Config {
	return Config{MemSize: op.MemSize}
}

type Computer struct {
	ID     int
	Config Config

	Mem          *Memory
	IP           int64 // Instruction pointer.
	RelativeBase int64
	Halted       bool
	Steps        uint64 // Number of executed instructions.

	blocked    bool
	err        error // Sticky fault.
	lastOutput int64
	input      []int64
	output     []int64
}

// New creates a computer with the default config.
func New(program []int64, inputs ...int64) *Computer {
	return NewComputer(DefaultConfig(), program, inputs...)
}

// NewComputer creates a computer running a copy of the given program,
// with the given inputs already queued.
func NewComputer(cfg Config, program []int64, inputs ...int64) *Computer {
	return &Computer{
		Config: cfg,
		Mem:    NewMemory(program, cfg.MemSize),
		input:  slices.Clone(inputs),
	}
}

func (c *Computer) emit(mt MessageType, format string, args ...any) {
	if c.Config.Messages == nil {
		return
	}
	c.Config.Messages <- NewMessage(mt, c, fmt.Sprintf(format, args...))
}

// State returns the current state of the computer.
func (c *Computer) State() State {
	switch {
	case c.err != nil:
		return Faulted
	case c.Halted:
		return Halted
	case c.blocked:
		return Blocked
	default:
		return Running
	}
}

// Err returns the fault that aborted the computer, if any.
func (c *Computer) Err() error { return c.err }

// InjectInput queues values at the end of the input queue.
func (c *Computer) InjectInput(values ...int64) {
	if len(values) == 0 {
		return
	}
	c.input = append(c.input, values...)
	c.blocked = false
}

// PendingInput returns how many inputs are waiting to be consumed.
func (c *Computer) PendingInput() int { return len(c.input) }

// DrainOutput returns and removes all the outputs, oldest first.
func (c *Computer) DrainOutput() []int64 {
	out := c.output
	c.output = nil
	return out
}

// PopOutput returns and removes the oldest output.
func (c *Computer) PopOutput() (int64, bool) {
	if len(c.output) == 0 {
		return 0, false
	}
	v := c.output[0]
	c.output = c.output[1:]
	return v, true
}

// Outputs returns a copy of the pending outputs without consuming them.
func (c *Computer) Outputs() []int64 { return slices.Clone(c.output) }

// LastOutput returns the last value ever output, drained or not.
func (c *Computer) LastOutput() int64 { return c.lastOutput }

// Peek reads memory directly, outside of the execution.
func (c *Computer) Peek(addr int64) (int64, error) { return c.Mem.Read(addr) }

// Poke writes memory directly, outside of the execution.
func (c *Computer) Poke(addr, value int64) error { return c.Mem.Write(addr, value) }

func (c *Computer) rawParam(i int) (int64, error) {
	return c.Mem.Read(c.IP + int64(i))
}

// addr resolves the address targeted by the i-th parameter.
func (c *Computer) addr(ins op.Instruction, i int) (int64, error) {
	pm, err := ins.Mode(i)
	if err != nil {
		return 0, err
	}
	raw, err := c.rawParam(i)
	if err != nil {
		return 0, err
	}
	switch pm {
	case op.Position:
		return raw, nil
	case op.Relative:
		return c.RelativeBase + raw, nil
	default:
		return 0, fmt.Errorf("parameter %d of %q: %w", i, ins.OpCode.Name, ErrInvalidWriteTarget)
	}
}

// param reads the value of the i-th parameter.
func (c *Computer) param(ins op.Instruction, i int) (int64, error) {
	pm, err := ins.Mode(i)
	if err != nil {
		return 0, err
	}
	if pm == op.Immediate {
		return c.rawParam(i)
	}
	addr, err := c.addr(ins, i)
	if err != nil {
		return 0, err
	}
	return c.Mem.Read(addr)
}

func (c *Computer) writeParam(ins op.Instruction, i int, v int64) error {
	addr, err := c.addr(ins, i)
	if err != nil {
		return err
	}
	return c.Mem.Write(addr, v)
}

func opAdd(a, b int64) int64 { return a + b }
func opMul(a, b int64) int64 { return a * b }

func opLessThan(a, b int64) int64 {
	if a < b {
		return 1
	}
	return 0
}

func opEquals(a, b int64) int64 {
	if a == b {
		return 1
	}
	return 0
}

func isTrue(v int64) bool  { return v != 0 }
func isFalse(v int64) bool { return v == 0 }

// mathOp returns the op function for the 3 params operations: 1 and 2 are read, 3 is written.
func mathOp(operation func(a, b int64) int64) func(c *Computer, ins op.Instruction) (bool, error) {
	return func(c *Computer, ins op.Instruction) (bool, error) {
		a, err := c.param(ins, 1)
		if err != nil {
			return false, err
		}
		b, err := c.param(ins, 2)
		if err != nil {
			return false, err
		}
		if err := c.writeParam(ins, 3, operation(a, b)); err != nil {
			return false, err
		}
		return true, nil
	}
}

// jumpOp returns the op function for conditional jumps.
func jumpOp(cond func(v int64) bool) func(c *Computer, ins op.Instruction) (bool, error) {
	return func(c *Computer, ins op.Instruction) (bool, error) {
		v, err := c.param(ins, 1)
		if err != nil {
			return false, err
		}
		if !cond(v) {
			return true, nil // Advance the IP.
		}
		target, err := c.param(ins, 2)
		if err != nil {
			return false, err
		}
		c.IP = target
		return false, nil // Manual overrode the IP, don't advance it.
	}
}

// ops maps the opcodes to their implementation.
// The returned bool is true if the IP should be advanced past the instruction.
var ops = map[op.Code]func(c *Computer, ins op.Instruction) (bool, error){
	op.Add:      mathOp(opAdd),
	op.Mul:      mathOp(opMul),
	op.LessThan: mathOp(opLessThan),
	op.Equals:   mathOp(opEquals),

	op.JumpIfTrue:  jumpOp(isTrue),
	op.JumpIfFalse: jumpOp(isFalse),

	// in. Pops the oldest input into the 1st param.
	// With an empty queue, the instruction is not consumed and the computer blocks.
	// The target is resolved first so an invalid one faults whether or not input is pending.
	op.Input: func(c *Computer, ins op.Instruction) (bool, error) {
		addr, err := c.addr(ins, 1)
		if err != nil {
			return false, err
		}
		if err := c.Mem.check(addr); err != nil {
			return false, err
		}
		if len(c.input) == 0 {
			c.blocked = true
			return false, nil
		}
		v := c.input[0]
		if err := c.Mem.Write(addr, v); err != nil {
			return false, err
		}
		c.input = c.input[1:]
		c.emit(MsgInput, "in %d", v)
		return true, nil
	},

	// out. Pushes the 1st param to the output queue.
	op.Output: func(c *Computer, ins op.Instruction) (bool, error) {
		v, err := c.param(ins, 1)
		if err != nil {
			return false, err
		}
		c.output = append(c.output, v)
		c.lastOutput = v
		c.emit(MsgOutput, "out %d", v)
		return true, nil
	},

	op.AdjustRelativeBase: func(c *Computer, ins op.Instruction) (bool, error) {
		v, err := c.param(ins, 1)
		if err != nil {
			return false, err
		}
		c.RelativeBase += v
		return true, nil
	},

	op.Halt: func(c *Computer, _ op.Instruction) (bool, error) {
		c.Halted = true
		c.emit(MsgHalt, "halted after %d steps", c.Steps+1)
		return false, nil
	},
}

func (c *Computer) fault(raw int64, err error) error {
	c.err = &Fault{ComputerID: c.ID, IP: c.IP, Raw: raw, Err: err}
	c.emit(MsgError, "%s", c.err)
	return c.err
}

// trace renders the instruction at IP with its raw params, without
// touching the access tracking.
func (c *Computer) trace(ins op.Instruction) string {
	params := make([]int64, 0, ins.OpCode.ParamCount)
	for i := 1; i <= ins.OpCode.ParamCount; i++ {
		if addr := c.IP + int64(i); addr < int64(len(c.Mem.cells)) {
			params = append(params, c.Mem.cells[addr])
		} else {
			params = append(params, 0)
		}
	}
	return fmt.Sprintf("ip:%d rb:%d %s", c.IP, c.RelativeBase, ins.PrettyPrint(params))
}

// Step executes exactly one instruction.
// Returns false when no progress was made: halted, or blocked on input.
// A fatal error aborts the computer and is returned by every subsequent call.
func (c *Computer) Step() (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if c.Halted {
		return false, nil
	}

	raw, err := c.Mem.read(c.IP, AccessFetch)
	if err != nil {
		return false, c.fault(0, err)
	}
	ins, err := op.Decode(raw)
	if err != nil {
		return false, c.fault(raw, err)
	}
	var line string
	if c.Config.Messages != nil {
		line = c.trace(ins)
	}

	wasBlocked := c.blocked
	c.blocked = false
	advance, err := ops[ins.OpCode.Code](c, ins)
	if err != nil {
		return false, c.fault(raw, err)
	}
	if c.blocked {
		if !wasBlocked {
			c.emit(MsgBlocked, "blocked on input at ip %d", c.IP)
		}
		return false, nil
	}
	if line != "" {
		c.emit(MsgTrace, "%s", line)
	}
	if advance {
		c.IP += int64(ins.Size())
	}
	c.Steps++
	return true, nil
}

// Run executes instructions until the computer halts, blocks on input,
// or maxSteps instructions have been executed. maxSteps <= 0 means no limit.
// Returns how many instructions have been executed.
func (c *Computer) Run(maxSteps int) (steps int, err error) {
	for maxSteps <= 0 || steps < maxSteps {
		ok, err := c.Step()
		if err != nil {
			return steps, err
		}
		if !ok {
			return steps, nil
		}
		steps++
	}
	return steps, nil
}

// RunToHalt executes the program until it halts.
// Blocking on input is an error as nobody will inject more values.
func (c *Computer) RunToHalt() error {
	for !c.Halted {
		if _, err := c.Run(0); err != nil {
			return err
		}
		if c.blocked {
			return fmt.Errorf("computer %d at ip %d: %w", c.ID, c.IP, ErrInputStarved)
		}
	}
	return nil
}
