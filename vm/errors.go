package vm

import (
	"errors"
	"fmt"
)

var (
	ErrMemoryFault        = errors.New("memory fault")
	ErrInvalidWriteTarget = errors.New("immediate mode parameter used as write target")

	// ErrInputStarved is returned by RunToHalt when the computer waits for
	// an input nobody is going to inject. Step and Run report it as no progress.
	ErrInputStarved = errors.New("input starved")

	ErrDeadlock = errors.New("every computer of the network is blocked on input")
	ErrNoOutput = errors.New("no output produced")
)

// Fault is a fatal error that aborted a computer.
type Fault struct {
	ComputerID int
	IP         int64
	Raw        int64 // Instruction word at IP, if it could be read.
	Err        error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("computer %d: fault at ip %d (%d): %s", f.ComputerID, f.IP, f.Raw, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
