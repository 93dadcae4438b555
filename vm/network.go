package vm

import (
	"errors"
	"fmt"
	"io"
	"slices"
)

var ErrEmptyNetwork = errors.New("network has no amplifier")

type NetworkConfig struct {
	Feedback bool  // Wire the last amplifier output back into the first one.
	Seed     int64 // External input of the first amplifier, after its phase setting.

	// Quantum is how many instructions a computer can execute per turn.
	// 0 runs each computer until it blocks or halts.
	Quantum int

	VM Config
}

// DefaultNetworkConfig returns a feedback ring config.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Feedback: true,
		VM:       DefaultConfig(),
	}
}

// Network is a chain of amplifiers running the same program.
// Amplifier k output feeds amplifier k+1 input. With Feedback,
// the last amplifier feeds the first one, forming a ring.
type Network struct {
	Config NetworkConfig

	Computers []*Computer
	Phases    []int64

	Rounds int // Number of completed rounds.

	output     []int64 // Values leaving the network when not in feedback mode.
	lastOutput int64
	hasOutput  bool
}

// NewNetwork creates one computer per phase setting, each with its own copy of the program.
// Each computer gets its phase setting as first input, the first one then gets the seed.
func NewNetwork(cfg NetworkConfig, program []int64, phases []int64) *Network {
	computers := make([]*Computer, 0, len(phases))
	for i, phase := range phases {
		c := NewComputer(cfg.VM, program, phase)
		c.ID = i
		if i == 0 {
			c.InjectInput(cfg.Seed)
		}
		computers = append(computers, c)
	}
	return &Network{
		Config:    cfg,
		Computers: computers,
		Phases:    slices.Clone(phases),
	}
}

// Done returns true when every computer is halted.
func (n *Network) Done() bool {
	for _, c := range n.Computers {
		if !c.Halted {
			return false
		}
	}
	return true
}

func (n *Network) emit(mt MessageType, format string, args ...any) {
	if n.Config.VM.Messages == nil {
		return
	}
	n.Config.VM.Messages <- NewMessage(mt, nil, fmt.Sprintf(format, args...))
}

// Turn runs the given computer for one quantum, then moves its outputs
// to the next computer in the chain.
// Returns the number of executed instructions.
func (n *Network) Turn(i int) (int, error) {
	c := n.Computers[i]

	var steps int
	if !c.Halted {
		var err error
		if steps, err = c.Run(n.Config.Quantum); err != nil {
			return steps, fmt.Errorf("amplifier %d: %w", i, err)
		}
	}

	out := c.DrainOutput()
	if len(out) == 0 {
		return steps, nil
	}
	last := i == len(n.Computers)-1
	if last {
		n.lastOutput = out[len(out)-1]
		n.hasOutput = true
		if !n.Config.Feedback {
			n.output = append(n.output, out...)
			return steps, nil
		}
	}
	n.Computers[(i+1)%len(n.Computers)].InjectInput(out...)
	return steps, nil
}

// Round gives one turn to each computer, in order.
// Returns io.EOF when all the computers are halted.
func (n *Network) Round() error {
	if len(n.Computers) == 0 {
		return ErrEmptyNetwork
	}
	if n.Done() {
		return io.EOF
	}

	progress := false
	for i := range n.Computers {
		steps, err := n.Turn(i)
		if err != nil {
			return fmt.Errorf("round %d: %w", n.Rounds, err)
		}
		if steps > 0 {
			progress = true
		}
	}
	n.Rounds++
	n.emit(MsgRound, "round %d done", n.Rounds)

	if n.Done() {
		return io.EOF
	}
	// Nothing ran and nothing moved: waiting on each other forever.
	if !progress {
		return fmt.Errorf("round %d: %w", n.Rounds, ErrDeadlock)
	}
	return nil
}

// Run drives the network until every computer halts and returns the final output.
func (n *Network) Run() (int64, error) {
	for {
		if err := n.Round(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
	}
	return n.Result()
}

// Result returns the last value output by the last amplifier.
func (n *Network) Result() (int64, error) {
	if !n.hasOutput {
		return 0, ErrNoOutput
	}
	return n.lastOutput, nil
}

// Outputs returns the values that left the network, when not in feedback mode.
func (n *Network) Outputs() []int64 {
	return slices.Clone(n.output)
}
