package vm

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"go.creack.net/intcode/program"
)

const (
	feedbackProg1 = "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5"
	feedbackProg2 = "3,52,1001,52,-5,52,3,53,1,52,56,54,1007,54,5,55,1005,55,26,1001,54,-5,54,1105,1,12,1,53,54,53,1008,54,0,55,1001,55,1,55,2,53,55,53,4,53,1001,56,-1,56,1005,56,6,99,0,0,0,0,10"

	seriesProg1 = "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0"
	seriesProg2 = "3,23,3,24,1002,24,10,24,1002,23,-1,23,101,5,23,23,1,24,23,23,4,23,99,0,0"
	seriesProg3 = "3,31,3,32,1002,32,10,32,1001,31,-2,31,1007,31,0,33,1002,33,7,33,1,33,31,31,1,32,31,31,4,31,99,0,0,0"
)

func TestNetworkFeedback(t *testing.T) {
	tests := []struct {
		src    string
		phases []int64
		want   int64
	}{
		{feedbackProg1, []int64{9, 8, 7, 6, 5}, 139629729},
		{feedbackProg2, []int64{9, 7, 8, 5, 6}, 18216},
	}
	for _, tt := range tests {
		// 0: until blocked, 1: one instruction per turn.
		for _, quantum := range []int{0, 1, 3} {
			cfg := DefaultNetworkConfig()
			cfg.Quantum = quantum
			n := NewNetwork(cfg, program.MustParse(tt.src), tt.phases)
			got, err := n.Run()
			require.NoError(t, err)
			require.Equal(t, tt.want, got, "quantum %d", quantum)
			require.True(t, n.Done())
			for _, c := range n.Computers {
				require.Equal(t, Halted, c.State())
			}
		}
	}
}

func TestNetworkSeries(t *testing.T) {
	tests := []struct {
		src    string
		phases []int64
		want   int64
	}{
		{seriesProg1, []int64{4, 3, 2, 1, 0}, 43210},
		{seriesProg2, []int64{0, 1, 2, 3, 4}, 54321},
		{seriesProg3, []int64{1, 0, 4, 3, 2}, 65210},
	}
	for _, tt := range tests {
		for _, quantum := range []int{0, 1} {
			cfg := NetworkConfig{Quantum: quantum, VM: DefaultConfig()}
			n := NewNetwork(cfg, program.MustParse(tt.src), tt.phases)
			got, err := n.Run()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, []int64{tt.want}, n.Outputs())
		}
	}
}

func TestNetworkRoundGranularity(t *testing.T) {
	prog := program.MustParse(feedbackProg1)
	phases := []int64{9, 8, 7, 6, 5}

	n := NewNetwork(DefaultNetworkConfig(), prog, phases)
	_, err := n.Run()
	require.NoError(t, err)
	require.Equal(t, 5, n.Rounds)

	cfg := DefaultNetworkConfig()
	cfg.Quantum = 1
	n = NewNetwork(cfg, prog, phases)
	_, err = n.Run()
	require.NoError(t, err)
	require.Equal(t, 85, n.Rounds)
}

func TestNetworkSeeding(t *testing.T) {
	cfg := DefaultNetworkConfig()
	cfg.Seed = 7
	n := NewNetwork(cfg, program.MustParse("3,0,4,0,99"), []int64{1, 2, 3})
	require.Len(t, n.Computers, 3)
	require.Equal(t, 2, n.Computers[0].PendingInput(), "phase and seed")
	require.Equal(t, 1, n.Computers[1].PendingInput(), "phase only")
	for i, c := range n.Computers {
		require.Equal(t, i, c.ID)
	}
}

func TestNetworkDeadlock(t *testing.T) {
	// Each amplifier wants 3 inputs but only outputs after the 3rd.
	n := NewNetwork(DefaultNetworkConfig(), program.MustParse("3,0,3,0,3,0,4,0,99"), []int64{1, 2})
	_, err := n.Run()
	require.ErrorIs(t, err, ErrDeadlock)
	require.Equal(t, 2, n.Rounds)
	for _, c := range n.Computers {
		require.Equal(t, Blocked, c.State())
	}
}

func TestNetworkErrors(t *testing.T) {
	n := NewNetwork(DefaultNetworkConfig(), program.MustParse("99"), nil)
	_, err := n.Run()
	require.ErrorIs(t, err, ErrEmptyNetwork)

	n = NewNetwork(DefaultNetworkConfig(), program.MustParse("3,0,99"), []int64{1, 2})
	_, err = n.Run()
	require.ErrorIs(t, err, ErrNoOutput)

	n = NewNetwork(DefaultNetworkConfig(), program.MustParse("3,0,3,0,42"), []int64{1, 2})
	_, err = n.Run()
	var fault *Fault
	require.True(t, errors.As(err, &fault))
	require.Equal(t, 0, fault.ComputerID)
	require.Equal(t, int64(4), fault.IP)
}

func TestNetworkRoundEOF(t *testing.T) {
	n := NewNetwork(DefaultNetworkConfig(), program.MustParse("3,0,3,0,4,0,99"), []int64{1, 2})
	require.ErrorIs(t, n.Round(), io.EOF)
	require.ErrorIs(t, n.Round(), io.EOF, "halted is terminal")
	got, err := n.Result()
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestNetworkDeterminism(t *testing.T) {
	prog := program.MustParse(feedbackProg2)
	a := NewNetwork(DefaultNetworkConfig(), prog, []int64{9, 7, 8, 5, 6})
	b := NewNetwork(DefaultNetworkConfig(), prog, []int64{9, 7, 8, 5, 6})
	ra, err := a.Run()
	require.NoError(t, err)
	rb, err := b.Run()
	require.NoError(t, err)
	require.Equal(t, ra, rb)
	for i := range a.Computers {
		require.Equal(t, a.Computers[i].Mem.Snapshot(), b.Computers[i].Mem.Snapshot())
	}
	// The program image is shared but never mutated.
	require.Equal(t, program.MustParse(feedbackProg2), prog)
}
