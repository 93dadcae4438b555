package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"go.creack.net/intcode/internal/testutil"
	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

func TestPermutations(t *testing.T) {
	require.Equal(t, [][]int64{
		{1, 2, 3},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 1},
		{3, 1, 2},
		{3, 2, 1},
	}, Permutations([]int64{1, 2, 3}))

	require.Nil(t, Permutations(nil))
	require.Equal(t, [][]int64{{42}}, Permutations([]int64{42}))

	perms := Permutations(FeedbackPhases)
	require.Len(t, perms, 120)
	seen := map[string]bool{}
	for _, elem := range perms {
		k := program.Format(elem)
		require.False(t, seen[k], "duplicate %s", k)
		seen[k] = true
	}
	require.Equal(t, []int64{5, 6, 7, 8, 9}, perms[0])
	require.Equal(t, []int64{9, 8, 7, 6, 5}, perms[len(perms)-1])
}

func TestMaxThrust(t *testing.T) {
	ctx := testutil.Context(t)
	series := vm.DefaultNetworkConfig()
	series.Feedback = false

	tests := []struct {
		name   string
		src    string
		cfg    vm.NetworkConfig
		phases []int64
		want   int64
		best   []int64
	}{
		{"series 1", "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0", series, SeriesPhases, 43210, []int64{4, 3, 2, 1, 0}},
		{"series 2", "3,23,3,24,1002,24,10,24,1002,23,-1,23,101,5,23,23,1,24,23,23,4,23,99,0,0", series, SeriesPhases, 54321, []int64{0, 1, 2, 3, 4}},
		{"series 3", "3,31,3,32,1002,32,10,32,1001,31,-2,31,1007,31,0,33,1002,33,7,33,1,33,31,31,1,32,31,31,4,31,99,0,0,0", series, SeriesPhases, 65210, []int64{1, 0, 4, 3, 2}},
		{"feedback 1", "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5", vm.DefaultNetworkConfig(), FeedbackPhases, 139629729, []int64{9, 8, 7, 6, 5}},
		{"feedback 2", "3,52,1001,52,-5,52,3,53,1,52,56,54,1007,54,5,55,1005,55,26,1001,54,-5,54,1105,1,12,1,53,54,53,1008,54,0,55,1001,55,1,55,2,53,55,53,4,53,1001,56,-1,56,1005,56,6,99,0,0,0,0,10", vm.DefaultNetworkConfig(), FeedbackPhases, 18216, []int64{9, 7, 8, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := program.MustParse(tt.src)
			for _, workers := range []int{1, 4} {
				for _, quantum := range []int{0, 1} {
					opts := Options{Network: tt.cfg, Workers: workers}
					opts.Network.Quantum = quantum
					res, err := MaxThrust(ctx, prog, tt.phases, opts)
					require.NoError(t, err)
					require.Equal(t, tt.want, res.Output)
					require.Equal(t, tt.best, res.Phases)
					require.Equal(t, 120, res.Evaluated)
				}
			}
		})
	}
}

func TestMaxThrustTies(t *testing.T) {
	ctx := testutil.Context(t)
	cfg := vm.DefaultNetworkConfig()
	cfg.Feedback = false
	// Ignores the phase, forwards the signal.
	res, err := MaxThrust(ctx, program.MustParse("3,0,3,0,4,0,99"), SeriesPhases, Options{Network: cfg, Workers: 8})
	require.NoError(t, err)
	require.Zero(t, res.Output)
	require.Equal(t, SeriesPhases, res.Phases, "ties go to the first permutation")
}

func TestMaxThrustCache(t *testing.T) {
	ctx := testutil.Context(t)
	cache, err := NewCache(1024)
	require.NoError(t, err)

	prog := program.MustParse("3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5")
	opts := DefaultOptions()
	opts.Cache = cache

	first, err := MaxThrust(ctx, prog, FeedbackPhases, opts)
	require.NoError(t, err)
	require.Equal(t, 120, first.Evaluated)
	require.Equal(t, 120, cache.Len())

	second, err := MaxThrust(ctx, prog, FeedbackPhases, opts)
	require.NoError(t, err)
	require.Zero(t, second.Evaluated)
	require.Equal(t, first.Output, second.Output)
	require.Equal(t, first.Phases, second.Phases)

	// Series mode is a different network, not a cache hit.
	opts.Network.Feedback = false
	_, err = MaxThrust(ctx, prog, FeedbackPhases, opts)
	require.Error(t, err)
}

func TestMaxThrustErrors(t *testing.T) {
	ctx := testutil.Context(t)
	_, err := MaxThrust(ctx, program.MustParse("99"), nil, DefaultOptions())
	require.ErrorIs(t, err, ErrNoPhases)

	_, err = MaxThrust(ctx, program.MustParse("3,0,3,0,3,0,4,0,99"), []int64{1, 2}, DefaultOptions())
	require.ErrorIs(t, err, vm.ErrDeadlock)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = MaxThrust(canceled, program.MustParse("3,0,3,0,4,0,99"), SeriesPhases, DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestFindNounVerb(t *testing.T) {
	ctx := testutil.Context(t)
	prog := program.MustParse("1,0,0,0,99,10,20,30")

	got, err := FindNounVerb(ctx, vm.DefaultConfig(), prog, 50, 7)
	require.NoError(t, err)
	require.Equal(t, int64(607), got)

	_, err = FindNounVerb(ctx, vm.DefaultConfig(), prog, -1, 7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultPhases(t *testing.T) {
	require.Equal(t, SeriesPhases, DefaultPhases(false))
	require.Equal(t, FeedbackPhases, DefaultPhases(true))

	p := DefaultPhases(true)
	p[0] = 42
	require.Equal(t, int64(5), FeedbackPhases[0])
}
