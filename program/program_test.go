package program

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []int64
	}{
		{"1,0,0,0,99", []int64{1, 0, 0, 0, 99}},
		{"1,0,0,0,99\n", []int64{1, 0, 0, 0, 99}},
		{"  104, -1 ,99 ", []int64{104, -1, 99}},
		{"104,1125899906842624,99", []int64{104, 1125899906842624, 99}},
		{"0x10,-0x10,0b11", []int64{16, -16, 3}},
		{"+5,-0", []int64{5, 0}},
		{"-9223372036854775808,9223372036854775807", []int64{math.MinInt64, math.MaxInt64}},
		{"-0x8000000000000000,0x7fffffffffffffff", []int64{math.MinInt64, math.MaxInt64}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, "%q", tt.in)
		require.Equal(t, tt.want, got, "%q", tt.in)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "\n", "1,,2", "1,a,99", "1.5,2", "99999999999999999999",
		"--5,99", "-+5", "+-5", "0x-1", "-0x+1", "0x8000000000000000", "-0x8000000000000001", "-9223372036854775809",
	} {
		_, err := Parse(in)
		require.ErrorIs(t, err, ErrSyntax, "%q", in)
	}
}

func TestFormat(t *testing.T) {
	const src = "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"
	require.Equal(t, src, Format(MustParse(src)))

	extremes := []int64{math.MinInt64, -1, 0, math.MaxInt64}
	got, err := Parse(Format(extremes))
	require.NoError(t, err)
	require.Equal(t, extremes, got)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, os.WriteFile(path, []byte("3,0,4,0,99\n"), 0o600))
	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 0, 4, 0, 99}, p)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := MustParse("1,0,0,0,99")
	b := MustParse("1,0,0,0,99")
	c := MustParse("2,0,0,0,99")
	require.Equal(t, Fingerprint(a), Fingerprint(b))
	require.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
