package search

import "slices"

// Permutations returns every ordering of values, in lexicographic order of
// the input positions. The first permutation is values itself.
func Permutations(values []int64) [][]int64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var out [][]int64
	for {
		perm := make([]int64, n)
		for i, j := range idx {
			perm[i] = values[j]
		}
		out = append(out, perm)
		if !nextPermutation(idx) {
			return out
		}
	}
}

// nextPermutation rearranges idx into the next lexicographic permutation.
// Returns false when idx was the last one.
func nextPermutation(idx []int) bool {
	i := len(idx) - 2
	for i >= 0 && idx[i] >= idx[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(idx) - 1
	for idx[j] <= idx[i] {
		j--
	}
	idx[i], idx[j] = idx[j], idx[i]
	slices.Reverse(idx[i+1:])
	return true
}
