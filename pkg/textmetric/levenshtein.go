// Package textmetric provides the string and set similarity primitives used
// by the dataset similarity scorer.
package textmetric

import "unicode/utf8"

// LevenshteinDistance returns the minimum number of single-rune insertions,
// deletions and substitutions needed to transform a into b.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Single-row dynamic programming: prev[j] holds the distance between
	// ra[:i] and rb[:j] from the previous iteration.
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		diag := prev[0]
		prev[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			next := min3(prev[j]+1, prev[j-1]+1, diag+cost)
			diag = prev[j]
			prev[j] = next
		}
	}

	return prev[len(rb)]
}

// NormalizedLevenshtein returns the Levenshtein distance scaled into [0,1]
// by the length of the longer string. Two empty strings are distance 0.
func NormalizedLevenshtein(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return float64(LevenshteinDistance(a, b)) / float64(longest)
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
