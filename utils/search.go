package utils

import "sort"

// LowerBound returns the index of the last element of the ascending slice xs
// that is <= x. Targets below the first element map to 0, so the result is
// always a valid index for a non-empty slice. Returns -1 for an empty slice.
func LowerBound(xs []float64, x float64) int {
	if len(xs) == 0 {
		return -1
	}
	// first index with xs[i] > x
	idx := sort.Search(len(xs), func(i int) bool {
		return xs[i] > x
	})
	if idx == 0 {
		return 0
	}
	return idx - 1
}

// Window returns the inclusive index range [lo, hi] of radius elements either
// side of center, clipped to [0, n-1].
func Window(center, radius, n int) (lo, hi int) {
	lo = max(center-radius, 0)
	hi = min(center+radius, n-1)
	return lo, hi
}

// StrictlyIncreasing reports whether xs is sorted with no duplicates.
func StrictlyIncreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return false
		}
	}
	return true
}
