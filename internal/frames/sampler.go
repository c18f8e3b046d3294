package frames

// SampleIndices returns min(requested, total) frame indices spread evenly from
// 0 to total-1. Position k maps to ceil(k*(total-1)/(n-1)), so both endpoints
// are always included and indices are strictly increasing.
func SampleIndices(total, requested int) []int {
	if total <= 0 || requested <= 0 {
		return nil
	}

	n := min(requested, total)
	if n == 1 {
		return []int{0}
	}

	span := total - 1
	steps := n - 1
	indices := make([]int, n)
	for k := range indices {
		indices[k] = (k*span + steps - 1) / steps
	}
	return indices
}
