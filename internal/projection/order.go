package projection

// NextOrder returns the append position for a column holding existing:
// one past the maximum, or 0 for an empty column. It never fills gaps.
func NextOrder(existing []int) int {
	if len(existing) == 0 {
		return 0
	}
	highest := existing[0]
	for _, o := range existing[1:] {
		highest = max(highest, o)
	}
	return highest + 1
}

// AllocateBlock returns n contiguous orders starting at NextOrder(existing).
func AllocateBlock(existing []int, n int) []int {
	if n <= 0 {
		return nil
	}
	start := NextOrder(existing)
	block := make([]int, n)
	for i := range block {
		block[i] = start + i
	}
	return block
}
