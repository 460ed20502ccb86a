package pool

// LoopIndex wraps index into [0, count) assuming it has strayed by at most
// one cycle. count must be positive.
//
// Only -count <= index < 2*count is supported. Anything further out is
// returned unwrapped (still out of range); callers here only ever pass
// cursor+1 with cursor in [-1, count-1].
func LoopIndex(count, index int) int {
	switch {
	case index >= count:
		return index - count
	case index < 0:
		return count + index
	default:
		return index
	}
}
