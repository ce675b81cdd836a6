package journey

// Range is a contiguous selection over a journey's stop sequence,
// inclusive on both ends. The zero value is not meaningful; use NoRange
// for the empty selection. Gapped selections are not representable.
type Range struct {
	Lo, Hi int
}

// NoRange is the empty selection.
var NoRange = Range{Lo: -1, Hi: -1}

// IsEmpty reports whether no stops are selected.
func (r Range) IsEmpty() bool {
	return r.Lo < 0 || r.Hi < r.Lo
}

// Len returns the number of selected stops.
func (r Range) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Hi - r.Lo + 1
}

// Contains reports whether index i is inside the selection.
func (r Range) Contains(i int) bool {
	return !r.IsEmpty() && i >= r.Lo && i <= r.Hi
}

// Toggle applies one tap on stop index tapped to the current selection
// over a sequence of n stops:
//
//   - empty selection: the tapped stop becomes a single-element range
//   - tap outside the range: the range extends to include it
//   - tap on the sole element: the selection empties
//   - tap on Lo (len > 1): Lo moves up one
//   - tap on Hi (len > 1): Hi moves down one
//   - tap strictly inside: the tail is discarded, range becomes [Lo, tapped]
//
// Out-of-bounds taps leave the selection unchanged.
func Toggle(r Range, tapped, n int) Range {
	if tapped < 0 || tapped >= n {
		return r
	}
	if r.IsEmpty() {
		return Range{Lo: tapped, Hi: tapped}
	}
	switch {
	case tapped < r.Lo:
		return Range{Lo: tapped, Hi: r.Hi}
	case tapped > r.Hi:
		return Range{Lo: r.Lo, Hi: tapped}
	case tapped == r.Lo && r.Lo == r.Hi:
		return NoRange
	case tapped == r.Lo:
		return Range{Lo: r.Lo + 1, Hi: r.Hi}
	case tapped == r.Hi:
		return Range{Lo: r.Lo, Hi: r.Hi - 1}
	default:
		return Range{Lo: r.Lo, Hi: tapped}
	}
}

// SelectionKeys materializes a range over stops as the (name, ref time)
// key set the assembler matches against on later polls.
func SelectionKeys(stops []Stop, r Range) map[StopKey]struct{} {
	keys := make(map[StopKey]struct{}, r.Len())
	if r.IsEmpty() {
		return keys
	}
	for i := r.Lo; i <= r.Hi && i < len(stops); i++ {
		keys[stops[i].Key()] = struct{}{}
	}
	return keys
}
