package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	const n = 5

	tests := []struct {
		name   string
		start  Range
		tapped int
		want   Range
	}{
		{name: "empty selects tapped", start: NoRange, tapped: 2, want: Range{2, 2}},
		{name: "below range extends down", start: Range{2, 3}, tapped: 0, want: Range{0, 3}},
		{name: "above range extends up", start: Range{1, 2}, tapped: 4, want: Range{1, 4}},
		{name: "sole element empties", start: Range{2, 2}, tapped: 2, want: NoRange},
		{name: "lo of wider range moves up", start: Range{1, 3}, tapped: 1, want: Range{2, 3}},
		{name: "hi of wider range moves down", start: Range{1, 3}, tapped: 3, want: Range{1, 2}},
		{name: "inside range discards tail", start: Range{0, 4}, tapped: 2, want: Range{0, 2}},
		{name: "negative index ignored", start: Range{1, 3}, tapped: -1, want: Range{1, 3}},
		{name: "out of bounds ignored", start: Range{1, 3}, tapped: 5, want: Range{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Toggle(tt.start, tt.tapped, n)
			if tt.want.IsEmpty() {
				assert.True(t, got.IsEmpty())
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToggleTapSequence(t *testing.T) {
	// Tap 3, then 1, then 1 again on a 5-stop list: 3 selects [3,3],
	// 1 extends to [1,3], tapping lo again shrinks to [2,3] - it does
	// not empty the selection.
	r := NoRange
	r = Toggle(r, 3, 5)
	assert.Equal(t, Range{3, 3}, r)
	r = Toggle(r, 1, 5)
	assert.Equal(t, Range{1, 3}, r)
	r = Toggle(r, 1, 5)
	assert.Equal(t, Range{2, 3}, r)
}

func TestToggleAlwaysContiguousInBounds(t *testing.T) {
	// Any tap sequence must leave the selection empty or a valid
	// contiguous in-bounds range.
	const n = 6
	seqs := [][]int{
		{0, 5, 2, 2, 1, 4, 3, 3, 3},
		{5, 5, 5, 0, 0, 0},
		{2, 4, 1, 3, 0, 5, 2},
		{1, 1, 1, 1, 1, 1, 1},
	}
	for _, seq := range seqs {
		r := NoRange
		for _, tap := range seq {
			r = Toggle(r, tap, n)
			if r.IsEmpty() {
				continue
			}
			assert.GreaterOrEqual(t, r.Lo, 0)
			assert.LessOrEqual(t, r.Hi, n-1)
			assert.LessOrEqual(t, r.Lo, r.Hi)
		}
	}
}

func TestRangeLenAndContains(t *testing.T) {
	assert.Equal(t, 0, NoRange.Len())
	assert.Equal(t, 3, Range{1, 3}.Len())
	assert.True(t, Range{1, 3}.Contains(2))
	assert.False(t, Range{1, 3}.Contains(0))
	assert.False(t, NoRange.Contains(0))
}

func TestSelectionKeys(t *testing.T) {
	stops := []Stop{
		{Name: "Roma Termini", RefTime: at(10, 0)},
		{Name: "Firenze S.M.N.", RefTime: at(11, 0)},
		{Name: "Milano Centrale", RefTime: at(12, 30)},
	}

	keys := SelectionKeys(stops, Range{1, 2})
	require.Len(t, keys, 2)
	assert.Contains(t, keys, stops[1].Key())
	assert.Contains(t, keys, stops[2].Key())

	assert.Empty(t, SelectionKeys(stops, NoRange))
}
