// Copyright 2024 The listpositions Authors
// This file is part of listpositions.
//
// listpositions is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// listpositions is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with listpositions. If not, see <http://www.gnu.org/licenses/>.

package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareAbsoluteMinMax(t *testing.T) {
	min := AbsolutePosition{BunchID: RootBunchID, InnerIndex: 0}
	max := AbsolutePosition{BunchID: RootBunchID, InnerIndex: 1}
	assert.Equal(t, 0, CompareAbsolute(min, min))
	assert.Equal(t, -1, CompareAbsolute(min, max))
	assert.Equal(t, 1, CompareAbsolute(max, min))
}

func TestCompareAbsoluteChild(t *testing.T) {
	min := AbsolutePosition{BunchID: RootBunchID, InnerIndex: 0}
	max := AbsolutePosition{BunchID: RootBunchID, InnerIndex: 1}
	// A child bunch "c" of ROOT, offset 2 (between MIN and MAX).
	child := AbsolutePosition{
		Ancestors:  []Step{{Offset: 2, BunchID: "c"}},
		BunchID:    "c",
		InnerIndex: 0,
	}
	assert.Equal(t, -1, CompareAbsolute(min, child))
	assert.Equal(t, 1, CompareAbsolute(max, child))
	assert.Equal(t, 1, CompareAbsolute(child, min))
	assert.Equal(t, -1, CompareAbsolute(child, max))
}

func TestCompareAbsoluteSiblingOffsetOrder(t *testing.T) {
	left := AbsolutePosition{Ancestors: []Step{{Offset: 2, BunchID: "a"}}, BunchID: "a"}
	right := AbsolutePosition{Ancestors: []Step{{Offset: 4, BunchID: "b"}}, BunchID: "b"}
	assert.Equal(t, -1, CompareAbsolute(left, right))
}

func TestCompareAbsoluteTieBreakByBunchID(t *testing.T) {
	a := AbsolutePosition{Ancestors: []Step{{Offset: 2, BunchID: "aaa"}}, BunchID: "aaa"}
	b := AbsolutePosition{Ancestors: []Step{{Offset: 2, BunchID: "bbb"}}, BunchID: "bbb"}
	assert.Equal(t, -1, CompareAbsolute(a, b))
}

func TestCompareAbsoluteDescendantBetweenSlots(t *testing.T) {
	// Bunch "c" is a child of ROOT at offset 2, with two inner slots
	// (innerIndex 0 and 1, offsets 1 and 3). A grandchild bunch "d" sits
	// at offset 2 within "c" (between c's slot 0 and slot 1).
	cSlot0 := AbsolutePosition{Ancestors: []Step{{Offset: 2, BunchID: "c"}}, BunchID: "c", InnerIndex: 0}
	cSlot1 := AbsolutePosition{Ancestors: []Step{{Offset: 2, BunchID: "c"}}, BunchID: "c", InnerIndex: 1}
	dSlot0 := AbsolutePosition{
		Ancestors:  []Step{{Offset: 2, BunchID: "c"}, {Offset: 2, BunchID: "d"}},
		BunchID:    "d",
		InnerIndex: 0,
	}
	assert.Equal(t, -1, CompareAbsolute(cSlot0, dSlot0))
	assert.Equal(t, 1, CompareAbsolute(cSlot1, dSlot0))
	assert.Equal(t, -1, CompareAbsolute(dSlot0, cSlot1))
}

func TestErrorKindDiscrimination(t *testing.T) {
	err := New(InvalidBunchID, "bad id")
	require.True(t, IsKind(err, InvalidBunchID))
	assert.False(t, IsKind(err, MissingMetadata))

	wrapped := Wrap(MetadataConflict, err, "while merging")
	require.True(t, IsKind(wrapped, MetadataConflict))
}

func TestSortPositions(t *testing.T) {
	ps := []Position{MaxPosition, MinPosition, {BunchID: "x", InnerIndex: 0}}
	cmp := fakeOrder{}
	SortPositions(ps, cmp)
	assert.Equal(t, MinPosition, ps[0])
	assert.Equal(t, MaxPosition, ps[2])
}

// fakeOrder compares purely on a total ordering consistent with
// MIN < everything else < MAX, enough to exercise SortPositions without
// depending on package order (which itself depends on position).
type fakeOrder struct{}

func (fakeOrder) Compare(a, b Position) int {
	rank := func(p Position) int {
		switch p {
		case MinPosition:
			return 0
		case MaxPosition:
			return 2
		default:
			return 1
		}
	}
	ra, rb := rank(a), rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}
