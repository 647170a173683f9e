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

package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenario4 is spec.md §8 scenario 4, verbatim.
func TestScenario4(t *testing.T) {
	a := New[[]string](Values[string]{})
	a.Set(0, []string{"a", "b", "c", "d", "e"})
	a.Delete(1, 2)

	assert.True(t, a.Has(0))
	assert.False(t, a.Has(1))
	assert.False(t, a.Has(2))
	assert.True(t, a.Has(3))

	got := a.Serialize()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a"}, got[0])
	assert.Equal(t, 2, got[1])
	assert.Equal(t, []string{"d", "e"}, got[2])

	back, err := Deserialize[[]string](Values[string]{}, got)
	require.NoError(t, err)
	assert.True(t, back.Has(0))
	assert.False(t, back.Has(1))
	assert.True(t, back.Has(3))
	assert.Equal(t, a.Serialize(), back.Serialize())
}

func TestGetReturnsLengthOneSlice(t *testing.T) {
	a := New[[]int](Values[int]{})
	a.Set(0, []int{10, 20, 30})
	v, ok := a.Get(1)
	require.True(t, ok)
	assert.Equal(t, []int{20}, v)

	_, ok = a.Get(5)
	assert.False(t, ok)
}

func TestCountPresentBefore(t *testing.T) {
	a := New[[]int](Values[int]{})
	a.Set(0, []int{1, 2, 3, 4, 5})
	a.Delete(1, 2)
	assert.Equal(t, 0, a.CountPresentBefore(0))
	assert.Equal(t, 1, a.CountPresentBefore(1))
	assert.Equal(t, 1, a.CountPresentBefore(3))
	assert.Equal(t, 3, a.CountPresentBefore(5))
}

func TestSetReturnsReplacedIncludingGap(t *testing.T) {
	a := New[[]int](Values[int]{})
	replaced := a.Set(3, []int{1, 2})
	// Nothing existed at [3,5) before: replaced should show both absent.
	assert.False(t, replaced.Has(0))
	assert.False(t, replaced.Has(1))
	assert.True(t, a.Has(3))
	assert.True(t, a.Has(4))
}

func TestSetOverwriteReturnsPreviousValues(t *testing.T) {
	a := New[[]string](Values[string]{})
	a.Set(0, []string{"a", "b", "c"})
	replaced := a.Set(1, []string{"x"})
	v, ok := replaced.Get(0)
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, v)

	got, ok := a.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, got)
	got, ok = a.Get(2)
	require.True(t, ok)
	assert.Equal(t, []string{"c"}, got)
}

func TestTextKindByteSlicing(t *testing.T) {
	a := New[string](TextKind{})
	a.Set(0, "hello world")
	a.Delete(5, 1)
	v, ok := a.Get(0)
	require.True(t, ok)
	assert.Equal(t, "h", v)
	assert.False(t, a.Has(5))
	assert.True(t, a.Has(6))
}

func TestIndicesKindRunLength(t *testing.T) {
	a := New[int](IndicesKind{})
	a.Set(0, 5) // 5 present slots
	a.Delete(2, 1)
	assert.True(t, a.Has(0))
	assert.True(t, a.Has(1))
	assert.False(t, a.Has(2))
	assert.True(t, a.Has(3))
	assert.True(t, a.Has(4))
	assert.Equal(t, 4, a.CountPresentBefore(10))
}

func TestTrimDropsTrailingDeletion(t *testing.T) {
	a := New[[]int](Values[int]{})
	a.Set(0, []int{1, 2, 3})
	a.Delete(2, 1)
	assert.Equal(t, 3, a.Length())
	a.Trim()
	assert.Equal(t, 2, a.Length())
}

func TestDeserializeRejectsMalformed(t *testing.T) {
	_, err := Deserialize[[]int](Values[int]{}, []any{[]int{1, 2}, "not a count"})
	require.Error(t, err)
}

func TestEntriesAscending(t *testing.T) {
	a := New[[]int](Values[int]{})
	a.Set(0, []int{1, 2})
	a.Set(5, []int{9})
	entries := a.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, 5, entries[1].Index)
}
