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

package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/listpositions/order"
	"github.com/erigontech/listpositions/position"
)

func mustOrder(t *testing.T, replica string) *order.Order {
	t.Helper()
	o, err := order.New(replica)
	require.NoError(t, err)
	return o
}

func TestListInsertGetDelete(t *testing.T) {
	o := mustOrder(t, "alice")
	l := NewList[string](o)

	_, _, err := l.InsertAt(0, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, l.Values())

	pos, err := l.PositionAt(1)
	require.NoError(t, err)
	v, ok := l.Get(pos)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	require.NoError(t, l.DeleteAt(1, 1))
	assert.Equal(t, []string{"a", "c"}, l.Values())
}

func TestListInsertAfterCursor(t *testing.T) {
	o := mustOrder(t, "alice")
	l := NewList[int](o)

	first, _, err := l.InsertAt(0, 1)
	require.NoError(t, err)
	_, _, err = l.Insert(first, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, l.Values())
}

func TestTextInsertAndSlice(t *testing.T) {
	o := mustOrder(t, "alice")
	text := NewText(o)

	_, _, err := text.InsertAt(0, "hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text.String())

	s, err := text.Slice(6, 11)
	require.NoError(t, err)
	assert.Equal(t, "world", s)

	require.NoError(t, text.DeleteAt(5, 6))
	assert.Equal(t, "hello", text.String())
}

func TestOutlineInsertAndPositions(t *testing.T) {
	o := mustOrder(t, "alice")
	out := NewOutline(o)

	start, _, err := out.InsertAt(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())

	positions := out.Positions()
	assert.Len(t, positions, 3)
	assert.Equal(t, start, positions[0])
}

func TestListSaveLoadRoundTrip(t *testing.T) {
	o := mustOrder(t, "alice")
	l := NewList[int](o)
	_, _, err := l.InsertAt(0, 1, 2, 3)
	require.NoError(t, err)

	state := l.Save()
	fresh := NewList[int](o)
	require.NoError(t, fresh.Load(state))
	assert.Equal(t, l.Values(), fresh.Values())
}

func TestAbsListRoundTripsAcrossOrders(t *testing.T) {
	alice, err := NewAbsList[string]("alice")
	require.NoError(t, err)
	_, _, err = alice.InsertAt(0, "x", "y")
	require.NoError(t, err)

	state := alice.Save()
	bob, err := LoadAbsList[string]("bob", state)
	require.NoError(t, err)

	assert.Equal(t, alice.Values(), bob.Values())
	aPositions, err := alice.Positions()
	require.NoError(t, err)
	bPositions, err := bob.Positions()
	require.NoError(t, err)
	assert.Equal(t, aPositions, bPositions)
}

func TestLexListEncodeDecodeRoundTrip(t *testing.T) {
	alice, err := NewLexList[string]("alice")
	require.NoError(t, err)
	s, _, err := alice.InsertAt(0, "hi")
	require.NoError(t, err)

	got, ok, err := alice.Get(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hi", got)

	idx, err := alice.IndexOfPosition(s, position.SearchNone)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	state := alice.Save()
	bob, err := LoadLexList[string]("bob", state)
	require.NoError(t, err)
	got2, ok, err := bob.Get(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hi", got2)
}
