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

package posmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/listpositions/position"
)

func TestPositionSetAddHasRemove(t *testing.T) {
	s := NewPositionSet()
	p1 := position.Position{BunchID: "a", InnerIndex: 1}
	p2 := position.Position{BunchID: "a", InnerIndex: 5}
	p3 := position.Position{BunchID: "b", InnerIndex: 0}

	assert.False(t, s.Has(p1))
	s.Add(p1)
	s.Add(p2)
	s.Add(p3)
	assert.True(t, s.Has(p1))
	assert.True(t, s.Has(p2))
	assert.True(t, s.Has(p3))
	assert.Equal(t, 3, s.Len())

	s.Remove(p2)
	assert.False(t, s.Has(p2))
	assert.Equal(t, 2, s.Len())
}

func TestPositionSetSaveLoadRoundTrip(t *testing.T) {
	s := NewPositionSet()
	for i := uint64(0); i < 10; i++ {
		s.Add(position.Position{BunchID: "a", InnerIndex: i})
	}
	s.Add(position.Position{BunchID: "b", InnerIndex: 42})

	state, err := s.Save()
	require.NoError(t, err)

	fresh := NewPositionSet()
	require.NoError(t, fresh.Load(state))
	assert.Equal(t, s.Len(), fresh.Len())
	assert.True(t, fresh.Has(position.Position{BunchID: "a", InnerIndex: 3}))
	assert.True(t, fresh.Has(position.Position{BunchID: "b", InnerIndex: 42}))
	assert.False(t, fresh.Has(position.Position{BunchID: "b", InnerIndex: 43}))
}

func TestPositionMapSetGetDelete(t *testing.T) {
	m := NewPositionMap[string]()
	pos := position.Position{BunchID: "a", InnerIndex: 2}

	_, ok := m.Get(pos)
	assert.False(t, ok)

	m.Set(pos, "hello")
	v, ok := m.Get(pos)
	require.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.True(t, m.Has(pos))

	m.Delete(pos)
	assert.False(t, m.Has(pos))
}

func TestPositionMapEntriesAndSaveLoad(t *testing.T) {
	m := NewPositionMap[int]()
	m.Set(position.Position{BunchID: "a", InnerIndex: 0}, 10)
	m.Set(position.Position{BunchID: "a", InnerIndex: 1}, 20)
	m.Set(position.Position{BunchID: "b", InnerIndex: 0}, 30)

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, 3, m.Len())

	state := m.Save()
	fresh := NewPositionMap[int]()
	require.NoError(t, fresh.Load(state))
	assert.ElementsMatch(t, entries, fresh.Entries())
}

func TestPositionCharMap(t *testing.T) {
	m := NewPositionCharMap[byte]()
	pos := position.Position{BunchID: "a", InnerIndex: 0}
	m.Set(pos, 'x')

	v, ok := m.Get(pos)
	require.True(t, ok)
	assert.Equal(t, byte('x'), v)

	state := m.Save()
	fresh := NewPositionCharMap[byte]()
	require.NoError(t, fresh.Load(state))
	v2, ok := fresh.Get(pos)
	require.True(t, ok)
	assert.Equal(t, byte('x'), v2)
}
