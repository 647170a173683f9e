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

package bunchid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/listpositions/position"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		id      string
		wantErr bool
	}{
		{"ROOT", true},
		{"a.b", true},
		{"a,b", true},
		{"~", true},
		{"zzzzz", false}, // 'z' < '~' in ASCII, so this sorts below the sentinel
		{"", true},
		{"alice_1", false},
		{"bob-42", false},
	}
	for _, c := range cases {
		err := Validate(c.id)
		if c.wantErr {
			assert.Errorf(t, err, "Validate(%q)", c.id)
		} else {
			assert.NoErrorf(t, err, "Validate(%q)", c.id)
		}
	}
}

func TestValidateSentinelBoundary(t *testing.T) {
	require.NoError(t, Validate("}")) // '}' < '~' in ASCII
	require.Error(t, Validate("~"))
	require.Error(t, Validate(string(rune('~'+1))))
}

func TestFactoryNewIsUniqueAndMonotonic(t *testing.T) {
	f, err := NewFactory("alice")
	require.NoError(t, err)

	seen := map[string]bool{}
	var last uint64
	for i := 0; i < 100; i++ {
		id := f.New()
		require.False(t, seen[id])
		seen[id] = true
		require.NoError(t, Validate(id))

		replica, counter, ok := Parse(id)
		require.True(t, ok)
		assert.Equal(t, "alice", replica)
		assert.Greater(t, counter, last)
		last = counter
	}
}

func TestNewFactoryRejectsInvalidReplica(t *testing.T) {
	_, err := NewFactory("ROOT")
	require.Error(t, err)
	assert.True(t, position.IsKind(err, position.InvalidBunchID))
}

func TestParseRejectsNonFactoryShapes(t *testing.T) {
	_, _, ok := Parse("noUnderscore")
	assert.False(t, ok)
	_, _, ok = Parse("alice_")
	assert.False(t, ok)
	_, _, ok = Parse("alice_xyz!")
	assert.False(t, ok)
}
