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

package lex

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/listpositions/order"
	"github.com/erigontech/listpositions/position"
)

func TestEncodeOffsetOrderPreservingAndPrefixFree(t *testing.T) {
	ns := []uint64{0, 1, 2, 33, 34, 35, 1000, 1 << 20, 1 << 40, ^uint64(0)}
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
	var encs []string
	for _, n := range ns {
		encs = append(encs, encodeOffset(n))
	}
	for i := 1; i < len(encs); i++ {
		assert.Less(t, encs[i-1], encs[i], "encodeOffset(%d) should sort before encodeOffset(%d)", ns[i-1], ns[i])
		assert.False(t, len(encs[i-1]) < len(encs[i]) && encs[i][:len(encs[i-1])] == encs[i-1],
			"encodeOffset(%d)=%q must not be a prefix of encodeOffset(%d)=%q", ns[i-1], encs[i-1], ns[i], encs[i])
	}
	for _, n := range ns {
		got, rest, err := decodeOffsetPrefix(encodeOffset(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
		assert.Equal(t, "", rest)
	}
}

func TestEncodeSentinels(t *testing.T) {
	assert.Equal(t, "", Encode(position.AbsolutePosition{BunchID: position.MinPosition.BunchID, InnerIndex: position.MinPosition.InnerIndex}))
	assert.Equal(t, "~", Encode(position.AbsolutePosition{BunchID: position.MaxPosition.BunchID, InnerIndex: position.MaxPosition.InnerIndex}))

	min, err := Decode("")
	require.NoError(t, err)
	assert.Equal(t, position.MinPosition, min.Position())

	max, err := Decode("~")
	require.NoError(t, err)
	assert.Equal(t, position.MaxPosition, max.Position())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	o, err := order.New("alice")
	require.NoError(t, err)

	var positions []position.Position
	prev := position.MinPosition
	for i := 0; i < 50; i++ {
		p, _, err := o.CreatePositions(prev, position.MaxPosition, 1)
		require.NoError(t, err)
		positions = append(positions, p)
		prev = p
	}
	// A handful of left-extensions and nested inserts too, for path depth.
	mid, _, err := o.CreatePositions(position.MinPosition, positions[0], 1)
	require.NoError(t, err)
	positions = append(positions, mid)
	nested, _, err := o.CreatePositions(position.MinPosition, mid, 1)
	require.NoError(t, err)
	positions = append(positions, nested)

	for _, p := range positions {
		ap, err := o.Abs(p)
		require.NoError(t, err)
		s := Encode(ap)
		decoded, err := Decode(s)
		require.NoError(t, err)
		assert.Equal(t, p, decoded.Position(), "round trip must recover the same Position for %q", s)
		assert.Equal(t, ap.Ancestors, decoded.Ancestors, "round trip must recover the same ancestor chain for %q", s)
	}
}

// TestLexOrderAgreesWithCompare is spec.md's round-trip property: compare(a,
// b) < 0 iff lex(abs(a)) < lex(abs(b)).
func TestLexOrderAgreesWithCompare(t *testing.T) {
	o, err := order.New("alice")
	require.NoError(t, err)

	positions := []position.Position{position.MinPosition, position.MaxPosition}
	prev := position.MinPosition
	for i := 0; i < 30; i++ {
		p, _, err := o.CreatePositions(prev, position.MaxPosition, 1)
		require.NoError(t, err)
		positions = append(positions, p)
		prev = p
	}
	anchor := positions[2]
	for i := 0; i < 10; i++ {
		p, _, err := o.CreatePositions(position.MinPosition, anchor, 1)
		require.NoError(t, err)
		positions = append(positions, p)
		anchor = p
	}

	for i := range positions {
		for j := range positions {
			cmp, err := o.Compare(positions[i], positions[j])
			require.NoError(t, err)

			ai, err := o.Abs(positions[i])
			require.NoError(t, err)
			aj, err := o.Abs(positions[j])
			require.NoError(t, err)
			si, sj := Encode(ai), Encode(aj)

			switch {
			case cmp < 0:
				assert.Less(t, si, sj, "%v < %v but lex(%q) !< lex(%q)", positions[i], positions[j], si, sj)
			case cmp > 0:
				assert.Greater(t, si, sj, "%v > %v but lex(%q) !> lex(%q)", positions[i], positions[j], si, sj)
			default:
				assert.Equal(t, si, sj)
			}
		}
	}
}

// TestScenarioLtRRunLexBound is spec.md §8 scenario 1's lex-length half:
// after 1,000 LtR single-replica inserts the last lex string is short.
func TestScenarioLtRRunLexBound(t *testing.T) {
	o, err := order.New("alice")
	require.NoError(t, err)

	prev := position.MinPosition
	var last position.Position
	for i := 0; i < 1000; i++ {
		p, _, err := o.CreatePositions(prev, position.MaxPosition, 1)
		require.NoError(t, err)
		prev = p
		last = p
	}
	ap, err := o.Abs(last)
	require.NoError(t, err)
	s := Encode(ap)
	assert.Less(t, len(s), 30, "lex string %q too long after 1000 LtR inserts", s)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	evenFinal := encodeOffset(1) + encodeBunchID("x") + encodeOffset(2)
	for _, s := range []string{
		"z",                                   // length prefix never reaches lengthStop
		"y",                                   // lengthStop with no digits following
		"y!",                                  // digit outside digitAlphabet
		encodeOffset(1) + "abc",               // bunch id with no terminator
		encodeOffset(1) + "a\x00",             // escape byte with nothing following
		encodeOffset(1) + "a\x00\x01",         // escape byte followed by neither 0x00 nor 0xFF
		encodeOffset(1) + encodeBunchID("x"),  // bunch id prefix with no following offset
		evenFinal,                             // final step's offset must be odd
	} {
		_, err := Decode(s)
		assert.Error(t, err, "expected Decode(%q) to fail", s)
	}
}

// TestEncodeBunchIDOrderPreservingAndPrefixFree covers encodeBunchID
// directly: order must match plain string order, and no encoding may be a
// prefix of another's, including across embedded NUL bytes.
func TestEncodeBunchIDOrderPreservingAndPrefixFree(t *testing.T) {
	ids := []string{"", "-", "-z", "a", "aa", "ab", "x", "x-y", "x.", "xx", "z", "\x00", "\x00a", "y"}
	sort.Strings(ids)
	var encs []string
	for _, id := range ids {
		encs = append(encs, encodeBunchID(id))
	}
	for i := 1; i < len(encs); i++ {
		if ids[i-1] == ids[i] {
			continue
		}
		assert.Less(t, encs[i-1], encs[i], "encodeBunchID(%q) should sort before encodeBunchID(%q)", ids[i-1], ids[i])
		assert.False(t, len(encs[i-1]) < len(encs[i]) && encs[i][:len(encs[i-1])] == encs[i-1],
			"encodeBunchID(%q)=%q must not be a prefix of encodeBunchID(%q)=%q", ids[i-1], encs[i-1], ids[i], encs[i])
	}
	for _, id := range ids {
		got, rest, err := decodeBunchID(encodeBunchID(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, "", rest)
	}
}

// TestLexOrderSurvivesPrefixSiblingBunchIDs reproduces the scenario a
// single-replica bunchid.Factory can never exercise: two sibling bunches,
// authored by different replicas (or any two externally supplied ids,
// spec.md §2.1), where one id is a literal string prefix of the other —
// e.g. "x" and "x-y" — anchored at the same (parent, offset). Order.Compare
// (via position.Step.Less, tying on plain BunchID comparison) puts "x"
// before "x-y" because it is the shorter string, and Encode must agree.
func TestLexOrderSurvivesPrefixSiblingBunchIDs(t *testing.T) {
	o, err := order.New("alice")
	require.NoError(t, err)

	short := position.BunchMeta{BunchID: "x", ParentID: position.RootBunchID, Offset: 10}
	long := position.BunchMeta{BunchID: "x-y", ParentID: position.RootBunchID, Offset: 10}
	require.NoError(t, o.ReceiveMeta(short))
	require.NoError(t, o.ReceiveMeta(long))

	pShort := position.Position{BunchID: "x", InnerIndex: 0}
	pLong := position.Position{BunchID: "x-y", InnerIndex: 0}

	cmp, err := o.Compare(pShort, pLong)
	require.NoError(t, err)
	require.Less(t, cmp, 0, "Compare must put %q before %q", "x", "x-y")

	apShort, err := o.Abs(pShort)
	require.NoError(t, err)
	apLong, err := o.Abs(pLong)
	require.NoError(t, err)

	sShort, sLong := Encode(apShort), Encode(apLong)
	assert.Less(t, sShort, sLong, "lex(%q)=%q must sort before lex(%q)=%q to agree with Compare", "x", sShort, "x-y", sLong)

	decodedShort, err := Decode(sShort)
	require.NoError(t, err)
	assert.Equal(t, pShort, decodedShort.Position())
	decodedLong, err := Decode(sLong)
	require.NoError(t, err)
	assert.Equal(t, pLong, decodedLong.Position())
}
