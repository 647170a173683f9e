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

// Package lex implements the pure, stateless mapping between an
// AbsolutePosition and a string whose lexicographic (byte) order equals the
// Position order (spec.md §4.4). Encode/Decode need no Order: every
// ancestor bunch id an AbsolutePosition carries is embedded directly in the
// string.
package lex

import (
	"strings"

	"github.com/erigontech/listpositions/position"
)

// digitAlphabet is the base used for the offset's length-self-describing
// digit run. It excludes 'y' and 'z', which encodeOffset reserves as the
// length prefix's stop/continue markers.
const digitAlphabet = "0123456789abcdefghijklmnopqrstuvwx"

const (
	lengthStop     byte = 'y' // terminates the length prefix
	lengthContinue byte = 'z' // one more digit follows in the run
)

// bunchIDNUL both terminates an encoded bunch id and, escaped by
// bunchIDEscapeTag, stands in for a raw NUL byte within one (see
// encodeBunchID): bunchid.Validate never forbids 0x00 appearing inside an
// id, so a raw occurrence must itself be escaped.
const bunchIDNUL = 0x00
const bunchIDEscapeTag = 0xFF

var digitValue [256]int8

func init() {
	for i := range digitValue {
		digitValue[i] = -1
	}
	for i := 0; i < len(digitAlphabet); i++ {
		digitValue[digitAlphabet[i]] = int8(i)
	}
}

// encodeOffset renders n as a length-self-describing digit run: (L-1)
// copies of lengthContinue, one lengthStop, then n's minimal base-34
// representation (L digits, no leading zero unless n itself is zero).
//
// This makes encodeOffset(n) < encodeOffset(m) (lexicographically) iff n <
// m, and no encodeOffset(n) is a prefix of encodeOffset(m) for n != m:
// runs of different length L first differ inside the length prefix itself
// (a shorter run's lengthStop always lands where a longer run still has a
// lengthContinue, and lengthStop < lengthContinue), and runs of equal L
// compare byte-for-byte on digits whose alphabet order already matches
// digit value order.
func encodeOffset(n uint64) string {
	base := uint64(len(digitAlphabet))
	var digits []byte
	if n == 0 {
		digits = []byte{digitAlphabet[0]}
	} else {
		for n > 0 {
			digits = append(digits, digitAlphabet[n%base])
			n /= base
		}
		for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
			digits[i], digits[j] = digits[j], digits[i]
		}
	}
	out := make([]byte, len(digits)-1, len(digits)*2)
	for i := range out {
		out[i] = lengthContinue
	}
	out = append(out, lengthStop)
	out = append(out, digits...)
	return string(out)
}

// decodeOffsetPrefix parses exactly one encodeOffset run starting at s[0]
// and returns the decoded value plus whatever of s follows it, so callers
// can keep consuming the rest of a lex string without a separator telling
// them where the run ends.
func decodeOffsetPrefix(s string) (uint64, string, error) {
	i := 0
	for i < len(s) && s[i] == lengthContinue {
		i++
	}
	if i >= len(s) || s[i] != lengthStop {
		return 0, "", position.Newf(position.DecodeInvalid, "lex: malformed offset length prefix in %q", s)
	}
	l := i + 1
	i++
	if len(s)-i < l {
		return 0, "", position.Newf(position.DecodeInvalid, "lex: offset digit run in %q has fewer than %d digits", s, l)
	}
	base := uint64(len(digitAlphabet))
	var n uint64
	for k := i; k < i+l; k++ {
		v := digitValue[s[k]]
		if v < 0 {
			return 0, "", position.Newf(position.DecodeInvalid, "lex: invalid offset digit %q in %q", s[k], s)
		}
		n = n*base + uint64(v)
	}
	return n, s[i+l:], nil
}

// encodeBunchID renders id as an order-preserving, prefix-free byte run:
// every raw 0x00 byte in id is escaped as the two bytes {0x00, 0xFF}, and
// the run is terminated by the two bytes {0x00, 0x00}.
//
// bunchid.Validate forbids '.'  and ',' inside an id but nothing else —
// ids are otherwise arbitrary strings (spec.md §2.1: "any string-producing
// source works"), so a fixed single-byte separator cannot work in general:
// whatever separator byte is picked, some Validate-accepted id can legally
// contain bytes on both sides of it, which reorders the separator relative
// to the id's own content instead of terminating it unambiguously (this is
// exactly what made "." unsafe — ids may contain bytes below '.', such as
// '-', as well as bytes above it). Escaping the one byte value (0x00) that
// can double as both ordinary content and a terminator, instead of relying
// on a bare separator, fixes this for every Validate-accepted id:
//   - decodeBunchID can always tell an embedded NUL (followed by 0xFF)
//     apart from the terminator (followed by 0x00), so the encoding is
//     prefix-free: no encodeBunchID(a) is a prefix of encodeBunchID(b) for
//     a != b, and decoding never needs to guess where an id ends.
//   - it is order-preserving: id < id2 (plain byte comparison) iff
//     encodeBunchID(id) < encodeBunchID(id2). Where id and id2 share a
//     common prefix, encodeBunchID reproduces it byte-for-byte and the
//     comparison is decided by whatever comes next. Where id is a strict
//     prefix of id2 (the case that broke the old "."-separator scheme),
//     id's terminator byte pair starts with 0x00, which is less than both
//     (a) the first byte of id2's next raw content byte, whenever that
//     byte is non-zero (every byte value is >= 0x00, so a non-escaped byte
//     is always >= 0x00, and a differing byte at this position that isn't
//     itself 0x00 must be > 0x00), and (b) the first byte of id2's escaped
//     continuation when that next byte is itself 0x00 (0x00, matching),
//     whose *second* byte is the escape tag 0xFF, greater than the
//     terminator's second byte 0x00 — so id's encoding sorts first either
//     way, matching id < id2.
func encodeBunchID(id string) string {
	var b strings.Builder
	b.Grow(len(id) + 2)
	for i := 0; i < len(id); i++ {
		c := id[i]
		b.WriteByte(c)
		if c == bunchIDNUL {
			b.WriteByte(bunchIDEscapeTag)
		}
	}
	b.WriteByte(bunchIDNUL)
	b.WriteByte(bunchIDNUL)
	return b.String()
}

// decodeBunchID is encodeBunchID's exact inverse: it reads one encoded
// bunch id starting at s[0], stopping at (and consuming) its terminator,
// and returns the decoded id plus whatever of s follows.
func decodeBunchID(s string) (string, string, error) {
	var b strings.Builder
	i := 0
	for {
		if i >= len(s) {
			return "", "", position.Newf(position.DecodeInvalid, "lex: unterminated bunch id in %q", s)
		}
		c := s[i]
		if c != bunchIDNUL {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", "", position.Newf(position.DecodeInvalid, "lex: truncated bunch id escape in %q", s)
		}
		switch s[i+1] {
		case bunchIDNUL:
			return b.String(), s[i+2:], nil
		case bunchIDEscapeTag:
			b.WriteByte(bunchIDNUL)
			i += 2
		default:
			return "", "", position.Newf(position.DecodeInvalid, "lex: invalid bunch id escape in %q", s)
		}
	}
}

// Encode maps ap to its lex string. MinPosition always encodes to "" and
// MaxPosition always encodes to "~"; every other Position's encoding is
// strictly between the two, one (bunch id, offset) pair per FullPath step
// after the first — the first step needs no bunch id prefix, since its
// offset is always local to the implicit ROOT bunch. A step's own bunch id
// becomes the *next* step's prefix, so the last step's prefix is, with
// nothing left to become, the AbsolutePosition's own BunchID — exactly
// what Decode needs to recover it without a dedicated trailing field.
// Both encodeOffset and encodeBunchID are self-delimiting (see their docs),
// so no separator byte is needed anywhere in the output.
func Encode(ap position.AbsolutePosition) string {
	pos := ap.Position()
	if pos == position.MinPosition {
		return ""
	}
	if pos == position.MaxPosition {
		return "~"
	}
	path := ap.FullPath()
	var b strings.Builder
	b.WriteString(encodeOffset(path[0].Offset))
	for i := 1; i < len(path); i++ {
		b.WriteString(encodeBunchID(path[i-1].BunchID))
		b.WriteString(encodeOffset(path[i].Offset))
	}
	return b.String()
}

// Decode is Encode's exact inverse: it recovers the full ancestor chain and
// inner index from s alone, with no Order state needed.
func Decode(s string) (position.AbsolutePosition, error) {
	if s == "" {
		return position.AbsolutePosition{BunchID: position.MinPosition.BunchID, InnerIndex: position.MinPosition.InnerIndex}, nil
	}
	if s == "~" {
		return position.AbsolutePosition{BunchID: position.MaxPosition.BunchID, InnerIndex: position.MaxPosition.InnerIndex}, nil
	}

	off0, rest, err := decodeOffsetPrefix(s)
	if err != nil {
		return position.AbsolutePosition{}, err
	}
	offsets := []uint64{off0}
	var bunchIDs []string // bunchIDs[i] is the prefix consumed before offsets[i+1]
	for rest != "" {
		id, rest2, err := decodeBunchID(rest)
		if err != nil {
			return position.AbsolutePosition{}, err
		}
		off, rest3, err := decodeOffsetPrefix(rest2)
		if err != nil {
			return position.AbsolutePosition{}, err
		}
		bunchIDs = append(bunchIDs, id)
		offsets = append(offsets, off)
		rest = rest3
	}

	n := len(offsets) - 1 // index of the final (own-slot) step
	if n == 0 {
		return position.AbsolutePosition{}, position.Newf(position.DecodeInvalid, "lex: %q has no bunch id", s)
	}
	ancestors := make([]position.Step, n)
	for i := 0; i < n; i++ {
		ancestors[i] = position.Step{Offset: offsets[i], BunchID: bunchIDs[i]}
	}
	finalOffset := offsets[n]
	if finalOffset%2 == 0 {
		return position.AbsolutePosition{}, position.Newf(position.DecodeInvalid, "lex: final offset %d in %q is even, not a slot", finalOffset, s)
	}
	return position.AbsolutePosition{
		Ancestors:  ancestors,
		BunchID:    bunchIDs[n-1],
		InnerIndex: (finalOffset - 1) / 2,
	}, nil
}
