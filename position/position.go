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

// Package position holds the value types shared by every other package in
// this module: Position, its self-contained AbsolutePosition form, bunch
// metadata, the MIN/MAX sentinels, and the tagged error kind. It has no
// dependency on order, sparse, or any other package here, the same way
// erigon-lib/common anchors the rest of erigon-lib.
package position

import "fmt"

// RootBunchID is the reserved, always-present bunch at the root of every
// Order. It has no parent and hosts the two sentinel inner slots.
const RootBunchID = "ROOT"

// Position names a slot in the total order. Two Positions are equal iff
// both fields match. Positions are value types: produced once, freely
// copied, never mutated.
type Position struct {
	BunchID    string
	InnerIndex uint64
}

func (p Position) String() string {
	return fmt.Sprintf("%s@%d", p.BunchID, p.InnerIndex)
}

// IsRoot reports whether p belongs to the ROOT bunch (i.e. is MIN, MAX, or
// — invalidly — some other ROOT inner slot).
func (p Position) IsRoot() bool { return p.BunchID == RootBunchID }

// MinPosition and MaxPosition are the two globally fixed Positions that are
// strictly less and greater than every other Position in any Order.
var (
	MinPosition = Position{BunchID: RootBunchID, InnerIndex: 0}
	MaxPosition = Position{BunchID: RootBunchID, InnerIndex: 1}
)

// Step is one link of an AbsolutePosition's ancestor chain: the bunch ID of
// a child bunch together with its offset within its parent's local order
// (see BunchMeta for the offset encoding).
type Step struct {
	Offset  uint64
	BunchID string
}

// Less orders two Steps the way Order.Compare orders two positions at the
// point where their paths first diverge: by Offset, ties broken by BunchID.
func (s Step) Less(o Step) bool {
	if s.Offset != o.Offset {
		return s.Offset < o.Offset
	}
	return s.BunchID < o.BunchID
}

// AbsolutePosition is a Position plus the full ancestor chain of bunch
// metadata needed to compare it without any prior Order state: Order.Abs
// and Order.Unabs round-trip between the two forms, and Unabs is pure
// compute that additionally registers any bunches it has not seen before.
type AbsolutePosition struct {
	// Ancestors is the chain of (bunchID, offset) steps from the bunch
	// directly under ROOT down to (and including) the position's own
	// bunch. Ancestors[i].BunchID's parent is Ancestors[i-1].BunchID (or
	// ROOT for i == 0). Empty when BunchID == RootBunchID.
	Ancestors []Step
	BunchID   string
	InnerIndex uint64
}

// Position discards the ancestor metadata, returning the compact Position.
func (a AbsolutePosition) Position() Position {
	return Position{BunchID: a.BunchID, InnerIndex: a.InnerIndex}
}

// FullPath returns the complete step sequence used by the total order: the
// ancestor chain followed by the position's own slot step
// (bunchID, 2*innerIndex+1). See order.Order.Compare for how this is used.
func (a AbsolutePosition) FullPath() []Step {
	path := make([]Step, len(a.Ancestors)+1)
	copy(path, a.Ancestors)
	path[len(a.Ancestors)] = Step{Offset: 2*a.InnerIndex + 1, BunchID: a.BunchID}
	return path
}

// CompareAbsolute implements the total order directly on two self-contained
// AbsolutePositions, with no Order lookups required. Order.Compare uses
// the same lockstep walk (ComparePaths) on full paths it builds from its
// own bunch tree, without going through AbsolutePosition.
//
// The algorithm walks both FullPath sequences in lockstep; at the first
// index where the Steps differ, the side with the smaller (Offset,
// BunchID) pair is less. A bunch's own slot step always carries an odd
// Offset while every ancestor step carries an even one (child bunches sit
// at even offsets, see BunchMeta), so the two FullPaths can never be a
// strict prefix of one another: the shorter path's final (odd) step and
// the longer path's entry at that same index (even, unless it's the
// longer path's own final step too) are always directly comparable. That
// is the "virtual trailing slot" equivalence spec.md describes.
func CompareAbsolute(a, b AbsolutePosition) int {
	return ComparePaths(a.FullPath(), b.FullPath())
}

// ComparePaths compares two FullPath sequences directly. It is the single
// place the lockstep walk described above is implemented; CompareAbsolute
// and order.Order.Compare (which builds its paths from the live bunch tree
// instead of a self-contained AbsolutePosition) both delegate here so the
// two never drift apart.
func ComparePaths(pa, pb []Step) int {
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		if pa[i] == pb[i] {
			continue
		}
		if pa[i].Less(pb[i]) {
			return -1
		}
		return 1
	}
	switch {
	case len(pa) == len(pb):
		return 0
	case len(pa) < len(pb):
		return -1
	default:
		return 1
	}
}

// BunchMeta describes one bunch: its id, its parent's id, and its offset
// within the parent's local order. ROOT is the only bunch with no parent
// and is never represented as a BunchMeta value (it is implicit).
type BunchMeta struct {
	BunchID  string
	ParentID string
	Offset   uint64
}

// Equal reports whether two BunchMetas describe the same bunch identically.
// Order.AddMetas uses this to decide whether a repeated registration is a
// no-op (bit-identical) or a fatal MetadataConflict.
func (m BunchMeta) Equal(o BunchMeta) bool {
	return m.BunchID == o.BunchID && m.ParentID == o.ParentID && m.Offset == o.Offset
}

// SearchDir controls how IndexOfPosition resolves a Position that is not
// currently present in a view.
type SearchDir int

const (
	// SearchNone returns -1 for an absent Position.
	SearchNone SearchDir = iota
	// SearchLeft returns the index immediately to the left of where the
	// Position would be.
	SearchLeft
	// SearchRight returns the index immediately to the right.
	SearchRight
)

func (d SearchDir) String() string {
	switch d {
	case SearchLeft:
		return "left"
	case SearchRight:
		return "right"
	default:
		return "none"
	}
}
