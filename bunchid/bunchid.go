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

// Package bunchid produces and validates bunch IDs: the strings that name
// bunches in an order.Order. The default shape is "<replica>_<counter
// base36>"; any string satisfying Validate is accepted by order.Order.
package bunchid

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/erigontech/listpositions/position"
)

// sentinel is the first id value considered "too large" for a bunch id:
// ids must sort strictly below it so lex.Encode can use "~" as the
// MaxPosition sentinel without ambiguity (spec.md §4.1, §4.4).
const sentinel = "~"

// Validate rejects the reserved ROOT id, any id containing '.' or ',' (the
// reserved separator characters), and any id lexicographically >= "~".
func Validate(id string) error {
	if id == position.RootBunchID {
		return position.Newf(position.InvalidBunchID, "bunch id %q is reserved", id)
	}
	if strings.ContainsAny(id, ".,") {
		return position.Newf(position.InvalidBunchID, "bunch id %q contains a reserved separator ('.' or ',')", id)
	}
	if id >= sentinel {
		return position.Newf(position.InvalidBunchID, "bunch id %q must sort before %q", id, sentinel)
	}
	if id == "" {
		return position.New(position.InvalidBunchID, "bunch id must not be empty")
	}
	return nil
}

// Factory produces unique bunch ids for one replica, each combining the
// replica string with a monotonic, base-36-rendered counter.
type Factory struct {
	replica string
	counter uint64 // accessed via atomic; next id uses counter+1
}

// NewFactory validates replica and returns a Factory that mints ids
// "<replica>_<counter>" with counter starting at 1 and rendered base 36.
func NewFactory(replica string) (*Factory, error) {
	if err := Validate(replica); err != nil {
		return nil, err
	}
	return &Factory{replica: replica}, nil
}

// Replica returns the replica string this Factory was built with.
func (f *Factory) Replica() string { return f.replica }

// New mints the next unique bunch id for this replica. Safe for concurrent
// use even though the rest of this module assumes single-threaded use of
// an individual Order — minting an id itself touches no shared Order
// state, so giving it a cheap atomic counter costs nothing and matches
// how erigon's own id/sequence helpers (e.g. erigon-lib/common/math)
// favor small allocation-free primitives.
func (f *Factory) New() string {
	n := atomic.AddUint64(&f.counter, 1)
	return f.replica + "_" + strconv.FormatUint(n, 36)
}

// Parse recovers the (replica, counter) pair from a default-shaped id. It
// returns ok=false for ids not produced by a Factory (e.g. hand-picked
// ids, or ids that contain no "_" at all);
// replica may itself contain "_" since the split is on the last
// occurrence.
func Parse(id string) (replica string, counter uint64, ok bool) {
	i := strings.LastIndexByte(id, '_')
	if i < 0 || i == len(id)-1 {
		return "", 0, false
	}
	n, err := strconv.ParseUint(id[i+1:], 36, 64)
	if err != nil {
		return "", 0, false
	}
	return id[:i], n, true
}
