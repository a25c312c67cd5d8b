// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package precomputed

import (
	"io"

	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/values"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is incremented when the encoding of snapshots changes.
const snapshotVersion = 1

type (
	snapshot struct {
		Version   int             `msgpack:"version"`
		NumValues int             `msgpack:"num_values"`
		Entries   []snapshotEntry `msgpack:"entries"`
	}

	snapshotEntry struct {
		ID    int     `msgpack:"id"`
		Kind  int     `msgpack:"kind"`
		Bound bool    `msgpack:"bound"`
		Int   int64   `msgpack:"int,omitempty"`
		Float float64 `msgpack:"float,omitempty"`
		Bool  bool    `msgpack:"bool,omitempty"`
	}
)

func toSnapshotEntry(e *entry) (snapshotEntry, error) {
	se := snapshotEntry{ID: int(e.node.ID()), Kind: int(e.val.Kind()), Bound: e.bound}
	switch valT := e.val.(type) {
	case *values.Int:
		se.Int = valT.Int64()
	case *values.Float:
		se.Float = valT.Float64()
	case *values.Bool:
		se.Bool = valT.Bool()
	default:
		return se, fmterr.Internalf("cannot save %s: not a scalar", values.String(e.val))
	}
	return se, nil
}

func (se snapshotEntry) value() (values.Value, error) {
	switch values.Kind(se.Kind) {
	case values.IntKind:
		return values.NewInt(se.Int), nil
	case values.FloatKind:
		return values.NewFloat(se.Float), nil
	case values.BoolKind:
		return values.NewBool(se.Bool), nil
	}
	return nil, fmterr.Errorf(fmterr.TypeMismatch, "invalid value kind %s for value %d", values.Kind(se.Kind), se.ID)
}

// Save writes all the valid computed and bound values of the table.
func (pv *Values) Save(w io.Writer) error {
	pv.mu.RLock()
	defer pv.mu.RUnlock()
	snap := snapshot{Version: snapshotVersion, NumValues: pv.graph.NumValues()}
	for i := range pv.entries {
		e := &pv.entries[i]
		if !e.valid || e.node.IsLiteral() {
			continue
		}
		se, err := toSnapshotEntry(e)
		if err != nil {
			return err
		}
		snap.Entries = append(snap.Entries, se)
	}
	return errors.Wrap(msgpack.NewEncoder(w).Encode(&snap), "cannot encode precomputed values")
}

// Load reads values written by Save for the same graph.
// The current computed values and bindings are replaced.
func (pv *Values) Load(r io.Reader) error {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return errors.Wrap(err, "cannot decode precomputed values")
	}
	if snap.Version != snapshotVersion {
		return errors.Errorf("precomputed values snapshot version %d not supported (want %d)", snap.Version, snapshotVersion)
	}
	if snap.NumValues != pv.graph.NumValues() {
		return fmterr.Errorf(fmterr.TypeMismatch, "snapshot of a graph of %d values cannot be loaded for a graph of %d values", snap.NumValues, pv.graph.NumValues())
	}
	pv.mu.Lock()
	defer pv.mu.Unlock()
	for i := range pv.entries {
		e := &pv.entries[i]
		if e.node.IsLiteral() {
			continue
		}
		e.val, e.valid, e.bound = nil, false, false
	}
	for _, se := range snap.Entries {
		e, err := pv.lookup(graph.ID(se.ID))
		if err != nil {
			return err
		}
		val, err := se.value()
		if err != nil {
			return err
		}
		if err := graph.Check(e.node.Type(), val); err != nil {
			return err
		}
		e.val, e.valid, e.bound = val, true, se.Bound
	}
	return nil
}
