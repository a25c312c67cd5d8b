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

// Package precomputed stores the scalar values of a graph in a flat table.
//
// The table is indexed in the topological order of the graph so that all the
// scalar values can be computed in a single pass once the free symbols are
// bound. The table is independent of any binding environment and can be
// attached to several of them.
package precomputed

import (
	"sync"

	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/ops"
	"github.com/gx-org/symeval/tensor"
	"github.com/gx-org/symeval/values"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	precomputedMetrics sync.Once

	precomputedHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "symeval",
			Subsystem: "precomputed",
			Name:      "hits_total",
			Help:      "Number of lookups that returned a valid precomputed value",
		})
	precomputedMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "symeval",
			Subsystem: "precomputed",
			Name:      "misses_total",
			Help:      "Number of lookups for values without a valid precomputed value",
		})
	precomputedEvaluations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "symeval",
			Subsystem: "precomputed",
			Name:      "evaluations_total",
			Help:      "Number of values computed by Evaluate()",
		})
)

type entry struct {
	node  *graph.Value
	val   values.Value
	valid bool
	bound bool
}

// Values is a table of precomputed scalar values.
// Values is safe for concurrent lookups while a single goroutine updates it.
type Values struct {
	graph *graph.Graph

	mu      sync.RWMutex
	entries []entry
	index   map[graph.ID]int
}

// IsScalar returns true if values of a type can be stored in the table.
func IsScalar(typ graph.Type) bool {
	switch typ.Kind() {
	case values.IntKind, values.FloatKind, values.BoolKind:
		return true
	}
	return false
}

// New returns a table for all the scalar values of a graph.
// Literals are valid from the start.
func New(g *graph.Graph) *Values {
	precomputedMetrics.Do(func() {
		prometheus.MustRegister(precomputedHits)
		prometheus.MustRegister(precomputedMisses)
		prometheus.MustRegister(precomputedEvaluations)
	})
	pv := &Values{
		graph: g,
		index: make(map[graph.ID]int),
	}
	for node := range g.Values() {
		if !IsScalar(node.Type()) {
			continue
		}
		pv.index[node.ID()] = len(pv.entries)
		e := entry{node: node}
		if node.IsLiteral() {
			e.val = node.Literal()
			e.valid = true
		}
		pv.entries = append(pv.entries, e)
	}
	return pv
}

// Graph returns the graph of the table.
func (pv *Values) Graph() *graph.Graph {
	return pv.graph
}

// Len returns the number of entries in the table.
func (pv *Values) Len() int {
	return len(pv.entries)
}

// Has returns true if a value has an entry in the table.
func (pv *Values) Has(id graph.ID) bool {
	_, ok := pv.index[id]
	return ok
}

func (pv *Values) lookup(id graph.ID) (*entry, error) {
	i, ok := pv.index[id]
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeMismatch, "value %s is not a scalar value of the graph", pv.graph.Value(id))
	}
	return &pv.entries[i], nil
}

// Bind a concrete value to a free scalar symbol.
// Computed values are invalidated.
func (pv *Values) Bind(id graph.ID, val values.Value) error {
	node := pv.graph.Value(id)
	if node == nil {
		return fmterr.Errorf(fmterr.BindingConflict, "value %d does not belong to the graph", id)
	}
	if !node.IsSymbol() {
		return fmterr.Errorf(fmterr.BindingConflict, "cannot bind %s to %s: not a free symbol", values.String(val), node)
	}
	if _, isInt := val.(*values.Int); isInt && node.Type().Kind() == values.FloatKind {
		f, _ := values.ToFloat64(val)
		val = values.NewFloat(f)
	}
	if err := graph.Check(node.Type(), val); err != nil {
		return err
	}
	pv.mu.Lock()
	defer pv.mu.Unlock()
	e, err := pv.lookup(id)
	if err != nil {
		return err
	}
	pv.invalidate()
	e.val, e.valid, e.bound = val, true, true
	return nil
}

// Invalidate all the computed values. Literals and bindings are kept.
func (pv *Values) Invalidate() {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	pv.invalidate()
}

func (pv *Values) invalidate() {
	for i := range pv.entries {
		e := &pv.entries[i]
		if e.bound || e.node.IsLiteral() {
			continue
		}
		e.val, e.valid = nil, false
	}
}

// Evaluate computes all the values of the table which can be derived from
// the bound symbols and the literals. Values depending on symbols without a
// binding or on non-scalar values stay invalid.
func (pv *Values) Evaluate() error {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	for i := range pv.entries {
		e := &pv.entries[i]
		if e.valid || e.node.IsLeaf() {
			continue
		}
		op := e.node.Def()
		inputs, ok := pv.inputs(op)
		if !ok {
			continue
		}
		outs, err := ops.Apply(tensor.Host(), op, inputs)
		if err != nil {
			return err
		}
		e.val, e.valid = outs[e.node.OutputIndex()], true
		precomputedEvaluations.Inc()
	}
	return nil
}

func (pv *Values) inputs(op *graph.Operation) ([]values.Value, bool) {
	inputs := make([]values.Value, len(op.Inputs()))
	for i, in := range op.Inputs() {
		j, ok := pv.index[in.ID()]
		if !ok || !pv.entries[j].valid {
			return nil, false
		}
		inputs[i] = pv.entries[j].val
	}
	return inputs, true
}

// Get returns the value of a node and true if the table has a valid entry for it.
func (pv *Values) Get(id graph.ID) (values.Value, bool) {
	pv.mu.RLock()
	defer pv.mu.RUnlock()
	i, ok := pv.index[id]
	if !ok || !pv.entries[i].valid {
		precomputedMisses.Inc()
		return nil, false
	}
	precomputedHits.Inc()
	return pv.entries[i].val, true
}
