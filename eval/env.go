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

// Package eval binds concrete values to the symbols of a graph and evaluates
// the other values of the graph.
//
// Values which cannot be computed because a symbol has no binding evaluate to
// nil. This is not an error: compiler passes use it to test whether a value is
// known before running a program.
package eval

import (
	"context"

	"github.com/gx-org/symeval/base/sync"
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/precomputed"
	"github.com/gx-org/symeval/tensor"
	"github.com/gx-org/symeval/values"
	"golang.org/x/sync/errgroup"
)

// Env is a binding environment: the concrete values of some nodes of a graph.
//
// Bind and Attach must not be called concurrently with other methods.
// Evaluate can be called from several goroutines.
type Env struct {
	graph       *graph.Graph
	runtime     tensor.Runtime
	tracer      Tracer
	maxDepth    int
	precomputed *precomputed.Values

	bindings map[graph.ID]values.Value
	cache    sync.Map[graph.ID, values.Value]
}

// New returns an empty environment for a graph.
// To reset an environment, replace it with a new one.
func New(g *graph.Graph, opts ...Option) (*Env, error) {
	env := &Env{
		graph:    g,
		runtime:  tensor.Host(),
		bindings: make(map[graph.ID]values.Value),
	}
	for _, opt := range opts {
		if err := opt(env); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// Graph returns the graph of the environment.
func (env *Env) Graph() *graph.Graph {
	return env.graph
}

func (env *Env) node(id graph.ID) (*graph.Value, error) {
	node := env.graph.Value(id)
	if node == nil {
		return nil, fmterr.Internalf("value %d does not belong to the graph", id)
	}
	return node, nil
}

// Bind a value to a node of the graph.
//
// The node needs to be a free symbol unless AllowOverride is passed.
// The value needs to conform to the type of the node. Integers bound to
// float nodes are converted to floats.
func (env *Env) Bind(id graph.ID, val values.Value, opts ...BindOption) error {
	var bOpts bindOptions
	for _, opt := range opts {
		opt(&bOpts)
	}
	node := env.graph.Value(id)
	if node == nil {
		return fmterr.Errorf(fmterr.BindingConflict, "value %d does not belong to the graph", id)
	}
	if val == nil {
		return fmterr.Errorf(fmterr.TypeMismatch, "cannot bind no value to %s", node)
	}
	if node.IsLiteral() {
		return fmterr.Errorf(fmterr.BindingConflict, "cannot bind %s to literal %s", val, node)
	}
	if intVal, ok := val.(*values.Int); ok && node.Type().Kind() == values.FloatKind {
		val = values.NewFloat(float64(intVal.Int64()))
	}
	if err := graph.Check(node.Type(), val); err != nil {
		return fmterr.Wrapf(fmterr.TypeMismatch, err, "cannot bind %s to %s", val, node)
	}
	if !node.IsSymbol() {
		if !bOpts.allowOverride {
			return fmterr.Errorf(fmterr.BindingConflict, "cannot bind %s to %s: the value is computed by an operation", val, node)
		}
		current, err := env.evaluate(node)
		if err != nil {
			return err
		}
		if current != nil && !values.Equal(current, val) {
			return fmterr.Errorf(fmterr.BindingConflict, "Tried to bind to a value: %s (which evaluated to %s) the value %s", node, current, val)
		}
	}
	env.bindings[id] = values.Clone(val)
	env.cache.Clear()
	return nil
}

// Bound returns the value explicitly bound to a node.
func (env *Env) Bound(id graph.ID) (values.Value, bool) {
	val, ok := env.bindings[id]
	return values.Clone(val), ok
}

// Attach a table of precomputed values to the environment.
// The table is not owned by the environment. Attaching nil detaches the current table.
func (env *Env) Attach(pv *precomputed.Values) error {
	if pv != nil && pv.Graph() != env.graph {
		return fmterr.Internalf("cannot attach precomputed values of another graph")
	}
	env.precomputed = pv
	env.cache.Clear()
	return nil
}

// Precomputed returns the attached table of precomputed values (nil if none).
func (env *Env) Precomputed() *precomputed.Values {
	return env.precomputed
}

// Evaluate returns the value of a node.
// A nil value is returned if the value cannot be computed from the bindings.
// The value is owned by the caller: changing it does not change the graph or
// the cached values of the environment.
func (env *Env) Evaluate(id graph.ID) (values.Value, error) {
	node, err := env.node(id)
	if err != nil {
		return nil, err
	}
	val, err := env.evaluate(node)
	if err != nil {
		return nil, err
	}
	return values.Clone(val), nil
}

// EvaluateAll evaluates several nodes concurrently.
// The results are returned in the order of the nodes.
func (env *Env) EvaluateAll(ctx context.Context, ids []graph.ID) ([]values.Value, error) {
	results := make([]values.Value, len(ids))
	group, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			val, err := env.Evaluate(id)
			if err != nil {
				return err
			}
			results[i] = val
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
