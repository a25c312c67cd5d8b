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

package eval

import (
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/ops"
	"github.com/gx-org/symeval/values"
)

// lookup returns the value of a node and true if the value is known
// without evaluating an operation.
func (env *Env) lookup(node *graph.Value) (values.Value, bool) {
	id := node.ID()
	if env.precomputed != nil && env.precomputed.Has(id) {
		if val, ok := env.precomputed.Get(id); ok {
			return val, true
		}
	}
	if val, ok := env.cache.Load(id); ok {
		return val, true
	}
	if val, ok := env.bindings[id]; ok {
		return val, true
	}
	if node.IsLiteral() {
		return node.Literal(), true
	}
	if node.IsSymbol() {
		return nil, true
	}
	return nil, false
}

// evaluate computes the value of a node with an explicit work-list.
// Operations are evaluated after their inputs and every result is cached.
func (env *Env) evaluate(root *graph.Value) (values.Value, error) {
	if val, ok := env.lookup(root); ok {
		return val, nil
	}
	stack := []*graph.Value{root}
	for len(stack) > 0 {
		if env.maxDepth > 0 && len(stack) > env.maxDepth {
			return nil, fmterr.Internalf("evaluating %s: more than %d pending values", root, env.maxDepth)
		}
		node := stack[len(stack)-1]
		if _, ok := env.lookup(node); ok {
			stack = stack[:len(stack)-1]
			continue
		}
		op := node.Def()
		inputs := make([]values.Value, len(op.Inputs()))
		pending := false
		for i, in := range op.Inputs() {
			val, ok := env.lookup(in)
			if !ok {
				stack = append(stack, in)
				pending = true
				continue
			}
			inputs[i] = val
		}
		if pending {
			continue
		}
		stack = stack[:len(stack)-1]
		if err := env.apply(op, inputs); err != nil {
			return nil, err
		}
	}
	val, _ := env.lookup(root)
	return val, nil
}

// apply computes and caches the outputs of an operation.
// If an input has no value, none of the outputs has a value.
func (env *Env) apply(op *graph.Operation, inputs []values.Value) error {
	outs := make([]values.Value, len(op.Outputs()))
	known := true
	for _, in := range inputs {
		if in == nil {
			known = false
			break
		}
	}
	if known {
		var err error
		if outs, err = ops.Apply(env.runtime, op, inputs); err != nil {
			return err
		}
	}
	for i, out := range op.Outputs() {
		env.cache.Store(out.ID(), outs[i])
		if env.tracer != nil {
			env.tracer.Trace(out, values.Clone(outs[i]))
		}
	}
	return nil
}
