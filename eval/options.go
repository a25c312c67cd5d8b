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
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/precomputed"
	"github.com/gx-org/symeval/tensor"
	"github.com/gx-org/symeval/values"
)

type (
	// Tracer is called for every value computed by the evaluator.
	Tracer interface {
		Trace(node *graph.Value, val values.Value)
	}

	// TracerFunc is a function implementing Tracer.
	TracerFunc func(node *graph.Value, val values.Value)

	// Option configures an environment.
	Option func(*Env) error

	// BindOption configures a binding.
	BindOption func(*bindOptions)

	bindOptions struct {
		allowOverride bool
	}
)

// Trace calls the function.
func (f TracerFunc) Trace(node *graph.Value, val values.Value) {
	f(node, val)
}

// WithPrecomputed attaches a table of precomputed values to the environment.
// The table must have been built for the graph of the environment.
func WithPrecomputed(pv *precomputed.Values) Option {
	return func(env *Env) error {
		return env.Attach(pv)
	}
}

// WithTracer sets a tracer called for every computed value.
func WithTracer(tracer Tracer) Option {
	return func(env *Env) error {
		env.tracer = tracer
		return nil
	}
}

// WithRuntime sets the runtime materializing tensors.
// The default runtime allocates tensors in host memory.
func WithRuntime(rt tensor.Runtime) Option {
	return func(env *Env) error {
		env.runtime = rt
		return nil
	}
}

// WithMaxDepth limits the number of values pending on the evaluation work-list.
// A limit of 0 (the default) means no limit.
func WithMaxDepth(depth int) Option {
	return func(env *Env) error {
		env.maxDepth = depth
		return nil
	}
}

// AllowOverride allows binding a value to a node computed by an operation.
// The binding succeeds if the value is consistent with the value computed
// from the current bindings, or if that value cannot be computed.
func AllowOverride() BindOption {
	return func(opts *bindOptions) {
		opts.allowOverride = true
	}
}
