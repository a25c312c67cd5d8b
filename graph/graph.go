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

// Package graph is the symbolic graph consumed by the evaluator.
//
// A graph is an arena of values. Each value is identified by a dense integer
// ID assigned in creation order. A value is either a leaf (a free symbol
// waiting for a binding, or a literal with an immutable value) or the output
// of exactly one operation. Since the inputs of an operation always exist
// before the operation is created, IDs are a topological order of the graph.
package graph

import (
	"fmt"

	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/values"
)

type (
	// ID of a value in a graph.
	ID int

	// Graph owns values and operations.
	// A graph is not safe for concurrent construction. Once built, it can be
	// read from several goroutines.
	Graph struct {
		values []*Value
	}

	// Value is a node of the graph.
	Value struct {
		graph   *Graph
		id      ID
		name    string
		typ     Type
		literal values.Value
		def     *Operation
		index   int
	}

	// Operation computes one or more output values from input values.
	Operation struct {
		kind    OpKind
		inputs  []*Value
		outputs []*Value
		attrs   Attrs
	}

	// Attrs are the static attributes of an operation.
	Attrs struct {
		// Name of a structure field (GetAttr) or of a structure type (MakeStruct).
		Name string
		// Fields are the field names of a structure (MakeStruct).
		Fields []string
		// Perm is a permutation of axes (Permute).
		Perm []int
		// Axis of a tensor (Size, Split, Merge).
		Axis int
		// Target type (Cast).
		Target Type
	}
)

// New returns a new empty graph.
func New() *Graph {
	return &Graph{}
}

// NumValues returns the number of values in the graph.
func (g *Graph) NumValues() int {
	return len(g.values)
}

// Value returns a value given its ID or nil if the ID is not in the graph.
func (g *Graph) Value(id ID) *Value {
	if id < 0 || int(id) >= len(g.values) {
		return nil
	}
	return g.values[id]
}

// Values returns an iterator over all values in topological order.
func (g *Graph) Values() func(func(*Value) bool) {
	return func(yield func(*Value) bool) {
		for _, v := range g.values {
			if !yield(v) {
				break
			}
		}
	}
}

func (g *Graph) newValue(name string, typ Type) *Value {
	v := &Value{
		graph: g,
		id:    ID(len(g.values)),
		name:  name,
		typ:   typ,
	}
	g.values = append(g.values, v)
	return v
}

// Symbol returns a new free symbol.
func (g *Graph) Symbol(name string, typ Type) *Value {
	return g.newValue(name, typ)
}

// Literal returns a new leaf with an immutable value.
// An error is returned if the value does not conform to the type.
func (g *Graph) Literal(typ Type, val values.Value) (*Value, error) {
	if err := Check(typ, val); err != nil {
		return nil, fmterr.Wrapf(fmterr.TypeMismatch, err, "invalid literal")
	}
	v := g.newValue("", typ)
	v.literal = values.Clone(val)
	return v, nil
}

func (g *Graph) mustLiteral(typ Type, val values.Value) *Value {
	v, err := g.Literal(typ, val)
	if err != nil {
		panic(err)
	}
	return v
}

// Int returns an integer literal.
func (g *Graph) Int(val int64) *Value {
	return g.mustLiteral(IntType(), values.NewInt(val))
}

// Float returns a float literal.
func (g *Graph) Float(val float64) *Value {
	return g.mustLiteral(FloatType(), values.NewFloat(val))
}

// Bool returns a boolean literal.
func (g *Graph) Bool(val bool) *Value {
	return g.mustLiteral(BoolType(), values.NewBool(val))
}

// Zero returns the integer literal 0.
func (g *Graph) Zero() *Value { return g.Int(0) }

// One returns the integer literal 1.
func (g *Graph) One() *Value { return g.Int(1) }

func (g *Graph) newOp(kind OpKind, attrs Attrs, outType Type, inputs ...*Value) *Value {
	op := &Operation{
		kind:   kind,
		inputs: inputs,
		attrs:  attrs,
	}
	out := g.newValue("", outType)
	out.def = op
	op.outputs = []*Value{out}
	return out
}

// ID of the value in its graph.
func (v *Value) ID() ID { return v.id }

// Graph owning the value.
func (v *Value) Graph() *Graph { return v.graph }

// Name of the value. Only set for symbols.
func (v *Value) Name() string { return v.name }

// Type of the value.
func (v *Value) Type() Type { return v.typ }

// Literal returns a copy of the value of a literal or nil.
func (v *Value) Literal() values.Value { return values.Clone(v.literal) }

// Def returns the operation defining the value or nil for leaves.
func (v *Value) Def() *Operation { return v.def }

// OutputIndex returns the index of the value in the outputs of its defining operation.
func (v *Value) OutputIndex() int { return v.index }

// IsLeaf returns true if the value has no defining operation.
func (v *Value) IsLeaf() bool { return v.def == nil }

// IsLiteral returns true if the value is a leaf with an immutable value.
func (v *Value) IsLiteral() bool { return v.def == nil && v.literal != nil }

// IsSymbol returns true if the value is a free symbol, that is a leaf waiting for a binding.
func (v *Value) IsSymbol() bool { return v.def == nil && v.literal == nil }

func (v *Value) String() string {
	switch {
	case v.IsLiteral():
		return v.literal.String()
	case v.IsSymbol():
		if v.name != "" {
			return v.name
		}
		return fmt.Sprintf("s%d", v.id)
	}
	return v.def.String()
}

// Kind of the operation.
func (op *Operation) Kind() OpKind { return op.kind }

// Inputs of the operation.
func (op *Operation) Inputs() []*Value { return op.inputs }

// Outputs of the operation.
func (op *Operation) Outputs() []*Value { return op.outputs }

// Attrs returns the static attributes of the operation.
func (op *Operation) Attrs() *Attrs { return &op.attrs }

func (op *Operation) String() string {
	return op.kind.format(op)
}
