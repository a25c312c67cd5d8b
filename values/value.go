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

// Package values implements the concrete values computed by the evaluator.
//
// Value is a closed sum type: all its implementations are declared in this package.
// A nil Value means that no value could be computed.
package values

import (
	"fmt"
)

// Kind of a value.
type Kind int

// Kinds of values.
const (
	InvalidKind Kind = iota
	IntKind
	FloatKind
	BoolKind
	PointerKind
	ArrayKind
	StructKind
	TensorKind
)

var kindNames = [...]string{
	InvalidKind: "invalid",
	IntKind:     "int",
	FloatKind:   "float",
	BoolKind:    "bool",
	PointerKind: "pointer",
	ArrayKind:   "array",
	StructKind:  "struct",
	TensorKind:  "tensor",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is a concrete value.
type Value interface {
	value() // Make sure all values are implemented in this package.

	// Kind of the value.
	Kind() Kind

	// String representation of the value.
	String() string
}

var (
	_ Value = (*Int)(nil)
	_ Value = (*Float)(nil)
	_ Value = (*Bool)(nil)
	_ Value = (*Pointer)(nil)
	_ Value = (*Array)(nil)
	_ Value = (*Struct)(nil)
	_ Value = (*Tensor)(nil)
)

// Equal returns true if two values are equal.
// Values of different kinds are never equal.
// Tensors are compared by their logical content.
func Equal(x, y Value) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	switch xT := x.(type) {
	case *Int:
		yT, ok := y.(*Int)
		return ok && xT.val == yT.val
	case *Float:
		yT, ok := y.(*Float)
		return ok && xT.val == yT.val
	case *Bool:
		yT, ok := y.(*Bool)
		return ok && xT.val == yT.val
	case *Pointer:
		yT, ok := y.(*Pointer)
		return ok && *xT == *yT
	case *Array:
		yT, ok := y.(*Array)
		return ok && xT.equal(yT)
	case *Struct:
		yT, ok := y.(*Struct)
		return ok && xT.equal(yT)
	case *Tensor:
		yT, ok := y.(*Tensor)
		return ok && xT.handle.Equal(yT.handle)
	}
	return false
}

// Clone returns a deep copy of the arrays and structures of a value.
// Scalars, pointers, and tensors are immutable and are returned as is.
func Clone(v Value) Value {
	switch vT := v.(type) {
	case *Array:
		return vT.clone()
	case *Struct:
		return vT.clone()
	}
	return v
}

// String returns a string representation of a value, including nil values.
func String(v Value) string {
	if v == nil {
		return "<no value>"
	}
	return v.String()
}
