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

package values

import (
	"slices"
	"strings"

	"github.com/gx-org/symeval/fmterr"
)

// Array is an ordered sequence of values.
// An empty array is a valid value, distinct from no value.
type Array struct {
	elems []Value
}

// NewArray returns a new array given its elements.
func NewArray(elems ...Value) *Array {
	if elems == nil {
		elems = []Value{}
	}
	return &Array{elems: elems}
}

// NewInt64Array returns an array of integers.
func NewInt64Array(vals []int64) *Array {
	elems := make([]Value, len(vals))
	for i, val := range vals {
		elems[i] = NewInt(val)
	}
	return NewArray(elems...)
}

func (*Array) value() {}

// Kind of the value.
func (*Array) Kind() Kind { return ArrayKind }

// Len returns the number of elements in the array.
func (a *Array) Len() int {
	return len(a.elems)
}

// At returns the element at a given index.
func (a *Array) At(i int64) (Value, error) {
	if i < 0 || i >= int64(len(a.elems)) {
		return nil, fmterr.Errorf(fmterr.IndexOutOfRange, "index %d out of range [0:%d]", i, len(a.elems))
	}
	return a.elems[i], nil
}

// Elements returns a copy of the elements of the array.
func (a *Array) Elements() []Value {
	return slices.Clone(a.elems)
}

// Reverse returns a new array with the elements in reverse order.
func (a *Array) Reverse() *Array {
	elems := slices.Clone(a.elems)
	slices.Reverse(elems)
	return NewArray(elems...)
}

// Int64s returns the elements of the array as Go integers.
func (a *Array) Int64s() ([]int64, error) {
	vals := make([]int64, len(a.elems))
	for i, el := range a.elems {
		iEl, ok := el.(*Int)
		if !ok {
			return nil, fmterr.Errorf(fmterr.TypeMismatch, "element %d of %s is a %s, not an int", i, a.String(), kindOf(el))
		}
		vals[i] = iEl.val
	}
	return vals, nil
}

func (a *Array) clone() *Array {
	elems := make([]Value, len(a.elems))
	for i, el := range a.elems {
		elems[i] = Clone(el)
	}
	return &Array{elems: elems}
}

func (a *Array) equal(b *Array) bool {
	return slices.EqualFunc(a.elems, b.elems, Equal)
}

func (a *Array) String() string {
	ss := make([]string, len(a.elems))
	for i, el := range a.elems {
		ss[i] = String(el)
	}
	return "[" + strings.Join(ss, ", ") + "]"
}

func kindOf(v Value) Kind {
	if v == nil {
		return InvalidKind
	}
	return v.Kind()
}
