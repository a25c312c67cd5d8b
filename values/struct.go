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
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gx-org/symeval/fmterr"
)

type (
	// Field of a structure.
	Field struct {
		Name  string
		Value Value
	}

	// Getter returns the current value of a structure field.
	Getter func() Value

	// Setter replaces the value of a structure field.
	Setter func(Value)

	// Struct is a record of named values.
	// Fields are stored in declaration order.
	Struct struct {
		name  string
		keys  []string
		index map[string]int
		vals  []Value
	}
)

// NewStruct returns a new structure given its name and fields.
// Declaring the same field twice keeps the first position and the last value.
func NewStruct(name string, fields ...Field) *Struct {
	s := &Struct{
		name:  name,
		index: make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		s.store(field.Name, field.Value)
	}
	return s
}

func (s *Struct) store(key string, val Value) {
	i, ok := s.index[key]
	if ok {
		s.vals[i] = val
		return
	}
	s.index[key] = len(s.keys)
	s.keys = append(s.keys, key)
	s.vals = append(s.vals, val)
}

func (*Struct) value() {}

// Kind of the value.
func (*Struct) Kind() Kind { return StructKind }

// Name of the structure type.
func (s *Struct) Name() string {
	return s.name
}

// Len returns the number of fields.
func (s *Struct) Len() int {
	return len(s.keys)
}

func (s *Struct) lookup(key string) (int, error) {
	i, ok := s.index[key]
	if !ok {
		return -1, fmterr.Errorf(fmterr.UnknownField, "structure %s has no field %q", s.name, key)
	}
	return i, nil
}

// Accessor returns the getter and the setter of a field.
// Structures owned by a graph or an environment are never handed out:
// callers always receive their own copy (see Clone).
func (s *Struct) Accessor(key string) (Getter, Setter, error) {
	i, err := s.lookup(key)
	if err != nil {
		return nil, nil, err
	}
	get := func() Value { return s.vals[i] }
	set := func(v Value) { s.vals[i] = v }
	return get, set, nil
}

// Get returns the value of a field.
func (s *Struct) Get(key string) (Value, error) {
	get, _, err := s.Accessor(key)
	if err != nil {
		return nil, err
	}
	return get(), nil
}

// Set the value of a field. The field must exist.
func (s *Struct) Set(key string, v Value) error {
	_, set, err := s.Accessor(key)
	if err != nil {
		return err
	}
	set(v)
	return nil
}

// Fields returns an iterator over the fields in declaration order.
func (s *Struct) Fields() func(func(string, Value) bool) {
	return func(yield func(string, Value) bool) {
		for i, key := range s.keys {
			if !yield(key, s.vals[i]) {
				break
			}
		}
	}
}

func (s *Struct) clone() *Struct {
	c := &Struct{
		name:  s.name,
		keys:  slices.Clone(s.keys),
		index: maps.Clone(s.index),
		vals:  make([]Value, len(s.vals)),
	}
	for i, val := range s.vals {
		c.vals[i] = Clone(val)
	}
	return c
}

func (s *Struct) equal(other *Struct) bool {
	if s.name != other.name || len(s.keys) != len(other.keys) {
		return false
	}
	for i, key := range s.keys {
		j, ok := other.index[key]
		if !ok || !Equal(s.vals[i], other.vals[j]) {
			return false
		}
	}
	return true
}

func (s *Struct) String() string {
	var b strings.Builder
	b.WriteString(s.name)
	b.WriteString("{")
	for i, key := range s.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s: %s", key, String(s.vals[i])))
	}
	b.WriteString("}")
	return b.String()
}
