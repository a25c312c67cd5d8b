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

package graph

import (
	"fmt"
	"strings"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/symeval/values"
)

type (
	// Type of a graph value.
	Type interface {
		// Kind of the values conforming to the type.
		Kind() values.Kind

		// Equal returns true if two types are the same.
		Equal(Type) bool

		// String representation of the type.
		String() string
	}

	scalarType struct {
		kind values.Kind
	}

	unknownType struct{}

	// PointerType is the type of a pointer to an element of a given data type.
	PointerType struct {
		DType dtype.DataType
	}

	// ArrayType is the type of an array of Len elements of type Elem.
	// A negative length accepts arrays of any length.
	ArrayType struct {
		Elem Type
		Len  int
	}

	// StructField is a named field of a structure type.
	StructField struct {
		Name string
		Type Type
	}

	// StructType is a record of named fields.
	StructType struct {
		Name   string
		Fields []StructField
	}

	// TensorType is the type of a tensor handle.
	// A negative rank accepts tensors of any rank.
	// Expanded marks broadcast axes, that is axes with a stride of 0.
	TensorType struct {
		DType    dtype.DataType
		Rank     int
		Expanded []bool
	}
)

var (
	intT     = &scalarType{kind: values.IntKind}
	floatT   = &scalarType{kind: values.FloatKind}
	boolT    = &scalarType{kind: values.BoolKind}
	unknownT = &unknownType{}
)

// IntType returns the type of 64-bit signed integers.
func IntType() Type { return intT }

// FloatType returns the type of double precision floats.
func FloatType() Type { return floatT }

// BoolType returns the type of booleans.
func BoolType() Type { return boolT }

// UnknownType returns a type accepting any value.
// It is used for expressions whose type can only be known at evaluation time.
func UnknownType() Type { return unknownT }

func (t *scalarType) Kind() values.Kind { return t.kind }

func (t *scalarType) Equal(other Type) bool {
	o, ok := other.(*scalarType)
	return ok && o.kind == t.kind
}

func (t *scalarType) String() string { return t.kind.String() }

func (*unknownType) Kind() values.Kind { return values.InvalidKind }

func (*unknownType) Equal(other Type) bool {
	_, ok := other.(*unknownType)
	return ok
}

func (*unknownType) String() string { return "unknown" }

// Kind of the type.
func (*PointerType) Kind() values.Kind { return values.PointerKind }

// Equal returns true if other is a pointer to the same data type.
func (t *PointerType) Equal(other Type) bool {
	o, ok := other.(*PointerType)
	return ok && o.DType == t.DType
}

func (t *PointerType) String() string { return "*" + t.DType.String() }

// Kind of the type.
func (*ArrayType) Kind() values.Kind { return values.ArrayKind }

// Equal returns true if other is an array type with the same element type and length.
func (t *ArrayType) Equal(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && o.Len == t.Len && o.Elem.Equal(t.Elem)
}

func (t *ArrayType) String() string {
	if t.Len < 0 {
		return "[]" + t.Elem.String()
	}
	return fmt.Sprintf("[%d]%s", t.Len, t.Elem.String())
}

// Kind of the type.
func (*StructType) Kind() values.Kind { return values.StructKind }

// Field returns a field given its name.
func (t *StructType) Field(name string) (StructField, bool) {
	for _, field := range t.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return StructField{}, false
}

// Equal returns true if other is a structure with the same name and fields.
func (t *StructType) Equal(other Type) bool {
	o, ok := other.(*StructType)
	if !ok || o.Name != t.Name || len(o.Fields) != len(t.Fields) {
		return false
	}
	for i, field := range t.Fields {
		if field.Name != o.Fields[i].Name || !field.Type.Equal(o.Fields[i].Type) {
			return false
		}
	}
	return true
}

func (t *StructType) String() string {
	ss := make([]string, len(t.Fields))
	for i, field := range t.Fields {
		ss[i] = field.Name + " " + field.Type.String()
	}
	return fmt.Sprintf("%s{%s}", t.Name, strings.Join(ss, "; "))
}

// Kind of the type.
func (*TensorType) Kind() values.Kind { return values.TensorKind }

// Equal returns true if other is a tensor type with the same data type and rank.
func (t *TensorType) Equal(other Type) bool {
	o, ok := other.(*TensorType)
	return ok && o.DType == t.DType && o.Rank == t.Rank
}

// IsExpanded returns true if an axis is a broadcast axis.
func (t *TensorType) IsExpanded(axis int) bool {
	return axis >= 0 && axis < len(t.Expanded) && t.Expanded[axis]
}

func (t *TensorType) String() string {
	if t.Rank < 0 {
		return "tensor<" + t.DType.String() + ">"
	}
	return fmt.Sprintf("tensor<%s,%d>", t.DType.String(), t.Rank)
}

// Names of the tensor metadata structure and of its fields.
const (
	TensorMetaDataName = "TensorMetaData"
	DataField          = "data"
	LogicalSizeField   = "logical_size"
	AllocStrideField   = "alloc_stride"
)

// TensorMetaDataType returns the type of the metadata of a tensor.
func TensorMetaDataType(t *TensorType) *StructType {
	rank := t.Rank
	if rank < 0 {
		rank = -1
	}
	return &StructType{
		Name: TensorMetaDataName,
		Fields: []StructField{
			{Name: DataField, Type: &PointerType{DType: t.DType}},
			{Name: LogicalSizeField, Type: &ArrayType{Elem: IntType(), Len: rank}},
			{Name: AllocStrideField, Type: &ArrayType{Elem: IntType(), Len: rank}},
		},
	}
}
