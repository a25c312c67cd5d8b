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
	"slices"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/symeval/values"
)

// promote returns the type of the result of an arithmetic operation.
// Tensors win over scalars and floats win over integers.
func promote(xs ...*Value) Type {
	var result Type = IntType()
	for _, x := range xs {
		switch x.Type().Kind() {
		case values.TensorKind:
			return x.Type()
		case values.FloatKind:
			result = FloatType()
		}
	}
	return result
}

// Neg returns -x.
func (g *Graph) Neg(x *Value) *Value {
	return g.newOp(NegOp, Attrs{}, x.Type(), x)
}

// Add returns x+y.
func (g *Graph) Add(x, y *Value) *Value {
	return g.newOp(AddOp, Attrs{}, promote(x, y), x, y)
}

// Sub returns x-y.
func (g *Graph) Sub(x, y *Value) *Value {
	return g.newOp(SubOp, Attrs{}, promote(x, y), x, y)
}

// Mul returns x*y.
func (g *Graph) Mul(x, y *Value) *Value {
	return g.newOp(MulOp, Attrs{}, promote(x, y), x, y)
}

// Div returns x/y. The division of two integers truncates toward zero.
func (g *Graph) Div(x, y *Value) *Value {
	return g.newOp(DivOp, Attrs{}, promote(x, y), x, y)
}

// Mod returns the remainder of x/y. The result has the sign of x.
func (g *Graph) Mod(x, y *Value) *Value {
	return g.newOp(ModOp, Attrs{}, promote(x, y), x, y)
}

// CeilDiv returns ceil(x/y).
func (g *Graph) CeilDiv(x, y *Value) *Value {
	return g.newOp(CeilDivOp, Attrs{}, promote(x, y), x, y)
}

// Cast x to a scalar type.
func (g *Graph) Cast(target Type, x *Value) *Value {
	return g.newOp(CastOp, Attrs{Target: target}, target, x)
}

// Clamp returns lo if x<lo, hi if x>hi, x otherwise.
func (g *Graph) Clamp(x, lo, hi *Value) *Value {
	return g.newOp(ClampOp, Attrs{}, promote(x, lo, hi), x, lo, hi)
}

// Lerp returns a+w*(b-a).
func (g *Graph) Lerp(a, b, w *Value) *Value {
	return g.newOp(LerpOp, Attrs{}, FloatType(), a, b, w)
}

// Threshold returns v if x<=t, x otherwise.
func (g *Graph) Threshold(x, t, v *Value) *Value {
	return g.newOp(ThresholdOp, Attrs{}, promote(x, v), x, t, v)
}

// Where returns a if cond is true, b otherwise.
func (g *Graph) Where(cond, a, b *Value) *Value {
	return g.newOp(WhereOp, Attrs{}, promote(a, b), cond, a, b)
}

// Array returns an array built from a list of values.
func (g *Graph) Array(elems ...*Value) *Value {
	var elemType Type = IntType()
	if len(elems) > 0 {
		elemType = elems[0].Type()
	}
	return g.newOp(MakeArrayOp, Attrs{}, &ArrayType{Elem: elemType, Len: len(elems)}, elems...)
}

// GetItem returns the element of an array at a given index.
func (g *Graph) GetItem(array, index *Value) *Value {
	var elemType Type = UnknownType()
	if arrayType, ok := array.Type().(*ArrayType); ok {
		elemType = arrayType.Elem
	}
	return g.newOp(GetItemOp, Attrs{}, elemType, array, index)
}

// ReverseArray returns an array with the elements in reverse order.
func (g *Graph) ReverseArray(array *Value) *Value {
	return g.newOp(ReverseArrayOp, Attrs{}, array.Type(), array)
}

// Field is a named value used to build a structure.
type Field struct {
	Name  string
	Value *Value
}

// Struct returns a structure built from named values.
func (g *Graph) Struct(name string, fields ...Field) *Value {
	typ := &StructType{Name: name, Fields: make([]StructField, len(fields))}
	names := make([]string, len(fields))
	inputs := make([]*Value, len(fields))
	for i, field := range fields {
		typ.Fields[i] = StructField{Name: field.Name, Type: field.Value.Type()}
		names[i] = field.Name
		inputs[i] = field.Value
	}
	return g.newOp(MakeStructOp, Attrs{Name: name, Fields: names}, typ, inputs...)
}

// GetAttr returns the field of a structure given its name.
// Accessing a field which does not exist fails at evaluation time.
func (g *Graph) GetAttr(str *Value, name string) *Value {
	var fieldType Type = UnknownType()
	if strType, ok := str.Type().(*StructType); ok {
		if field, ok := strType.Field(name); ok {
			fieldType = field.Type
		}
	}
	return g.newOp(GetAttrOp, Attrs{Name: name}, fieldType, str)
}

func tensorType(x *Value) *TensorType {
	t, ok := x.Type().(*TensorType)
	if !ok {
		return &TensorType{DType: dtype.Invalid, Rank: -1}
	}
	return t
}

// Tensor returns a new tensor symbol.
func (g *Graph) Tensor(name string, dt dtype.DataType, rank int) *Value {
	return g.Symbol(name, &TensorType{DType: dt, Rank: rank})
}

// Metadata returns the metadata structure of a tensor.
// See TensorMetaDataType for the fields of the structure.
func (g *Graph) Metadata(t *Value) *Value {
	return g.newOp(MetadataOp, Attrs{}, TensorMetaDataType(tensorType(t)), t)
}

// DataPtr returns the data pointer of a tensor.
func (g *Graph) DataPtr(t *Value) *Value {
	return g.GetAttr(g.Metadata(t), DataField)
}

// LogicalSizes returns the logical sizes of a tensor.
func (g *Graph) LogicalSizes(t *Value) *Value {
	return g.GetAttr(g.Metadata(t), LogicalSizeField)
}

// AllocStrides returns the allocation strides of a tensor.
func (g *Graph) AllocStrides(t *Value) *Value {
	return g.GetAttr(g.Metadata(t), AllocStrideField)
}

// Size returns the logical size of a tensor along an axis.
// Negative axes count from the last axis.
func (g *Graph) Size(t *Value, axis int) *Value {
	return g.newOp(SizeOp, Attrs{Axis: axis}, IntType(), t)
}

// Permute the axes of a tensor: axis i of the output is axis perm[i] of the input.
func (g *Graph) Permute(t *Value, perm []int) *Value {
	in := tensorType(t)
	out := &TensorType{DType: in.DType, Rank: in.Rank}
	if len(in.Expanded) > 0 {
		out.Expanded = make([]bool, len(perm))
		for i, axis := range perm {
			out.Expanded[i] = in.IsExpanded(axis)
		}
	}
	return g.newOp(PermuteOp, Attrs{Perm: slices.Clone(perm)}, out, t)
}

// Reshape a tensor given the extents of the output axes.
func (g *Graph) Reshape(t *Value, sizes ...*Value) *Value {
	in := tensorType(t)
	out := &TensorType{DType: in.DType, Rank: len(sizes)}
	return g.newOp(ReshapeOp, Attrs{}, out, append([]*Value{t}, sizes...)...)
}

// Flatten a tensor into a single axis.
func (g *Graph) Flatten(t *Value) *Value {
	in := tensorType(t)
	return g.newOp(FlattenOp, Attrs{}, &TensorType{DType: in.DType, Rank: 1}, t)
}

// Split an axis of a tensor into two axes (outer, factor).
func (g *Graph) Split(t *Value, axis int, factor *Value) *Value {
	in := tensorType(t)
	out := &TensorType{DType: in.DType, Rank: -1}
	if in.Rank >= 0 {
		out.Rank = in.Rank + 1
	}
	if axis >= 0 && axis < len(in.Expanded) {
		out.Expanded = slices.Insert(slices.Clone(in.Expanded), axis, in.IsExpanded(axis))
	}
	return g.newOp(SplitOp, Attrs{Axis: axis}, out, t, factor)
}

// Merge the axes axis and axis+1 of a tensor.
func (g *Graph) Merge(t *Value, axis int) *Value {
	in := tensorType(t)
	out := &TensorType{DType: in.DType, Rank: -1}
	if in.Rank > 0 {
		out.Rank = in.Rank - 1
	}
	if axis >= 0 && axis+1 < len(in.Expanded) {
		expanded := slices.Clone(in.Expanded)
		expanded[axis] = in.IsExpanded(axis) && in.IsExpanded(axis+1)
		out.Expanded = slices.Delete(expanded, axis+1, axis+2)
	}
	return g.newOp(MergeOp, Attrs{Axis: axis}, out, t)
}
