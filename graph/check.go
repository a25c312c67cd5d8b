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
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/values"
	"go.uber.org/multierr"
)

// Check returns an error if a value does not conform to a type.
// All the errors found in composite values are reported.
func Check(typ Type, val values.Value) error {
	if val == nil {
		return fmterr.Errorf(fmterr.TypeMismatch, "no value is not compatible with type %s", typ.String())
	}
	switch typT := typ.(type) {
	case *unknownType:
		return nil
	case *scalarType:
		if val.Kind() != typT.kind {
			return mismatch(typ, val)
		}
		return nil
	case *PointerType:
		ptr, ok := val.(*values.Pointer)
		if !ok || ptr.DType() != typT.DType {
			return mismatch(typ, val)
		}
		return nil
	case *ArrayType:
		return checkArray(typT, val)
	case *StructType:
		return checkStruct(typT, val)
	case *TensorType:
		return checkTensor(typT, val)
	}
	return fmterr.Internalf("type %T not supported", typ)
}

func mismatch(typ Type, val values.Value) error {
	return fmterr.Errorf(fmterr.TypeMismatch, "%s %s is not compatible with type %s", val.Kind(), val.String(), typ.String())
}

func checkArray(typ *ArrayType, val values.Value) error {
	arr, ok := val.(*values.Array)
	if !ok {
		return mismatch(typ, val)
	}
	if typ.Len >= 0 && arr.Len() != typ.Len {
		return fmterr.Errorf(fmterr.TypeMismatch, "array of %d elements is not compatible with type %s", arr.Len(), typ.String())
	}
	var errs error
	for _, el := range arr.Elements() {
		errs = multierr.Append(errs, Check(typ.Elem, el))
	}
	return errs
}

func checkStruct(typ *StructType, val values.Value) error {
	str, ok := val.(*values.Struct)
	if !ok {
		return mismatch(typ, val)
	}
	var errs error
	for _, field := range typ.Fields {
		fieldVal, err := str.Get(field.Name)
		if err != nil {
			errs = multierr.Append(errs, fmterr.Wrapf(fmterr.TypeMismatch, err, "value is not compatible with type %s", typ.String()))
			continue
		}
		errs = multierr.Append(errs, Check(field.Type, fieldVal))
	}
	for name := range str.Fields() {
		if _, ok := typ.Field(name); !ok {
			errs = multierr.Append(errs, fmterr.Errorf(fmterr.TypeMismatch, "field %s is not compatible with type %s", name, typ.String()))
		}
	}
	return errs
}

func checkTensor(typ *TensorType, val values.Value) error {
	t, ok := val.(*values.Tensor)
	if !ok {
		return mismatch(typ, val)
	}
	h := t.Handle()
	if h.DType() != typ.DType {
		return fmterr.Errorf(fmterr.TypeMismatch, "tensor of %s is not compatible with type %s", h.DType().String(), typ.String())
	}
	sizes, strides := h.Sizes(), h.Strides()
	if typ.Rank >= 0 && len(sizes) != typ.Rank {
		return fmterr.Errorf(fmterr.TypeMismatch, "tensor of rank %d is not compatible with type %s", len(sizes), typ.String())
	}
	var errs error
	for axis := range sizes {
		if typ.IsExpanded(axis) && sizes[axis] > 1 && strides[axis] != 0 {
			errs = multierr.Append(errs, fmterr.Errorf(fmterr.TypeMismatch, "axis %d of %s is expanded but has a stride of %d", axis, t.String(), strides[axis]))
		}
	}
	return errs
}
