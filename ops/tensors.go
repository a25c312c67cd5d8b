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

package ops

import (
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/tensor"
	"github.com/gx-org/symeval/values"
	"github.com/gx-org/symeval/view"
)

func toHandle(x values.Value) (*tensor.Handle, error) {
	t, ok := x.(*values.Tensor)
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeMismatch, "%s is a %s, not a tensor", values.String(x), x.Kind())
	}
	return t.Handle(), nil
}

func layoutOf(h *tensor.Handle) view.Layout {
	return view.Layout{Sizes: h.Sizes(), Strides: h.Strides()}
}

// viewOf returns a view on the storage of a handle.
func viewOf(h *tensor.Handle, l view.Layout) (values.Value, error) {
	out, err := h.View(l.Sizes, l.Strides)
	if err != nil {
		return nil, fmterr.Wrap(fmterr.Internal, err)
	}
	return values.NewTensor(out), nil
}

func metadata(x values.Value) (values.Value, error) {
	t, ok := x.(*values.Tensor)
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeMismatch, "cannot get the metadata of %s: %s is not a tensor", values.String(x), x.Kind())
	}
	return values.NewStruct(graph.TensorMetaDataName,
		values.Field{Name: graph.DataField, Value: t.DataPtr()},
		values.Field{Name: graph.LogicalSizeField, Value: t.Sizes()},
		values.Field{Name: graph.AllocStrideField, Value: t.Strides()},
	), nil
}

func size(x values.Value, axis int) (values.Value, error) {
	h, err := toHandle(x)
	if err != nil {
		return nil, err
	}
	sizes := h.Sizes()
	if axis < 0 {
		axis += len(sizes)
	}
	if axis < 0 || axis >= len(sizes) {
		return nil, fmterr.Errorf(fmterr.IndexOutOfRange, "axis %d out of range for a tensor of rank %d", axis, len(sizes))
	}
	return values.NewInt(sizes[axis]), nil
}

func permute(x values.Value, perm []int) (values.Value, error) {
	h, err := toHandle(x)
	if err != nil {
		return nil, err
	}
	l, err := view.Permute(layoutOf(h), perm)
	if err != nil {
		return nil, err
	}
	return viewOf(h, l)
}

func split(x values.Value, axis int, factor values.Value) (values.Value, error) {
	h, err := toHandle(x)
	if err != nil {
		return nil, err
	}
	f, err := values.ToInt64(factor)
	if err != nil {
		return nil, err
	}
	l, err := view.Split(layoutOf(h), axis, f)
	if err != nil {
		return nil, err
	}
	return viewOf(h, l)
}

func merge(rt tensor.Runtime, x values.Value, axis int) (values.Value, error) {
	h, err := toHandle(x)
	if err != nil {
		return nil, err
	}
	l, err := view.Merge(layoutOf(h), axis)
	if view.NeedsCopy(err) {
		if h, err = rt.Materialize(h); err != nil {
			return nil, err
		}
		l, err = view.Merge(layoutOf(h), axis)
	}
	if err != nil {
		return nil, err
	}
	return viewOf(h, l)
}

func reshape(rt tensor.Runtime, x values.Value, sizeVals []values.Value) (values.Value, error) {
	h, err := toHandle(x)
	if err != nil {
		return nil, err
	}
	sizes := make([]int64, len(sizeVals))
	for i, val := range sizeVals {
		if sizes[i], err = values.ToInt64(val); err != nil {
			return nil, err
		}
	}
	return reshapeHandle(rt, h, sizes)
}

func flatten(rt tensor.Runtime, x values.Value) (values.Value, error) {
	h, err := toHandle(x)
	if err != nil {
		return nil, err
	}
	return reshapeHandle(rt, h, []int64{tensor.NumElements(h.Sizes())})
}

func reshapeHandle(rt tensor.Runtime, h *tensor.Handle, sizes []int64) (values.Value, error) {
	l, aliased, err := view.Reshape(layoutOf(h), sizes)
	if err != nil {
		return nil, err
	}
	if !aliased {
		if h, err = rt.Materialize(h); err != nil {
			return nil, err
		}
	}
	return viewOf(h, l)
}
