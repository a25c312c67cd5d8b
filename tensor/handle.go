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

package tensor

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/pkg/errors"
)

// Handle is a strided view into a storage.
type Handle struct {
	storage *Storage
	offset  int64
	sizes   []int64
	strides []int64
}

// New returns a contiguous handle over a new storage holding the given values.
func New[T dtype.GoDataType](vals []T, sizes []int64) (*Handle, error) {
	return AsStrided(FromSlice(vals), sizes, ContiguousStrides(sizes), 0)
}

// AsStrided returns a view into a storage.
// An error is returned if the view reads outside of the storage.
func AsStrided(st *Storage, sizes, strides []int64, offset int64) (*Handle, error) {
	if len(sizes) != len(strides) {
		return nil, errors.Errorf("got %d sizes but %d strides", len(sizes), len(strides))
	}
	lo, hi := offset, offset
	empty := false
	for i, size := range sizes {
		if size < 0 {
			return nil, errors.Errorf("negative size %d for axis %d", size, i)
		}
		if size == 0 {
			empty = true
			continue
		}
		span := (size - 1) * strides[i]
		if span < 0 {
			lo += span
		} else {
			hi += span
		}
	}
	if !empty && (lo < 0 || hi >= int64(st.Len())) {
		return nil, errors.Errorf("view [%d, %d] out of storage of %d elements", lo, hi, st.Len())
	}
	return &Handle{
		storage: st,
		offset:  offset,
		sizes:   slices.Clone(sizes),
		strides: slices.Clone(strides),
	}, nil
}

// ContiguousStrides returns row-major strides for given sizes.
func ContiguousStrides(sizes []int64) []int64 {
	strides := make([]int64, len(sizes))
	stride := int64(1)
	for i := len(sizes) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= max(sizes[i], 1)
	}
	return strides
}

// NumElements returns the number of logical elements given sizes.
func NumElements(sizes []int64) int64 {
	n := int64(1)
	for _, size := range sizes {
		n *= size
	}
	return n
}

// Storage returns the storage the handle is a view of.
func (h *Handle) Storage() *Storage {
	return h.storage
}

// DType returns the data type of the elements.
func (h *Handle) DType() dtype.DataType {
	return h.storage.DType()
}

// Sizes returns the logical sizes of the handle.
func (h *Handle) Sizes() []int64 {
	return slices.Clone(h.sizes)
}

// Strides returns the allocation strides of the handle, in elements.
func (h *Handle) Strides() []int64 {
	return slices.Clone(h.strides)
}

// DataPtr returns the address of the first element of the view.
func (h *Handle) DataPtr() uintptr {
	addr := h.storage.Address()
	if addr == 0 {
		return 0
	}
	return addr + uintptr(h.offset)*uintptr(h.storage.elementSize())
}

// Shape returns the logical shape of the handle.
func (h *Handle) Shape() (*shape.Shape, error) {
	axes, err := toAxisLengths(h.sizes)
	if err != nil {
		return nil, err
	}
	return &shape.Shape{DType: h.DType(), AxisLengths: axes}, nil
}

// View returns a new handle sharing the same storage and offset.
func (h *Handle) View(sizes, strides []int64) (*Handle, error) {
	return AsStrided(h.storage, sizes, strides, h.offset)
}

// IsContiguous returns true if the handle is laid out in row-major order without gaps.
func (h *Handle) IsContiguous() bool {
	want := ContiguousStrides(h.sizes)
	for i, size := range h.sizes {
		if size > 1 && h.strides[i] != want[i] {
			return false
		}
	}
	return true
}

// gather copies the logical elements of the handle in row-major order.
func (h *Handle) gather() []byte {
	elSize := int64(h.storage.elementSize())
	n := NumElements(h.sizes)
	out := make([]byte, 0, n*elSize)
	if n == 0 {
		return out
	}
	src := h.storage.data
	index := make([]int64, len(h.sizes))
	for range n {
		pos := h.offset
		for axis, i := range index {
			pos += i * h.strides[axis]
		}
		out = append(out, src[pos*elSize:(pos+1)*elSize]...)
		for axis := len(index) - 1; axis >= 0; axis-- {
			index[axis]++
			if index[axis] < h.sizes[axis] {
				break
			}
			index[axis] = 0
		}
	}
	return out
}

// Materialize returns a contiguous copy of the handle in a new storage.
func (h *Handle) Materialize() (*Handle, error) {
	sh, err := h.Shape()
	if err != nil {
		return nil, err
	}
	st, err := Allocate(sh)
	if err != nil {
		return nil, err
	}
	copy(st.data, h.gather())
	return AsStrided(st, h.sizes, ContiguousStrides(h.sizes), 0)
}

// Equal returns true if both handles have the same data type, sizes, and logical content.
// Strides and storages may differ.
func (h *Handle) Equal(other *Handle) bool {
	if h.DType() != other.DType() {
		return false
	}
	if !slices.Equal(h.sizes, other.sizes) {
		return false
	}
	return bytes.Equal(h.gather(), other.gather())
}

// String representation of the handle.
func (h *Handle) String() string {
	return fmt.Sprintf("%s%v(strides=%v, ptr=%#x)", h.DType().String(), h.sizes, h.strides, h.DataPtr())
}

// Values returns the logical content of a handle in row-major order.
func Values[T dtype.GoDataType](h *Handle) ([]T, error) {
	if h.DType() != dtype.Generic[T]() {
		return nil, errors.Errorf("cannot read %s values as %s", h.DType().String(), dtype.Generic[T]().String())
	}
	data := h.gather()
	if len(data) == 0 {
		return []T{}, nil
	}
	return dtype.ToSlice[T](data), nil
}
