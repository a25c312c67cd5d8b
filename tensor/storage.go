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

// Package tensor is a host implementation of the tensor runtime used by the evaluator.
//
// Storage owns a flat host buffer. A Handle is a strided view (sizes, strides,
// offset) into a storage: several handles can alias the same storage.
// Strides and offsets are expressed in elements, not bytes.
package tensor

import (
	"unsafe"

	"fortio.org/safecast"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/pkg/errors"
)

// Storage is a flat buffer of elements owned by the Go runtime.
type Storage struct {
	shape shape.Shape
	data  []byte
}

// Allocate a zero-initialised storage given a shape.
// Only the number of elements of the shape matters: the storage is flat.
func Allocate(sh *shape.Shape) (*Storage, error) {
	size := dtype.Sizeof(sh.DType)
	if size <= 0 {
		return nil, errors.Errorf("cannot allocate a buffer for data type %s", sh.DType.String())
	}
	return &Storage{
		shape: shape.Shape{DType: sh.DType, AxisLengths: []int{sh.Size()}},
		data:  make([]byte, sh.Size()*size),
	}, nil
}

// FromSlice returns a storage holding a copy of the given values.
func FromSlice[T dtype.GoDataType](vals []T) *Storage {
	st := &Storage{
		shape: shape.Shape{DType: dtype.Generic[T](), AxisLengths: []int{len(vals)}},
		data:  make([]byte, len(vals)*dtype.Sizeof(dtype.Generic[T]())),
	}
	copy(ToSlice[T](st), vals)
	return st
}

// ToSlice returns the content of a storage as a typed slice.
// The slice aliases the storage.
func ToSlice[T dtype.GoDataType](st *Storage) []T {
	if len(st.data) == 0 {
		return nil
	}
	return dtype.ToSlice[T](st.data)
}

// DType returns the data type of the elements in the storage.
func (st *Storage) DType() dtype.DataType {
	return st.shape.DType
}

// Shape of the storage: always a single axis.
func (st *Storage) Shape() *shape.Shape {
	return &st.shape
}

// Len returns the number of elements in the storage.
func (st *Storage) Len() int {
	return st.shape.Size()
}

// Buffer returns the raw bytes of the storage.
func (st *Storage) Buffer() []byte {
	return st.data
}

// Address returns the address of the first byte of the storage.
// Returns 0 for empty storages.
func (st *Storage) Address() uintptr {
	if len(st.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&st.data[0]))
}

func (st *Storage) elementSize() int {
	return dtype.Sizeof(st.shape.DType)
}

func toInt(x int64) (int, error) {
	i, err := safecast.Conv[int](x)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot convert %d to an int", x)
	}
	return i, nil
}

func toAxisLengths(sizes []int64) ([]int, error) {
	axes := make([]int, len(sizes))
	for i, size := range sizes {
		var err error
		if axes[i], err = toInt(size); err != nil {
			return nil, err
		}
	}
	return axes, nil
}
