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

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/symeval/tensor"
)

type (
	// Pointer is an address tagged with the data type of the element it points to.
	Pointer struct {
		addr  uintptr
		dtype dtype.DataType
	}

	// Tensor is a handle on a tensor: a data pointer, a data type,
	// logical sizes and allocation strides.
	Tensor struct {
		handle *tensor.Handle
	}
)

// NewPointer returns a new pointer value.
func NewPointer(addr uintptr, dt dtype.DataType) *Pointer {
	return &Pointer{addr: addr, dtype: dt}
}

func (*Pointer) value() {}

// Kind of the value.
func (*Pointer) Kind() Kind { return PointerKind }

// Address stored in the pointer.
func (p *Pointer) Address() uintptr { return p.addr }

// DType returns the data type of the element pointed to.
func (p *Pointer) DType() dtype.DataType { return p.dtype }

func (p *Pointer) String() string {
	return fmt.Sprintf("*%s(%#x)", p.dtype.String(), p.addr)
}

// NewTensor returns a new tensor value given a runtime handle.
func NewTensor(h *tensor.Handle) *Tensor {
	return &Tensor{handle: h}
}

func (*Tensor) value() {}

// Kind of the value.
func (*Tensor) Kind() Kind { return TensorKind }

// Handle returns the runtime handle of the tensor.
func (t *Tensor) Handle() *tensor.Handle { return t.handle }

// DataPtr returns the data pointer of the tensor.
func (t *Tensor) DataPtr() *Pointer {
	return NewPointer(t.handle.DataPtr(), t.handle.DType())
}

// Sizes returns the logical sizes of the tensor as an array of integers.
func (t *Tensor) Sizes() *Array {
	return NewInt64Array(t.handle.Sizes())
}

// Strides returns the allocation strides of the tensor as an array of integers.
func (t *Tensor) Strides() *Array {
	return NewInt64Array(t.handle.Strides())
}

func (t *Tensor) String() string {
	return t.handle.String()
}
