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
	"fmt"
	"io"
	"strings"

	"github.com/gx-org/backend/dtype"
)

// Sprint returns the logical content of a handle prefixed by its type.
// For example, a contiguous handle of 6 float32 with sizes [2, 3] prints as:
//
//	[2][3]float32{
//		{0, 1, 2},
//		{3, 4, 5},
//	}
func Sprint(h *Handle) string {
	switch h.DType() {
	case dtype.Float32:
		return sprint[float32](h)
	case dtype.Float64:
		return sprint[float64](h)
	case dtype.Int32:
		return sprint[int32](h)
	case dtype.Int64:
		return sprint[int64](h)
	case dtype.Uint32:
		return sprint[uint32](h)
	case dtype.Uint64:
		return sprint[uint64](h)
	}
	return h.String()
}

// Format the handle. The verb %+v prints the content of the handle.
func (h *Handle) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		io.WriteString(s, Sprint(h))
		return
	}
	io.WriteString(s, h.String())
}

const tab = "\t"

type printer[T dtype.GoDataType] struct {
	w       *strings.Builder
	data    []T
	sizes   []int64
	strides []int64
}

func sprint[T dtype.GoDataType](h *Handle) string {
	data, err := Values[T](h)
	if err != nil {
		return err.Error()
	}
	p := &printer[T]{
		w:       &strings.Builder{},
		data:    data,
		sizes:   h.sizes,
		strides: ContiguousStrides(h.sizes),
	}
	for _, size := range p.sizes {
		fmt.Fprintf(p.w, "[%d]", size)
	}
	p.w.WriteString(h.DType().String())
	switch len(p.sizes) {
	case 0:
		p.w.WriteString("(" + p.element(0) + ")")
	case 1:
		p.printVector(nil)
	case 2:
		p.printMatrix("", nil)
	default:
		p.printRec("", nil)
	}
	return p.w.String()
}

func (p *printer[T]) element(index int64) string {
	x := p.data[index]
	var format string
	switch any(x).(type) {
	case float32:
		format = "%.6f"
	case float64:
		format = "%.10f"
	default:
		return fmt.Sprint(x)
	}
	s := fmt.Sprintf(format, x)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

func (p *printer[T]) index(pos []int64) int64 {
	var index int64
	for axis, i := range pos {
		index += i * p.strides[axis]
	}
	return index
}

func (p *printer[T]) printVector(parent []int64) {
	pos := append(append([]int64{}, parent...), 0)
	elems := make([]string, p.sizes[len(p.sizes)-1])
	for i := range elems {
		pos[len(pos)-1] = int64(i)
		elems[i] = p.element(p.index(pos))
	}
	p.w.WriteString("{" + strings.Join(elems, ", ") + "}")
}

func (p *printer[T]) printMatrix(indent string, parent []int64) {
	pos := append(append([]int64{}, parent...), 0)
	p.w.WriteString("{\n")
	for i := range p.sizes[len(p.sizes)-2] {
		pos[len(pos)-1] = i
		p.w.WriteString(indent + tab)
		p.printVector(pos)
		p.w.WriteString(",\n")
	}
	p.w.WriteString(indent + "}")
}

func (p *printer[T]) printRec(indent string, parent []int64) {
	if len(p.sizes)-len(parent) == 2 {
		p.printMatrix(indent, parent)
		return
	}
	pos := append(append([]int64{}, parent...), 0)
	p.w.WriteString("{\n")
	for i := range p.sizes[len(parent)] {
		pos[len(pos)-1] = i
		p.w.WriteString(indent + tab)
		p.printRec(indent+tab, pos)
		p.w.WriteString(",\n")
	}
	p.w.WriteString(indent + "}")
}
