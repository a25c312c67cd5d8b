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

package tensor_test

import (
	"fmt"
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/symeval/tensor"
)

func seq(n int) []float32 {
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = float32(i)
	}
	return vals
}

func TestContiguousStrides(t *testing.T) {
	tests := []struct {
		sizes []int64
		want  []int64
	}{
		{sizes: nil, want: []int64{}},
		{sizes: []int64{3}, want: []int64{1}},
		{sizes: []int64{2, 3, 4, 6}, want: []int64{72, 24, 6, 1}},
		{sizes: []int64{9, 0, 2}, want: []int64{2, 2, 1}},
	}
	for _, test := range tests {
		got := tensor.ContiguousStrides(test.sizes)
		if !cmp.Equal(got, test.want) {
			t.Errorf("ContiguousStrides(%v): got %v but want %v", test.sizes, got, test.want)
		}
	}
}

func TestAsStridedBounds(t *testing.T) {
	st := tensor.FromSlice(seq(72))
	if _, err := tensor.AsStrided(st, []int64{9, 6}, []int64{8, 1}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := tensor.AsStrided(st, []int64{9, 6}, []int64{8, 1}, 10); err == nil {
		t.Errorf("expected an error for a view out of the storage")
	}
	if _, err := tensor.AsStrided(st, []int64{2}, []int64{1, 1}, 0); err == nil {
		t.Errorf("expected an error for mismatched sizes and strides")
	}
}

func TestMaterialize(t *testing.T) {
	st := tensor.FromSlice(seq(6))
	// Transposed view of a 2x3 matrix.
	h, err := tensor.AsStrided(st, []int64{3, 2}, []int64{1, 3}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if h.IsContiguous() {
		t.Errorf("transposed view reported as contiguous")
	}
	m, err := h.Materialize()
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsContiguous() {
		t.Errorf("materialized handle is not contiguous: strides %v", m.Strides())
	}
	if m.DataPtr() == h.DataPtr() {
		t.Errorf("materialized handle aliases its source")
	}
	got, err := tensor.Values[float32](m)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0, 3, 1, 4, 2, 5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
	if !h.Equal(m) {
		t.Errorf("materialized copy is not equal to its source")
	}
}

func TestBroadcastView(t *testing.T) {
	st := tensor.FromSlice([]float32{1, 2, 3})
	h, err := tensor.AsStrided(st, []int64{2, 3}, []int64{0, 1}, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := tensor.Values[float32](h)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{1, 2, 3, 1, 2, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
}

func TestDataPtr(t *testing.T) {
	st := tensor.FromSlice(seq(8))
	h, err := tensor.AsStrided(st, []int64{2}, []int64{1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := st.Address() + 3*uintptr(dtype.Sizeof(dtype.Float32))
	if got := h.DataPtr(); got != want {
		t.Errorf("got data pointer %#x but want %#x", got, want)
	}
}

func TestAllocate(t *testing.T) {
	st, err := tensor.Allocate(&shape.Shape{DType: dtype.Int64, AxisLengths: []int{2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if st.Len() != 6 {
		t.Errorf("got %d elements but want 6", st.Len())
	}
	if got := len(st.Buffer()); got != 48 {
		t.Errorf("got a buffer of %d bytes but want 48", got)
	}
}

func TestBinaryOp(t *testing.T) {
	x, err := tensor.New([]float64{1, 2, 3, 4}, []int64{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	y, err := tensor.New([]float64{10, 20, 30, 40}, []int64{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	two, err := tensor.New([]float64{2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		op   token.Token
		x, y *tensor.Handle
		want []float64
	}{
		{op: token.ADD, x: x, y: y, want: []float64{11, 22, 33, 44}},
		{op: token.SUB, x: y, y: x, want: []float64{9, 18, 27, 36}},
		{op: token.MUL, x: x, y: two, want: []float64{2, 4, 6, 8}},
		{op: token.MUL, x: two, y: x, want: []float64{2, 4, 6, 8}},
	}
	for i, test := range tests {
		z, err := tensor.BinaryOp(test.op, test.x, test.y)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		got, err := tensor.Values[float64](z)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: unexpected values (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff([]int64{2, 2}, z.Sizes()); diff != "" {
			t.Errorf("test %d: unexpected sizes (-want +got):\n%s", i, diff)
		}
	}
}

func TestBinaryOpErrors(t *testing.T) {
	x, _ := tensor.New([]float64{1, 2}, []int64{2})
	y, _ := tensor.New([]float64{1, 2, 3}, []int64{3})
	z, _ := tensor.New([]int64{1, 2}, []int64{2})
	if _, err := tensor.BinaryOp(token.ADD, x, y); err == nil {
		t.Errorf("expected an error for mismatched sizes")
	}
	if _, err := tensor.BinaryOp(token.ADD, x, z); err == nil {
		t.Errorf("expected an error for mismatched data types")
	}
}

func TestUnaryOp(t *testing.T) {
	st := tensor.FromSlice([]int64{1, -2, 3, -4})
	x, err := tensor.AsStrided(st, []int64{2}, []int64{2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	z, err := tensor.UnaryOp(token.SUB, x)
	if err != nil {
		t.Fatal(err)
	}
	got, err := tensor.Values[int64](z)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{-1, -3}, got); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
}

func TestSprint(t *testing.T) {
	matrix, err := tensor.New([]float32{0, 1.5, 2, 3, 4, 5}, []int64{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	transposed, err := matrix.View([]int64{3, 2}, []int64{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	scalar, err := tensor.New([]int64{7}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cube, err := tensor.New([]int32{0, 1, 2, 3}, []int64{2, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		h    *tensor.Handle
		want string
	}{
		{
			h:    matrix,
			want: "[2][3]float32{\n\t{0, 1.5, 2},\n\t{3, 4, 5},\n}",
		},
		{
			h:    transposed,
			want: "[3][2]float32{\n\t{0, 3},\n\t{1.5, 4},\n\t{2, 5},\n}",
		},
		{
			h:    scalar,
			want: "int64(7)",
		},
		{
			h:    cube,
			want: "[2][1][2]int32{\n\t{\n\t\t{0, 1},\n\t},\n\t{\n\t\t{2, 3},\n\t},\n}",
		},
	}
	for i, test := range tests {
		if got := fmt.Sprintf("%+v", test.h); got != test.want {
			t.Errorf("test %d: got\n%s\nbut want\n%s", i, got, test.want)
		}
		if got := fmt.Sprint(test.h); got != test.h.String() {
			t.Errorf("test %d: got %s but want %s", i, got, test.h.String())
		}
	}
}
