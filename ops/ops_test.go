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

package ops_test

import (
	"testing"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/ops"
	"github.com/gx-org/symeval/tensor"
	"github.com/gx-org/symeval/values"
)

// apply evaluates the operation defining a value given the values of its inputs.
func apply(t *testing.T, v *graph.Value, in ...values.Value) (values.Value, error) {
	t.Helper()
	out, err := ops.Apply(tensor.Host(), v.Def(), in)
	if err != nil {
		return nil, err
	}
	return out[v.OutputIndex()], nil
}

func TestArithmetic(t *testing.T) {
	g := graph.New()
	a, b := g.Symbol("a", graph.IntType()), g.Symbol("b", graph.IntType())
	i := values.NewInt
	f := values.NewFloat
	tests := []struct {
		v    *graph.Value
		in   []values.Value
		want values.Value
	}{
		{v: g.Neg(a), in: []values.Value{i(7)}, want: i(-7)},
		{v: g.Neg(a), in: []values.Value{f(2.5)}, want: f(-2.5)},
		{v: g.Add(a, b), in: []values.Value{i(7), i(3)}, want: i(10)},
		{v: g.Sub(a, b), in: []values.Value{i(2), i(5)}, want: i(-3)},
		{v: g.Mul(a, b), in: []values.Value{i(4), i(-10)}, want: i(-40)},
		{v: g.Div(a, b), in: []values.Value{i(7), i(2)}, want: i(3)},
		{v: g.Div(a, b), in: []values.Value{i(-7), i(2)}, want: i(-3)},
		{v: g.Div(a, b), in: []values.Value{f(7), i(2)}, want: f(3.5)},
		{v: g.Mod(a, b), in: []values.Value{i(7), i(3)}, want: i(1)},
		{v: g.Mod(a, b), in: []values.Value{i(-7), i(3)}, want: i(-1)},
		{v: g.Mod(a, b), in: []values.Value{f(7.5), f(2)}, want: f(1.5)},
		{v: g.CeilDiv(a, b), in: []values.Value{i(7), i(3)}, want: i(3)},
		{v: g.CeilDiv(a, b), in: []values.Value{i(6), i(3)}, want: i(2)},
		{v: g.CeilDiv(a, b), in: []values.Value{i(-7), i(3)}, want: i(-2)},
		{v: g.CeilDiv(a, b), in: []values.Value{i(7), i(-3)}, want: i(-2)},
		{v: g.CeilDiv(a, b), in: []values.Value{i(-7), i(-3)}, want: i(3)},
		{v: g.CeilDiv(a, b), in: []values.Value{f(8), f(3)}, want: f(3)},
		{v: g.Add(a, b), in: []values.Value{i(1), f(0.5)}, want: f(1.5)},
	}
	for _, test := range tests {
		got, err := apply(t, test.v, test.in...)
		if err != nil {
			t.Errorf("%s%v: %v", test.v, test.in, err)
			continue
		}
		if !values.Equal(got, test.want) {
			t.Errorf("%s%v: got %s but want %s", test.v, test.in, got, test.want)
		}
	}
}

func TestArithmeticErrors(t *testing.T) {
	g := graph.New()
	a, b := g.Symbol("a", graph.IntType()), g.Symbol("b", graph.IntType())
	tests := []struct {
		v    *graph.Value
		in   []values.Value
		kind fmterr.Kind
	}{
		{v: g.Div(a, b), in: []values.Value{values.NewInt(1), values.NewInt(0)}, kind: fmterr.Internal},
		{v: g.Mod(a, b), in: []values.Value{values.NewFloat(1), values.NewFloat(0)}, kind: fmterr.Internal},
		{v: g.CeilDiv(a, b), in: []values.Value{values.NewInt(1), values.NewInt(0)}, kind: fmterr.Internal},
		{v: g.Add(a, b), in: []values.Value{values.NewBool(true), values.NewInt(0)}, kind: fmterr.TypeMismatch},
		{v: g.Neg(a), in: []values.Value{values.NewBool(true)}, kind: fmterr.TypeMismatch},
	}
	for _, test := range tests {
		_, err := apply(t, test.v, test.in...)
		if !fmterr.Is(err, test.kind) {
			t.Errorf("%s%v: got error %v but want a %s error", test.v, test.in, err, test.kind)
		}
	}
}

func TestApplyWithoutValue(t *testing.T) {
	g := graph.New()
	a := g.Symbol("a", graph.IntType())
	if _, err := apply(t, g.Neg(a), nil); !fmterr.Is(err, fmterr.Internal) {
		t.Errorf("got error %v but want an internal error", err)
	}
	if _, err := apply(t, g.Neg(a)); !fmterr.Is(err, fmterr.Internal) {
		t.Errorf("got error %v but want an internal error", err)
	}
}

func TestCast(t *testing.T) {
	g := graph.New()
	x := g.Symbol("x", graph.FloatType())
	tests := []struct {
		target graph.Type
		in     values.Value
		want   values.Value
	}{
		{target: graph.IntType(), in: values.NewFloat(2.9), want: values.NewInt(2)},
		{target: graph.IntType(), in: values.NewFloat(-2.9), want: values.NewInt(-2)},
		{target: graph.IntType(), in: values.NewBool(true), want: values.NewInt(1)},
		{target: graph.FloatType(), in: values.NewInt(3), want: values.NewFloat(3)},
		{target: graph.BoolType(), in: values.NewInt(0), want: values.NewBool(false)},
		{target: graph.BoolType(), in: values.NewFloat(0.5), want: values.NewBool(true)},
	}
	for _, test := range tests {
		got, err := apply(t, g.Cast(test.target, x), test.in)
		if err != nil {
			t.Errorf("cast(%s, %s): %v", test.in, test.target, err)
			continue
		}
		if !values.Equal(got, test.want) {
			t.Errorf("cast(%s, %s): got %s but want %s", test.in, test.target, got, test.want)
		}
	}
	if _, err := apply(t, g.Cast(graph.IntType(), x), values.NewInt64Array([]int64{1})); !fmterr.Is(err, fmterr.TypeMismatch) {
		t.Errorf("got error %v but want a type mismatch", err)
	}
}

func TestTernary(t *testing.T) {
	g := graph.New()
	a, b, c := g.Symbol("a", graph.FloatType()), g.Symbol("b", graph.FloatType()), g.Symbol("c", graph.FloatType())
	cond := g.Symbol("cond", graph.BoolType())
	i, f := values.NewInt, values.NewFloat
	tests := []struct {
		v    *graph.Value
		in   []values.Value
		want values.Value
	}{
		{v: g.Clamp(a, b, c), in: []values.Value{i(7), i(0), i(5)}, want: i(5)},
		{v: g.Clamp(a, b, c), in: []values.Value{f(-1), f(0), f(5)}, want: f(0)},
		{v: g.Clamp(a, b, c), in: []values.Value{f(0.5), i(0), i(5)}, want: f(0.5)},
		{v: g.Clamp(a, b, c), in: []values.Value{i(1), i(5), i(3)}, want: i(5)},
		{v: g.Clamp(a, b, c), in: []values.Value{f(9), f(5), f(3)}, want: f(3)},
		{v: g.Lerp(a, b, c), in: []values.Value{f(1), f(3), f(0.5)}, want: f(2)},
		{v: g.Lerp(a, b, c), in: []values.Value{i(1), i(5), f(0.25)}, want: f(2)},
		{v: g.Threshold(a, b, c), in: []values.Value{i(2), i(3), i(9)}, want: i(9)},
		{v: g.Threshold(a, b, c), in: []values.Value{i(4), i(3), i(9)}, want: i(4)},
		{v: g.Threshold(a, b, c), in: []values.Value{f(4), i(3), i(9)}, want: f(4)},
		{v: g.Threshold(a, b, c), in: []values.Value{i(3), f(0.5), i(7)}, want: i(3)},
		{v: g.Threshold(a, b, c), in: []values.Value{i(0), f(0.5), i(7)}, want: i(7)},
		{v: g.Threshold(a, b, c), in: []values.Value{i(0), f(0.5), f(7.5)}, want: f(7.5)},
		{v: g.Where(cond, a, b), in: []values.Value{values.NewBool(true), f(1), f(2)}, want: f(1)},
		{v: g.Where(cond, a, b), in: []values.Value{values.NewBool(false), f(1), f(2)}, want: f(2)},
		{v: g.Where(cond, a, b), in: []values.Value{values.NewBool(true), i(1), f(2)}, want: f(1)},
	}
	for _, test := range tests {
		got, err := apply(t, test.v, test.in...)
		if err != nil {
			t.Errorf("%s%v: %v", test.v, test.in, err)
			continue
		}
		if !values.Equal(got, test.want) {
			t.Errorf("%s%v: got %s but want %s", test.v, test.in, got, test.want)
		}
	}
	if _, err := apply(t, g.Where(cond, a, b), i(1), f(1), f(2)); !fmterr.Is(err, fmterr.TypeMismatch) {
		t.Errorf("got error %v but want a type mismatch", err)
	}
}

func TestArrays(t *testing.T) {
	g := graph.New()
	a, b := g.Symbol("a", graph.IntType()), g.Symbol("b", graph.IntType())
	arr := g.Array(a, b)
	got, err := apply(t, arr, values.NewInt(2), values.NewInt(5))
	if err != nil {
		t.Fatal(err)
	}
	want := values.NewInt64Array([]int64{2, 5})
	if !values.Equal(got, want) {
		t.Errorf("got %s but want %s", got, want)
	}
	index := g.Symbol("i", graph.IntType())
	item, err := apply(t, g.GetItem(arr, index), got, values.NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if !values.Equal(item, values.NewInt(5)) {
		t.Errorf("got %s but want 5", item)
	}
	if _, err := apply(t, g.GetItem(arr, index), got, values.NewInt(2)); !fmterr.Is(err, fmterr.IndexOutOfRange) {
		t.Errorf("got error %v but want an index out of range error", err)
	}
	rev, err := apply(t, g.ReverseArray(arr), got)
	if err != nil {
		t.Fatal(err)
	}
	if want := values.NewInt64Array([]int64{5, 2}); !values.Equal(rev, want) {
		t.Errorf("got %s but want %s", rev, want)
	}
	empty, err := apply(t, g.Array())
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || empty.(*values.Array).Len() != 0 {
		t.Errorf("got %s but want an empty array", values.String(empty))
	}
}

func TestStructs(t *testing.T) {
	g := graph.New()
	a, b := g.Symbol("a", graph.IntType()), g.Symbol("b", graph.IntType())
	str := g.Struct("A", graph.Field{Name: "a", Value: a}, graph.Field{Name: "b", Value: b})
	got, err := apply(t, str, values.NewInt(2), values.NewInt(7))
	if err != nil {
		t.Fatal(err)
	}
	if want := "A{a: 2, b: 7}"; got.String() != want {
		t.Errorf("got %s but want %s", got, want)
	}
	field, err := apply(t, g.GetAttr(str, "b"), got)
	if err != nil {
		t.Fatal(err)
	}
	if !values.Equal(field, values.NewInt(7)) {
		t.Errorf("got %s but want 7", field)
	}
	if _, err := apply(t, g.GetAttr(str, "c"), got); !fmterr.Is(err, fmterr.UnknownField) {
		t.Errorf("got error %v but want an unknown field error", err)
	}
}

func newTensor(t *testing.T, sizes, strides []int64) *values.Tensor {
	t.Helper()
	n := int64(1)
	for i, size := range sizes {
		n += (size - 1) * strides[i]
	}
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = float32(i)
	}
	h, err := tensor.AsStrided(tensor.FromSlice(vals), sizes, strides, 0)
	if err != nil {
		t.Fatal(err)
	}
	return values.NewTensor(h)
}

func checkLayout(t *testing.T, v values.Value, sizes, strides []int64) *tensor.Handle {
	t.Helper()
	h := v.(*values.Tensor).Handle()
	if !values.Equal(values.NewInt64Array(h.Sizes()), values.NewInt64Array(sizes)) {
		t.Errorf("got sizes %v but want %v", h.Sizes(), sizes)
	}
	if !values.Equal(values.NewInt64Array(h.Strides()), values.NewInt64Array(strides)) {
		t.Errorf("got strides %v but want %v", h.Strides(), strides)
	}
	return h
}

func TestMetadata(t *testing.T) {
	g := graph.New()
	tv := g.Tensor("tv", dtype.Float32, 2)
	in := newTensor(t, []int64{6, 128}, []int64{128, 1})
	got, err := apply(t, g.Metadata(tv), in)
	if err != nil {
		t.Fatal(err)
	}
	str := got.(*values.Struct)
	ptr, err := str.Get(graph.DataField)
	if err != nil {
		t.Fatal(err)
	}
	if !values.Equal(ptr, in.DataPtr()) {
		t.Errorf("got data pointer %s but want %s", ptr, in.DataPtr())
	}
	sizes, err := str.Get(graph.LogicalSizeField)
	if err != nil {
		t.Fatal(err)
	}
	if want := values.NewInt64Array([]int64{6, 128}); !values.Equal(sizes, want) {
		t.Errorf("got sizes %s but want %s", sizes, want)
	}
	size, err := apply(t, g.Size(tv, -1), in)
	if err != nil {
		t.Fatal(err)
	}
	if !values.Equal(size, values.NewInt(128)) {
		t.Errorf("got size %s but want 128", size)
	}
	if _, err := apply(t, g.Size(tv, 2), in); !fmterr.Is(err, fmterr.IndexOutOfRange) {
		t.Errorf("got error %v but want an index out of range error", err)
	}
}

func TestViews(t *testing.T) {
	g := graph.New()
	tv := g.Tensor("tv", dtype.Float32, 2)
	in := newTensor(t, []int64{9, 6}, []int64{8, 1})
	ptr := in.Handle().DataPtr()

	split, err := apply(t, g.Split(tv, 1, g.Int(3)), in, values.NewInt(3))
	if err != nil {
		t.Fatal(err)
	}
	if h := checkLayout(t, split, []int64{9, 2, 3}, []int64{8, 3, 1}); h.DataPtr() != ptr {
		t.Errorf("split does not alias its input")
	}

	permuted, err := apply(t, g.Permute(tv, []int{1, 0}), in)
	if err != nil {
		t.Fatal(err)
	}
	checkLayout(t, permuted, []int64{6, 9}, []int64{1, 8})

	// Merging the axes of a transposed tensor requires a copy.
	merged, err := apply(t, g.Merge(tv, 0), permuted)
	if err != nil {
		t.Fatal(err)
	}
	if h := checkLayout(t, merged, []int64{54}, []int64{1}); h.DataPtr() == ptr {
		t.Errorf("merge aliases its input")
	}
	want, err := tensor.New([]float32{0, 8, 16}, []int64{3})
	if err != nil {
		t.Fatal(err)
	}
	first, err := merged.(*values.Tensor).Handle().View([]int64{3}, []int64{1})
	if err != nil {
		t.Fatal(err)
	}
	if !first.Equal(want) {
		t.Errorf("got %v but want %v", first, want)
	}

	flat, err := apply(t, g.Flatten(tv), newTensor(t, []int64{9, 6}, []int64{6, 1}))
	if err != nil {
		t.Fatal(err)
	}
	checkLayout(t, flat, []int64{54}, []int64{1})

	reshaped, err := apply(t, g.Reshape(tv, g.Int(2), g.Int(3), g.Int(9)), permuted, values.NewInt(2), values.NewInt(3), values.NewInt(9))
	if err != nil {
		t.Fatal(err)
	}
	if h := checkLayout(t, reshaped, []int64{2, 3, 9}, []int64{3, 1, 8}); h.DataPtr() != ptr {
		t.Errorf("reshape does not alias its input")
	}
	if _, err := apply(t, g.Reshape(tv, g.Int(5)), in, values.NewInt(5)); !fmterr.Is(err, fmterr.ShapeTransform) {
		t.Errorf("got error %v but want a shape transform error", err)
	}
}

func TestTensorArithmetic(t *testing.T) {
	g := graph.New()
	x, y := g.Tensor("x", dtype.Float32, 1), g.Tensor("y", dtype.Float32, 1)
	xH, err := tensor.New([]float32{1, 2, 3}, []int64{3})
	if err != nil {
		t.Fatal(err)
	}
	yH, err := tensor.New([]float32{10, 20, 30}, []int64{3})
	if err != nil {
		t.Fatal(err)
	}
	sum, err := apply(t, g.Add(x, y), values.NewTensor(xH), values.NewTensor(yH))
	if err != nil {
		t.Fatal(err)
	}
	want, err := tensor.New([]float32{11, 22, 33}, []int64{3})
	if err != nil {
		t.Fatal(err)
	}
	if !values.Equal(sum, values.NewTensor(want)) {
		t.Errorf("got %s but want %s", sum, want)
	}
	scaled, err := apply(t, g.Mul(x, g.Float(2)), values.NewTensor(xH), values.NewFloat(2))
	if err != nil {
		t.Fatal(err)
	}
	if want, _ := tensor.New([]float32{2, 4, 6}, []int64{3}); !values.Equal(scaled, values.NewTensor(want)) {
		t.Errorf("got %s but want %s", scaled, want)
	}
	negated, err := apply(t, g.Neg(x), values.NewTensor(xH))
	if err != nil {
		t.Fatal(err)
	}
	if want, _ := tensor.New([]float32{-1, -2, -3}, []int64{3}); !values.Equal(negated, values.NewTensor(want)) {
		t.Errorf("got %s but want %s", negated, want)
	}
	if _, err := apply(t, g.Div(x, y), values.NewTensor(xH), values.NewTensor(yH)); !fmterr.Is(err, fmterr.TypeMismatch) {
		t.Errorf("got error %v but want a type mismatch", err)
	}
}
