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
	"go/token"
	"math"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/tensor"
	"github.com/gx-org/symeval/values"
)

type number interface {
	int64 | float64
}

func neg(x values.Value) (values.Value, error) {
	switch xT := x.(type) {
	case *values.Int:
		return values.NewInt(-xT.Int64()), nil
	case *values.Float:
		return values.NewFloat(-xT.Float64()), nil
	case *values.Tensor:
		h, err := tensor.UnaryOp(token.SUB, xT.Handle())
		if err != nil {
			return nil, fmterr.Wrap(fmterr.TypeMismatch, err)
		}
		return values.NewTensor(h), nil
	}
	return nil, notNumber(x)
}

func notNumber(x values.Value) error {
	return fmterr.Errorf(fmterr.TypeMismatch, "%s is a %s, not a number", values.String(x), x.Kind())
}

func binary(kind graph.OpKind, x, y values.Value) (values.Value, error) {
	_, xIsTensor := x.(*values.Tensor)
	_, yIsTensor := y.(*values.Tensor)
	if xIsTensor || yIsTensor {
		return binaryTensor(kind, x, y)
	}
	if ints, ok := allInts(x, y); ok {
		z, err := binaryNumber(kind, ints[0], ints[1])
		if err != nil {
			return nil, err
		}
		return values.NewInt(z), nil
	}
	floats, err := toFloats(x, y)
	if err != nil {
		return nil, err
	}
	z, err := binaryNumber(kind, floats[0], floats[1])
	if err != nil {
		return nil, err
	}
	return values.NewFloat(z), nil
}

// binaryNumber computes a binary operator on two numbers.
// Integer division and remainder truncate towards zero.
func binaryNumber[T number](kind graph.OpKind, x, y T) (T, error) {
	switch kind {
	case graph.AddOp:
		return x + y, nil
	case graph.SubOp:
		return x - y, nil
	case graph.MulOp:
		return x * y, nil
	}
	if y == 0 {
		return 0, fmterr.Internalf("%s(%v, %v): division by zero", kind, x, y)
	}
	switch kind {
	case graph.DivOp:
		return x / y, nil
	case graph.ModOp:
		return mod(x, y), nil
	case graph.CeilDivOp:
		return ceilDiv(x, y), nil
	}
	return 0, fmterr.Internalf("%s is not a binary arithmetic operator", kind)
}

func mod[T number](x, y T) T {
	switch xT := any(x).(type) {
	case int64:
		return T(xT % int64(y))
	case float64:
		return T(math.Mod(xT, float64(y)))
	}
	return 0
}

func ceilDiv[T number](x, y T) T {
	switch xT := any(x).(type) {
	case int64:
		yT := int64(y)
		q := xT / yT
		if xT%yT != 0 && (xT < 0) == (yT < 0) {
			q++
		}
		return T(q)
	case float64:
		return T(math.Ceil(xT / float64(y)))
	}
	return 0
}

var tensorOps = map[graph.OpKind]token.Token{
	graph.AddOp: token.ADD,
	graph.SubOp: token.SUB,
	graph.MulOp: token.MUL,
}

func binaryTensor(kind graph.OpKind, x, y values.Value) (values.Value, error) {
	tok, ok := tensorOps[kind]
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeMismatch, "operator %s not supported on tensors", kind)
	}
	xH, yH, err := toHandles(x, y)
	if err != nil {
		return nil, err
	}
	z, err := tensor.BinaryOp(tok, xH, yH)
	if err != nil {
		return nil, fmterr.Wrap(fmterr.TypeMismatch, err)
	}
	return values.NewTensor(z), nil
}

// toHandles returns the handles of two operands.
// A scalar operand is converted into a tensor of rank 0 with the data type of the other operand.
func toHandles(x, y values.Value) (xH, yH *tensor.Handle, err error) {
	xT, xOk := x.(*values.Tensor)
	yT, yOk := y.(*values.Tensor)
	switch {
	case xOk && yOk:
		return xT.Handle(), yT.Handle(), nil
	case xOk:
		yH, err = scalarHandle(xT.Handle().DType(), y)
		return xT.Handle(), yH, err
	default:
		xH, err = scalarHandle(yT.Handle().DType(), x)
		return xH, yT.Handle(), err
	}
}

func scalarHandle(dt dtype.DataType, x values.Value) (*tensor.Handle, error) {
	val, err := values.ToFloat64(x)
	if err != nil {
		return nil, err
	}
	switch dt {
	case dtype.Float32:
		return tensor.New([]float32{float32(val)}, nil)
	case dtype.Float64:
		return tensor.New([]float64{val}, nil)
	case dtype.Int32:
		return tensor.New([]int32{int32(val)}, nil)
	case dtype.Int64:
		return tensor.New([]int64{int64(val)}, nil)
	}
	return nil, fmterr.Errorf(fmterr.TypeMismatch, "cannot convert %s to a %s tensor", x, dt.String())
}

// allInts returns the integers stored in a list of values
// and true if all the values are integers.
func allInts(xs ...values.Value) ([]int64, bool) {
	ints := make([]int64, len(xs))
	for i, x := range xs {
		xI, ok := x.(*values.Int)
		if !ok {
			return nil, false
		}
		ints[i] = xI.Int64()
	}
	return ints, true
}

func toFloats(xs ...values.Value) ([]float64, error) {
	floats := make([]float64, len(xs))
	for i, x := range xs {
		var err error
		if floats[i], err = values.ToFloat64(x); err != nil {
			return nil, err
		}
	}
	return floats, nil
}

func cast(target graph.Type, x values.Value) (values.Value, error) {
	if target == nil {
		return nil, fmterr.Internalf("cast without a target type")
	}
	switch target.Kind() {
	case values.IntKind:
		switch xT := x.(type) {
		case *values.Int:
			return xT, nil
		case *values.Float:
			return values.NewInt(int64(xT.Float64())), nil
		case *values.Bool:
			if xT.Bool() {
				return values.NewInt(1), nil
			}
			return values.NewInt(0), nil
		}
	case values.FloatKind:
		switch xT := x.(type) {
		case *values.Int:
			return values.NewFloat(float64(xT.Int64())), nil
		case *values.Float:
			return xT, nil
		case *values.Bool:
			if xT.Bool() {
				return values.NewFloat(1), nil
			}
			return values.NewFloat(0), nil
		}
	case values.BoolKind:
		switch xT := x.(type) {
		case *values.Int:
			return values.NewBool(xT.Int64() != 0), nil
		case *values.Float:
			return values.NewBool(xT.Float64() != 0), nil
		case *values.Bool:
			return xT, nil
		}
	}
	return nil, fmterr.Errorf(fmterr.TypeMismatch, "cannot cast %s to %s", values.String(x), target.String())
}
