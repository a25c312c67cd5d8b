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
	"go/token"
	"slices"

	"github.com/gx-org/backend/dtype"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// number are the data types supported by the kernels.
type number interface {
	dtype.AlgebraType
	constraints.Integer | constraints.Float
}

// UnaryOp applies an elementwise unary operator and returns the result in a new contiguous handle.
func UnaryOp(op token.Token, x *Handle) (*Handle, error) {
	switch x.DType() {
	case dtype.Float32:
		return unary[float32](op, x)
	case dtype.Float64:
		return unary[float64](op, x)
	case dtype.Int32:
		return unary[int32](op, x)
	case dtype.Int64:
		return unary[int64](op, x)
	}
	return nil, errors.Errorf("unary operator %s not supported for %s", op, x.DType().String())
}

func unary[T number](op token.Token, x *Handle) (*Handle, error) {
	vals, err := Values[T](x)
	if err != nil {
		return nil, err
	}
	z := make([]T, len(vals))
	switch op {
	case token.ADD:
		copy(z, vals)
	case token.SUB:
		for i, xi := range vals {
			z[i] = -xi
		}
	default:
		return nil, errors.Errorf("unary operator %s not supported", op)
	}
	return New(z, x.sizes)
}

// BinaryOp applies an elementwise binary operator and returns the result in a new contiguous handle.
// Both operands must have the same data type. Their sizes must be equal, or one of the operands
// must be a scalar (rank 0) in which case it is broadcast.
func BinaryOp(op token.Token, x, y *Handle) (*Handle, error) {
	if x.DType() != y.DType() {
		return nil, errors.Errorf("mismatched data types %s and %s", x.DType().String(), y.DType().String())
	}
	if len(x.sizes) > 0 && len(y.sizes) > 0 && !slices.Equal(x.sizes, y.sizes) {
		return nil, errors.Errorf("mismatched sizes %v and %v", x.sizes, y.sizes)
	}
	switch x.DType() {
	case dtype.Float32:
		return binary[float32](op, x, y)
	case dtype.Float64:
		return binary[float64](op, x, y)
	case dtype.Int32:
		return binary[int32](op, x, y)
	case dtype.Int64:
		return binary[int64](op, x, y)
	}
	return nil, errors.Errorf("binary operator %s not supported for %s", op, x.DType().String())
}

func binary[T number](op token.Token, xH, yH *Handle) (*Handle, error) {
	x, err := Values[T](xH)
	if err != nil {
		return nil, err
	}
	y, err := Values[T](yH)
	if err != nil {
		return nil, err
	}
	sizes := xH.sizes
	if len(sizes) == 0 {
		sizes = yH.sizes
	}
	n, err := toInt(NumElements(sizes))
	if err != nil {
		return nil, err
	}
	at := func(vals []T, i int) T {
		if len(vals) == 1 {
			return vals[0]
		}
		return vals[i]
	}
	z := make([]T, n)
	for i := range z {
		xi, yi := at(x, i), at(y, i)
		switch op {
		case token.ADD:
			z[i] = xi + yi
		case token.SUB:
			z[i] = xi - yi
		case token.MUL:
			z[i] = xi * yi
		default:
			return nil, errors.Errorf("binary operator %s not supported", op)
		}
	}
	return New(z, sizes)
}
