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
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/tensor"
)

// FromGo converts a Go value into a value.
// Supported types are Go integers, floats, booleans, slices of those,
// tensor handles, and values (returned as is).
func FromGo(x any) (Value, error) {
	switch xT := x.(type) {
	case Value:
		return xT, nil
	case int:
		return NewInt(int64(xT)), nil
	case int32:
		return NewInt(int64(xT)), nil
	case int64:
		return NewInt(xT), nil
	case float32:
		return NewFloat(float64(xT)), nil
	case float64:
		return NewFloat(xT), nil
	case bool:
		return NewBool(xT), nil
	case []int64:
		return NewInt64Array(xT), nil
	case []int:
		return fromSlice(xT)
	case []float64:
		return fromSlice(xT)
	case []bool:
		return fromSlice(xT)
	case []Value:
		return NewArray(xT...), nil
	case *tensor.Handle:
		return NewTensor(xT), nil
	}
	return nil, fmterr.Errorf(fmterr.TypeMismatch, "cannot convert Go value of type %T", x)
}

func fromSlice[T any](xs []T) (Value, error) {
	elems := make([]Value, len(xs))
	for i, x := range xs {
		var err error
		if elems[i], err = FromGo(x); err != nil {
			return nil, err
		}
	}
	return NewArray(elems...), nil
}

// ToInt64 returns the integer stored in a value.
func ToInt64(v Value) (int64, error) {
	iV, ok := v.(*Int)
	if !ok {
		return 0, fmterr.Errorf(fmterr.TypeMismatch, "%s is a %s, not an int", String(v), kindOf(v))
	}
	return iV.val, nil
}

// ToFloat64 returns a value as a float. Integers are promoted.
func ToFloat64(v Value) (float64, error) {
	switch vT := v.(type) {
	case *Float:
		return vT.val, nil
	case *Int:
		return float64(vT.val), nil
	}
	return 0, fmterr.Errorf(fmterr.TypeMismatch, "%s is a %s, not a number", String(v), kindOf(v))
}

// ToBool returns the boolean stored in a value.
func ToBool(v Value) (bool, error) {
	bV, ok := v.(*Bool)
	if !ok {
		return false, fmterr.Errorf(fmterr.TypeMismatch, "%s is a %s, not a bool", String(v), kindOf(v))
	}
	return bV.val, nil
}
