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
	"github.com/gx-org/symeval/values"
)

// clamp returns lo if x < lo, hi if x > hi, x otherwise.
// lo wins when lo > hi.
func clamp(x, lo, hi values.Value) (values.Value, error) {
	if ints, ok := allInts(x, lo, hi); ok {
		return values.NewInt(clampNumber(ints[0], ints[1], ints[2])), nil
	}
	floats, err := toFloats(x, lo, hi)
	if err != nil {
		return nil, err
	}
	return values.NewFloat(clampNumber(floats[0], floats[1], floats[2])), nil
}

func clampNumber[T int64 | float64](x, lo, hi T) T {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	}
	return x
}

func lerp(a, b, w values.Value) (values.Value, error) {
	floats, err := toFloats(a, b, w)
	if err != nil {
		return nil, err
	}
	start, end, weight := floats[0], floats[1], floats[2]
	return values.NewFloat(start + weight*(end-start)), nil
}

// threshold returns v if x <= t, x otherwise.
// The result is a float only if x or v is a float.
func threshold(x, t, v values.Value) (values.Value, error) {
	below, err := lessEqual(x, t)
	if err != nil {
		return nil, err
	}
	if _, ok := allInts(x, v); ok {
		if below {
			return v, nil
		}
		return x, nil
	}
	floats, err := toFloats(x, v)
	if err != nil {
		return nil, err
	}
	if below {
		return values.NewFloat(floats[1]), nil
	}
	return values.NewFloat(floats[0]), nil
}

func lessEqual(x, y values.Value) (bool, error) {
	if ints, ok := allInts(x, y); ok {
		return ints[0] <= ints[1], nil
	}
	floats, err := toFloats(x, y)
	if err != nil {
		return false, err
	}
	return floats[0] <= floats[1], nil
}

func where(cond, a, b values.Value) (values.Value, error) {
	c, err := values.ToBool(cond)
	if err != nil {
		return nil, err
	}
	choice := b
	if c {
		choice = a
	}
	if a.Kind() == b.Kind() {
		return choice, nil
	}
	// An int and a float: promote the result.
	floats, err := toFloats(a, b)
	if err != nil {
		return nil, err
	}
	if c {
		return values.NewFloat(floats[0]), nil
	}
	return values.NewFloat(floats[1]), nil
}
