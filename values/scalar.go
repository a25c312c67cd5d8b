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
	"strconv"
)

type (
	// Int is a 64-bit signed integer.
	Int struct {
		val int64
	}

	// Float is a double precision floating point number.
	Float struct {
		val float64
	}

	// Bool is a boolean.
	Bool struct {
		val bool
	}
)

// NewInt returns a new integer value.
func NewInt(val int64) *Int {
	return &Int{val: val}
}

func (*Int) value() {}

// Kind of the value.
func (*Int) Kind() Kind { return IntKind }

// Int64 returns the value as a Go integer.
func (v *Int) Int64() int64 { return v.val }

func (v *Int) String() string {
	return strconv.FormatInt(v.val, 10)
}

// NewFloat returns a new float value.
func NewFloat(val float64) *Float {
	return &Float{val: val}
}

func (*Float) value() {}

// Kind of the value.
func (*Float) Kind() Kind { return FloatKind }

// Float64 returns the value as a Go float.
func (v *Float) Float64() float64 { return v.val }

func (v *Float) String() string {
	return strconv.FormatFloat(v.val, 'g', -1, 64)
}

// NewBool returns a new boolean value.
func NewBool(val bool) *Bool {
	return &Bool{val: val}
}

func (*Bool) value() {}

// Kind of the value.
func (*Bool) Kind() Kind { return BoolKind }

// Bool returns the value as a Go boolean.
func (v *Bool) Bool() bool { return v.val }

func (v *Bool) String() string {
	return strconv.FormatBool(v.val)
}
