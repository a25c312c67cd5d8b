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

package fmterr_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gx-org/symeval/fmterr"
	"github.com/pkg/errors"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		err  error
		want fmterr.Kind
	}{
		{
			err:  fmterr.Errorf(fmterr.BindingConflict, "cannot bind %s", "a"),
			want: fmterr.BindingConflict,
		},
		{
			err:  errors.Wrap(fmterr.Errorf(fmterr.UnknownField, "field x"), "context"),
			want: fmterr.UnknownField,
		},
		{
			err:  fmterr.Wrapf(fmterr.ShapeTransform, errors.New("cannot split"), "axis %d", 1),
			want: fmterr.ShapeTransform,
		},
		{
			err:  errors.New("some other error"),
			want: fmterr.Unknown,
		},
	}
	for i, test := range tests {
		if got := fmterr.KindOf(test.err); got != test.want {
			t.Errorf("test %d: got kind %s but want %s", i, got, test.want)
		}
		if test.want != fmterr.Unknown && !fmterr.Is(test.err, test.want) {
			t.Errorf("test %d: error %v is not of kind %s", i, test.err, test.want)
		}
	}
}

func TestNestedKind(t *testing.T) {
	inner := fmterr.Errorf(fmterr.IndexOutOfRange, "index 3")
	outer := fmterr.Wrap(fmterr.Internal, inner)
	if !fmterr.Is(outer, fmterr.IndexOutOfRange) {
		t.Errorf("wrapped error lost its inner kind")
	}
	if got := fmterr.KindOf(outer); got != fmterr.Internal {
		t.Errorf("got kind %s but want %s", got, fmterr.Internal)
	}
}

func TestWrapNil(t *testing.T) {
	if err := fmterr.Wrap(fmterr.Internal, nil); err != nil {
		t.Errorf("Wrap(nil) = %v but want nil", err)
	}
	if err := fmterr.Wrapf(fmterr.Internal, nil, "msg"); err != nil {
		t.Errorf("Wrapf(nil) = %v but want nil", err)
	}
}

func TestMessage(t *testing.T) {
	err := fmterr.Errorf(fmterr.TypeMismatch, "value %d not compatible", 4)
	want := "type mismatch: value 4 not compatible"
	if got := err.Error(); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if got := fmt.Sprintf("%+v", err); !strings.HasPrefix(got, want) {
		t.Errorf("%%+v output %q does not start with %q", got, want)
	}
}
