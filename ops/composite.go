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
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/values"
)

func toArray(x values.Value) (*values.Array, error) {
	arr, ok := x.(*values.Array)
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeMismatch, "%s is a %s, not an array", values.String(x), x.Kind())
	}
	return arr, nil
}

func getItem(array, index values.Value) (values.Value, error) {
	arr, err := toArray(array)
	if err != nil {
		return nil, err
	}
	i, err := values.ToInt64(index)
	if err != nil {
		return nil, err
	}
	return arr.At(i)
}

func reverse(array values.Value) (values.Value, error) {
	arr, err := toArray(array)
	if err != nil {
		return nil, err
	}
	return arr.Reverse(), nil
}

func makeStruct(attrs *graph.Attrs, in []values.Value) (values.Value, error) {
	if len(attrs.Fields) != len(in) {
		return nil, fmterr.Internalf("structure %s has %d field names but %d values", attrs.Name, len(attrs.Fields), len(in))
	}
	fields := make([]values.Field, len(in))
	for i, name := range attrs.Fields {
		fields[i] = values.Field{Name: name, Value: in[i]}
	}
	return values.NewStruct(attrs.Name, fields...), nil
}

func getAttr(str values.Value, name string) (values.Value, error) {
	s, ok := str.(*values.Struct)
	if !ok {
		return nil, fmterr.Errorf(fmterr.TypeMismatch, "cannot get field %q of %s: %s is not a structure", name, values.String(str), str.Kind())
	}
	return s.Get(name)
}
