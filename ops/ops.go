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

// Package ops computes the results of graph operations given concrete values.
package ops

import (
	"github.com/gx-org/symeval/fmterr"
	"github.com/gx-org/symeval/graph"
	"github.com/gx-org/symeval/tensor"
	"github.com/gx-org/symeval/values"
	"github.com/pkg/errors"
)

// Apply computes the outputs of an operation given the values of its inputs.
// All inputs must have a value. Tensors that cannot be viewed without a copy
// are materialized by the runtime.
func Apply(rt tensor.Runtime, op *graph.Operation, inputs []values.Value) ([]values.Value, error) {
	if len(inputs) != len(op.Inputs()) {
		return nil, fmterr.Internalf("%s: got %d input values but want %d", op, len(inputs), len(op.Inputs()))
	}
	for i, in := range inputs {
		if in == nil {
			return nil, fmterr.Internalf("%s: input %d has no value", op, i)
		}
	}
	out, err := apply(rt, op, inputs)
	if err != nil {
		return nil, errors.WithMessagef(err, "cannot evaluate %s", op)
	}
	return []values.Value{out}, nil
}

func apply(rt tensor.Runtime, op *graph.Operation, in []values.Value) (values.Value, error) {
	attrs := op.Attrs()
	switch kind := op.Kind(); kind {
	case graph.NegOp:
		return neg(in[0])
	case graph.AddOp, graph.SubOp, graph.MulOp, graph.DivOp, graph.ModOp, graph.CeilDivOp:
		return binary(kind, in[0], in[1])
	case graph.CastOp:
		return cast(attrs.Target, in[0])
	case graph.ClampOp:
		return clamp(in[0], in[1], in[2])
	case graph.LerpOp:
		return lerp(in[0], in[1], in[2])
	case graph.ThresholdOp:
		return threshold(in[0], in[1], in[2])
	case graph.WhereOp:
		return where(in[0], in[1], in[2])
	case graph.MakeArrayOp:
		return values.NewArray(in...), nil
	case graph.GetItemOp:
		return getItem(in[0], in[1])
	case graph.ReverseArrayOp:
		return reverse(in[0])
	case graph.MakeStructOp:
		return makeStruct(attrs, in)
	case graph.GetAttrOp:
		return getAttr(in[0], attrs.Name)
	case graph.MetadataOp:
		return metadata(in[0])
	case graph.SizeOp:
		return size(in[0], attrs.Axis)
	case graph.PermuteOp:
		return permute(in[0], attrs.Perm)
	case graph.ReshapeOp:
		return reshape(rt, in[0], in[1:])
	case graph.FlattenOp:
		return flatten(rt, in[0])
	case graph.SplitOp:
		return split(in[0], attrs.Axis, in[1])
	case graph.MergeOp:
		return merge(rt, in[0], attrs.Axis)
	default:
		return nil, fmterr.Internalf("operation %s not supported", kind)
	}
}
