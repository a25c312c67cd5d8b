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

package graph

import (
	"fmt"
	"strings"
)

// OpKind is the kind of an operation.
type OpKind int

// Kinds of operations supported by the evaluator.
const (
	InvalidOp OpKind = iota

	// Arithmetic.
	NegOp
	AddOp
	SubOp
	MulOp
	DivOp
	ModOp
	CeilDivOp
	CastOp

	// Ternary.
	ClampOp
	LerpOp
	ThresholdOp
	WhereOp

	// Arrays.
	MakeArrayOp
	GetItemOp
	ReverseArrayOp

	// Structures.
	MakeStructOp
	GetAttrOp

	// Tensors.
	MetadataOp
	SizeOp
	PermuteOp
	ReshapeOp
	FlattenOp
	SplitOp
	MergeOp
)

var opNames = [...]string{
	InvalidOp:      "invalid",
	NegOp:          "neg",
	AddOp:          "add",
	SubOp:          "sub",
	MulOp:          "mul",
	DivOp:          "div",
	ModOp:          "mod",
	CeilDivOp:      "ceilDiv",
	CastOp:         "cast",
	ClampOp:        "clamp",
	LerpOp:         "lerp",
	ThresholdOp:    "threshold",
	WhereOp:        "where",
	MakeArrayOp:    "array",
	GetItemOp:      "getItem",
	ReverseArrayOp: "reverse",
	MakeStructOp:   "struct",
	GetAttrOp:      "getAttr",
	MetadataOp:     "metadata",
	SizeOp:         "size",
	PermuteOp:      "permute",
	ReshapeOp:      "reshape",
	FlattenOp:      "flatten",
	SplitOp:        "split",
	MergeOp:        "merge",
}

func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opNames) {
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
	return opNames[k]
}

func (k OpKind) format(op *Operation) string {
	args := make([]string, len(op.inputs))
	for i, in := range op.inputs {
		args[i] = in.String()
	}
	switch k {
	case GetAttrOp:
		args = append(args, op.attrs.Name)
	case CastOp:
		args = append(args, op.attrs.Target.String())
	case PermuteOp:
		args = append(args, fmt.Sprint(op.attrs.Perm))
	case SizeOp, SplitOp, MergeOp:
		args = append(args, fmt.Sprint(op.attrs.Axis))
	case MakeStructOp:
		for i, name := range op.attrs.Fields {
			args[i] = name + ": " + args[i]
		}
		return op.attrs.Name + "{" + strings.Join(args, ", ") + "}"
	}
	return k.String() + "(" + strings.Join(args, ", ") + ")"
}
