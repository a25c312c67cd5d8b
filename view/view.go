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

// Package view computes the layouts of tensor views.
//
// A layout is a list of logical sizes and allocation strides. The functions
// of this package never touch data: they compute the layout of a view that
// aliases the input buffer, or report that such a view does not exist and
// that the input needs to be materialized first.
package view

import (
	"fmt"
	"slices"

	"github.com/gx-org/symeval/fmterr"
	"github.com/pkg/errors"
)

// Layout of a tensor: sizes and strides, in elements.
// An axis with a stride of 0 is a broadcast axis.
type Layout struct {
	Sizes   []int64
	Strides []int64
}

var errNeedsCopy = errors.New("axes cannot be merged without a copy")

// NeedsCopy returns true if an error reports that a view cannot alias its input.
func NeedsCopy(err error) bool {
	return errors.Is(err, errNeedsCopy)
}

// Contiguous returns the row-major layout for given sizes.
func Contiguous(sizes []int64) Layout {
	strides := make([]int64, len(sizes))
	stride := int64(1)
	for i := len(sizes) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= max(sizes[i], 1)
	}
	return Layout{Sizes: slices.Clone(sizes), Strides: strides}
}

// Rank returns the number of axes.
func (l Layout) Rank() int {
	return len(l.Sizes)
}

// NumElements returns the number of logical elements.
func (l Layout) NumElements() int64 {
	return numElements(l.Sizes)
}

func numElements(sizes []int64) int64 {
	n := int64(1)
	for _, size := range sizes {
		n *= size
	}
	return n
}

// IsBroadcast returns true if an axis has a stride of 0.
func (l Layout) IsBroadcast(axis int) bool {
	return l.Strides[axis] == 0
}

func (l Layout) clone() Layout {
	return Layout{Sizes: slices.Clone(l.Sizes), Strides: slices.Clone(l.Strides)}
}

func (l Layout) String() string {
	return fmt.Sprintf("%v:%v", l.Sizes, l.Strides)
}

func (l Layout) check() error {
	if len(l.Sizes) != len(l.Strides) {
		return fmterr.Errorf(fmterr.ShapeTransform, "layout %s has %d sizes but %d strides", l, len(l.Sizes), len(l.Strides))
	}
	for axis, size := range l.Sizes {
		if size < 0 {
			return fmterr.Errorf(fmterr.ShapeTransform, "layout %s has a negative size for axis %d", l, axis)
		}
	}
	return nil
}

func (l Layout) checkAxis(axis, n int) error {
	if axis < 0 || axis+n > len(l.Sizes) {
		return fmterr.Errorf(fmterr.ShapeTransform, "axis %d out of range for layout %s", axis, l)
	}
	return nil
}

// Permute the axes: axis i of the output is axis perm[i] of the input.
func Permute(l Layout, perm []int) (Layout, error) {
	if err := l.check(); err != nil {
		return Layout{}, err
	}
	if len(perm) != l.Rank() {
		return Layout{}, fmterr.Errorf(fmterr.ShapeTransform, "permutation %v of length %d for layout %s of rank %d", perm, len(perm), l, l.Rank())
	}
	seen := make([]bool, len(perm))
	out := Layout{Sizes: make([]int64, len(perm)), Strides: make([]int64, len(perm))}
	for i, axis := range perm {
		if axis < 0 || axis >= len(perm) || seen[axis] {
			return Layout{}, fmterr.Errorf(fmterr.ShapeTransform, "%v is not a permutation", perm)
		}
		seen[axis] = true
		out.Sizes[i] = l.Sizes[axis]
		out.Strides[i] = l.Strides[axis]
	}
	return out, nil
}

// Split an axis into two axes (size/factor, factor).
// The size of the axis needs to be divisible by the factor.
// A broadcast axis is split into two broadcast axes.
func Split(l Layout, axis int, factor int64) (Layout, error) {
	if err := l.check(); err != nil {
		return Layout{}, err
	}
	if err := l.checkAxis(axis, 1); err != nil {
		return Layout{}, err
	}
	size, stride := l.Sizes[axis], l.Strides[axis]
	if factor <= 0 || size%factor != 0 {
		return Layout{}, fmterr.Errorf(fmterr.ShapeTransform, "cannot split axis %d of size %d by a factor of %d", axis, size, factor)
	}
	outerStride := stride * factor
	out := l.clone()
	out.Sizes[axis] = size / factor
	out.Strides[axis] = outerStride
	out.Sizes = slices.Insert(out.Sizes, axis+1, factor)
	out.Strides = slices.Insert(out.Strides, axis+1, stride)
	return out, nil
}

// Merge the axes axis and axis+1 into a single axis.
//
// The merge aliases the input if the outer stride is the inner stride times
// the inner size, if both axes are broadcast axes (the merged axis keeps a
// stride of 0), or if one of the axes has a size of 1. Otherwise, the returned
// error satisfies NeedsCopy.
func Merge(l Layout, axis int) (Layout, error) {
	if err := l.check(); err != nil {
		return Layout{}, err
	}
	if err := l.checkAxis(axis, 2); err != nil {
		return Layout{}, err
	}
	outerSize, innerSize := l.Sizes[axis], l.Sizes[axis+1]
	outerStride, innerStride := l.Strides[axis], l.Strides[axis+1]
	var stride int64
	switch {
	case innerSize == 1:
		stride = outerStride
	case outerSize == 1:
		stride = innerStride
	case l.IsBroadcast(axis) && l.IsBroadcast(axis+1):
		stride = 0
	case outerStride == innerStride*innerSize:
		stride = innerStride
	default:
		return Layout{}, fmterr.Wrapf(fmterr.ShapeTransform, errNeedsCopy, "merging axes %d and %d of %s", axis, axis+1, l)
	}
	out := l.clone()
	out.Sizes[axis] = outerSize * innerSize
	out.Strides[axis] = stride
	out.Sizes = slices.Delete(out.Sizes, axis+1, axis+2)
	out.Strides = slices.Delete(out.Strides, axis+1, axis+2)
	return out, nil
}

// Reshape a layout to new sizes.
//
// The axes are grouped such that the product of the sizes of each group of
// input axes matches the product of a group of output axes. Each group is
// merged into a single axis then split into the output sizes. If all the
// merges alias the input, Reshape returns the layout of the view and true.
// Otherwise, it returns the contiguous layout for sizes and false: the input
// needs to be materialized before applying the returned layout.
func Reshape(l Layout, sizes []int64) (Layout, bool, error) {
	if err := l.check(); err != nil {
		return Layout{}, false, err
	}
	for axis, size := range sizes {
		if size < 0 {
			return Layout{}, false, fmterr.Errorf(fmterr.ShapeTransform, "cannot reshape to %v: negative size for axis %d", sizes, axis)
		}
	}
	total := l.NumElements()
	if total != numElements(sizes) {
		return Layout{}, false, fmterr.Errorf(fmterr.ShapeTransform, "cannot reshape %s of %d elements to %v", l, total, sizes)
	}
	if total == 0 {
		return Contiguous(sizes), true, nil
	}
	cur := l.clone()
	pos := 0
	in, out := 0, 0
	for in < len(l.Sizes) || out < len(sizes) {
		inEnd, outEnd := in, out
		inSize, outSize := int64(1), int64(1)
		if inEnd < len(l.Sizes) {
			inSize *= l.Sizes[inEnd]
			inEnd++
		}
		if outEnd < len(sizes) {
			outSize *= sizes[outEnd]
			outEnd++
		}
		for inSize != outSize {
			if inSize < outSize {
				if inEnd >= len(l.Sizes) {
					return Layout{}, false, fmterr.Internalf("cannot group axes of %s to reshape to %v", l, sizes)
				}
				inSize *= l.Sizes[inEnd]
				inEnd++
			} else {
				if outEnd >= len(sizes) {
					return Layout{}, false, fmterr.Internalf("cannot group axes of %s to reshape to %v", l, sizes)
				}
				outSize *= sizes[outEnd]
				outEnd++
			}
		}
		var err error
		cur, err = reshapeGroup(cur, pos, inEnd-in, sizes[out:outEnd])
		if NeedsCopy(err) {
			return Contiguous(sizes), false, nil
		}
		if err != nil {
			return Layout{}, false, err
		}
		pos += outEnd - out
		in, out = inEnd, outEnd
	}
	return cur, true, nil
}

// reshapeGroup replaces the numIn axes starting at pos by axes of given sizes.
// The product of the sizes of the replaced axes is the product of sizes.
func reshapeGroup(l Layout, pos, numIn int, sizes []int64) (Layout, error) {
	if numIn == 0 {
		// Only axes of size 1 are added.
		for i := range sizes {
			l.Sizes = slices.Insert(l.Sizes, pos+i, 1)
			l.Strides = slices.Insert(l.Strides, pos+i, 1)
		}
		return l, nil
	}
	if len(sizes) == 0 {
		// Only axes of size 1 are removed.
		l.Sizes = slices.Delete(l.Sizes, pos, pos+numIn)
		l.Strides = slices.Delete(l.Strides, pos, pos+numIn)
		return l, nil
	}
	var err error
	for range numIn - 1 {
		if l, err = Merge(l, pos); err != nil {
			return Layout{}, err
		}
	}
	for i := range len(sizes) - 1 {
		if l, err = Split(l, pos+i, numElements(sizes[i+1:])); err != nil {
			return Layout{}, err
		}
	}
	return l, nil
}

// Flatten reshapes a layout to a single axis.
func Flatten(l Layout) (Layout, bool, error) {
	if err := l.check(); err != nil {
		return Layout{}, false, err
	}
	return Reshape(l, []int64{l.NumElements()})
}
