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
	"slices"

	"github.com/gx-org/symeval/fmterr"
)

// Domain is the iteration domain of a tensor: an ordered list of axis extents.
// Scheduling transforms (split, merge, reorder) replace extents by new
// expressions derived from the root extents, so that the extents of the
// transformed domain can be evaluated once the root extents are bound.
type Domain struct {
	graph   *Graph
	root    []*Value
	extents []*Value
}

// NewDomain returns a domain given the extents of its root axes.
func (g *Graph) NewDomain(extents ...*Value) *Domain {
	return &Domain{
		graph:   g,
		root:    slices.Clone(extents),
		extents: slices.Clone(extents),
	}
}

// SymbolicDomain returns a domain with a free integer symbol for each root extent.
func (g *Graph) SymbolicDomain(name string, rank int) *Domain {
	extents := make([]*Value, rank)
	for i := range extents {
		extents[i] = g.Symbol(fmt.Sprintf("%s.extent%d", name, i), IntType())
	}
	return g.NewDomain(extents...)
}

// Root returns the extents of the root axes.
func (d *Domain) Root() []*Value {
	return slices.Clone(d.root)
}

// NDims returns the number of axes in the domain.
func (d *Domain) NDims() int {
	return len(d.extents)
}

// Axis returns the extent of an axis. Negative axes count from the last axis.
func (d *Domain) Axis(axis int) *Value {
	if axis < 0 {
		axis += len(d.extents)
	}
	return d.extents[axis]
}

func (d *Domain) checkAxis(axis, n int) (int, error) {
	if axis < 0 {
		axis += len(d.extents)
	}
	if axis < 0 || axis+n > len(d.extents) {
		return -1, fmterr.Errorf(fmterr.ShapeTransform, "axis %d out of range for a domain of %d axes", axis, len(d.extents))
	}
	return axis, nil
}

// Split an axis into (ceilDiv(extent, factor), factor).
func (d *Domain) Split(axis int, factor int64) error {
	axis, err := d.checkAxis(axis, 1)
	if err != nil {
		return err
	}
	if factor <= 0 {
		return fmterr.Errorf(fmterr.ShapeTransform, "invalid split factor %d", factor)
	}
	f := d.graph.Int(factor)
	outer := d.graph.CeilDiv(d.extents[axis], f)
	d.extents[axis] = outer
	d.extents = slices.Insert(d.extents, axis+1, f)
	return nil
}

// Merge the axes axis and axis+1 into a single axis.
func (d *Domain) Merge(axis int) error {
	axis, err := d.checkAxis(axis, 2)
	if err != nil {
		return err
	}
	d.extents[axis] = d.graph.Mul(d.extents[axis], d.extents[axis+1])
	d.extents = slices.Delete(d.extents, axis+1, axis+2)
	return nil
}

// Reorder the axes: the axis at position old moves to position moves[old].
// Axes not specified keep their relative order in the remaining positions.
func (d *Domain) Reorder(moves map[int]int) error {
	n := len(d.extents)
	result := make([]*Value, n)
	moved := make([]bool, n)
	for from, to := range moves {
		var err error
		if from, err = d.checkAxis(from, 1); err != nil {
			return err
		}
		if to, err = d.checkAxis(to, 1); err != nil {
			return err
		}
		if moved[from] {
			return fmterr.Errorf(fmterr.ShapeTransform, "axis %d is moved more than once", from)
		}
		if result[to] != nil {
			return fmterr.Errorf(fmterr.ShapeTransform, "axis %d is the target of more than one move", to)
		}
		result[to] = d.extents[from]
		moved[from] = true
	}
	next := 0
	for from, extent := range d.extents {
		if moved[from] {
			continue
		}
		for result[next] != nil {
			next++
		}
		result[next] = extent
	}
	d.extents = result
	return nil
}
