// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataflow

import (
	"fmt"
	"strings"

	"github.com/willf/bitset"
)

// VarIndex numbers the variables of a single procedure so that facts over them can be stored as bitsets.
// A VarIndex is built once per procedure and is read-only afterwards.
type VarIndex[V comparable] struct {
	ids  map[V]uint
	vars []V
}

// NewVarIndex returns an index containing all the variables defined or used by the nodes of g.
func NewVarIndex[N comparable, V comparable](g Graph[N], access VarAccessor[N, V]) *VarIndex[V] {
	idx := &VarIndex[V]{ids: map[V]uint{}}
	for _, n := range g.Nodes() {
		for _, v := range access.DefinedVars(n) {
			idx.add(v)
		}
		for _, v := range access.UsedVars(n) {
			idx.add(v)
		}
	}
	return idx
}

func (idx *VarIndex[V]) add(v V) uint {
	if id, ok := idx.ids[v]; ok {
		return id
	}
	id := uint(len(idx.vars))
	idx.ids[v] = id
	idx.vars = append(idx.vars, v)
	return id
}

// ID returns the index of v, and false if v is not indexed.
func (idx *VarIndex[V]) ID(v V) (uint, bool) {
	id, ok := idx.ids[v]
	return id, ok
}

// Var returns the variable with index id.
func (idx *VarIndex[V]) Var(id uint) V {
	return idx.vars[id]
}

// Len returns the number of variables in the index.
func (idx *VarIndex[V]) Len() int {
	return len(idx.vars)
}

// BitFact is a dense set of variables: bit i is set when the variable with index i in the VarIndex is in the set.
type BitFact struct {
	bits *bitset.BitSet
}

// NewBitFact returns an empty fact able to hold n variables without growing.
func NewBitFact(n int) *BitFact {
	return &BitFact{bits: bitset.New(uint(n))}
}

// Contains returns true if the variable with index id is in the fact.
func (f *BitFact) Contains(id uint) bool {
	return f.bits.Test(id)
}

// Add adds the variable with index id.
func (f *BitFact) Add(id uint) {
	f.bits.Set(id)
}

// Remove removes the variable with index id.
func (f *BitFact) Remove(id uint) {
	f.bits.Clear(id)
}

// Union sets f to f ∪ other.
// @mutates f
func (f *BitFact) Union(other *BitFact) {
	f.bits.InPlaceUnion(other.bits)
}

// Difference sets f to f \ other.
// @mutates f
func (f *BitFact) Difference(other *BitFact) {
	f.bits.InPlaceDifference(other.bits)
}

// Set replaces the content of f by a copy of the content of other.
// @mutates f
func (f *BitFact) Set(other *BitFact) {
	f.bits = other.bits.Clone()
}

// Copy returns a new fact with the same elements as f.
func (f *BitFact) Copy() *BitFact {
	return &BitFact{bits: f.bits.Clone()}
}

// Equals returns true if f and other contain the same variables. Trailing zero words are ignored, so facts of
// different capacities can be equal.
func (f *BitFact) Equals(other *BitFact) bool {
	return f.bits.Count() == other.bits.Count() && other.bits.IsSuperSet(f.bits)
}

// IsSubsetOf returns true if every variable of f is in other.
func (f *BitFact) IsSubsetOf(other *BitFact) bool {
	return other.bits.IsSuperSet(f.bits)
}

// Size returns the number of variables in the fact.
func (f *BitFact) Size() int {
	return int(f.bits.Count())
}

// IDs returns the indexes of the variables in the fact, in increasing order.
func (f *BitFact) IDs() []uint {
	var ids []uint
	for i, ok := f.bits.NextSet(0); ok; i, ok = f.bits.NextSet(i + 1) {
		ids = append(ids, i)
	}
	return ids
}

// String returns the set of indexes in the fact.
func (f *BitFact) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, id := range f.IDs() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", id)
	}
	b.WriteString("}")
	return b.String()
}

// Decode returns the set of variables represented by a dense fact.
func Decode[V comparable](idx *VarIndex[V], f *BitFact) *SetFact[V] {
	s := NewSetFact[V]()
	for _, id := range f.IDs() {
		s.Add(idx.Var(id))
	}
	return s
}
