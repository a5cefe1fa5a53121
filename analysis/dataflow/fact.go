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
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// SetFact is a finite set of variables, the lattice element of set-based analyses such as the live-variable
// analysis. The zero value is not usable; build facts with NewSetFact.
//
// Mutating operations only modify the receiver. A fact stored in a solver's table must never be shared with
// another node: use Copy whenever a value has to flow from one fact to another.
type SetFact[V comparable] struct {
	elems map[V]bool
}

// NewSetFact returns a new fact containing the elements provided.
func NewSetFact[V comparable](elems ...V) *SetFact[V] {
	f := &SetFact[V]{elems: make(map[V]bool, len(elems))}
	for _, e := range elems {
		f.elems[e] = true
	}
	return f
}

// Contains returns true if v is in the fact.
func (f *SetFact[V]) Contains(v V) bool {
	return f.elems[v]
}

// Add adds v to the fact and returns true if the fact changed.
func (f *SetFact[V]) Add(v V) bool {
	if f.elems[v] {
		return false
	}
	f.elems[v] = true
	return true
}

// Remove removes v from the fact and returns true if the fact changed.
func (f *SetFact[V]) Remove(v V) bool {
	if !f.elems[v] {
		return false
	}
	delete(f.elems, v)
	return true
}

// Union sets f to f ∪ other and returns true if f changed.
// @mutates f
func (f *SetFact[V]) Union(other *SetFact[V]) bool {
	changed := false
	for e := range other.elems {
		if !f.elems[e] {
			f.elems[e] = true
			changed = true
		}
	}
	return changed
}

// Difference sets f to f \ other and returns true if f changed.
// @mutates f
func (f *SetFact[V]) Difference(other *SetFact[V]) bool {
	changed := false
	for e := range other.elems {
		if f.elems[e] {
			delete(f.elems, e)
			changed = true
		}
	}
	return changed
}

// Set replaces the content of f by the content of other. The two facts do not share storage afterwards.
// @mutates f
func (f *SetFact[V]) Set(other *SetFact[V]) {
	maps.Clear(f.elems)
	for e := range other.elems {
		f.elems[e] = true
	}
}

// Copy returns a new fact with the same elements as f.
func (f *SetFact[V]) Copy() *SetFact[V] {
	return &SetFact[V]{elems: maps.Clone(f.elems)}
}

// Equals returns true if f and other contain the same elements.
func (f *SetFact[V]) Equals(other *SetFact[V]) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	return len(f.elems) == len(other.elems) && f.IsSubsetOf(other)
}

// IsSubsetOf returns true if every element of f is in other.
func (f *SetFact[V]) IsSubsetOf(other *SetFact[V]) bool {
	for e := range f.elems {
		if !other.elems[e] {
			return false
		}
	}
	return true
}

// Size returns the number of elements in the fact.
func (f *SetFact[V]) Size() int {
	return len(f.elems)
}

// IsEmpty returns true if the fact has no element.
func (f *SetFact[V]) IsEmpty() bool {
	return len(f.elems) == 0
}

// Elements returns the elements of the fact, in no particular order.
func (f *SetFact[V]) Elements() []V {
	return maps.Keys(f.elems)
}

// SortedElements returns the elements of the fact sorted with less.
func (f *SetFact[V]) SortedElements(less func(a, b V) bool) []V {
	elems := f.Elements()
	sort.Slice(elems, func(i, j int) bool { return less(elems[i], elems[j]) })
	return elems
}

// String returns the string representation of the fact, with its elements sorted by their own string
// representation.
func (f *SetFact[V]) String() string {
	names := make([]string, 0, len(f.elems))
	for e := range f.elems {
		names = append(names, elemString(e))
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}
