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

// LiveVariableAnalysis is the classic live-variable analysis: a variable is live at a program point if its value may
// be read along some path from that point before being overwritten.
//
// It is a backward may-analysis over sets of variables: the boundary fact and the initial facts are empty, the meet
// is the set union, and the transfer function of a node s is IN[s] = USE[s] ∪ (OUT[s] − DEF[s]).
// Only variables are killed: a write to a field, an array element or any other location leaves every variable live.
type LiveVariableAnalysis[N comparable, V comparable] struct {
	vars VarAccessor[N, V]
}

// NewLiveVariableAnalysis returns a live-variable analysis reading the definitions and uses of nodes with vars.
func NewLiveVariableAnalysis[N comparable, V comparable](vars VarAccessor[N, V]) *LiveVariableAnalysis[N, V] {
	return &LiveVariableAnalysis[N, V]{vars: vars}
}

// IsForward returns false: liveness flows against the control flow.
func (a *LiveVariableAnalysis[N, V]) IsForward() bool {
	return false
}

// NewBoundaryFact returns the empty set: no variable is live after the procedure exits.
func (a *LiveVariableAnalysis[N, V]) NewBoundaryFact(_ Graph[N]) *SetFact[V] {
	return NewSetFact[V]()
}

// NewInitialFact returns the empty set. Facts only grow from there under union.
func (a *LiveVariableAnalysis[N, V]) NewInitialFact() *SetFact[V] {
	return NewSetFact[V]()
}

// MeetInto unions fact into target.
// @mutates target
func (a *LiveVariableAnalysis[N, V]) MeetInto(fact *SetFact[V], target *SetFact[V]) {
	target.Union(fact)
}

// TransferNode computes IN = USE ∪ (OUT − DEF) for node and stores it in in. It returns true if in changed.
// out is never modified: the new fact is built on a copy.
// @mutates in
func (a *LiveVariableAnalysis[N, V]) TransferNode(node N, in *SetFact[V], out *SetFact[V]) bool {
	newIn := out.Copy()
	// kill before use, so that x stays live across x = f(x)
	for _, d := range a.vars.DefinedVars(node) {
		newIn.Remove(d)
	}
	for _, u := range a.vars.UsedVars(node) {
		newIn.Add(u)
	}
	if in.Equals(newIn) {
		return false
	}
	in.Set(newIn)
	return true
}

// LessOrEqual is set inclusion.
func (a *LiveVariableAnalysis[N, V]) LessOrEqual(x *SetFact[V], y *SetFact[V]) bool {
	return x.IsSubsetOf(y)
}

// CopyFact returns a copy of f.
func (a *LiveVariableAnalysis[N, V]) CopyFact(f *SetFact[V]) *SetFact[V] {
	return f.Copy()
}

// LiveVariables runs the live-variable analysis on g with the options provided.
func LiveVariables[N comparable, V comparable](g Graph[N], vars VarAccessor[N, V],
	options SolverOptions) (*Result[N, *SetFact[V]], error) {
	return NewSolver[N, *SetFact[V]](NewLiveVariableAnalysis(vars), options).Solve(g)
}

// DenseLiveVariableAnalysis computes the same facts as LiveVariableAnalysis over bitsets. The uses and definitions
// of every node are encoded once, when the analysis is built for a given graph, which pays off on large procedures.
type DenseLiveVariableAnalysis[N comparable, V comparable] struct {
	index *VarIndex[V]
	use   map[N]*BitFact
	def   map[N]*BitFact
}

// NewDenseLiveVariableAnalysis returns a dense live-variable analysis for the graph g. The analysis can only be used
// on g.
func NewDenseLiveVariableAnalysis[N comparable, V comparable](g Graph[N],
	vars VarAccessor[N, V]) *DenseLiveVariableAnalysis[N, V] {
	index := NewVarIndex(g, vars)
	a := &DenseLiveVariableAnalysis[N, V]{
		index: index,
		use:   make(map[N]*BitFact),
		def:   make(map[N]*BitFact),
	}
	for _, n := range g.Nodes() {
		def := NewBitFact(index.Len())
		for _, d := range vars.DefinedVars(n) {
			id, _ := index.ID(d)
			def.Add(id)
		}
		use := NewBitFact(index.Len())
		for _, u := range vars.UsedVars(n) {
			id, _ := index.ID(u)
			use.Add(id)
		}
		a.def[n] = def
		a.use[n] = use
	}
	return a
}

// Index returns the variable index used to encode facts.
func (a *DenseLiveVariableAnalysis[N, V]) Index() *VarIndex[V] {
	return a.index
}

// IsForward returns false.
func (a *DenseLiveVariableAnalysis[N, V]) IsForward() bool {
	return false
}

// NewBoundaryFact returns the empty set.
func (a *DenseLiveVariableAnalysis[N, V]) NewBoundaryFact(_ Graph[N]) *BitFact {
	return NewBitFact(a.index.Len())
}

// NewInitialFact returns the empty set.
func (a *DenseLiveVariableAnalysis[N, V]) NewInitialFact() *BitFact {
	return NewBitFact(a.index.Len())
}

// MeetInto unions fact into target.
// @mutates target
func (a *DenseLiveVariableAnalysis[N, V]) MeetInto(fact *BitFact, target *BitFact) {
	target.Union(fact)
}

// TransferNode computes IN = USE ∪ (OUT − DEF) on a copy of out and stores it in in.
// @mutates in
func (a *DenseLiveVariableAnalysis[N, V]) TransferNode(node N, in *BitFact, out *BitFact) bool {
	newIn := out.Copy()
	if def, ok := a.def[node]; ok {
		newIn.Difference(def)
	}
	if use, ok := a.use[node]; ok {
		newIn.Union(use)
	}
	if in.Equals(newIn) {
		return false
	}
	in.Set(newIn)
	return true
}

// LessOrEqual is set inclusion.
func (a *DenseLiveVariableAnalysis[N, V]) LessOrEqual(x *BitFact, y *BitFact) bool {
	return x.IsSubsetOf(y)
}

// CopyFact returns a copy of f.
func (a *DenseLiveVariableAnalysis[N, V]) CopyFact(f *BitFact) *BitFact {
	return f.Copy()
}
