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
	"errors"
	"fmt"
)

// Graph is the read-only view of a procedure's control-flow graph consumed by the solver. A well-formed graph has a
// single entry and a single exit, every node is reachable from the entry and the exit is reachable from every node.
// The solver makes no reducibility assumption.
type Graph[N comparable] interface {
	// Entry returns the unique entry node of the graph
	Entry() N

	// Exit returns the unique exit node of the graph
	Exit() N

	// Preds returns the predecessors of n
	Preds(n N) []N

	// Succs returns the successors of n
	Succs(n N) []N

	// Nodes returns all the nodes of the graph, including the entry and the exit
	Nodes() []N
}

// Analysis is the set of capabilities a dataflow analysis supplies to the solver: a direction, a boundary fact,
// an initial fact, a meet operator and a transfer function. N is the type of the nodes and F the type of the facts.
//
// Facts are mutable objects. The solver hands out the facts stored in its table to MeetInto and TransferNode, and
// an implementation must only ever mutate the fact it is told to update.
type Analysis[N comparable, F any] interface {
	// IsForward returns true for a forward analysis and false for a backward one
	IsForward() bool

	// NewBoundaryFact returns a new fact for the boundary node of g: the entry for a forward analysis, the exit for a
	// backward analysis
	NewBoundaryFact(g Graph[N]) F

	// NewInitialFact returns a new fact for every node other than the boundary, before iteration starts
	NewInitialFact() F

	// MeetInto merges fact into target
	// @mutates target
	MeetInto(fact F, target F)

	// TransferNode applies the transfer function of node. For a backward analysis, it recomputes in from out, and for a
	// forward analysis, out from in. It returns true if the recomputed fact changed.
	// TransferNode must be monotone and must never mutate the fact it reads from.
	TransferNode(node N, in F, out F) bool
}

// PartialOrder is implemented by analyses whose facts can be compared and copied. The solver uses it to check that
// facts only grow during iteration when monotonicity checking is enabled.
type PartialOrder[F any] interface {
	// LessOrEqual returns true if a is below or equal to b in the lattice
	LessOrEqual(a F, b F) bool

	// CopyFact returns a copy of f that does not share storage with f
	CopyFact(f F) F
}

// VarAccessor gives access to the variables defined and used by a node. Operands that are not variables (constants,
// fields, array elements, globals, ...) are never returned.
type VarAccessor[N any, V comparable] interface {
	// DefinedVars returns the variables written by node
	DefinedVars(node N) []V

	// UsedVars returns the variables read by node
	UsedVars(node N) []V
}

var (
	// ErrMalformedGraph is returned when the graph violates the preconditions of the solver.
	ErrMalformedGraph = errors.New("malformed control-flow graph")

	// ErrNotMonotone is returned when a fact shrinks during iteration while monotonicity is checked.
	ErrNotMonotone = errors.New("analysis is not monotone")

	// ErrNonConvergence is returned when the solver exceeds its evaluation budget.
	ErrNonConvergence = errors.New("analysis did not converge")

	// ErrSolverBusy is returned when Solve is called on a solver that is still iterating, from a transfer function
	// for instance.
	ErrSolverBusy = errors.New("solver is already iterating")
)

// elemString returns a string for any element of a fact.
func elemString(x any) string {
	if s, ok := x.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", x)
}
