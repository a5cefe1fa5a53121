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

package ir

import (
	"github.com/awslabs/argot-dataflow/internal/funcutil"
)

// Stmt is a statement of the IR, and a node of a Graph. Statements are compared by identity.
type Stmt interface {
	// Def returns the location written by the statement, if any
	Def() funcutil.Optional[Operand]

	// Uses returns the operands read by the statement, compound expressions included
	Uses() []Operand

	String() string
}

// Nop does nothing. The entry and exit of a Graph are Nop statements.
type Nop struct {
	Label string
}

// Def returns none.
func (s *Nop) Def() funcutil.Optional[Operand] { return funcutil.None[Operand]() }

// Uses returns nil.
func (s *Nop) Uses() []Operand { return nil }

func (s *Nop) String() string { return s.Label }

// Assign is LHS = RHS. LHS is a variable, a field or an array element.
type Assign struct {
	LHS Operand
	RHS Operand
}

// NewAssign returns the statement lhs = rhs.
func NewAssign(lhs Operand, rhs Operand) *Assign {
	return &Assign{LHS: lhs, RHS: rhs}
}

// Def returns the left-hand side.
func (s *Assign) Def() funcutil.Optional[Operand] { return funcutil.Some(s.LHS) }

// Uses returns the operands of the right-hand side, and the base and index of the left-hand side when it is a
// field or an array element: writing x.f reads x.
func (s *Assign) Uses() []Operand {
	var uses []Operand
	switch lhs := s.LHS.(type) {
	case *FieldAccess:
		uses = append(uses, lhs.Base)
	case *ArrayAccess:
		uses = append(uses, lhs.Base)
		uses = append(uses, Operands(lhs.Index)...)
	}
	return append(uses, Operands(s.RHS)...)
}

func (s *Assign) String() string { return s.LHS.String() + " = " + s.RHS.String() }

// Invoke is a call whose result is discarded.
type Invoke struct {
	Call *Call
}

// Def returns none.
func (s *Invoke) Def() funcutil.Optional[Operand] { return funcutil.None[Operand]() }

// Uses returns the operands of the call.
func (s *Invoke) Uses() []Operand { return Operands(s.Call) }

func (s *Invoke) String() string { return s.Call.String() }

// If is a conditional branch on Cond. The targets are the successors of the statement in the graph.
type If struct {
	Cond Operand
}

// Def returns none.
func (s *If) Def() funcutil.Optional[Operand] { return funcutil.None[Operand]() }

// Uses returns the operands of the condition.
func (s *If) Uses() []Operand { return Operands(s.Cond) }

func (s *If) String() string { return "if " + s.Cond.String() }

// Return returns from the procedure, with Value if it is not nil.
type Return struct {
	Value Operand
}

// Def returns none.
func (s *Return) Def() funcutil.Optional[Operand] { return funcutil.None[Operand]() }

// Uses returns the operands of the returned value.
func (s *Return) Uses() []Operand { return Operands(s.Value) }

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// Vars gives access to the variables defined and used by statements. Only *Var operands are returned: a statement
// writing a field or an array element defines no variable.
type Vars struct{}

// DefinedVars returns the variable defined by s, if its definition is a variable.
func (Vars) DefinedVars(s Stmt) []*Var {
	def := s.Def()
	if def.IsNone() {
		return nil
	}
	if v, ok := def.Value().(*Var); ok {
		return []*Var{v}
	}
	return nil
}

// UsedVars returns the variables read by s, without duplicates.
func (Vars) UsedVars(s Stmt) []*Var {
	var vars []*Var
	seen := map[*Var]bool{}
	for _, op := range s.Uses() {
		if v, ok := op.(*Var); ok && !seen[v] {
			seen[v] = true
			vars = append(vars, v)
		}
	}
	return vars
}
