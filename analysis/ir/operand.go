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

// Package ir is a small three-address intermediate representation with a control-flow graph builder. It is the
// reference input of the dataflow engine: statements expose an optional definition and the operands they read, and
// a Graph of statements implements the graph view consumed by the solver.
package ir

import (
	"fmt"
	"strings"
)

// An Operand is anything a statement can read or write: a variable, a constant, a field, an array element or a
// compound expression.
type Operand interface {
	fmt.Stringer
	isOperand()
}

// Var is a local variable or a temporary. Variables are compared by identity: two distinct *Var are distinct
// variables even when their names are equal.
type Var struct {
	Name string
}

// NewVar returns a new variable.
func NewVar(name string) *Var {
	return &Var{Name: name}
}

func (v *Var) String() string { return v.Name }

// NewVars returns a new variable for each name.
func NewVars(names ...string) []*Var {
	vars := make([]*Var, len(names))
	for i, name := range names {
		vars[i] = NewVar(name)
	}
	return vars
}

// Const is a literal constant.
type Const struct {
	Value string
}

func (c Const) String() string { return c.Value }

// FieldAccess is an instance field x.f.
type FieldAccess struct {
	Base  *Var
	Field string
}

func (f *FieldAccess) String() string { return f.Base.String() + "." + f.Field }

// StaticField is a static field C.f.
type StaticField struct {
	Class string
	Field string
}

func (f *StaticField) String() string { return f.Class + "." + f.Field }

// ArrayAccess is an array element a[i].
type ArrayAccess struct {
	Base  *Var
	Index Operand
}

func (a *ArrayAccess) String() string { return a.Base.String() + "[" + a.Index.String() + "]" }

// BinaryExp is a binary operation x op y.
type BinaryExp struct {
	Op string
	X  Operand
	Y  Operand
}

func (b *BinaryExp) String() string { return b.X.String() + " " + b.Op + " " + b.Y.String() }

// Call is a call to a method or function. Receiver is nil for static calls.
type Call struct {
	Method   string
	Receiver *Var
	Args     []Operand
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	prefix := ""
	if c.Receiver != nil {
		prefix = c.Receiver.String() + "."
	}
	return prefix + c.Method + "(" + strings.Join(args, ", ") + ")"
}

func (*Var) isOperand()         {}
func (Const) isOperand()        {}
func (*FieldAccess) isOperand() {}
func (*StaticField) isOperand() {}
func (*ArrayAccess) isOperand() {}
func (*BinaryExp) isOperand()   {}
func (*Call) isOperand()        {}

// Operands returns the operands read when op is evaluated: its sub-operands, in evaluation order, followed by op
// itself.
func Operands(op Operand) []Operand {
	if op == nil {
		return nil
	}
	var ops []Operand
	switch x := op.(type) {
	case *FieldAccess:
		ops = append(ops, x.Base)
	case *ArrayAccess:
		ops = append(ops, x.Base)
		ops = append(ops, Operands(x.Index)...)
	case *BinaryExp:
		ops = append(ops, Operands(x.X)...)
		ops = append(ops, Operands(x.Y)...)
	case *Call:
		if x.Receiver != nil {
			ops = append(ops, x.Receiver)
		}
		for _, arg := range x.Args {
			ops = append(ops, Operands(arg)...)
		}
	}
	return append(ops, op)
}
