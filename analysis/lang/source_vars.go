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

package lang

import (
	"go/ast"
	"go/token"
	"go/types"
)

// SourceVars gives access to the local variables defined and used by the nodes of a StmtGraph.
//
// Identifiers on the left of = and :=, the names of var specs, the keys and values of range loops and the
// targets of select receives are definitions. The operands of op= assignments and of ++ and -- statements are
// both used and defined. Writing a field or an element defines nothing and uses the operands of the target. Reads
// of captured variables inside function literals are uses. Package-level variables and fields are not variables.
// go/cfg evaluates range keys and values once, before the loop head, so they are killed there and not at each
// iteration: a key read in the loop body stays live around the back edge.
type SourceVars struct {
	info *types.Info
	// defining holds the expressions that go/cfg places alone in a block and that are assigned to
	defining map[ast.Expr]bool
	// results are the named results of the function, read by every return
	results []*types.Var
}

func newSourceVars(typ *ast.FuncType, body *ast.BlockStmt, info *types.Info) *SourceVars {
	sv := &SourceVars{info: info, defining: map[ast.Expr]bool{}}
	if typ != nil && typ.Results != nil {
		for _, field := range typ.Results.List {
			for _, name := range field.Names {
				if v := sv.localVar(name, true); v != nil {
					sv.results = append(sv.results, v)
				}
			}
		}
	}
	ast.Inspect(body, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.RangeStmt:
			if x.Key != nil {
				sv.defining[x.Key] = true
			}
			if x.Value != nil {
				sv.defining[x.Value] = true
			}
		case *ast.CommClause:
			if assign, ok := x.Comm.(*ast.AssignStmt); ok && len(assign.Lhs) > 0 {
				sv.defining[assign.Lhs[0]] = true
			}
		}
		return true
	})
	return sv
}

// DefinedVars returns the local variables written by the node of n.
func (sv *SourceVars) DefinedVars(n *StmtNode) []*types.Var {
	var vars []*types.Var
	add := func(e ast.Expr) {
		if id, ok := e.(*ast.Ident); ok {
			if v := sv.localVar(id, true); v != nil {
				vars = appendVar(vars, v)
			}
		}
	}
	switch x := n.Node.(type) {
	case *ast.AssignStmt:
		for _, lhs := range x.Lhs {
			add(lhs)
		}
	case *ast.IncDecStmt:
		add(x.X)
	case *ast.ValueSpec:
		for _, name := range x.Names {
			add(name)
		}
	case ast.Expr:
		if sv.defining[x] {
			add(x)
		}
	}
	return vars
}

// UsedVars returns the local variables read by the node of n, without duplicates.
func (sv *SourceVars) UsedVars(n *StmtNode) []*types.Var {
	var vars []*types.Var
	add := func(v *types.Var) { vars = appendVar(vars, v) }
	switch x := n.Node.(type) {
	case nil:
		return nil
	case *ast.AssignStmt:
		for _, lhs := range x.Lhs {
			if _, isIdent := lhs.(*ast.Ident); !isIdent || (x.Tok != token.ASSIGN && x.Tok != token.DEFINE) {
				sv.collectUses(lhs, add)
			}
		}
		for _, rhs := range x.Rhs {
			sv.collectUses(rhs, add)
		}
	case *ast.ValueSpec:
		for _, value := range x.Values {
			sv.collectUses(value, add)
		}
	case *ast.ReturnStmt:
		sv.collectUses(x, add)
		for _, r := range sv.results {
			add(r)
		}
	case ast.Expr:
		if _, isIdent := x.(*ast.Ident); isIdent && sv.defining[x] {
			return nil
		}
		sv.collectUses(x, add)
	default:
		sv.collectUses(x, add)
	}
	return vars
}

// collectUses calls add on every local variable read in root, except the variables declared inside function
// literals of root.
func (sv *SourceVars) collectUses(root ast.Node, add func(*types.Var)) {
	var stack []ast.Node
	ast.Inspect(root, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		stack = append(stack, n)
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		v := sv.localVar(id, false)
		if v == nil {
			return true
		}
		for _, p := range stack {
			if lit, isLit := p.(*ast.FuncLit); isLit && lit.Pos() <= v.Pos() && v.Pos() < lit.End() {
				return true
			}
		}
		add(v)
		return true
	})
}

// localVar returns the local variable id refers to, or nil. Definitions are looked up only if def is true.
func (sv *SourceVars) localVar(id *ast.Ident, def bool) *types.Var {
	if id.Name == "_" {
		return nil
	}
	obj := sv.info.Uses[id]
	if def && obj == nil {
		obj = sv.info.Defs[id]
	}
	v, ok := obj.(*types.Var)
	if !ok || v.IsField() || v.Pkg() == nil || v.Parent() == v.Pkg().Scope() {
		return nil
	}
	return v
}

func appendVar(vars []*types.Var, v *types.Var) []*types.Var {
	for _, x := range vars {
		if x == v {
			return vars
		}
	}
	return append(vars, v)
}
