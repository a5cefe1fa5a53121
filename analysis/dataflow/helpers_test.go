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

package dataflow_test

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	. "github.com/awslabs/argot-dataflow/analysis/dataflow"
	"github.com/awslabs/argot-dataflow/analysis/ir"
)

type liveResult = Result[ir.Stmt, *SetFact[*ir.Var]]

// solveLiveness runs the live-variable analysis on g with every check enabled.
func solveLiveness(t *testing.T, g *ir.Graph) *liveResult {
	t.Helper()
	res, err := LiveVariables[ir.Stmt, *ir.Var](g, ir.Vars{},
		SolverOptions{CheckMonotone: true, ValidateGraph: true})
	if err != nil {
		t.Fatalf("liveness failed: %v", err)
	}
	return res
}

// names returns the sorted, comma-separated names of the variables in f.
func names(f *SetFact[*ir.Var]) string {
	var s []string
	for _, v := range f.Elements() {
		s = append(s, v.Name)
	}
	sort.Strings(s)
	return strings.Join(s, ",")
}

func expectFact(t *testing.T, side string, s ir.Stmt, f *SetFact[*ir.Var], expected string) {
	t.Helper()
	if got := names(f); got != expected {
		t.Errorf("%s[%s] = {%s}, expected {%s}", side, s, got, expected)
	}
}

func call(method string, args ...ir.Operand) *ir.Invoke {
	return &ir.Invoke{Call: &ir.Call{Method: method, Args: args}}
}

func add(x ir.Operand, y ir.Operand) *ir.BinaryExp {
	return &ir.BinaryExp{Op: "+", X: x, Y: y}
}

func constant(v int) ir.Const {
	return ir.Const{Value: fmt.Sprintf("%d", v)}
}

// randomGraph returns a graph with n statements over numVars variables. Every statement is reachable from the entry
// and reaches the exit; extra forward and backward edges create branches and loops.
func randomGraph(r *rand.Rand, n int, numVars int) *ir.Graph {
	vars := make([]*ir.Var, numVars)
	for i := range vars {
		vars[i] = ir.NewVar(fmt.Sprintf("v%d", i))
	}
	pick := func() *ir.Var { return vars[r.Intn(numVars)] }

	stmts := make([]ir.Stmt, n)
	for i := range stmts {
		switch r.Intn(6) {
		case 0:
			stmts[i] = ir.NewAssign(pick(), constant(i))
		case 1:
			stmts[i] = ir.NewAssign(pick(), pick())
		case 2:
			stmts[i] = ir.NewAssign(pick(), add(pick(), pick()))
		case 3:
			stmts[i] = &ir.If{Cond: pick()}
		case 4:
			stmts[i] = call("f", pick(), constant(i))
		default:
			stmts[i] = ir.NewAssign(&ir.FieldAccess{Base: pick(), Field: "f"}, pick())
		}
	}

	g := ir.NewGraph()
	g.AddEdge(g.Entry(), stmts[0])
	for i := 0; i+1 < n; i++ {
		g.AddEdge(stmts[i], stmts[i+1])
	}
	g.AddEdge(stmts[n-1], g.Exit())
	for i := 0; i < n/2; i++ {
		g.AddEdge(stmts[r.Intn(n)], stmts[r.Intn(n)])
	}
	for i := 0; i < n/8; i++ {
		g.AddEdge(stmts[r.Intn(n)], g.Exit())
	}
	return g
}

func numEdges(g *ir.Graph) int {
	e := 0
	for _, n := range g.Nodes() {
		e += len(g.Succs(n))
	}
	return e
}
