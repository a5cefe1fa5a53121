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
	"math/rand"
	"testing"

	. "github.com/awslabs/argot-dataflow/analysis/dataflow"
	"github.com/awslabs/argot-dataflow/analysis/ir"
)

func TestLiveAtExitBoundary(t *testing.T) {
	y := ir.NewVar("y")
	s := &ir.Return{Value: y}
	g := ir.Straight(s)
	res := solveLiveness(t, g)

	expectFact(t, "IN", g.Exit(), res.In(g.Exit()), "")
	expectFact(t, "OUT", g.Exit(), res.Out(g.Exit()), "")
	expectFact(t, "IN", s, res.In(s), "y")
	expectFact(t, "OUT", s, res.Out(s), "")
}

func TestLiveStraightLine(t *testing.T) {
	a, b, c := ir.NewVar("a"), ir.NewVar("b"), ir.NewVar("c")
	s1 := ir.NewAssign(a, constant(1))
	s2 := ir.NewAssign(b, add(a, c))
	s3 := &ir.Return{Value: b}
	g := ir.Straight(s1, s2, s3)
	res := solveLiveness(t, g)

	expectFact(t, "IN", s3, res.In(s3), "b")
	expectFact(t, "OUT", s3, res.Out(s3), "")
	expectFact(t, "IN", s2, res.In(s2), "a,c")
	expectFact(t, "OUT", s2, res.Out(s2), "b")
	expectFact(t, "IN", s1, res.In(s1), "c")
	expectFact(t, "OUT", s1, res.Out(s1), "a,c")
	expectFact(t, "IN", g.Entry(), res.In(g.Entry()), "c")
}

func TestLiveBranchMerge(t *testing.T) {
	p, q := ir.NewVar("p"), ir.NewVar("q")
	s1 := &ir.If{Cond: ir.Const{Value: "true"}}
	s2 := call("print", p)
	s3 := call("print", q)
	s4 := &ir.Return{}
	g := ir.NewGraph()
	g.Chain(g.Entry(), s1, s2, s4, g.Exit())
	g.Chain(s1, s3, s4)
	res := solveLiveness(t, g)

	expectFact(t, "OUT", s1, res.Out(s1), "p,q")
	expectFact(t, "IN", s1, res.In(s1), "p,q")
	expectFact(t, "IN", s2, res.In(s2), "p")
	expectFact(t, "IN", s3, res.In(s3), "q")
	expectFact(t, "IN", s4, res.In(s4), "")
}

func TestLiveSelfAssignment(t *testing.T) {
	x := ir.NewVar("x")

	// x live after x = x
	s := ir.NewAssign(x, x)
	r := &ir.Return{Value: x}
	g := ir.Straight(s, r)
	res := solveLiveness(t, g)
	expectFact(t, "OUT", s, res.Out(s), "x")
	expectFact(t, "IN", s, res.In(s), "x")

	// x dead after x = x: the statement still reads x
	s = ir.NewAssign(x, x)
	r = &ir.Return{}
	g = ir.Straight(s, r)
	res = solveLiveness(t, g)
	expectFact(t, "OUT", s, res.Out(s), "")
	expectFact(t, "IN", s, res.In(s), "x")
}

func TestLiveRedefinitionWithUse(t *testing.T) {
	x := ir.NewVar("x")
	s := ir.NewAssign(x, &ir.Call{Method: "f", Args: []ir.Operand{x}})
	g := ir.Straight(ir.NewAssign(x, constant(0)), s, &ir.Return{})
	res := solveLiveness(t, g)
	expectFact(t, "IN", s, res.In(s), "x")
	expectFact(t, "OUT", s, res.Out(s), "")
	expectFact(t, "IN", g.Entry(), res.In(g.Entry()), "")
}

func TestLiveLoop(t *testing.T) {
	i, n, s := ir.NewVar("i"), ir.NewVar("n"), ir.NewVar("s")
	s1 := ir.NewAssign(i, constant(0))
	s2 := &ir.If{Cond: &ir.BinaryExp{Op: "<", X: i, Y: n}}
	s3 := ir.NewAssign(s, add(s, i))
	s4 := ir.NewAssign(i, add(i, constant(1)))
	s5 := &ir.Return{Value: s}
	g := ir.NewGraph()
	g.Chain(g.Entry(), s1, s2, s3, s4, s2)
	g.Chain(s2, s5, g.Exit())
	res := solveLiveness(t, g)

	expectFact(t, "IN", g.Entry(), res.In(g.Entry()), "n,s")
	expectFact(t, "IN", s1, res.In(s1), "n,s")
	expectFact(t, "IN", s2, res.In(s2), "i,n,s")
	expectFact(t, "OUT", s2, res.Out(s2), "i,n,s")
	expectFact(t, "IN", s3, res.In(s3), "i,n,s")
	expectFact(t, "OUT", s4, res.Out(s4), "i,n,s")
	expectFact(t, "IN", s5, res.In(s5), "s")
}

func TestLiveFieldAndArrayWritesDoNotKill(t *testing.T) {
	a, b, i := ir.NewVar("a"), ir.NewVar("b"), ir.NewVar("i")
	s1 := ir.NewAssign(&ir.FieldAccess{Base: a, Field: "f"}, b)
	s2 := ir.NewAssign(&ir.ArrayAccess{Base: b, Index: i}, constant(3))
	s3 := ir.NewAssign(&ir.StaticField{Class: "C", Field: "g"}, a)
	s4 := &ir.Return{Value: &ir.FieldAccess{Base: a, Field: "f"}}
	g := ir.Straight(s1, s2, s3, s4)
	res := solveLiveness(t, g)

	expectFact(t, "IN", s4, res.In(s4), "a")
	expectFact(t, "IN", s3, res.In(s3), "a")
	expectFact(t, "IN", s2, res.In(s2), "a,b,i")
	expectFact(t, "IN", s1, res.In(s1), "a,b,i")
}

func TestTransferDoesNotMutateOut(t *testing.T) {
	x, y := ir.NewVar("x"), ir.NewVar("y")
	a := NewLiveVariableAnalysis[ir.Stmt, *ir.Var](ir.Vars{})
	s := ir.NewAssign(x, y)
	in := NewSetFact[*ir.Var]()
	out := NewSetFact(x)

	if !a.TransferNode(s, in, out) {
		t.Errorf("expected a change")
	}
	if names(out) != "x" {
		t.Errorf("transfer modified OUT: {%s}", names(out))
	}
	if names(in) != "y" {
		t.Errorf("IN = {%s}, expected {y}", names(in))
	}
	if a.TransferNode(s, in, out) {
		t.Errorf("second transfer reported a change")
	}
	// facts are distinct objects
	in.Add(x)
	if out.Size() != 1 {
		t.Errorf("IN and OUT share storage")
	}
}

// growthChecker fails the test if a fact of a node ever shrinks between two evaluations.
type growthChecker struct {
	*LiveVariableAnalysis[ir.Stmt, *ir.Var]
	t   *testing.T
	in  map[ir.Stmt]*SetFact[*ir.Var]
	out map[ir.Stmt]*SetFact[*ir.Var]
}

func (c *growthChecker) TransferNode(n ir.Stmt, in *SetFact[*ir.Var], out *SetFact[*ir.Var]) bool {
	changed := c.LiveVariableAnalysis.TransferNode(n, in, out)
	if prev, ok := c.in[n]; ok && !prev.IsSubsetOf(in) {
		c.t.Errorf("IN[%s] shrank from %s to %s", n, prev, in)
	}
	if prev, ok := c.out[n]; ok && !prev.IsSubsetOf(out) {
		c.t.Errorf("OUT[%s] shrank from %s to %s", n, prev, out)
	}
	c.in[n] = in.Copy()
	c.out[n] = out.Copy()
	return changed
}

func TestLiveFactsOnlyGrow(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for k := 0; k < 50; k++ {
		g := randomGraph(r, 5+r.Intn(60), 1+r.Intn(12))
		checker := &growthChecker{
			LiveVariableAnalysis: NewLiveVariableAnalysis[ir.Stmt, *ir.Var](ir.Vars{}),
			t:                    t,
			in:                   map[ir.Stmt]*SetFact[*ir.Var]{},
			out:                  map[ir.Stmt]*SetFact[*ir.Var]{},
		}
		if _, err := NewSolver[ir.Stmt, *SetFact[*ir.Var]](checker, SolverOptions{}).Solve(g); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestLiveEvaluationBound(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for k := 0; k < 50; k++ {
		numVars := 1 + r.Intn(16)
		g := randomGraph(r, 5+r.Intn(100), numVars)
		res := solveLiveness(t, g)
		bound := len(g.Nodes()) + numVars*numEdges(g)
		if res.Evaluations > bound {
			t.Errorf("%d evaluations for %d nodes, %d edges and %d variables",
				res.Evaluations, len(g.Nodes()), numEdges(g), numVars)
		}
	}
}

func TestLiveResultIsFixedPoint(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	a := NewLiveVariableAnalysis[ir.Stmt, *ir.Var](ir.Vars{})
	for k := 0; k < 50; k++ {
		g := randomGraph(r, 5+r.Intn(60), 1+r.Intn(12))
		res, err := NewSolver[ir.Stmt, *SetFact[*ir.Var]](a, SolverOptions{CheckMonotone: true}).Solve(g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if changed := res.Recheck(g, a); len(changed) > 0 {
			t.Fatalf("facts of %d node(s) are not stable, first is %s", len(changed), changed[0])
		}
		for _, n := range g.Nodes() {
			if n != g.Exit() && n != g.Entry() && res.In(n) == res.Out(n) {
				t.Fatalf("IN and OUT of %s are the same object", n)
			}
		}
	}
}

func TestRecheckDetectsStaleFacts(t *testing.T) {
	x, z := ir.NewVar("x"), ir.NewVar("z")
	s1 := ir.NewAssign(x, constant(1))
	s2 := &ir.Return{Value: x}
	g := ir.Straight(s1, s2)
	a := NewLiveVariableAnalysis[ir.Stmt, *ir.Var](ir.Vars{})
	res, err := Solve[ir.Stmt, *SetFact[*ir.Var]](g, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res.In(s2).Add(z)
	changed := res.Recheck(g, a)
	found := map[ir.Stmt]bool{}
	for _, n := range changed {
		found[n] = true
	}
	if !found[s2] || !found[s1] || len(changed) != 2 {
		t.Errorf("expected %s and %s to be unstable, got %v", s1, s2, changed)
	}
}

func TestDenseMatchesSetLiveness(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	for k := 0; k < 50; k++ {
		g := randomGraph(r, 5+r.Intn(80), 1+r.Intn(70))
		sets := solveLiveness(t, g)
		dense := NewDenseLiveVariableAnalysis[ir.Stmt, *ir.Var](g, ir.Vars{})
		bits, err := NewSolver[ir.Stmt, *BitFact](dense,
			SolverOptions{CheckMonotone: true, ValidateGraph: true}).Solve(g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, n := range g.Nodes() {
			in := Decode(dense.Index(), bits.In(n))
			out := Decode(dense.Index(), bits.Out(n))
			if !in.Equals(sets.In(n)) || !out.Equals(sets.Out(n)) {
				t.Fatalf("%s: dense IN=%s OUT=%s, sets IN=%s OUT=%s",
					n, in, out, sets.In(n), sets.Out(n))
			}
		}
	}
}
