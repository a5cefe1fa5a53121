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
	"strings"
	"testing"
)

func TestStraight(t *testing.T) {
	x := NewVar("x")
	s1 := NewAssign(x, Const{Value: "1"})
	s2 := &Return{Value: x}
	g := Straight(s1, s2)

	if len(g.Nodes()) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(g.Nodes()))
	}
	if succs := g.Succs(g.Entry()); len(succs) != 1 || succs[0] != s1 {
		t.Errorf("entry successors: %v", succs)
	}
	if preds := g.Preds(g.Exit()); len(preds) != 1 || preds[0] != s2 {
		t.Errorf("exit predecessors: %v", preds)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAddEdgeDeduplicates(t *testing.T) {
	g := NewGraph()
	s := &Nop{Label: "s"}
	g.AddEdge(g.Entry(), s)
	g.AddEdge(g.Entry(), s)
	g.AddEdge(s, g.Exit())
	if len(g.Succs(g.Entry())) != 1 || len(g.Preds(s)) != 1 {
		t.Errorf("duplicate edge was added:\n%s", g)
	}
	if !g.Contains(s) || g.Contains(&Nop{Label: "s"}) {
		t.Errorf("Contains compares statements by identity")
	}
}

func TestValidate(t *testing.T) {
	g := NewGraph()
	s := &Nop{Label: "s"}
	g.Chain(g.Entry(), s, g.Exit())
	g.AddEdge(g.Exit(), s)
	if err := g.Validate(); err == nil || !strings.Contains(err.Error(), "exit") {
		t.Errorf("expected an error about the exit, got %v", err)
	}
	g = NewGraph()
	g.Chain(s, g.Entry(), g.Exit())
	if err := g.Validate(); err == nil || !strings.Contains(err.Error(), "entry") {
		t.Errorf("expected an error about the entry, got %v", err)
	}
}

func TestGraphString(t *testing.T) {
	x := NewVar("x")
	g := Straight(&Return{Value: x})
	expected := "0: entry -> [2]\n1: exit -> []\n2: return x -> [1]\n"
	if g.String() != expected {
		t.Errorf("got\n%s\nexpected\n%s", g, expected)
	}
}
