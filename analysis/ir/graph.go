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
	"fmt"
	"strings"

	"github.com/awslabs/argot-dataflow/internal/funcutil"
)

// Graph is a control-flow graph of statements with a unique entry and a unique exit, both Nop statements created
// with the graph. Graph implements dataflow.Graph[Stmt].
type Graph struct {
	entry *Nop
	exit  *Nop
	nodes []Stmt
	succs map[Stmt][]Stmt
	preds map[Stmt][]Stmt
}

// NewGraph returns a graph containing only its entry and exit.
func NewGraph() *Graph {
	g := &Graph{
		entry: &Nop{Label: "entry"},
		exit:  &Nop{Label: "exit"},
		succs: map[Stmt][]Stmt{},
		preds: map[Stmt][]Stmt{},
	}
	g.Add(g.entry, g.exit)
	return g
}

// Entry returns the entry node.
func (g *Graph) Entry() Stmt { return g.entry }

// Exit returns the exit node.
func (g *Graph) Exit() Stmt { return g.exit }

// Nodes returns all the statements of the graph in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []Stmt { return g.nodes }

// Succs returns the successors of s.
func (g *Graph) Succs(s Stmt) []Stmt { return g.succs[s] }

// Preds returns the predecessors of s.
func (g *Graph) Preds(s Stmt) []Stmt { return g.preds[s] }

// Contains returns true if s is a node of the graph.
func (g *Graph) Contains(s Stmt) bool {
	_, ok := g.succs[s]
	return ok
}

// Add adds the statements to the graph. Statements already in the graph are ignored.
func (g *Graph) Add(stmts ...Stmt) {
	for _, s := range stmts {
		if !g.Contains(s) {
			g.nodes = append(g.nodes, s)
			g.succs[s] = nil
			g.preds[s] = nil
		}
	}
}

// AddEdge adds an edge from -> to, adding the statements to the graph if needed. Duplicate edges are ignored.
func (g *Graph) AddEdge(from Stmt, to Stmt) {
	g.Add(from, to)
	if funcutil.Contains(g.succs[from], to) {
		return
	}
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// Chain adds an edge between each consecutive pair of statements.
func (g *Graph) Chain(stmts ...Stmt) {
	g.Add(stmts...)
	for i := 0; i+1 < len(stmts); i++ {
		g.AddEdge(stmts[i], stmts[i+1])
	}
}

// Straight returns a graph entry -> stmts[0] -> ... -> stmts[n-1] -> exit.
func Straight(stmts ...Stmt) *Graph {
	g := NewGraph()
	chain := append([]Stmt{g.entry}, stmts...)
	g.Chain(append(chain, g.exit)...)
	return g
}

// Validate checks the structural invariants the graph builder cannot enforce: the entry has no predecessor and the
// exit has no successor.
func (g *Graph) Validate() error {
	if len(g.preds[g.entry]) > 0 {
		return fmt.Errorf("entry has %d predecessor(s)", len(g.preds[g.entry]))
	}
	if len(g.succs[g.exit]) > 0 {
		return fmt.Errorf("exit has %d successor(s)", len(g.succs[g.exit]))
	}
	return nil
}

// String prints one line per statement with its successors.
func (g *Graph) String() string {
	ids := make(map[Stmt]int, len(g.nodes))
	for i, s := range g.nodes {
		ids[s] = i
	}
	var b strings.Builder
	for i, s := range g.nodes {
		succs := funcutil.Map(g.succs[s], func(x Stmt) string { return fmt.Sprintf("%d", ids[x]) })
		fmt.Fprintf(&b, "%d: %s -> [%s]\n", i, s, strings.Join(succs, ", "))
	}
	return b.String()
}
