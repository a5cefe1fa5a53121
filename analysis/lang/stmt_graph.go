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
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/cfg"
)

// StmtNode is a node of a StmtGraph: a statement, an expression or a value spec as placed in the blocks of a
// go/cfg control-flow graph, or the synthetic entry or exit of the function.
type StmtNode struct {
	// Node is nil for the entry and the exit
	Node ast.Node
	// Block is the index of the cfg block of the node, -1 for the entry and the exit
	Block int32
	label string
}

func (n *StmtNode) String() string {
	if n.Node == nil {
		return n.label
	}
	return NodeString(n.Node)
}

// Pos returns the position of the node, token.NoPos for the entry and the exit.
func (n *StmtNode) Pos() token.Pos {
	if n.Node == nil {
		return token.NoPos
	}
	return n.Node.Pos()
}

// StmtGraph is the statement-level control-flow graph of a function body, built from the block graph of
// golang.org/x/tools/go/cfg. Nodes of a block are chained in order, empty blocks are bypassed and blocks that are not
// live are dropped. The last node of a block without successors flows to the exit.
// StmtGraph implements dataflow.Graph[*StmtNode].
type StmtGraph struct {
	CFG   *cfg.CFG
	entry *StmtNode
	exit  *StmtNode
	nodes []*StmtNode
	succs map[*StmtNode][]*StmtNode
	preds map[*StmtNode][]*StmtNode
	vars  *SourceVars
}

// NewStmtGraph returns the statement graph of body. The info must have its Defs and Uses populated.
func NewStmtGraph(body *ast.BlockStmt, info *types.Info) *StmtGraph {
	return NewFuncStmtGraph(nil, body, info)
}

// NewFuncStmtGraph returns the statement graph of a function with type typ and body. The named results of typ, if
// any, are read by every return statement. typ can be nil.
func NewFuncStmtGraph(typ *ast.FuncType, body *ast.BlockStmt, info *types.Info) *StmtGraph {
	g := &StmtGraph{
		CFG:   cfg.New(body, mayReturn(info)),
		entry: &StmtNode{label: "entry", Block: -1},
		exit:  &StmtNode{label: "exit", Block: -1},
		succs: map[*StmtNode][]*StmtNode{},
		preds: map[*StmtNode][]*StmtNode{},
		vars:  newSourceVars(typ, body, info),
	}
	g.nodes = append(g.nodes, g.entry, g.exit)

	first := make(map[*cfg.Block]*StmtNode, len(g.CFG.Blocks))
	last := make(map[*cfg.Block]*StmtNode, len(g.CFG.Blocks))
	for _, b := range g.CFG.Blocks {
		if !b.Live {
			continue
		}
		var prev *StmtNode
		for _, n := range b.Nodes {
			node := &StmtNode{Node: n, Block: b.Index}
			g.nodes = append(g.nodes, node)
			if prev == nil {
				first[b] = node
			} else {
				g.addEdge(prev, node)
			}
			prev = node
		}
		last[b] = prev
	}

	if len(g.CFG.Blocks) > 0 {
		for _, s := range g.firstNodes(g.CFG.Blocks[0], first) {
			g.addEdge(g.entry, s)
		}
	}
	for _, b := range g.CFG.Blocks {
		if !b.Live || last[b] == nil {
			continue
		}
		if len(b.Succs) == 0 {
			g.addEdge(last[b], g.exit)
			continue
		}
		for _, sb := range b.Succs {
			for _, s := range g.firstNodes(sb, first) {
				g.addEdge(last[b], s)
			}
		}
	}
	return g
}

// firstNodes returns the first nodes reached when control enters b: the first node of b if b is not empty, and
// otherwise the first nodes of its successors, or the exit when an empty block has no successor.
func (g *StmtGraph) firstNodes(b *cfg.Block, first map[*cfg.Block]*StmtNode) []*StmtNode {
	var res []*StmtNode
	visited := map[*cfg.Block]bool{}
	stack := []*cfg.Block{b}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if n, ok := first[cur]; ok {
			res = append(res, n)
			continue
		}
		if len(cur.Succs) == 0 {
			res = append(res, g.exit)
			continue
		}
		// pushed in reverse to visit successors in order
		for i := len(cur.Succs) - 1; i >= 0; i-- {
			stack = append(stack, cur.Succs[i])
		}
	}
	return res
}

func (g *StmtGraph) addEdge(from *StmtNode, to *StmtNode) {
	for _, s := range g.succs[from] {
		if s == to {
			return
		}
	}
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// Entry returns the synthetic entry node.
func (g *StmtGraph) Entry() *StmtNode { return g.entry }

// Exit returns the synthetic exit node.
func (g *StmtGraph) Exit() *StmtNode { return g.exit }

// Nodes returns the entry, the exit and then the nodes of the live blocks in block order.
func (g *StmtGraph) Nodes() []*StmtNode { return g.nodes }

// Succs returns the successors of n.
func (g *StmtGraph) Succs(n *StmtNode) []*StmtNode { return g.succs[n] }

// Preds returns the predecessors of n.
func (g *StmtGraph) Preds(n *StmtNode) []*StmtNode { return g.preds[n] }

// Vars returns the variable accessor of the graph.
func (g *StmtGraph) Vars() *SourceVars { return g.vars }

// mayReturn reports calls to the panic builtin and to os.Exit as never returning.
func mayReturn(info *types.Info) func(*ast.CallExpr) bool {
	return func(call *ast.CallExpr) bool {
		switch fun := astutil.Unparen(call.Fun).(type) {
		case *ast.Ident:
			_, isBuiltin := info.Uses[fun].(*types.Builtin)
			return !(isBuiltin && fun.Name == "panic")
		case *ast.SelectorExpr:
			f, ok := info.Uses[fun.Sel].(*types.Func)
			return !(ok && f.Pkg() != nil && f.Pkg().Path() == "os" && f.Name() == "Exit")
		}
		return true
	}
}

// NodeString prints n on a single line.
func NodeString(n ast.Node) string {
	var b bytes.Buffer
	if err := printer.Fprint(&b, token.NewFileSet(), n); err != nil {
		return "<" + err.Error() + ">"
	}
	lines := strings.Split(b.String(), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, " ")
}
