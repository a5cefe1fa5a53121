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
	"fmt"

	"golang.org/x/tools/go/ssa"
)

// InstrNode is a node of an InstrGraph: an SSA instruction, or the synthetic entry or exit of the function.
type InstrNode struct {
	// Instr is nil for the entry and the exit
	Instr ssa.Instruction
	label string
}

func (n *InstrNode) String() string {
	if n.Instr == nil {
		return n.label
	}
	return InstrString(n.Instr)
}

// InstrGraph is the instruction-level control-flow graph of an SSA function. Instructions of a block are chained
// in order, the last instruction of a block flows to the first instruction of each successor block, and the last
// instruction of a block without successors flows to the exit. The recover block, if any, is a successor of the
// entry.
// InstrGraph implements dataflow.Graph[*InstrNode].
type InstrGraph struct {
	Function *ssa.Function
	entry    *InstrNode
	exit     *InstrNode
	nodes    []*InstrNode
	byInstr  map[ssa.Instruction]*InstrNode
	succs    map[*InstrNode][]*InstrNode
	preds    map[*InstrNode][]*InstrNode
}

// NewInstrGraph returns the instruction graph of f. It fails for external functions, which have no body.
func NewInstrGraph(f *ssa.Function) (*InstrGraph, error) {
	if IsExternal(f) {
		return nil, fmt.Errorf("function %s has no body", f.Name())
	}
	g := &InstrGraph{
		Function: f,
		entry:    &InstrNode{label: "entry"},
		exit:     &InstrNode{label: "exit"},
		byInstr:  map[ssa.Instruction]*InstrNode{},
		succs:    map[*InstrNode][]*InstrNode{},
		preds:    map[*InstrNode][]*InstrNode{},
	}
	g.nodes = append(g.nodes, g.entry, g.exit)
	IterateInstructions(f, func(_ int, instr ssa.Instruction) {
		n := &InstrNode{Instr: instr}
		g.byInstr[instr] = n
		g.nodes = append(g.nodes, n)
	})

	g.addEdge(g.entry, g.byInstr[FirstInstr(f.Blocks[0])])
	if f.Recover != nil && f.Recover != f.Blocks[0] {
		g.addEdge(g.entry, g.byInstr[FirstInstr(f.Recover)])
	}
	for _, b := range f.Blocks {
		for i := 0; i+1 < len(b.Instrs); i++ {
			g.addEdge(g.byInstr[b.Instrs[i]], g.byInstr[b.Instrs[i+1]])
		}
		last := g.byInstr[LastInstr(b)]
		if last == nil {
			continue
		}
		if len(b.Succs) == 0 {
			g.addEdge(last, g.exit)
		}
		for _, s := range b.Succs {
			if first := g.byInstr[FirstInstr(s)]; first != nil {
				g.addEdge(last, first)
			}
		}
	}
	return g, nil
}

func (g *InstrGraph) addEdge(from *InstrNode, to *InstrNode) {
	if from == nil || to == nil {
		return
	}
	for _, s := range g.succs[from] {
		if s == to {
			return
		}
	}
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// Entry returns the synthetic entry node.
func (g *InstrGraph) Entry() *InstrNode { return g.entry }

// Exit returns the synthetic exit node.
func (g *InstrGraph) Exit() *InstrNode { return g.exit }

// Nodes returns the entry, the exit and then the instructions in block order.
func (g *InstrGraph) Nodes() []*InstrNode { return g.nodes }

// Succs returns the successors of n.
func (g *InstrGraph) Succs(n *InstrNode) []*InstrNode { return g.succs[n] }

// Preds returns the predecessors of n.
func (g *InstrGraph) Preds(n *InstrNode) []*InstrNode { return g.preds[n] }

// Node returns the node of instr, or nil if instr is not an instruction of the function.
func (g *InstrGraph) Node(instr ssa.Instruction) *InstrNode { return g.byInstr[instr] }

// SSAVars gives access to the SSA values defined and used by the nodes of an InstrGraph.
// A value instruction defines its own register. The values used by an instruction are its operands that are
// parameters, free variables or registers: constants, globals, functions and builtins are not variables. Stores
// and other non-value instructions define nothing, so they never kill a variable.
// The value flowing into a phi from a predecessor block is used by the last instruction of that block, not by the
// phi.
type SSAVars struct{}

// DefinedVars returns the register defined by the instruction of n, if any.
func (SSAVars) DefinedVars(n *InstrNode) []ssa.Value {
	if v, ok := n.Instr.(ssa.Value); ok {
		return []ssa.Value{v}
	}
	return nil
}

// UsedVars returns the variables read by the instruction of n, without duplicates.
func (SSAVars) UsedVars(n *InstrNode) []ssa.Value {
	if n.Instr == nil {
		return nil
	}
	var vars []ssa.Value
	add := func(v ssa.Value) {
		if v == nil || !IsVariable(v) {
			return
		}
		for _, x := range vars {
			if x == v {
				return
			}
		}
		vars = append(vars, v)
	}
	if _, isPhi := n.Instr.(*ssa.Phi); !isPhi {
		for _, op := range n.Instr.Operands(nil) {
			if op != nil {
				add(*op)
			}
		}
	}
	b := n.Instr.Block()
	if b == nil || LastInstr(b) != n.Instr {
		return vars
	}
	for _, succ := range b.Succs {
		for i, pred := range succ.Preds {
			if pred != b {
				continue
			}
			for _, instr := range succ.Instrs {
				phi, ok := instr.(*ssa.Phi)
				if !ok {
					break
				}
				add(phi.Edges[i])
			}
		}
	}
	return vars
}

// IsVariable returns true if v is a parameter, a free variable or a register.
func IsVariable(v ssa.Value) bool {
	switch v.(type) {
	case *ssa.Parameter, *ssa.FreeVar:
		return true
	case *ssa.Const, *ssa.Global, *ssa.Function, *ssa.Builtin:
		return false
	default:
		_, isInstr := v.(ssa.Instruction)
		return isInstr
	}
}
