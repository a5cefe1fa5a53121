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

// Package graphutil contains graph algorithms over control-flow graphs given as a list of nodes and a successor
// function: traversal orders, reachability checks and statistics. It adapts such graphs to the gonum and yourbasic
// graph libraries.
package graphutil

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
)

// IndexedGraph is a directed graph whose nodes are numbered by their position in the slice it was built from.
// It implements gonum's graph.Directed and yourbasic's graph.Iterator.
type IndexedGraph[T comparable] struct {
	values []T
	ids    map[T]int64
	succs  [][]int64
	preds  [][]int64
}

// NewIndexedGraph returns the graph with the nodes provided and an edge x -> y for every y in succs(x).
// Successors that are not in nodes are ignored.
func NewIndexedGraph[T comparable](nodes []T, succs func(T) []T) *IndexedGraph[T] {
	g := &IndexedGraph[T]{
		values: nodes,
		ids:    make(map[T]int64, len(nodes)),
		succs:  make([][]int64, len(nodes)),
		preds:  make([][]int64, len(nodes)),
	}
	for i, n := range nodes {
		g.ids[n] = int64(i)
	}
	for i, n := range nodes {
		for _, s := range succs(n) {
			if j, ok := g.ids[s]; ok {
				g.succs[i] = append(g.succs[i], j)
				g.preds[j] = append(g.preds[j], int64(i))
			}
		}
	}
	return g
}

// Reverse returns the graph with every edge reversed. The two graphs share their storage.
func (g *IndexedGraph[T]) Reverse() *IndexedGraph[T] {
	return &IndexedGraph[T]{values: g.values, ids: g.ids, succs: g.preds, preds: g.succs}
}

// ID returns the id of n, and false if n is not in the graph.
func (g *IndexedGraph[T]) ID(n T) (int64, bool) {
	id, ok := g.ids[n]
	return id, ok
}

// Value returns the node with the given id.
func (g *IndexedGraph[T]) Value(id int64) T {
	return g.values[id]
}

func (g *IndexedGraph[T]) has(id int64) bool {
	return id >= 0 && id < int64(len(g.values))
}

// *************** gonum graph.Directed implementation **********************

// Node wraps a node of an IndexedGraph and implements gonum's graph.Node
type Node[T comparable] struct {
	id    int64
	Value T
}

// ID returns the index of the node in its graph
func (n Node[T]) ID() int64 {
	return n.id
}

// Node returns the node with the given id, or nil
func (g *IndexedGraph[T]) Node(id int64) graph.Node {
	if !g.has(id) {
		return nil
	}
	return Node[T]{id: id, Value: g.values[id]}
}

// Nodes returns all the nodes of the graph
func (g *IndexedGraph[T]) Nodes() graph.Nodes {
	return g.nodeList(nil, true)
}

// From returns the successors of the node with id
func (g *IndexedGraph[T]) From(id int64) graph.Nodes {
	if !g.has(id) {
		return graph.Empty
	}
	return g.nodeList(g.succs[id], false)
}

// To returns the predecessors of the node with id
func (g *IndexedGraph[T]) To(id int64) graph.Nodes {
	if !g.has(id) {
		return graph.Empty
	}
	return g.nodeList(g.preds[id], false)
}

// HasEdgeFromTo returns whether there is an edge u -> v
func (g *IndexedGraph[T]) HasEdgeFromTo(uid, vid int64) bool {
	if !g.has(uid) {
		return false
	}
	for _, w := range g.succs[uid] {
		if w == vid {
			return true
		}
	}
	return false
}

// HasEdgeBetween returns whether there is an edge between x and y in either direction
func (g *IndexedGraph[T]) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

// Edge returns the edge u -> v, or nil if there is none
func (g *IndexedGraph[T]) Edge(uid, vid int64) graph.Edge {
	if !g.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return simple.Edge{F: g.Node(uid), T: g.Node(vid)}
}

func (g *IndexedGraph[T]) nodeList(ids []int64, all bool) graph.Nodes {
	var nodes []graph.Node
	if all {
		nodes = make([]graph.Node, len(g.values))
		for i := range g.values {
			nodes[i] = g.Node(int64(i))
		}
	} else {
		nodes = make([]graph.Node, len(ids))
		for i, id := range ids {
			nodes[i] = g.Node(id)
		}
	}
	return iterator.NewOrderedNodes(nodes)
}

// *************** yourbasic graph.Iterator implementation **********************

// Order returns the number of nodes
func (g *IndexedGraph[T]) Order() int {
	return len(g.values)
}

// Visit calls do for each successor w of v, and stops when do returns true
func (g *IndexedGraph[T]) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if !g.has(int64(v)) {
		return false
	}
	for _, w := range g.succs[v] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}
