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

package graphutil

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"
)

// CheckReachability returns the nodes that cannot be reached from entry, and the nodes from which exit cannot be
// reached. Both are empty for a well-formed control-flow graph.
func CheckReachability[T comparable](nodes []T, succs func(T) []T, entry T, exit T) (unreachable []T, stuck []T) {
	g := NewIndexedGraph(nodes, succs)
	fromEntry := g.ReachableFrom(entry)
	toExit := g.Reverse().ReachableFrom(exit)
	for i, n := range nodes {
		if !fromEntry[i] {
			unreachable = append(unreachable, n)
		}
		if !toExit[i] {
			stuck = append(stuck, n)
		}
	}
	return unreachable, stuck
}

// ReachableFrom returns a slice indexed by node ids where the i-th element is true when node i is reachable from
// n. If n is not in the graph, nothing is reachable.
func (g *IndexedGraph[T]) ReachableFrom(n T) []bool {
	reached := make([]bool, len(g.values))
	id, ok := g.ID(n)
	if !ok {
		return reached
	}
	bf := traverse.BreadthFirst{
		Visit: func(v graph.Node) { reached[v.ID()] = true },
	}
	bf.Walk(g, g.Node(id), nil)
	reached[id] = true
	return reached
}
