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
	"fmt"

	"github.com/yourbasic/graph"
)

// Stats summarizes the shape of a control-flow graph.
type Stats struct {
	// Nodes is the number of nodes
	Nodes int

	// Edges is the number of edges
	Edges int

	// SelfLoops is the number of edges x -> x
	SelfLoops int

	// MultiEdges is the number of duplicate edges
	MultiEdges int

	// Sinks is the number of nodes without successors
	Sinks int

	// Acyclic is true when the graph has no cycle
	Acyclic bool

	// CyclicComponents is the number of strongly connected components that contain a cycle (the loops of the
	// procedure)
	CyclicComponents int
}

// ComputeStats returns the statistics of the graph given by nodes and succs.
func ComputeStats[T comparable](nodes []T, succs func(T) []T) Stats {
	g := NewIndexedGraph(nodes, succs)
	check := graph.Check(g)
	st := Stats{
		Nodes:      g.Order(),
		Edges:      check.Size,
		SelfLoops:  check.Loops,
		MultiEdges: check.Multi,
		Acyclic:    graph.Acyclic(g),
	}
	for _, out := range g.succs {
		if len(out) == 0 {
			st.Sinks++
		}
	}
	ids := make([]int64, len(nodes))
	for i := range ids {
		ids[i] = int64(i)
	}
	for _, scc := range StronglyConnectedComponents(ids, func(id int64) []int64 { return g.succs[id] }) {
		if len(scc) > 1 || g.HasEdgeFromTo(scc[0], scc[0]) {
			st.CyclicComponents++
		}
	}
	return st
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges, %d loop(s), acyclic: %t", s.Nodes, s.Edges, s.CyclicComponents, s.Acyclic)
}
