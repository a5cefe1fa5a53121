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
	"math/rand"
	"sort"
	"testing"
)

// intGraph is a graph given by the successors of each node
type intGraph map[int][]int

func succFunc(m intGraph) func(int) []int {
	return func(k int) []int { return m[k] }
}

// nodesOf returns the sorted nodes of m
func nodesOf(m intGraph) []int {
	ks := []int{}
	for k := range m {
		ks = append(ks, k)
	}
	sort.Ints(ks)
	return ks
}

// closure returns the reflexive transitive closure of m
func closure(m intGraph) map[int]map[int]bool {
	reach := map[int]map[int]bool{}
	for _, x := range nodesOf(m) {
		reach[x] = map[int]bool{x: true}
		todo := []int{x}
		for len(todo) > 0 {
			n := todo[len(todo)-1]
			todo = todo[:len(todo)-1]
			for _, s := range m[n] {
				if !reach[x][s] {
					reach[x][s] = true
					todo = append(todo, s)
				}
			}
		}
	}
	return reach
}

// checkComponents checks that sccs partitions the nodes of m into its maximal strongly connected components, in
// reverse topological order.
func checkComponents(m intGraph, sccs [][]int) error {
	reach := closure(m)
	component := map[int]int{}
	for i, scc := range sccs {
		if len(scc) == 0 {
			return fmt.Errorf("empty component %d", i)
		}
		for _, x := range scc {
			if _, ok := component[x]; ok {
				return fmt.Errorf("node %d is in two components", x)
			}
			component[x] = i
		}
	}
	for _, x := range nodesOf(m) {
		cx, ok := component[x]
		if !ok {
			return fmt.Errorf("node %d is in no component", x)
		}
		for _, y := range nodesOf(m) {
			cy := component[y]
			mutual := reach[x][y] && reach[y][x]
			if mutual != (cx == cy) {
				return fmt.Errorf("nodes %d and %d: mutually reachable %v, components %d and %d", x, y, mutual, cx, cy)
			}
			if reach[x][y] && cx < cy {
				return fmt.Errorf("component %d of node %d reaches later component %d of node %d", cx, x, cy, y)
			}
		}
	}
	return nil
}

func TestSCC(t *testing.T) {
	for _, test := range []struct {
		name          string
		graph         intGraph
		numComponents int
	}{
		{"single", intGraph{0: {}}, 1},
		{"self loop", intGraph{0: {0}}, 1},
		{"straight", intGraph{0: {1}, 1: {2}, 2: {}}, 3},
		{"diamond", intGraph{0: {1, 2}, 1: {3}, 2: {3}, 3: {}}, 4},
		{"while loop", intGraph{0: {1}, 1: {2, 3}, 2: {1}, 3: {}}, 3},
		{"nested loops", intGraph{0: {1}, 1: {2, 5}, 2: {3}, 3: {2, 4}, 4: {1}, 5: {}}, 3},
		{"two loops", intGraph{0: {1}, 1: {1, 2}, 2: {3}, 3: {2, 4}, 4: {}}, 4},
		{"back to entry", intGraph{0: {1, 2}, 1: {3}, 2: {1, 0}, 3: {}}, 3},
	} {
		t.Run(test.name, func(t *testing.T) {
			sccs := StronglyConnectedComponents(nodesOf(test.graph), succFunc(test.graph))
			if err := checkComponents(test.graph, sccs); err != nil {
				t.Fatal(err)
			}
			if len(sccs) != test.numComponents {
				t.Errorf("expected %d components, got %d: %v", test.numComponents, len(sccs), sccs)
			}
		})
	}
}

func TestSCCDeepGraph(t *testing.T) {
	const n = 200000
	cycle := intGraph{}
	for i := 0; i < n; i++ {
		cycle[i] = []int{i + 1}
	}
	cycle[n] = []int{0}
	sccs := StronglyConnectedComponents(nodesOf(cycle), succFunc(cycle))
	if len(sccs) != 1 || len(sccs[0]) != n+1 {
		t.Fatalf("expected a single component of %d nodes, got %d components", n+1, len(sccs))
	}
}

func TestSCCRandom(t *testing.T) {
	for i := 0; i < 100; i++ {
		m := randomGraph(12, 5501+int64(i))
		if err := checkComponents(m, StronglyConnectedComponents(nodesOf(m), succFunc(m))); err != nil {
			t.Fatalf("graph %v: %v", m, err)
		}
	}
	for i := 0; i < 5; i++ {
		m := randomGraph(80, 77+int64(i))
		if err := checkComponents(m, StronglyConnectedComponents(nodesOf(m), succFunc(m))); err != nil {
			t.Fatalf("graph %v: %v", m, err)
		}
	}
}

func randomGraph(size int, seed int64) intGraph {
	m := intGraph{}
	r := rand.New(rand.NewSource(seed))
	for i := 0; i < size; i++ {
		m[i] = []int{}
		for r.Float32() < 0.6 {
			m[i] = append(m[i], r.Intn(size))
		}
	}
	return m
}
