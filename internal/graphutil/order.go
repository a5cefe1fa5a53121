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

import "github.com/awslabs/argot-dataflow/internal/funcutil"

// ReversePostOrder returns the nodes reachable from root following next, in reverse postorder of a depth-first
// search. In an acyclic graph, a node always comes before the nodes it reaches.
// Iterating a forward dataflow analysis in reverse postorder over successors, or a backward analysis in reverse
// postorder over predecessors, usually converges in few passes.
func ReversePostOrder[T comparable](root T, next func(T) []T) []T {
	type frame struct {
		node  T
		succs []T
		i     int
	}

	visited := map[T]bool{root: true}
	stack := []frame{{node: root, succs: next(root)}}
	var post []T
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i < len(top.succs) {
			w := top.succs[top.i]
			top.i++
			if !visited[w] {
				visited[w] = true
				stack = append(stack, frame{node: w, succs: next(w)})
			}
			continue
		}
		post = append(post, top.node)
		stack = stack[:len(stack)-1]
	}
	funcutil.Reverse(post)
	return post
}
