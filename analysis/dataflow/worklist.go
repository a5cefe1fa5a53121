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

package dataflow

// worklist is a FIFO queue of nodes in which a node appears at most once.
type worklist[N comparable] struct {
	queue   []N
	head    int
	pending map[N]bool
}

func newWorklist[N comparable](capacity int) *worklist[N] {
	return &worklist[N]{
		queue:   make([]N, 0, capacity),
		pending: make(map[N]bool, capacity),
	}
}

// push adds n at the end of the queue, unless n is already pending.
func (w *worklist[N]) push(n N) {
	if w.pending[n] {
		return
	}
	w.pending[n] = true
	// reclaim the consumed prefix once it is at least half of the queue
	if w.head > 0 && w.head >= len(w.queue)/2 {
		w.queue = append(w.queue[:0], w.queue[w.head:]...)
		w.head = 0
	}
	w.queue = append(w.queue, n)
}

// pop removes and returns the node at the front of the queue. The queue must not be empty.
func (w *worklist[N]) pop() N {
	n := w.queue[w.head]
	var zero N
	w.queue[w.head] = zero
	w.head++
	delete(w.pending, n)
	return n
}

func (w *worklist[N]) empty() bool {
	return w.head == len(w.queue)
}

func (w *worklist[N]) len() int {
	return len(w.queue) - w.head
}
