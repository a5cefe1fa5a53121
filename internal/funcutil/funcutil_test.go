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

package funcutil

import (
	"sync/atomic"
	"testing"
)

func TestMapParallelKeepsOrder(t *testing.T) {
	var in []int
	for i := 0; i < 100; i++ {
		in = append(in, i)
	}
	for _, routines := range []int{0, 1, 3, 200} {
		var calls atomic.Int32
		out := MapParallel(in, func(x int) int {
			calls.Add(1)
			return x * x
		}, routines)
		if len(out) != len(in) || int(calls.Load()) != len(in) {
			t.Fatalf("%d routines: %d results for %d calls", routines, len(out), calls.Load())
		}
		for i, y := range out {
			if y != i*i {
				t.Errorf("%d routines: out[%d] = %d", routines, i, y)
			}
		}
	}
	if out := MapParallel([]int{}, func(x int) int { return x }, 4); len(out) != 0 {
		t.Errorf("expected no result, got %v", out)
	}
}

func TestCollections(t *testing.T) {
	a := []int{1, 2, 3, 4}
	if !Contains(a, 3) || Contains(a, 5) {
		t.Errorf("unexpected Contains")
	}
	if Exists(a, func(x int) bool { return x > 4 }) {
		t.Errorf("unexpected Exists")
	}
	Reverse(a)
	if a[0] != 4 || a[3] != 1 {
		t.Errorf("unexpected Reverse %v", a)
	}
	if m := Map(a, func(x int) bool { return x%2 == 0 }); len(m) != 4 || !m[0] || m[1] {
		t.Errorf("unexpected Map %v", m)
	}
}

func TestOptional(t *testing.T) {
	x := Some(3)
	if x.IsNone() || !x.IsSome() || x.Value() != 3 {
		t.Errorf("unexpected some")
	}
	y := None[int]()
	if !y.IsNone() || y.IsSome() {
		t.Errorf("unexpected none")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("the value of none should panic")
		}
	}()
	y.Value()
}
