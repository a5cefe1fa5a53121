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

package main

import "fmt"

type point struct {
	x, y int
}

func sum(xs []int) int {
	total := 0 // @Live(xs)
	for _, x := range xs {
		total += x // @Live(total, x)
	}
	return total // @Live(total)
}

func swap(p *point) {
	t := p.x  // @Live(p)
	p.x = p.y // @Live(p, t)
	p.y = t   // @Live(p, t)
}

func closure(n int) func() int {
	k := n * 2 // @Live(n)
	f := func() int { // @Live(k)
		return k + 1
	}
	return f // @Live(f)
}

func branches(a, b int, c bool) int {
	r := 0 // @Live(a, b, c)
	if c {
		r = a // @Live(a)
	} else {
		r = b // @Live(b)
	}
	return r // @Live(r)
}

func loop(n int) (s int) {
	i := 0 // @Live(n, s)
	for i < n {
		s += i // @Live(i, n, s)
		i++    // @Live(i, n, s)
	}
	return // @Live(s)
}

func redefine(x int) int {
	x = x + 1 // @Live(x)
	y := x    // @Live(x)
	x = 0     // @Live(y)
	return y  // @Live(y)
}

//argot:ignore
func ignored(x int) int {
	return x
}

func main() {
	p := &point{x: 1, y: 2} // @Live()
	swap(p)                 // @Live(p)
	fmt.Println(sum([]int{p.x, p.y}), closure(3)(), branches(1, 2, true), loop(4), redefine(5), ignored(6)) // @Live(p)
}
