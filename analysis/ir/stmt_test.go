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

package ir

import (
	"strings"
	"testing"
)

func varNames(vs []*Var) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return strings.Join(names, ",")
}

func TestVarsOfStatements(t *testing.T) {
	x, y, z, i := NewVar("x"), NewVar("y"), NewVar("z"), NewVar("i")
	tests := []struct {
		name string
		stmt Stmt
		defs string
		uses string
	}{
		{"const", NewAssign(x, Const{Value: "1"}), "x", ""},
		{"copy", NewAssign(x, y), "x", "y"},
		{"self", NewAssign(x, x), "x", "x"},
		{"binary", NewAssign(x, &BinaryExp{Op: "+", X: y, Y: y}), "x", "y"},
		{"call", NewAssign(x, &Call{Method: "f", Receiver: z, Args: []Operand{x, y}}), "x", "z,x,y"},
		{"field store", NewAssign(&FieldAccess{Base: x, Field: "f"}, y), "", "x,y"},
		{"array store", NewAssign(&ArrayAccess{Base: x, Index: i}, &FieldAccess{Base: z, Field: "g"}), "", "x,i,z"},
		{"static store", NewAssign(&StaticField{Class: "C", Field: "f"}, y), "", "y"},
		{"static load", NewAssign(x, &StaticField{Class: "C", Field: "f"}), "x", ""},
		{"invoke", &Invoke{Call: &Call{Method: "print", Args: []Operand{x, Const{Value: "2"}}}}, "", "x"},
		{"if", &If{Cond: &BinaryExp{Op: "<", X: i, Y: z}}, "", "i,z"},
		{"return", &Return{Value: y}, "", "y"},
		{"bare return", &Return{}, "", ""},
		{"nop", &Nop{Label: "n"}, "", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if defs := varNames(Vars{}.DefinedVars(test.stmt)); defs != test.defs {
				t.Errorf("%s: defs = %q, expected %q", test.stmt, defs, test.defs)
			}
			if uses := varNames(Vars{}.UsedVars(test.stmt)); uses != test.uses {
				t.Errorf("%s: uses = %q, expected %q", test.stmt, uses, test.uses)
			}
		})
	}
}

func TestStmtString(t *testing.T) {
	x, y := NewVar("x"), NewVar("y")
	tests := map[string]Stmt{
		"x = y + 1":      NewAssign(x, &BinaryExp{Op: "+", X: y, Y: Const{Value: "1"}}),
		"x.f = y":        NewAssign(&FieldAccess{Base: x, Field: "f"}, y),
		"x[0] = y.m(x)":  NewAssign(&ArrayAccess{Base: x, Index: Const{Value: "0"}}, &Call{Method: "m", Receiver: y, Args: []Operand{x}}),
		"if x":           &If{Cond: x},
		"return":         &Return{},
		"return T.count": &Return{Value: &StaticField{Class: "T", Field: "count"}},
		"print(x, y)":    &Invoke{Call: &Call{Method: "print", Args: []Operand{x, y}}},
	}
	for expected, s := range tests {
		if s.String() != expected {
			t.Errorf("got %q, expected %q", s.String(), expected)
		}
	}
}

func TestNewVarsAreDistinct(t *testing.T) {
	vs := NewVars("a", "a")
	if len(vs) != 2 || vs[0] == vs[1] {
		t.Fatalf("expected two distinct variables, got %v", vs)
	}
	if vs[0].Name != vs[1].Name {
		t.Errorf("expected same names")
	}
}
