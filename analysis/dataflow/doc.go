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

/*
Package dataflow implements an iterative dataflow analysis engine over the control-flow graph of a single procedure,
and the live-variable analysis as its reference instance.

An analysis is a value implementing [Analysis]: a direction, a boundary fact, an initial fact, a meet operator and a
transfer function. The [Solver] drives any such analysis to its fixed point with a worklist, over any graph
implementing [Graph]. The nodes of the graph are opaque to the engine; the live-variable analysis reads their
definitions and uses through a [VarAccessor].

Assuming you have a graph g whose nodes are statements of the reference IR (see package ir), the live variables
before and after each statement are computed by:

	res, err := dataflow.Solve[ir.Stmt, *dataflow.SetFact[*ir.Var]](g,
		dataflow.NewLiveVariableAnalysis[ir.Stmt, *ir.Var](ir.Vars{}))
	...
	res.In(stmt)  // variables live before stmt
	res.Out(stmt) // variables live after stmt

The solver is sequential. Independent procedures can be solved in parallel, each with its own solver.
*/
package dataflow
