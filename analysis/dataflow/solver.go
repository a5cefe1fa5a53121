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

import (
	"fmt"
	"time"

	"github.com/awslabs/argot-dataflow/analysis/config"
	"github.com/awslabs/argot-dataflow/internal/graphutil"
)

// SolverOptions controls the solver. The zero value runs without budget, checks nor logging.
type SolverOptions struct {
	// MaxEvaluations bounds the number of node evaluations. If MaxEvaluations <= 0, the solver runs until the worklist
	// is empty.
	MaxEvaluations int

	// CheckMonotone makes the solver fail with ErrNotMonotone when a fact shrinks. It has an effect only for analyses
	// implementing PartialOrder.
	CheckMonotone bool

	// ValidateGraph runs a full reachability check of the graph before solving.
	ValidateGraph bool

	// Logger receives the solver's trace and debug output. Can be nil.
	Logger *config.LogGroup
}

// SolverOptionsFromConfig returns the solver options specified in the config.
func SolverOptionsFromConfig(c *config.Config, logger *config.LogGroup) SolverOptions {
	return SolverOptions{
		MaxEvaluations: c.MaxEvaluations,
		CheckMonotone:  c.CheckMonotone,
		ValidateGraph:  c.ValidateGraph,
		Logger:         logger,
	}
}

// NodeFacts is the pair of facts attached to a node.
type NodeFacts[F any] struct {
	In  F
	Out F
}

// Result is the fact table computed by the solver. It is read-only.
type Result[N comparable, F any] struct {
	in  map[N]F
	out map[N]F

	// Evaluations is the number of node evaluations performed before convergence
	Evaluations int

	// Time is the time spent solving
	Time time.Duration
}

// In returns the fact before n (in program order).
func (r *Result[N, F]) In(n N) F {
	return r.in[n]
}

// Out returns the fact after n (in program order).
func (r *Result[N, F]) Out(n N) F {
	return r.out[n]
}

// Facts returns the fact table as a map from nodes to pairs of facts.
func (r *Result[N, F]) Facts() map[N]NodeFacts[F] {
	m := make(map[N]NodeFacts[F], len(r.in))
	for n, in := range r.in {
		m[n] = NodeFacts[F]{In: in, Out: r.out[n]}
	}
	return m
}

type solverState int

const (
	uninitialized solverState = iota
	iterating
	converged
)

// Solver computes the fixed point of an analysis over control-flow graphs using a worklist. A solver can be
// reused for several graphs, but not concurrently.
type Solver[N comparable, F any] struct {
	analysis Analysis[N, F]
	options  SolverOptions
	order    PartialOrder[F]

	state    solverState
	graph    Graph[N]
	boundary N
	in       map[N]F
	out      map[N]F
	work     *worklist[N]
}

// NewSolver returns a solver for the analysis.
func NewSolver[N comparable, F any](analysis Analysis[N, F], options SolverOptions) *Solver[N, F] {
	s := &Solver[N, F]{analysis: analysis, options: options}
	if options.CheckMonotone {
		if po, ok := analysis.(PartialOrder[F]); ok {
			s.order = po
		}
	}
	return s
}

// Solve runs analysis on g with default options and returns the fact table at the fixed point.
func Solve[N comparable, F any](g Graph[N], analysis Analysis[N, F]) (*Result[N, F], error) {
	return NewSolver(analysis, SolverOptions{}).Solve(g)
}

// Solve computes the fixed point of the solver's analysis on g.
// An error is returned only when a precondition is violated: a malformed graph, a non-monotone analysis (if checked)
// or an exhausted evaluation budget.
func (s *Solver[N, F]) Solve(g Graph[N]) (*Result[N, F], error) {
	if s.state == iterating {
		return nil, ErrSolverBusy
	}
	start := time.Now()
	s.state = uninitialized
	if err := s.checkGraph(g); err != nil {
		return nil, err
	}
	s.initialize(g)
	evaluations, err := s.iterate()
	if err != nil {
		s.state = uninitialized
		return nil, err
	}
	s.state = converged
	res := &Result[N, F]{in: s.in, out: s.out, Evaluations: evaluations, Time: time.Since(start)}
	// the result owns the fact table from now on
	s.in, s.out, s.graph, s.work = nil, nil, nil, nil
	if s.options.Logger != nil {
		s.options.Logger.Debugf("converged after %d evaluations over %d nodes (%.3f ms)",
			evaluations, len(g.Nodes()), float64(res.Time.Microseconds())/1000)
	}
	return res, nil
}

func (s *Solver[N, F]) checkGraph(g Graph[N]) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", ErrMalformedGraph)
	}
	entry, exit := g.Entry(), g.Exit()
	hasEntry, hasExit := false, false
	for _, n := range g.Nodes() {
		hasEntry = hasEntry || n == entry
		hasExit = hasExit || n == exit
	}
	if !hasEntry || !hasExit {
		return fmt.Errorf("%w: entry or exit is not a node of the graph", ErrMalformedGraph)
	}
	if !s.options.ValidateGraph {
		return nil
	}
	unreachable, stuck := graphutil.CheckReachability(g.Nodes(), g.Succs, entry, exit)
	if len(unreachable) > 0 {
		return fmt.Errorf("%w: %d node(s) unreachable from entry, first is %s",
			ErrMalformedGraph, len(unreachable), elemString(unreachable[0]))
	}
	if len(stuck) > 0 {
		return fmt.Errorf("%w: exit unreachable from %d node(s), first is %s",
			ErrMalformedGraph, len(stuck), elemString(stuck[0]))
	}
	return nil
}

// initialize sets the boundary facts, the initial facts of every other node, and seeds the worklist with every
// non-boundary node in reverse postorder over the direction of the analysis.
func (s *Solver[N, F]) initialize(g Graph[N]) {
	s.graph = g
	nodes := g.Nodes()
	s.in = make(map[N]F, len(nodes))
	s.out = make(map[N]F, len(nodes))

	var order []N
	if s.analysis.IsForward() {
		s.boundary = g.Entry()
		order = graphutil.ReversePostOrder(s.boundary, g.Succs)
	} else {
		s.boundary = g.Exit()
		order = graphutil.ReversePostOrder(s.boundary, g.Preds)
	}

	for _, n := range nodes {
		if n == s.boundary {
			s.in[n] = s.analysis.NewBoundaryFact(g)
			s.out[n] = s.analysis.NewBoundaryFact(g)
		} else {
			s.in[n] = s.analysis.NewInitialFact()
			s.out[n] = s.analysis.NewInitialFact()
		}
	}

	s.work = newWorklist[N](len(nodes))
	for _, n := range order {
		if n != s.boundary {
			s.work.push(n)
		}
	}
	// nodes that cannot be reached from the boundary in the direction of the analysis
	for _, n := range nodes {
		if n != s.boundary {
			s.work.push(n)
		}
	}
	s.state = iterating
}

func (s *Solver[N, F]) iterate() (int, error) {
	forward := s.analysis.IsForward()
	evaluations := 0
	for !s.work.empty() {
		if s.options.MaxEvaluations > 0 && evaluations >= s.options.MaxEvaluations {
			return evaluations, fmt.Errorf("%w: %d evaluations, %d node(s) pending",
				ErrNonConvergence, evaluations, s.work.len())
		}
		n := s.work.pop()
		evaluations++

		var changed bool
		var err error
		if forward {
			changed, err = s.evaluateForward(n)
		} else {
			changed, err = s.evaluateBackward(n)
		}
		if err != nil {
			return evaluations, err
		}
		if s.options.Logger != nil && s.options.Logger.Level() >= config.TraceLevel {
			s.options.Logger.Tracef("eval %s: in=%s out=%s changed=%t",
				elemString(n), elemString(s.in[n]), elemString(s.out[n]), changed)
		}
		if !changed {
			continue
		}
		var next []N
		if forward {
			next = s.graph.Succs(n)
		} else {
			next = s.graph.Preds(n)
		}
		for _, m := range next {
			if m != s.boundary {
				s.work.push(m)
			}
		}
	}
	return evaluations, nil
}

// evaluateBackward recomputes OUT[n] as the meet of the IN facts of the successors of n, then applies the transfer
// function to recompute IN[n].
func (s *Solver[N, F]) evaluateBackward(n N) (bool, error) {
	out := s.analysis.NewInitialFact()
	for _, succ := range s.graph.Succs(n) {
		s.analysis.MeetInto(s.in[succ], out)
	}
	if err := s.checkGrows(n, "out", s.out[n], out); err != nil {
		return false, err
	}
	s.out[n] = out

	var old F
	if s.order != nil {
		old = s.order.CopyFact(s.in[n])
	}
	changed := s.analysis.TransferNode(n, s.in[n], out)
	if s.order != nil {
		if err := s.checkGrows(n, "in", old, s.in[n]); err != nil {
			return false, err
		}
	}
	return changed, nil
}

// evaluateForward recomputes IN[n] as the meet of the OUT facts of the predecessors of n, then applies the transfer
// function to recompute OUT[n].
func (s *Solver[N, F]) evaluateForward(n N) (bool, error) {
	in := s.analysis.NewInitialFact()
	for _, pred := range s.graph.Preds(n) {
		s.analysis.MeetInto(s.out[pred], in)
	}
	if err := s.checkGrows(n, "in", s.in[n], in); err != nil {
		return false, err
	}
	s.in[n] = in

	var old F
	if s.order != nil {
		old = s.order.CopyFact(s.out[n])
	}
	changed := s.analysis.TransferNode(n, in, s.out[n])
	if s.order != nil {
		if err := s.checkGrows(n, "out", old, s.out[n]); err != nil {
			return false, err
		}
	}
	return changed, nil
}

func (s *Solver[N, F]) checkGrows(n N, side string, before F, after F) error {
	if s.order == nil || s.order.LessOrEqual(before, after) {
		return nil
	}
	return fmt.Errorf("%w: %s fact of %s went from %s to %s",
		ErrNotMonotone, side, elemString(n), elemString(before), elemString(after))
}

// Recheck runs one more pass of the equations over every node of g, on copies of the facts in r, and returns the
// nodes whose facts would change. At a fixed point, the returned slice is empty.
// Recheck requires the analysis to implement PartialOrder, to copy facts; otherwise it returns nil.
func (r *Result[N, F]) Recheck(g Graph[N], analysis Analysis[N, F]) []N {
	po, ok := analysis.(PartialOrder[F])
	if !ok {
		return nil
	}
	forward := analysis.IsForward()
	boundary := g.Exit()
	if forward {
		boundary = g.Entry()
	}
	var changed []N
	for _, n := range g.Nodes() {
		if n == boundary {
			continue
		}
		meet := analysis.NewInitialFact()
		var stored, computed F
		if forward {
			for _, p := range g.Preds(n) {
				analysis.MeetInto(r.out[p], meet)
			}
			stored, computed = r.in[n], meet
		} else {
			for _, sc := range g.Succs(n) {
				analysis.MeetInto(r.in[sc], meet)
			}
			stored, computed = r.out[n], meet
		}
		sideChanged := !(po.LessOrEqual(stored, computed) && po.LessOrEqual(computed, stored))

		var transferChanged bool
		if forward {
			transferChanged = analysis.TransferNode(n, meet, po.CopyFact(r.out[n]))
		} else {
			transferChanged = analysis.TransferNode(n, po.CopyFact(r.in[n]), meet)
		}
		if sideChanged || transferChanged {
			changed = append(changed, n)
		}
	}
	return changed
}
