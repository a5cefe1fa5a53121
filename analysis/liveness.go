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

// Package analysis contains the functions that load programs and run the live-variable analysis on all their
// functions.
package analysis

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"time"

	"github.com/awslabs/argot-dataflow/analysis/config"
	"github.com/awslabs/argot-dataflow/analysis/dataflow"
	"github.com/awslabs/argot-dataflow/analysis/lang"
	"github.com/awslabs/argot-dataflow/internal/funcutil"
	"github.com/awslabs/argot-dataflow/internal/graphutil"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// NodeLiveness holds the variables live before and after a node of a control-flow graph.
type NodeLiveness struct {
	// Label is the printed node
	Label string
	// Pos is the position of the node in the source. It is not valid for synthetic nodes.
	Pos token.Position
	// LiveIn is the sorted list of the names of the variables live before the node
	LiveIn []string
	// LiveOut is the sorted list of the names of the variables live after the node
	LiveOut []string
}

// FunctionLiveness is the result of the live-variable analysis of a single function.
type FunctionLiveness struct {
	// Name is the qualified name of the function
	Name string
	// Pos is the position of the function
	Pos token.Position
	// Nodes holds the facts of every node, in the order of the nodes of the graph
	Nodes []NodeLiveness
	// Evaluations is the number of node evaluations of the solver
	Evaluations int
	// Time is the time spent building the graph and solving
	Time time.Duration
	// Stats is the shape of the control-flow graph, set when the statistics are requested
	Stats *graphutil.Stats
	// Err is set when the analysis of the function failed
	Err error
}

// livenessJob is the analysis of one function, on either representation.
type livenessJob struct {
	name string
	pos  token.Position
	run  func(options dataflow.SolverOptions) FunctionLiveness
}

// RunLiveness runs the live-variable analysis on every function of the program that matches the package filter of
// the config, on the representation selected by the config. Functions are analyzed in parallel; results are sorted
// by position. Functions whose analysis fails are logged and returned with their error.
func RunLiveness(cfg *config.Config, logger *config.LogGroup, prog LoadedProgram) []FunctionLiveness {
	start := time.Now()
	var jobs []livenessJob
	if cfg.Frontend == config.FrontendAST {
		jobs = astJobs(cfg, prog)
	} else {
		jobs = ssaJobs(cfg, prog)
	}
	logger.Infof("Analyzing %d functions (%s representation, %d routines) ...",
		len(jobs), frontendName(cfg), cfg.NumRoutines)

	options := dataflow.SolverOptionsFromConfig(cfg, logger)
	results := funcutil.MapParallel(jobs, func(job livenessJob) FunctionLiveness {
		res := job.run(options)
		res.Name = job.name
		res.Pos = job.pos
		if res.Err != nil {
			logger.Errorf("liveness of %s failed: %v", job.name, res.Err)
		} else {
			logger.Debugf("%s: %d nodes, %d evaluations (%.2f ms)", job.name, len(res.Nodes), res.Evaluations,
				float64(res.Time.Microseconds())/1000)
		}
		if cfg.ReportStats && res.Stats != nil {
			logger.Infof("%s: %s", job.name, res.Stats)
		}
		return res
	}, cfg.NumRoutines)

	sort.SliceStable(results, func(i, j int) bool {
		return positionLess(results[i].Pos, results[j].Pos)
	})
	logger.Infof("Liveness done (%.2f s).", time.Since(start).Seconds())
	return results
}

func frontendName(cfg *config.Config) string {
	if cfg.Frontend == "" {
		return config.FrontendSSA
	}
	return cfg.Frontend
}

func positionLess(a token.Position, b token.Position) bool {
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// ssaJobs returns a job for every function of the program with a body, that is not synthetic, belongs to one of
// the loaded packages matching the filter and is not ignored by a directive.
func ssaJobs(cfg *config.Config, prog LoadedProgram) []livenessJob {
	loaded := map[*ssa.Package]bool{}
	for _, pkg := range prog.Packages {
		if p := prog.Program.Package(pkg.Types); p != nil && cfg.MatchPkgFilter(pkg.PkgPath) {
			loaded[p] = true
		}
	}
	var jobs []livenessJob
	for f := range ssautil.AllFunctions(prog.Program) {
		if lang.IsExternal(f) || f.Synthetic != "" || !loaded[f.Pkg] {
			continue
		}
		pos := prog.Program.Fset.Position(f.Pos())
		if prog.Directives.Ignores(pos) {
			continue
		}
		f := f
		jobs = append(jobs, livenessJob{
			name: f.String(),
			pos:  pos,
			run: func(options dataflow.SolverOptions) FunctionLiveness {
				return ssaLiveness(prog.Program.Fset, f, cfg, options)
			},
		})
	}
	// AllFunctions returns a map
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].name < jobs[j].name })
	return jobs
}

// astJobs returns a job for every function declaration with a body in the packages matching the filter, unless
// the declaration is ignored by a directive.
func astJobs(cfg *config.Config, prog LoadedProgram) []livenessJob {
	var jobs []livenessJob
	for _, pkg := range prog.Packages {
		if !cfg.MatchPkgFilter(pkg.PkgPath) {
			continue
		}
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				fd, ok := decl.(*ast.FuncDecl)
				if !ok || fd.Body == nil {
					continue
				}
				pos := pkg.Fset.Position(fd.Pos())
				if prog.Directives.Ignores(pos) {
					continue
				}
				pkg, fd := pkg, fd
				jobs = append(jobs, livenessJob{
					name: declName(pkg, fd),
					pos:  pos,
					run: func(options dataflow.SolverOptions) FunctionLiveness {
						return astLiveness(pkg.Fset, pkg.TypesInfo, fd, cfg, options)
					},
				})
			}
		}
	}
	return jobs
}

func declName(pkg *packages.Package, fd *ast.FuncDecl) string {
	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		return fmt.Sprintf("(%s).%s", types.ExprString(fd.Recv.List[0].Type), fd.Name.Name)
	}
	return pkg.PkgPath + "." + fd.Name.Name
}

func ssaLiveness(fset *token.FileSet, f *ssa.Function, cfg *config.Config,
	options dataflow.SolverOptions) FunctionLiveness {
	start := time.Now()
	g, err := lang.NewInstrGraph(f)
	if err != nil {
		return FunctionLiveness{Err: err}
	}
	facts, err := solveLiveness[*lang.InstrNode, ssa.Value](g, lang.SSAVars{}, cfg.Dense, options)
	if err != nil {
		return FunctionLiveness{Err: err}
	}
	res := FunctionLiveness{Evaluations: facts.evaluations}
	for _, n := range g.Nodes() {
		nl := NodeLiveness{Label: n.String()}
		if n.Instr != nil {
			nl.Pos = fset.Position(n.Instr.Pos())
		}
		nl.LiveIn = sortedNames(facts.in(n), ssa.Value.Name)
		nl.LiveOut = sortedNames(facts.out(n), ssa.Value.Name)
		res.Nodes = append(res.Nodes, nl)
	}
	if cfg.ReportStats {
		stats := graphutil.ComputeStats(g.Nodes(), g.Succs)
		res.Stats = &stats
	}
	res.Time = time.Since(start)
	return res
}

func astLiveness(fset *token.FileSet, info *types.Info, fd *ast.FuncDecl, cfg *config.Config,
	options dataflow.SolverOptions) FunctionLiveness {
	start := time.Now()
	g := lang.NewFuncStmtGraph(fd.Type, fd.Body, info)
	facts, err := solveLiveness[*lang.StmtNode, *types.Var](g, g.Vars(), cfg.Dense, options)
	if err != nil {
		return FunctionLiveness{Err: err}
	}
	res := FunctionLiveness{Evaluations: facts.evaluations}
	for _, n := range g.Nodes() {
		res.Nodes = append(res.Nodes, NodeLiveness{
			Label:   n.String(),
			Pos:     fset.Position(n.Pos()),
			LiveIn:  sortedNames(facts.in(n), (*types.Var).Name),
			LiveOut: sortedNames(facts.out(n), (*types.Var).Name),
		})
	}
	if cfg.ReportStats {
		stats := graphutil.ComputeStats(g.Nodes(), g.Succs)
		res.Stats = &stats
	}
	res.Time = time.Since(start)
	return res
}

// liveFacts gives access to the result of a liveness analysis, whether it was solved with set or dense facts.
type liveFacts[N comparable, V comparable] struct {
	in          func(N) *dataflow.SetFact[V]
	out         func(N) *dataflow.SetFact[V]
	evaluations int
}

// solveLiveness solves the live-variable analysis of g, with dense facts if dense is true.
func solveLiveness[N comparable, V comparable](g dataflow.Graph[N], vars dataflow.VarAccessor[N, V], dense bool,
	options dataflow.SolverOptions) (liveFacts[N, V], error) {
	if !dense {
		res, err := dataflow.LiveVariables(g, vars, options)
		if err != nil {
			return liveFacts[N, V]{}, err
		}
		return liveFacts[N, V]{in: res.In, out: res.Out, evaluations: res.Evaluations}, nil
	}
	a := dataflow.NewDenseLiveVariableAnalysis(g, vars)
	res, err := dataflow.NewSolver[N, *dataflow.BitFact](a, options).Solve(g)
	if err != nil {
		return liveFacts[N, V]{}, err
	}
	return liveFacts[N, V]{
		in:          func(n N) *dataflow.SetFact[V] { return dataflow.Decode(a.Index(), res.In(n)) },
		out:         func(n N) *dataflow.SetFact[V] { return dataflow.Decode(a.Index(), res.Out(n)) },
		evaluations: res.Evaluations,
	}, nil
}

func sortedNames[V comparable](f *dataflow.SetFact[V], name func(V) string) []string {
	names := funcutil.Map(f.Elements(), name)
	sort.Strings(names)
	return names
}
