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

// Package annotate writes the result of the live-variable analysis back into the sources, as comments above the
// statements of every function.
package annotate

import (
	"fmt"
	"go/ast"
	"go/types"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/awslabs/argot-dataflow/analysis/config"
	"github.com/awslabs/argot-dataflow/analysis/dataflow"
	"github.com/awslabs/argot-dataflow/analysis/lang"
	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/gopackages"
	"github.com/dave/dst/dstutil"
)

// Prefix starts every comment added by Annotate
const Prefix = "// live:"

// Result summarizes an annotation pass.
type Result struct {
	// Functions is the number of function declarations and literals analyzed
	Functions int
	// Statements is the number of statements annotated
	Statements int
	// Errors holds the errors of the functions that could not be analyzed
	Errors []error
}

// Comment returns the comment listing names.
func Comment(names []string) string {
	if len(names) == 0 {
		return Prefix + " none"
	}
	return Prefix + " " + strings.Join(names, ", ")
}

// Annotate adds a comment above every statement of the functions of packages that lists the variables live before
// the statement. Statements in the header of a compound statement, such as the initialization of a for loop, are
// not annotated. A compound statement is annotated with the variables live when control enters it. Function
// literals are analyzed separately from their enclosing function.
func Annotate(packages []*decorator.Package, cfg *config.Config, logger *config.LogGroup) Result {
	options := dataflow.SolverOptionsFromConfig(cfg, logger)
	res := Result{}
	for _, pkg := range packages {
		if !cfg.MatchPkgFilter(pkg.PkgPath) {
			continue
		}
		for _, file := range pkg.Syntax {
			a := &fileAnnotator{pkg: pkg, options: options, liveIn: map[ast.Node][]string{}, res: &res}
			dstutil.Apply(file, a.pre, a.post)
		}
	}
	logger.Infof("Annotated %d statements in %d functions", res.Statements, res.Functions)
	for _, err := range res.Errors {
		logger.Warnf("%v", err)
	}
	return res
}

type fileAnnotator struct {
	pkg     *decorator.Package
	options dataflow.SolverOptions
	// liveIn maps the nodes of the analyzed functions to the names of the variables live before them
	liveIn map[ast.Node][]string
	res    *Result
}

// pre analyzes functions before their statements are visited.
func (a *fileAnnotator) pre(c *dstutil.Cursor) bool {
	switch n := c.Node().(type) {
	case *dst.FuncDecl:
		if decl, ok := a.pkg.Decorator.Ast.Nodes[n].(*ast.FuncDecl); ok && decl.Body != nil {
			a.analyze(decl.Name.Name, decl.Type, decl.Body)
		}
	case *dst.FuncLit:
		if lit, ok := a.pkg.Decorator.Ast.Nodes[n].(*ast.FuncLit); ok {
			a.analyze("func literal", lit.Type, lit.Body)
		}
	}
	return true
}

// post annotates the statements that are elements of a statement list.
func (a *fileAnnotator) post(c *dstutil.Cursor) bool {
	stmt, ok := c.Node().(dst.Stmt)
	if !ok || c.Index() < 0 {
		return true
	}
	astStmt, ok := a.pkg.Decorator.Ast.Nodes[stmt].(ast.Stmt)
	if !ok {
		return true
	}
	first := entryNode(astStmt)
	if first == nil {
		return true
	}
	names, ok := a.liveIn[first]
	if !ok {
		return true
	}
	decs := stmt.Decorations()
	decs.Before = dst.NewLine
	decs.Start.Append(Comment(names))
	a.res.Statements++
	return true
}

func (a *fileAnnotator) analyze(name string, typ *ast.FuncType, body *ast.BlockStmt) {
	g := lang.NewFuncStmtGraph(typ, body, a.pkg.TypesInfo)
	facts, err := dataflow.LiveVariables[*lang.StmtNode, *types.Var](g, g.Vars(), a.options)
	a.res.Functions++
	if err != nil {
		pos := a.pkg.Fset.Position(body.Pos())
		a.res.Errors = append(a.res.Errors, fmt.Errorf("%s at %s: %w", name, pos, err))
		return
	}
	for _, n := range g.Nodes() {
		if n.Node == nil {
			continue
		}
		var names []string
		for _, v := range facts.In(n).Elements() {
			names = append(names, v.Name())
		}
		sort.Strings(names)
		a.liveIn[n.Node] = names
	}
}

// entryNode returns the node of the control-flow graph that is evaluated first when control enters s, or nil if
// s has no such node.
func entryNode(s ast.Stmt) ast.Node {
	switch s := s.(type) {
	case *ast.IfStmt:
		return firstOf(s.Init, s.Cond)
	case *ast.ForStmt:
		return firstOf(s.Init, s.Cond)
	case *ast.RangeStmt:
		return s.X
	case *ast.SwitchStmt:
		return firstOf(s.Init, s.Tag)
	case *ast.TypeSwitchStmt:
		return firstOf(s.Init, s.Assign)
	case *ast.LabeledStmt:
		return entryNode(s.Stmt)
	case *ast.DeclStmt:
		if d, ok := s.Decl.(*ast.GenDecl); ok && len(d.Specs) > 0 {
			return d.Specs[0]
		}
		return nil
	case *ast.BlockStmt, *ast.SelectStmt, *ast.BranchStmt:
		return nil
	default:
		return s
	}
}

func firstOf(init ast.Stmt, expr ast.Node) ast.Node {
	if init != nil {
		return init
	}
	return expr
}

// Fprint prints the annotated file of pkg to w. Files loaded with decorator.Load have their imports managed by dst,
// so they are restored with a resolver of the package's imports.
func Fprint(w io.Writer, pkg *decorator.Package, file *dst.File) error {
	dir := filepath.Dir(pkg.Decorator.Filenames[file])
	r := decorator.NewRestorerWithImports(pkg.PkgPath, gopackages.New(dir))
	if err := r.FileRestorer().Fprint(w, file); err != nil {
		return fmt.Errorf("could not print %s: %w", pkg.Decorator.Filenames[file], err)
	}
	return nil
}

// WriteFiles writes the annotated files of packages in dir, with their original base names, and returns the names
// of the files written.
func WriteFiles(packages []*decorator.Package, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("could not create directory %s: %w", dir, err)
	}
	var written []string
	for _, pkg := range packages {
		for _, file := range pkg.Syntax {
			name := filepath.Join(dir, filepath.Base(pkg.Decorator.Filenames[file]))
			if err := writeFile(name, pkg, file); err != nil {
				return written, err
			}
			written = append(written, name)
		}
	}
	return written, nil
}

func writeFile(name string, pkg *decorator.Package, file *dst.File) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", name, err)
	}
	defer f.Close()
	if err := Fprint(f, pkg, file); err != nil {
		return fmt.Errorf("could not write %s: %w", name, err)
	}
	return nil
}
