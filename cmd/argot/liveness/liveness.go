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

// Package liveness implements the front-end to the live-variable analysis.
package liveness

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awslabs/argot-dataflow/analysis"
	"github.com/awslabs/argot-dataflow/analysis/config"
	"github.com/awslabs/argot-dataflow/cmd/argot/tools"
	"github.com/awslabs/argot-dataflow/internal/formatutil"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
)

const usage = `Compute the live variables of every function of a Go program.

Usage:
  argot liveness package...
  argot liveness source.go
  argot liveness -ast -config config.yaml package...

Every node of the control-flow graph of every function is printed with the variables live before it (in) and after
it (out). By default, nodes are SSA instructions; with -ast, nodes are statements and conditions of the source.

Use the -help flag to display the options.

Examples:
% argot liveness hello.go
`

// Flags represents the parsed liveness sub-command flags.
type Flags struct {
	tools.CommonFlags
	ast        bool
	dense      bool
	outputJson bool
}

// NewFlags returns the parsed liveness flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("liveness")
	ast := flags.FlagSet.Bool("ast", false, "analyze the statements of the source instead of the SSA instructions")
	dense := flags.FlagSet.Bool("dense", false, "use bitset facts")
	outputJson := flags.FlagSet.Bool("json", false, "output results as JSON")
	tools.SetUsage(flags.FlagSet, usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{
		CommonFlags: common,
		ast:         *ast,
		dense:       *dense,
		outputJson:  *outputJson,
	}, nil
}

// Run runs the live-variable analysis with flags.
func Run(flags Flags) error {
	cfg, err := tools.ConfigFromFlags(flags.CommonFlags)
	if err != nil {
		return err
	}
	if flags.ast {
		cfg.Frontend = config.FrontendAST
	}
	if flags.dense {
		cfg.Dense = true
	}
	logger := config.NewLogGroup(cfg)

	fmt.Fprintf(os.Stderr, formatutil.Faint("Reading sources")+"\n")
	loadConfig := &packages.Config{
		Mode:  analysis.PkgLoadMode,
		Tests: flags.WithTest,
	}
	program, err := analysis.LoadProgram(loadConfig, "", ssa.InstantiateGenerics, flags.FlagSet.Args())
	if err != nil {
		return fmt.Errorf("could not load program: %v", err)
	}

	fmt.Fprintf(os.Stderr, formatutil.Faint("Analyzing")+"\n")
	results := analysis.RunLiveness(cfg, logger, program)

	if flags.outputJson {
		buf, err := json.MarshalIndent(NewReport(results), "", "  ")
		if err != nil {
			return fmt.Errorf("could not marshal results: %v", err)
		}
		fmt.Println(string(buf))
	} else {
		Fprint(os.Stdout, results)
	}

	if cfg.ReportsDir != "" {
		name, err := WriteReport(cfg.ReportsDir, results)
		if err != nil {
			return err
		}
		logger.Infof("Report written in %s", name)
	}
	return errorOf(results)
}

// Fprint prints the results to w, one function after the other.
func Fprint(w io.Writer, results []analysis.FunctionLiveness) {
	for _, res := range results {
		fmt.Fprintf(w, "%s %s %s\n", formatutil.Bold(res.Name), formatutil.Faint(res.Pos.String()),
			formatutil.Green(fmt.Sprintf("(%d evaluations)", res.Evaluations)))
		if res.Err != nil {
			fmt.Fprintf(w, "  %s %v\n", formatutil.Red("error:"), res.Err)
			continue
		}
		if res.Stats != nil {
			fmt.Fprintf(w, "  %s\n", formatutil.Faint(res.Stats.String()))
		}
		width := 0
		for _, n := range res.Nodes {
			if l := len(n.Label); l > width {
				width = l
			}
		}
		for _, n := range res.Nodes {
			fmt.Fprintf(w, "  %-*s  %s %s  %s %s\n", width, n.Label,
				formatutil.Cyan("in:"), names(n.LiveIn),
				formatutil.Cyan("out:"), names(n.LiveOut))
		}
	}
}

func names(vars []string) string {
	if len(vars) == 0 {
		return "{}"
	}
	return "{" + strings.Join(vars, ", ") + "}"
}

func errorOf(results []analysis.FunctionLiveness) error {
	var failed []string
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", res.Name, res.Err))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("liveness failed for %d functions: %s", len(failed), strings.Join(failed, "; "))
}
