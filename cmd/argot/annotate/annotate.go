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

// Package annotate implements the front-end that writes the live variables of every statement in the sources.
package annotate

import (
	"fmt"
	"os"

	"github.com/awslabs/argot-dataflow/analysis"
	"github.com/awslabs/argot-dataflow/analysis/annotate"
	"github.com/awslabs/argot-dataflow/analysis/config"
	"github.com/awslabs/argot-dataflow/cmd/argot/tools"
	"github.com/awslabs/argot-dataflow/internal/formatutil"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"
)

const usage = `Annotate Go sources with the variables live before every statement.

Usage:
  argot annotate package...
  argot annotate -o outdir package...

Without -o, the annotated files are printed on the standard output, unless the config file sets reports-dir. The
original files are never modified.

Use the -help flag to display the options.

Examples:
% argot annotate -o annotated hello.go
`

// Flags represents the parsed annotate sub-command flags.
type Flags struct {
	tools.CommonFlags
	outDir string
}

// NewFlags returns the parsed annotate flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("annotate")
	outDir := flags.FlagSet.String("o", "", "directory where the annotated files are written")
	tools.SetUsage(flags.FlagSet, usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, outDir: *outDir}, nil
}

// Run annotates the packages in the arguments of flags.
func Run(flags Flags) error {
	cfg, err := tools.ConfigFromFlags(flags.CommonFlags)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)

	fmt.Fprintf(os.Stderr, formatutil.Faint("Reading sources")+"\n")
	pkgs, err := decorator.Load(&packages.Config{Mode: analysis.PkgLoadMode, Tests: flags.WithTest},
		flags.FlagSet.Args()...)
	if err != nil {
		return fmt.Errorf("could not load program: %v", err)
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("could not load program: no packages")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return fmt.Errorf("could not load program: %v", pkg.Errors[0])
		}
	}

	fmt.Fprintf(os.Stderr, formatutil.Faint("Analyzing")+"\n")
	annotate.Annotate(pkgs, cfg, logger)

	dir := flags.outDir
	if dir == "" {
		dir = cfg.ReportsDir
	}
	if dir == "" {
		for _, pkg := range pkgs {
			for _, file := range pkg.Syntax {
				fmt.Printf("%s\n", formatutil.Faint("// "+pkg.Decorator.Filenames[file]))
				if err := annotate.Fprint(os.Stdout, pkg, file); err != nil {
					return err
				}
			}
		}
		return nil
	}
	written, err := annotate.WriteFiles(pkgs, dir)
	for _, name := range written {
		logger.Infof("Wrote %s", name)
	}
	return err
}
