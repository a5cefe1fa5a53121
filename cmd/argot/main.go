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

import (
	"fmt"
	"os"

	"github.com/awslabs/argot-dataflow/analysis"
	"github.com/awslabs/argot-dataflow/cmd/argot/annotate"
	"github.com/awslabs/argot-dataflow/cmd/argot/liveness"
	"github.com/awslabs/argot-dataflow/cmd/argot/tools"
	"github.com/awslabs/argot-dataflow/internal/formatutil"
)

const usage = `Argot: dataflow analyses for Go
Usage:
  argot [tool] [options] <Go file path(s)>
Tools:
  - liveness: computes the variables live before and after every node of every function of a program
  - annotate: writes the variables live before every statement as comments in the sources
Examples:
  Print the live variables of the SSA instructions: argot liveness main.go
  Print the live variables of the statements: argot liveness -ast --config=config.yaml main.go
  Annotate a package in a separate directory: argot annotate -o annotated ./mypackage`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "liveness":
		flags, err := liveness.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := liveness.Run(flags); err != nil {
			errExit(err)
		}
	case "annotate":
		flags, err := annotate.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := annotate.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", formatutil.Red("error:"), err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", formatutil.Yellow("Hint:"), hint)
	}
	os.Exit(2)
}
