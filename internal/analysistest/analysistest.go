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

// Package analysistest loads test programs and reads the expectations written in their comments.
package analysistest

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/awslabs/argot-dataflow/analysis"
	"github.com/awslabs/argot-dataflow/analysis/config"
	"golang.org/x/tools/go/ssa"
)

// LoadTest loads the program in the directory dir, looking for a main.go and a config.yaml. If additional files
// are specified as extraFiles, the program will be loaded using those files too.
func LoadTest(t *testing.T, dir string, extraFiles []string) (analysis.LoadedProgram, *config.Config) {
	// Load config; in command, should be set using some flag
	configFile := filepath.Join(dir, "config.yaml")
	config.SetGlobalConfig(configFile)
	files := []string{filepath.Join(dir, "./main.go")}
	for _, extraFile := range extraFiles {
		files = append(files, filepath.Join(dir, extraFile))
	}

	prog, err := analysis.LoadProgram(nil, "", ssa.BuilderMode(0), files)
	if err != nil {
		t.Fatalf("error loading packages: %s", err)
	}
	cfg, err := config.LoadGlobal()
	if err != nil {
		t.Fatalf("error loading global config: %s", err)
	}
	return prog, cfg
}

// LiveRegex matches annotations of the form "@Live(id1, id2, id3)". "@Live()" expects that no variable is live.
var LiveRegex = regexp.MustCompile(`//.*@Live\(((?:\s*\w+\s*,?)*)\)`)

// LPos is a line in a file
type LPos struct {
	Filename string
	Line     int
}

// NewLPos returns the line of pos.
func NewLPos(pos token.Position) LPos {
	return LPos{Filename: pos.Filename, Line: pos.Line}
}

// GetExpectedLive parses the Go files of dir and looks for comments @Live(ids). It returns, for each annotated line,
// the sorted list of the variables expected to be live before the first node of the line. File names are
// absolute.
func GetExpectedLive(t *testing.T, dir string) map[LPos][]string {
	files, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		t.Fatalf("could not list files of %s: %s", dir, err)
	}
	fset := token.NewFileSet()
	expected := map[LPos][]string{}
	for _, filename := range files {
		abs, err := filepath.Abs(filename)
		if err != nil {
			t.Fatalf("%s", err)
		}
		f, err := parser.ParseFile(fset, abs, nil, parser.ParseComments)
		if err != nil {
			t.Fatalf("could not parse %s: %s", filename, err)
		}
		for _, group := range f.Comments {
			for _, c := range group.List {
				a := LiveRegex.FindStringSubmatch(c.Text)
				if len(a) < 2 {
					continue
				}
				ids := []string{}
				for _, ident := range strings.Split(a[1], ",") {
					if id := strings.TrimSpace(ident); id != "" {
						ids = append(ids, id)
					}
				}
				sort.Strings(ids)
				expected[NewLPos(fset.Position(c.Pos()))] = ids
			}
		}
	}
	return expected
}
