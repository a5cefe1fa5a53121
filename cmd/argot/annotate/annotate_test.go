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

package annotate

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	_, filename, _, _ := runtime.Caller(0)
	src := filepath.Join(filepath.Dir(filename), "../../../testdata/src/liveness/basic")
	out := filepath.Join(t.TempDir(), "annotated")

	flags, err := NewFlags([]string{"-o", out, src})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flags.outDir != out {
		t.Errorf("expected output directory %s, got %s", out, flags.outDir)
	}
	if err := Run(flags); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(out, "main.go"))
	if err != nil {
		t.Fatalf("annotated file not written: %v", err)
	}
	if !strings.Contains(string(b), "// live: p, t\n\tp.y = t") {
		t.Errorf("missing annotation in\n%s", b)
	}
	original, err := os.ReadFile(filepath.Join(src, "main.go"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(original), "// live:") {
		t.Errorf("the original file should not be modified")
	}
}
