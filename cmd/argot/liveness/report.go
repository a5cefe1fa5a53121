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

package liveness

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/awslabs/argot-dataflow/analysis"
)

// Report is the serialized result of the live-variable analysis of a program.
type Report struct {
	Functions []FunctionReport `json:"functions"`
}

// FunctionReport is the serialized result of the analysis of a single function.
type FunctionReport struct {
	Name        string       `json:"name"`
	Position    string       `json:"position"`
	Evaluations int          `json:"evaluations"`
	Error       string       `json:"error,omitempty"`
	Nodes       []NodeReport `json:"nodes,omitempty"`
}

// NodeReport is the serialized facts of a single node.
type NodeReport struct {
	Label    string   `json:"label"`
	Position string   `json:"position,omitempty"`
	In       []string `json:"in"`
	Out      []string `json:"out"`
}

// NewReport returns the report of results.
func NewReport(results []analysis.FunctionLiveness) Report {
	report := Report{Functions: []FunctionReport{}}
	for _, res := range results {
		fr := FunctionReport{
			Name:        res.Name,
			Position:    res.Pos.String(),
			Evaluations: res.Evaluations,
		}
		if res.Err != nil {
			fr.Error = res.Err.Error()
		}
		for _, n := range res.Nodes {
			nr := NodeReport{Label: n.Label, In: nonNil(n.LiveIn), Out: nonNil(n.LiveOut)}
			if n.Pos.IsValid() {
				nr.Position = n.Pos.String()
			}
			fr.Nodes = append(fr.Nodes, nr)
		}
		report.Functions = append(report.Functions, fr)
	}
	return report
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// WriteReport writes the JSON report of results in a new file of dir and returns its name.
func WriteReport(dir string, results []analysis.FunctionLiveness) (string, error) {
	f, err := os.CreateTemp(dir, "liveness-report-*.json")
	if err != nil {
		return "", fmt.Errorf("could not create report file: %v", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(results)); err != nil {
		return "", fmt.Errorf("could not write report: %v", err)
	}
	return f.Name(), nil
}
