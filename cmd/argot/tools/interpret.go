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

package tools

import "regexp"

// Captures errors happening before any analysis starts (program could not load)
var regexCouldNotLoad = regexp.MustCompile("could not load program")

// Captures the kind of error that happen when you put a flag at the end instead of go files
var namedFilesMustBeGoFiles = regexp.MustCompile("-: named files must be .go files: -(\\w)")

// Captures the error when the arguments do not match any package
var noPackages = regexp.MustCompile("could not load program: no packages")

// Captures the solver running out of its evaluation budget
var nonConvergence = regexp.MustCompile("analysis did not converge")

// Captures the solver rejecting a graph
var malformedGraph = regexp.MustCompile("malformed control-flow graph")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if regexCouldNotLoad.MatchString(errMsg) {
		if namedFilesMustBeGoFiles.MatchString(errMsg) {
			return "all command line flags should be before the path to the Go files to analyze"
		}
		if noPackages.MatchString(errMsg) {
			return "the arguments should be Go files or package patterns, as for go build"
		}
		return "make sure you have provided the right arguments for an analyzer to load a Go program"
	}
	if nonConvergence.MatchString(errMsg) {
		return "increase max-evaluations in the config file, or set it to 0 to remove the bound"
	}
	if malformedGraph.MatchString(errMsg) {
		return "functions with infinite loops fail when validate-graph is set in the config file"
	}
	return ""
}
