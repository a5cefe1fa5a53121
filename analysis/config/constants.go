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

package config

const (
	// DefaultNumRoutines is the number of goroutines used to analyze functions in parallel when the config does not
	// specify it
	DefaultNumRoutines = 4

	// FrontendSSA selects the SSA form of functions: one node per SSA instruction, variables are SSA values
	FrontendSSA = "ssa"

	// FrontendAST selects the source form of functions: one node per statement or condition, variables are the
	// local variables of the source
	FrontendAST = "ast"
)
