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

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the options of the analyses.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:",inline"`

	sourceFile string

	// if the PkgFilter is specified
	pkgFilterRegex *regexp.Regexp
}

// Options are the options that can be set at the top level of a config file.
type Options struct {
	// ReportsDir is the directory where reports and annotated sources are written. It is created if it does not
	// exist. If empty, outputs are printed on the standard output.
	ReportsDir string `yaml:"reports-dir"`

	// PkgFilter is a filter on the packages whose functions are analyzed. It is a regex if it compiles as one,
	// otherwise a prefix.
	PkgFilter string `yaml:"pkg-filter"`

	// Frontend is the representation functions are analyzed on: FrontendSSA (default) or FrontendAST
	Frontend string `yaml:"frontend"`

	// NumRoutines is the number of functions analyzed in parallel. Defaults to DefaultNumRoutines if <= 0.
	NumRoutines int `yaml:"num-routines"`

	// MaxEvaluations bounds the number of node evaluations of the solver for a single function. If <= 0, there is no
	// bound.
	MaxEvaluations int `yaml:"max-evaluations"`

	// CheckMonotone makes the solver fail when a fact decreases during iteration
	CheckMonotone bool `yaml:"check-monotone"`

	// ValidateGraph makes the solver check that every node is reachable from the entry and reaches the exit
	ValidateGraph bool `yaml:"validate-graph"`

	// Dense makes the analysis use bitset facts instead of map-based facts
	Dense bool `yaml:"dense"`

	// ReportStats prints the statistics of each control-flow graph with its results
	ReportStats bool `yaml:"report-stats"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile: "",
		Options: Options{
			ReportsDir:     "",
			PkgFilter:      "",
			Frontend:       FrontendSSA,
			NumRoutines:    DefaultNumRoutines,
			MaxEvaluations: 0,
			CheckMonotone:  false,
			ValidateGraph:  false,
			Dense:          false,
			ReportStats:    false,
			LogLevel:       int(InfoLevel),
			SilenceWarn:    false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadFromBytes(filename, b)
}

// LoadFromBytes parses the configuration in b. filename is the name of the file b has been read from; relative paths
// in the configuration are relative to its directory.
func LoadFromBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if cfg.NumRoutines <= 0 {
		cfg.NumRoutines = DefaultNumRoutines
	}

	switch cfg.Frontend {
	case "":
		cfg.Frontend = FrontendSSA
	case FrontendSSA, FrontendAST:
	default:
		return nil, fmt.Errorf("unknown frontend %q, expected %q or %q", cfg.Frontend, FrontendSSA, FrontendAST)
	}

	if cfg.ReportsDir != "" {
		if err := setReportsDir(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.PkgFilter != "" {
		r, err := regexp.Compile(cfg.PkgFilter)
		if err == nil {
			cfg.pkgFilterRegex = r
		}
	}

	return cfg, nil
}

func setReportsDir(c *Config) error {
	if !path.IsAbs(c.ReportsDir) && c.sourceFile != "" {
		c.ReportsDir = c.RelPath(c.ReportsDir)
	}
	err := os.MkdirAll(c.ReportsDir, 0750)
	if err != nil {
		return fmt.Errorf("could not create directory %s: %w", c.ReportsDir, err)
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchPkgFilter returns true if the package name pkgname matches the package filter set in the config file. If no
// package filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the package filter string is a prefix of the pkgname
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	} else {
		return true
	}
}
