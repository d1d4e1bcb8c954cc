// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	// Save original parsers
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()

	// Reset parsers
	parsers = nil

	mockParser := &struct {
		Parser
	}{}

	Register(mockParser)
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Equal(t, mockParser, parsers[0], "registered parser should match")
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml_file", filename: ".tidyrc.yaml", want: &YAMLParser{}},
		{name: "yml_file", filename: ".tidyrc.yml", want: &YAMLParser{}},
		{name: "upper_yaml", filename: "CONFIG.YAML", want: &YAMLParser{}},
		{name: "hcl_file", filename: ".tidyrc.hcl", want: &HCLParser{}},
		{name: "json_file", filename: ".tidyrc.json", want: &JSONParser{}},
		{name: "toml_file", filename: ".tidyrc.toml", want: &TOMLParser{}},
		{name: "unknown_extension", filename: "config.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unknown extension")
				return
			}
			require.NotNil(t, got, "should return a parser")
			assert.IsType(t, tt.want, got, "should return correct parser type")
		})
	}
}

func TestFileNamesHaveParsers(t *testing.T) {
	for _, name := range FileNames {
		assert.NotNil(t, GetParser(name), name)
	}
}

// 🧪 TestHCLParsing tests HCL config parsing
func TestHCLParsing(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_hcl",
			config: `
targets = ["."]

step "license-header" {
  header_file = "LICENSE.header"
  delimiter   = "^package "
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"."}, cfg.Targets)
				require.Len(t, cfg.Steps, 1)
				assert.Equal(t, "license-header", cfg.Steps[0].Type)
				assert.Nil(t, cfg.Steps[0].Header)
				require.NotNil(t, cfg.Steps[0].HeaderFile)
				assert.Equal(t, "LICENSE.header", *cfg.Steps[0].HeaderFile)
				assert.Equal(t, "^package ", *cfg.Steps[0].Delimiter)
			},
		},
		{
			name:   "empty",
			config: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Targets)
				assert.Empty(t, cfg.Steps)
			},
		},
		{
			name: "invalid_hcl_syntax",
			config: `
step "exec" {
  command =
}`,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name: "invalid_block_type",
			config: `
copy {
  foo = "bar"
}`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "step_without_label",
			config:      "step {}\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name: "unknown_variable",
			config: `
step "license-header" {
  header = nope.value
}`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
	}

	parser := &HCLParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestYAMLParsing_Empty(t *testing.T) {
	cfg, err := (&YAMLParser{}).Parse(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Steps)
}

func TestHCLIdentifier(t *testing.T) {
	tests := map[string]bool{
		"HOME":         true,
		"_private":     true,
		"with-dash":    true,
		"A1":           true,
		"":             false,
		"1LEADING":     false,
		"-dash":        false,
		"has.dot":      false,
		"ProgramW6432": true,
	}
	for in, want := range tests {
		assert.Equal(t, want, hclIdentifier(in), in)
	}
}

func TestJSONParsing(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantSteps   int
		errContains string
	}{
		{name: "single_object", config: `{"targets": ["."], "steps": [{"type": "trim-trailing-whitespace"}]}`, wantSteps: 1},
		{name: "empty", config: "  \n", wantSteps: 0},
		{name: "trailing_object", config: `{"targets": ["."]} {"targets": ["pkg"]}`, errContains: "unexpected content after the config object"},
		{name: "unknown_field", config: `{"target": ["."]}`, errContains: "parsing JSON"},
		{name: "truncated", config: `{"targets": [`, errContains: "parsing JSON"},
	}

	parser := &JSONParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, []byte(tt.config))
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			assert.Len(t, cfg.Steps, tt.wantSteps)
		})
	}
}
