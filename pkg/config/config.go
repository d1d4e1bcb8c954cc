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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/walteh/tidyrc/pkg/format"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📄 FileNames are the project config names looked up in the base directory, in order
var FileNames = []string{".tidyrc.hcl", ".tidyrc.yaml", ".tidyrc.yml", ".tidyrc.json", ".tidyrc.toml"}

// 🔄 ReplaceConfig is one replacement rule of a replace step
type ReplaceConfig struct {
	From  string `hcl:"from" json:"from" yaml:"from" toml:"from"`
	To    string `hcl:"to,optional" json:"to,omitempty" yaml:"to,omitempty" toml:"to,omitempty"`
	Regex bool   `hcl:"regex,optional" json:"regex,omitempty" yaml:"regex,omitempty" toml:"regex,omitempty"`
	Files string `hcl:"files,optional" json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
}

// 🧩 StepConfig configures one step. Type selects the step; which of the
// other attributes apply depends on it.
type StepConfig struct {
	Type       string            `hcl:"type,label" json:"type" yaml:"type" toml:"type"`
	Header     *string           `hcl:"header,optional" json:"header,omitempty" yaml:"header,omitempty" toml:"header,omitempty"`
	HeaderFile *string           `hcl:"header_file,optional" json:"header_file,omitempty" yaml:"header_file,omitempty" toml:"header_file,omitempty"`
	Delimiter  *string           `hcl:"delimiter,optional" json:"delimiter,omitempty" yaml:"delimiter,omitempty" toml:"delimiter,omitempty"`
	Style      *string           `hcl:"style,optional" json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
	Width      *int              `hcl:"width,optional" json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Command    []string          `hcl:"command,optional" json:"command,omitempty" yaml:"command,omitempty" toml:"command,omitempty"`
	Env        map[string]string `hcl:"env,optional" json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
	Version    *string           `hcl:"version,optional" json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Replace    []ReplaceConfig   `hcl:"replace,block" json:"replace,omitempty" yaml:"replace,omitempty" toml:"replace,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Targets     []string     `hcl:"targets,optional" json:"targets,omitempty" yaml:"targets,omitempty" toml:"targets,omitempty"`
	Mode        string       `hcl:"mode,optional" json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`
	Encoding    string       `hcl:"encoding,optional" json:"encoding,omitempty" yaml:"encoding,omitempty" toml:"encoding,omitempty"`
	LineEnding  string       `hcl:"line_ending,optional" json:"line_ending,omitempty" yaml:"line_ending,omitempty" toml:"line_ending,omitempty"`
	Parallelism int          `hcl:"parallelism,optional" json:"parallelism,omitempty" yaml:"parallelism,omitempty" toml:"parallelism,omitempty"`
	Steps       []StepConfig `hcl:"step,block" json:"steps,omitempty" yaml:"steps,omitempty" toml:"step,omitempty"`

	location string
}

// Location returns the file the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Discover finds the config to use when none was given: a project file in
// baseDir first, then the user's file under the XDG config home. It returns
// "" when there is none.
func Discover(ctx context.Context, baseDir string) (string, error) {
	for _, name := range FileNames {
		p := filepath.Join(baseDir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}

	for _, name := range FileNames {
		rel := filepath.Join("tidyrc", "config"+strings.TrimPrefix(name, ".tidyrc"))
		if p, err := xdg.SearchConfigFile(rel); err == nil {
			zerolog.Ctx(ctx).Debug().Str("path", p).Msg("using user configuration")
			return p, nil
		}
	}
	return "", nil
}

// UserConfigPath is where a user-level HCL config is expected
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "tidyrc", "config.hcl")
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Mode != "" {
		switch strings.ToLower(cfg.Mode) {
		case "apply", "check":
		default:
			return errors.Errorf("mode %q must be apply or check", cfg.Mode)
		}
	}
	if cfg.LineEnding != "" {
		if _, err := format.ParseLineEnding(cfg.LineEnding); err != nil {
			return err
		}
	}
	if cfg.Encoding != "" {
		if _, err := format.LookupCharset(cfg.Encoding); err != nil {
			return err
		}
	}
	if cfg.Parallelism < 0 {
		return errors.Errorf("parallelism must be positive, got %d", cfg.Parallelism)
	}
	for i, s := range cfg.Steps {
		if s.Type == "" {
			return errors.Errorf("step %d: type is required", i)
		}
		for j, r := range s.Replace {
			if r.From == "" {
				return errors.Errorf("step %d (%s): replace %d: from is required", i, s.Type, j)
			}
		}
	}
	return nil
}

// 🏃 RequireRunnable checks that a run has something to do
func (cfg *Config) RequireRunnable() error {
	if len(cfg.Targets) == 0 {
		return errors.Errorf("no targets: pass --target or set targets in the config")
	}
	if len(cfg.Steps) == 0 {
		return errors.Errorf("no steps: pass --step or add step blocks to the config")
	}
	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	types := make([]string, 0, len(cfg.Steps))
	for _, s := range cfg.Steps {
		types = append(types, s.Type)
	}
	mode := cfg.Mode
	if mode == "" {
		mode = "apply"
	}
	return fmt.Sprintf("%s %s [%s]", mode, strings.Join(cfg.Targets, ","), strings.Join(types, " -> "))
}
