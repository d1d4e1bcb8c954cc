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

package opts

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/walteh/tidyrc/pkg/config"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/log"
	"github.com/walteh/tidyrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile  string
	BaseDir     string
	Mode        operation.Mode
	Targets     []string
	Encoding    string
	LineEnding  format.LineEnding
	Parallelism int
	Steps       []string
	Diff        bool
	Verbosity   int
	Quiet       bool
	LogFile     string

	// ExitCode is set by the command that ran
	ExitCode int

	closer io.Closer
}

// 🏭 New returns options holding the flag defaults
func New() *RootOpts {
	return &RootOpts{
		BaseDir:    ".",
		Mode:       operation.ModeApply,
		Encoding:   format.DefaultEncoding,
		LineEnding: format.LineEndingUnix,
	}
}

// AddFlags registers the persistent flags
func (o *RootOpts) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", "", "config file (default: discovered .tidyrc.* or user config)")
	fs.VarP(&o.Mode, "mode", "m", "apply writes formatted files, check only reports them")
	fs.StringArrayVarP(&o.Targets, "target", "t", nil, "file, directory or glob to format (repeatable)")
	fs.StringVarP(&o.Encoding, "encoding", "e", o.Encoding, "charset files are read and written in")
	fs.VarP(&o.LineEnding, "line-ending", "l", "UNIX, WINDOWS, MAC_CLASSIC, PLATFORM_NATIVE or PRESERVE")
	fs.IntVarP(&o.Parallelism, "parallelism", "p", 0, "number of workers (default: half the CPUs)")
	fs.StringArrayVarP(&o.Steps, "step", "s", nil, "step type to run, replacing the configured steps (repeatable)")
	fs.BoolVarP(&o.Diff, "diff", "d", false, "show a diff for every file that needs formatting")
	fs.CountVarP(&o.Verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")
	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "only log errors")
	fs.StringVar(&o.LogFile, "log-file", "", "also write JSON logs to a file (--log-file=PATH, default under the XDG state home)")
	fs.Lookup("log-file").NoOptDefVal = log.DefaultLogFile()
	fs.StringVar(&o.BaseDir, "basedir", o.BaseDir, "directory targets and config paths are relative to")
	_ = fs.MarkHidden("basedir")
}

// 🏗️ SetupLogging builds the diagnostic logger and the console reporter and
// puts both on the returned context
func (o *RootOpts) SetupLogging(ctx context.Context, stdout, stderr io.Writer) (context.Context, error) {
	logger, closer, err := log.Setup(log.Options{
		Verbosity: o.Verbosity,
		Quiet:     o.Quiet,
		LogFile:   o.LogFile,
		Out:       stderr,
	})
	if err != nil {
		return ctx, err
	}
	o.closer = closer

	base, err := o.AbsBaseDir()
	if err != nil {
		return ctx, err
	}

	ctx = logger.WithContext(ctx)
	return log.NewContext(ctx, log.New(stdout, logger, base, o.Verbosity > 0)), nil
}

// Close releases what SetupLogging opened
func (o *RootOpts) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

// AbsBaseDir returns the base directory as an absolute path
func (o *RootOpts) AbsBaseDir() (string, error) {
	base, err := filepath.Abs(o.BaseDir)
	if err != nil {
		return "", errors.Errorf("resolving base directory: %w", err)
	}
	return base, nil
}

// 📚 LoadConfig loads the configuration file (given or discovered) and lays
// every explicitly set flag over it. args are extra targets.
func (o *RootOpts) LoadConfig(ctx context.Context, fs *pflag.FlagSet, args []string) (*config.Config, error) {
	base, err := o.AbsBaseDir()
	if err != nil {
		return nil, err
	}

	path := o.ConfigFile
	if path == "" {
		if path, err = config.Discover(ctx, base); err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}

	cfg := &config.Config{}
	if path != "" {
		if cfg, err = config.Load(ctx, path); err != nil {
			return nil, err
		}
	} else {
		zerolog.Ctx(ctx).Debug().Str("base", base).Msg("no config file found, using flags only")
	}

	if fs.Changed("target") || len(args) > 0 {
		cfg.Targets = append(append([]string{}, o.Targets...), args...)
	}
	if fs.Changed("mode") {
		cfg.Mode = o.Mode.String()
	}
	if fs.Changed("encoding") {
		cfg.Encoding = o.Encoding
	}
	if fs.Changed("line-ending") {
		cfg.LineEnding = o.LineEnding.String()
	}
	if fs.Changed("parallelism") {
		cfg.Parallelism = o.Parallelism
	}
	if fs.Changed("step") {
		cfg.Steps = make([]config.StepConfig, 0, len(o.Steps))
		for _, s := range o.Steps {
			cfg.Steps = append(cfg.Steps, config.StepConfig{Type: s})
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}
	return cfg, nil
}
