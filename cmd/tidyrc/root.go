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

package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/tidyrc/cmd/tidyrc/commands"
	"github.com/walteh/tidyrc/cmd/tidyrc/opts"
	"github.com/walteh/tidyrc/pkg/cleanup"
	"github.com/walteh/tidyrc/pkg/log"
	"github.com/walteh/tidyrc/pkg/operation"
	"github.com/walteh/tidyrc/pkg/step"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd builds the command tree. The root command itself formats.
func newRootCmd(o *opts.RootOpts, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tidyrc [targets...]",
		Short: "Format files with a configurable sequence of steps",
		Long: `tidyrc runs every target file through an ordered sequence of formatting
steps in parallel.

In apply mode (the default) files that are not already formatted are
rewritten. In check mode nothing is written; the exit code tells whether
any file needs formatting:

   0  every file is clean (or was rewritten in apply mode)
   1  check mode found files that need formatting
  -1  a file did not converge to a stable format
  -2  the run failed`,
		Example: `  tidyrc --mode check
  tidyrc -s trim-trailing-whitespace -s end-with-newline 'docs/**/*.md'
  tidyrc -c ci.tidyrc.yaml --diff -m check`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := o.SetupLogging(cmd.Context(), stdout, stderr)
			if err != nil {
				return errors.Errorf("setting up logging: %w", err)
			}
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, o, args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	o.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		commands.NewCleanCmd(o),
		commands.NewStepsCmd(o),
		commands.NewConfigCmd(o),
		newVersionCmd(),
	)

	return cmd
}

func runFormat(cmd *cobra.Command, o *opts.RootOpts, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := o.LoadConfig(ctx, cmd.Flags(), args)
	if err != nil {
		return err
	}
	if err := cfg.RequireRunnable(); err != nil {
		return err
	}
	logger.Debug().Str("config", cfg.Location()).Stringer("run", cfg).Msg("loaded configuration")

	steps, err := step.Default.Build(cfg.Steps)
	if err != nil {
		return errors.Errorf("building steps: %w", err)
	}

	mode := operation.ModeApply
	if cfg.Mode != "" {
		if mode, err = operation.ParseMode(cfg.Mode); err != nil {
			return err
		}
	}

	lineEnding := o.LineEnding
	if cfg.LineEnding != "" {
		if err := lineEnding.Set(cfg.LineEnding); err != nil {
			return err
		}
	}

	base, err := o.AbsBaseDir()
	if err != nil {
		return err
	}

	console := log.FromContext(ctx)
	console.Header(fmt.Sprintf("%s %d step(s)", mode, len(steps)))

	code, err := operation.Run(ctx, operation.Options{
		Targets:     cfg.Targets,
		Mode:        mode,
		Encoding:    cfg.Encoding,
		LineEnding:  lineEnding,
		Parallelism: cfg.Parallelism,
		Steps:       steps,
		BaseDir:     base,
		Reporter:    console,
		Detailed:    o.Diff,
		Registry:    cleanup.Default,
	})
	if err != nil {
		return err
	}
	o.ExitCode = code
	return nil
}
