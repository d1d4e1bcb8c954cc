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

package operation

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/walteh/tidyrc/pkg/cleanup"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/layout"
	"github.com/walteh/tidyrc/pkg/runctx"
	"github.com/walteh/tidyrc/pkg/status"
	"github.com/walteh/tidyrc/pkg/step"
	"github.com/walteh/tidyrc/pkg/target"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains everything a run needs
type Options struct {
	// Targets are literal paths, directories or globs, relative to BaseDir
	Targets []string
	// Mode decides whether dirty files are rewritten
	Mode Mode
	// Encoding is the charset files are read and written in
	Encoding string
	// LineEnding is the line ending policy of the canonical content
	LineEnding format.LineEnding
	// Parallelism is the number of workers; 0 means half the CPUs
	Parallelism int
	// Steps is the ordered step sequence every pipeline is built from
	Steps step.Sequence
	// BaseDir anchors relative targets and config paths
	BaseDir string
	// Reporter hears about every file; nil logs through the context logger
	Reporter Reporter
	// Detailed renders dirty files as diffs instead of one line
	Detailed bool

	// Registry receives the scratch directories steps create; nil means cleanup.Default
	Registry *cleanup.Registry
	// TempDir overrides the system temporary directory for build roots
	TempDir string
}

// DefaultParallelism is the worker count used when none is configured
func DefaultParallelism() int {
	return max(1, runtime.NumCPU()/2)
}

// 🚀 Run resolves the targets, checks every file on a worker pool, applies the
// mode to each outcome in submission order and returns the exit code.
// A returned error always comes with ExitCodeFailure.
func Run(ctx context.Context, opts Options) (int, error) {
	logger := zerolog.Ctx(ctx)

	mode := opts.Mode
	if mode == "" {
		mode = ModeApply
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = LogReporter{}
	}
	registry := opts.Registry
	if registry == nil {
		registry = cleanup.Default
	}

	files, err := layout.NewFileResolver(opts.BaseDir)
	if err != nil {
		return ExitCodeFailure, errors.Errorf("resolving base directory: %w", err)
	}

	targets, err := target.NewResolver(files.BaseDir(), opts.Targets).Resolve(ctx)
	if err != nil {
		return ExitCodeFailure, err
	}
	if len(targets) == 0 {
		logger.Warn().Strs("targets", opts.Targets).Msg("no files matched")
	}

	var layoutOpts []layout.Option
	if opts.TempDir != "" {
		layoutOpts = append(layoutOpts, layout.WithTempDir(opts.TempDir))
	}
	l := layout.New(files, opts.Steps, layoutOpts...)

	factory := NewPipelineFactory(runctx.New(l, registry), func(ctx context.Context, rc *runctx.Context) (*format.Pipeline, error) {
		stages, err := opts.Steps.Prepare(ctx, rc)
		if err != nil {
			return nil, err
		}
		p, err := format.New(format.Options{
			Encoding:   opts.Encoding,
			LineEnding: opts.LineEnding,
			Stages:     stages,
		})
		if err != nil {
			if cerr := format.CloseStages(stages); cerr != nil {
				zerolog.Ctx(ctx).Warn().Err(cerr).Msg("closing stages after failed pipeline build")
			}
			return nil, err
		}
		return p, nil
	})
	defer func() {
		if err := factory.ReleaseAll(ctx); err != nil {
			logger.Warn().Err(err).Msg("closing pipelines")
		}
	}()

	workers := opts.Parallelism
	if workers <= 0 {
		workers = DefaultParallelism()
	}
	logger.Debug().
		Int("files", len(targets)).
		Int("workers", workers).
		Stringer("mode", mode).
		Strs("steps", opts.Steps.Names()).
		Msg("starting run")

	p := newPool(ctx, workers, len(targets))
	defer p.shutdown()

	futures := make([]*future, 0, len(targets))
	for _, file := range targets {
		futures = append(futures, p.submit(func(ctx context.Context, workerID int) (*Result, error) {
			pipeline, err := factory.Get(ctx, workerID)
			if err != nil {
				return nil, err
			}
			outcome, err := pipeline.Check(ctx, file)
			if err != nil {
				return nil, errors.Errorf("formatting %s: %w", file, err)
			}
			return &Result{Target: file, Outcome: outcome, Pipeline: pipeline}, nil
		}))
	}

	tracker := status.NewTracker()
	result := Clean
	for _, f := range futures {
		res, err := f.wait()
		if err != nil {
			return ExitCodeFailure, err
		}
		rt, err := mode.HandleResult(ctx, res, trackingReporter{reporter, tracker}, opts.Detailed)
		if err != nil {
			return ExitCodeFailure, err
		}
		result = result.Combine(rt)
	}

	code := mode.ExitCode(result)
	reporter.Summary(ctx, Summary{
		Mode:     mode,
		Result:   result,
		ExitCode: code,
		Counts:   tracker.Snapshot(),
		Total:    tracker.Total(),
	})
	return code, nil
}

// trackingReporter counts statuses on the way to the real reporter
type trackingReporter struct {
	Reporter
	tracker *status.Tracker
}

func (r trackingReporter) File(ctx context.Context, fr FileReport) {
	r.tracker.Track(fr.Status)
	r.Reporter.File(ctx, fr)
}
