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

package step

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/config"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

// 🧩 Step is one configured formatting step. Prepare is called once per
// pipeline (so once per worker) and returns the stages that do the work.
type Step interface {
	checksum.Fingerprintable
	Name() string
	Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error)
}

// 📚 Sequence is the ordered list of steps of a run
type Sequence []Step

// Fingerprint hashes the steps in order
func (s Sequence) Fingerprint(h *checksum.Hasher) {
	h.String("sequence", checksum.OfSequence(s))
}

// Names returns the step names in order
func (s Sequence) Names() []string {
	names := make([]string, 0, len(s))
	for _, st := range s {
		names = append(names, st.Name())
	}
	return names
}

// 🛠️ Prepare prepares every step in order. Stages already prepared are closed
// when a later step fails.
func (s Sequence) Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error) {
	var stages []format.Stage
	for _, st := range s {
		prepared, err := st.Prepare(ctx, rc)
		if err != nil {
			if cerr := format.CloseStages(stages); cerr != nil {
				zerolog.Ctx(ctx).Warn().Err(cerr).Msg("closing stages after failed prepare")
			}
			return nil, errors.Errorf("preparing step %s: %w", st.Name(), err)
		}
		stages = append(stages, prepared...)
	}
	return stages, nil
}

// stageFunc adapts a function to format.Stage
type stageFunc struct {
	name string
	fn   func(ctx context.Context, content, file string) (string, error)
}

func (s *stageFunc) Name() string { return s.name }

func (s *stageFunc) Format(ctx context.Context, content, file string) (string, error) {
	return s.fn(ctx, content, file)
}

func newStage(name string, fn func(ctx context.Context, content, file string) (string, error)) format.Stage {
	return &stageFunc{name: name, fn: fn}
}

// attributes lists the optional attributes set on cfg
func attributes(cfg config.StepConfig) []string {
	var set []string
	if cfg.Header != nil {
		set = append(set, "header")
	}
	if cfg.HeaderFile != nil {
		set = append(set, "header_file")
	}
	if cfg.Delimiter != nil {
		set = append(set, "delimiter")
	}
	if cfg.Style != nil {
		set = append(set, "style")
	}
	if cfg.Width != nil {
		set = append(set, "width")
	}
	if cfg.Command != nil {
		set = append(set, "command")
	}
	if cfg.Env != nil {
		set = append(set, "env")
	}
	if cfg.Version != nil {
		set = append(set, "version")
	}
	if cfg.Replace != nil {
		set = append(set, "replace")
	}
	return set
}

// onlyAttributes rejects attributes a step does not understand
func onlyAttributes(cfg config.StepConfig, allowed ...string) error {
	for _, a := range attributes(cfg) {
		if !slices.Contains(allowed, a) {
			return errors.Errorf("step %s does not take %q", cfg.Type, a)
		}
	}
	return nil
}
