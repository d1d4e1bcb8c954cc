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

	"github.com/rs/zerolog"
	"github.com/walteh/tidyrc/pkg/status"
)

// 📣 Reporter is told about every file, in submission order, and about the run
type Reporter interface {
	File(ctx context.Context, r FileReport)
	Summary(ctx context.Context, s Summary)
}

// LogReporter reports through the context logger. Messages come from
// Formatter, status.DefaultFileFormatter when nil.
type LogReporter struct {
	Formatter status.FileFormatter
}

func (r LogReporter) formatter() status.FileFormatter {
	if r.Formatter == nil {
		return status.NewDefaultFileFormatter()
	}
	return r.Formatter
}

func (r LogReporter) File(ctx context.Context, fr FileReport) {
	ev := zerolog.Ctx(ctx).Info()
	if fr.Status.NeedsAttention() {
		ev = zerolog.Ctx(ctx).Warn()
	}
	ev.Stringer("status", fr.Status).Str("detail", fr.Detail).Msg(r.formatter().FormatFileResult(fr.File, fr.Status))
}

func (r LogReporter) Summary(ctx context.Context, s Summary) {
	zerolog.Ctx(ctx).Info().
		Stringer("mode", s.Mode).
		Stringer("result", s.Result).
		Int("exit_code", s.ExitCode).
		Msg(r.formatter().FormatSummary(s.Counts))
}
