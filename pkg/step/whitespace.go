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
	"strings"
	"unicode"

	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/config"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/runctx"
)

const (
	TrimTrailingWhitespaceName = "trim-trailing-whitespace"
	EndWithNewlineName         = "end-with-newline"
)

// ✂️ TrimTrailingWhitespace removes spaces and tabs at the end of every line
type TrimTrailingWhitespace struct{}

func newTrimTrailingWhitespace(cfg config.StepConfig) (Step, error) {
	if err := onlyAttributes(cfg); err != nil {
		return nil, err
	}
	return &TrimTrailingWhitespace{}, nil
}

func (s *TrimTrailingWhitespace) Name() string           { return TrimTrailingWhitespaceName }
func (s *TrimTrailingWhitespace) GloballyReusable() bool { return true }

func (s *TrimTrailingWhitespace) Fingerprint(h *checksum.Hasher) {
	h.String("type", TrimTrailingWhitespaceName)
}

func (s *TrimTrailingWhitespace) Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error) {
	return []format.Stage{newStage(s.Name(), func(ctx context.Context, content, file string) (string, error) {
		lines := strings.Split(content, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		return strings.Join(lines, "\n"), nil
	})}, nil
}

// ↩️ EndWithNewline makes a non-empty file end with exactly one newline
type EndWithNewline struct{}

func newEndWithNewline(cfg config.StepConfig) (Step, error) {
	if err := onlyAttributes(cfg); err != nil {
		return nil, err
	}
	return &EndWithNewline{}, nil
}

func (s *EndWithNewline) Name() string           { return EndWithNewlineName }
func (s *EndWithNewline) GloballyReusable() bool { return true }

func (s *EndWithNewline) Fingerprint(h *checksum.Hasher) {
	h.String("type", EndWithNewlineName)
}

func (s *EndWithNewline) Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error) {
	return []format.Stage{newStage(s.Name(), func(ctx context.Context, content, file string) (string, error) {
		trimmed := strings.TrimRightFunc(content, unicode.IsSpace)
		if trimmed == "" {
			return "", nil
		}
		return trimmed + "\n", nil
	})}, nil
}
