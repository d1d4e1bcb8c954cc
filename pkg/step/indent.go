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

	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/config"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

const (
	IndentName = "indent"

	IndentSpaces = "spaces"
	IndentTabs   = "tabs"

	DefaultIndentWidth = 4
)

// 📏 Indent rewrites the leading whitespace of every line in one style.
// A tab counts as Width columns.
type Indent struct {
	Style string
	Width int
}

func newIndent(cfg config.StepConfig) (Step, error) {
	if err := onlyAttributes(cfg, "style", "width"); err != nil {
		return nil, err
	}
	s := &Indent{Style: IndentSpaces, Width: DefaultIndentWidth}
	if cfg.Style != nil {
		s.Style = strings.ToLower(*cfg.Style)
	}
	if cfg.Width != nil {
		s.Width = *cfg.Width
	}
	if s.Style != IndentSpaces && s.Style != IndentTabs {
		return nil, errors.Errorf("style %q must be %s or %s", s.Style, IndentSpaces, IndentTabs)
	}
	if s.Width < 1 {
		return nil, errors.Errorf("width must be positive, got %d", s.Width)
	}
	return s, nil
}

func (s *Indent) Name() string           { return IndentName }
func (s *Indent) GloballyReusable() bool { return true }

func (s *Indent) Fingerprint(h *checksum.Hasher) {
	h.String("type", IndentName)
	h.String("style", s.Style)
	h.Int("width", int64(s.Width))
}

func (s *Indent) Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error) {
	return []format.Stage{newStage(s.Name(), func(ctx context.Context, content, file string) (string, error) {
		lines := strings.Split(content, "\n")
		for i, line := range lines {
			lines[i] = s.line(line)
		}
		return strings.Join(lines, "\n"), nil
	})}, nil
}

func (s *Indent) line(line string) string {
	cols, n := 0, 0
scan:
	for ; n < len(line); n++ {
		switch line[n] {
		case ' ':
			cols++
		case '\t':
			cols += s.Width
		default:
			break scan
		}
	}
	if n == len(line) {
		// whitespace-only lines are left for trim-trailing-whitespace
		return line
	}
	if s.Style == IndentTabs {
		return strings.Repeat("\t", cols/s.Width) + strings.Repeat(" ", cols%s.Width) + line[n:]
	}
	return strings.Repeat(" ", cols) + line[n:]
}
