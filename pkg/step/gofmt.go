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
	"go/format"
	"go/scanner"
	"runtime"
	"strings"

	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/config"
	tformat "github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

const GofmtName = "gofmt"

// 🐹 Gofmt formats Go source files. Other files pass through untouched and
// syntax errors become lints.
type Gofmt struct{}

func newGofmt(cfg config.StepConfig) (Step, error) {
	if err := onlyAttributes(cfg); err != nil {
		return nil, err
	}
	return &Gofmt{}, nil
}

func (s *Gofmt) Name() string           { return GofmtName }
func (s *Gofmt) GloballyReusable() bool { return true }

func (s *Gofmt) Fingerprint(h *checksum.Hasher) {
	h.String("type", GofmtName)
	h.String("go", runtime.Version())
}

func (s *Gofmt) Prepare(ctx context.Context, rc *runctx.Context) ([]tformat.Stage, error) {
	return []tformat.Stage{newStage(s.Name(), func(ctx context.Context, content, file string) (string, error) {
		if !strings.HasSuffix(file, ".go") {
			return content, nil
		}
		out, err := format.Source([]byte(content))
		if err != nil {
			var list scanner.ErrorList
			if errors.As(err, &list) && len(list) > 0 {
				return "", tformat.NewLintError(list[0].Pos.Line, "syntax", list[0].Msg)
			}
			return "", tformat.NewLintError(1, "syntax", err.Error())
		}
		return string(out), nil
	})}, nil
}
