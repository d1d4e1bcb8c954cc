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
	"path/filepath"
	"strings"

	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/config"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/runctx"
	"github.com/walteh/tidyrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const ReplaceName = "replace"

// 🔄 Replace applies ordered text replacements. A rule with a files glob only
// applies to files whose base-relative path matches it.
type Replace struct {
	Rules []text.ReplacementRule
}

type replacementRule text.ReplacementRule

func (r replacementRule) Fingerprint(h *checksum.Hasher) {
	h.String("from", r.FromText)
	h.String("to", r.ToText)
	h.Bool("regex", r.Regex)
	h.String("files", r.FileFilterGlob)
}

func newReplace(cfg config.StepConfig) (Step, error) {
	if err := onlyAttributes(cfg, "replace"); err != nil {
		return nil, err
	}
	if len(cfg.Replace) == 0 {
		return nil, errors.New("at least one replace block is required")
	}
	s := &Replace{}
	for _, r := range cfg.Replace {
		s.Rules = append(s.Rules, text.ReplacementRule{
			FromText:       r.From,
			ToText:         r.To,
			FileFilterGlob: r.Files,
			Regex:          r.Regex,
		})
	}
	if err := text.NewSimpleTextReplacer().ValidateRules(s.Rules); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Replace) Name() string           { return ReplaceName }
func (s *Replace) GloballyReusable() bool { return true }

func (s *Replace) Fingerprint(h *checksum.Hasher) {
	h.String("type", ReplaceName)
	rules := make([]replacementRule, len(s.Rules))
	for i, r := range s.Rules {
		rules[i] = replacementRule(r)
	}
	h.String("rules", checksum.OfSequence(rules))
}

func (s *Replace) Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error) {
	replacer := text.NewSimpleTextReplacer()
	base := rc.BaseDir()

	return []format.Stage{newStage(s.Name(), func(ctx context.Context, content, file string) (string, error) {
		rel, err := filepath.Rel(base, file)
		if err != nil {
			rel = file
		}
		rules := text.FilterRules(s.Rules, filepath.ToSlash(rel))
		if len(rules) == 0 {
			return content, nil
		}
		res, err := replacer.ReplaceText(ctx, strings.NewReader(content), rules)
		if err != nil {
			return "", err
		}
		return string(res.ModifiedContent), nil
	})}, nil
}
