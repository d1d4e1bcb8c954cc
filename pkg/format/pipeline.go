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

package format

import (
	"bytes"
	"context"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultMaxAttempts bounds how often the pipeline is re-applied to its own
// output while looking for a steady state
const DefaultMaxAttempts = 10

// ⚙️ Stage transforms file content. Content always uses \n separators.
// Returning a *LintError records a lint and leaves the content unchanged;
// any other error fails the file.
type Stage interface {
	Name() string
	Format(ctx context.Context, content, file string) (string, error)
}

// 🔧 Options configures a pipeline
type Options struct {
	Encoding    string
	LineEnding  LineEnding
	Stages      []Stage
	MaxAttempts int
}

// 🏭 Pipeline runs an ordered list of stages over files. It is not safe for
// concurrent use; each worker gets its own.
type Pipeline struct {
	charset     *Charset
	lineEnding  LineEnding
	stages      []Stage
	maxAttempts int

	closeOnce sync.Once
	closeErr  error
}

// New creates a pipeline
func New(opts Options) (*Pipeline, error) {
	cs, err := LookupCharset(opts.Encoding)
	if err != nil {
		return nil, errors.Errorf("creating pipeline: %w", err)
	}
	le := opts.LineEnding
	if le == "" {
		le = LineEndingUnix
	}
	if _, err := ParseLineEnding(string(le)); err != nil {
		return nil, errors.Errorf("creating pipeline: %w", err)
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	return &Pipeline{
		charset:     cs,
		lineEnding:  le,
		stages:      slices.Clone(opts.Stages),
		maxAttempts: attempts,
	}, nil
}

// Stages returns the pipeline's stages in order
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Charset returns the pipeline's charset
func (p *Pipeline) Charset() *Charset {
	return p.charset
}

// 🔄 Format applies every stage to content, which must use \n separators
func (p *Pipeline) Format(ctx context.Context, content, file string) (string, []Lint, error) {
	var lints []Lint
	for _, s := range p.stages {
		out, err := s.Format(ctx, content, file)
		if err != nil {
			var lint *LintError
			if errors.As(err, &lint) {
				lints = append(lints, Lint{Stage: s.Name(), Line: lint.Line, Code: lint.Code, Message: lint.Message})
				continue
			}
			return "", nil, errors.Errorf("stage %s: %w", s.Name(), err)
		}
		content = out
	}
	return content, lints, nil
}

// 🔍 Check reads file and reports how it differs from its formatted form
func (p *Pipeline) Check(ctx context.Context, file string) (*Outcome, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", file, err)
	}
	return p.CheckContent(ctx, file, raw)
}

// CheckContent is Check for content already in memory
func (p *Pipeline) CheckContent(ctx context.Context, file string, raw []byte) (*Outcome, error) {
	text, err := p.charset.Decode(raw)
	if err != nil {
		return nil, err
	}
	sep := p.lineEnding.Separator(text)

	first, lints, err := p.Format(ctx, normalize(text), file)
	if err != nil {
		return nil, err
	}

	o := &Outcome{File: file, Raw: raw, Lints: lints, charset: p.charset}

	out, err := p.charset.Encode(denormalize(first, sep))
	if err != nil {
		return nil, err
	}
	if bytes.Equal(out, raw) {
		o.state = stateClean
		return o, nil
	}

	canonical, kind, err := p.converge(ctx, first, file)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Trace().Str("file", file).Str("convergence", kind.String()).Msg("checked convergence")
	if kind == diverge {
		o.state = stateDidNotConverge
		return o, nil
	}

	out, err = p.charset.Encode(denormalize(canonical, sep))
	if err != nil {
		return nil, err
	}
	if bytes.Equal(out, raw) {
		o.state = stateClean
		return o, nil
	}
	o.state = stateDirty
	o.Canonical = out
	return o, nil
}

type convergence int

const (
	converge convergence = iota
	cycle
	diverge
)

func (c convergence) String() string {
	switch c {
	case converge:
		return "converge"
	case cycle:
		return "cycle"
	default:
		return "diverge"
	}
}

// converge re-applies the pipeline to its own output until it stops changing.
// A cycle resolves to its shortest, then lexically smallest, member.
func (p *Pipeline) converge(ctx context.Context, first, file string) (string, convergence, error) {
	history := []string{first}
	for i := 0; i < p.maxAttempts; i++ {
		last := history[len(history)-1]
		next, _, err := p.Format(ctx, last, file)
		if err != nil {
			return "", diverge, err
		}
		if next == last {
			return last, converge, nil
		}
		if idx := slices.Index(history, next); idx >= 0 {
			return slices.MinFunc(history[idx:], compareCandidates), cycle, nil
		}
		history = append(history, next)
	}
	return "", diverge, nil
}

func compareCandidates(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// 🔒 Close releases stage resources. Safe to call more than once.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = CloseStages(p.stages)
	})
	return p.closeErr
}

// CloseStages closes every stage that holds resources, in order, and joins the failures
func CloseStages(stages []Stage) error {
	var errs []error
	for _, s := range stages {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, errors.Errorf("closing stage %s: %w", s.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
