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
	"fmt"
	"io"
	"strings"

	"github.com/walteh/tidyrc/pkg/diff"
	"github.com/walteh/tidyrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrNoCanonical is returned when writing an outcome that has nothing to write
var ErrNoCanonical = errors.Base("outcome has no canonical content")

type state int

const (
	stateClean state = iota
	stateDirty
	stateDidNotConverge
)

// 📋 Outcome is the result of checking one file
type Outcome struct {
	File      string
	Raw       []byte
	Canonical []byte // set only when the file is dirty and convergent
	Lints     []Lint

	state   state
	charset *Charset
}

// IsClean reports whether the file needs nothing: its content is already
// formatted and no stage reported a lint
func (o *Outcome) IsClean() bool {
	return o.state == stateClean && len(o.Lints) == 0
}

// IsDirty reports whether the formatted content differs from the file
func (o *Outcome) IsDirty() bool {
	return o.state == stateDirty
}

// HasLints reports whether any stage reported a lint
func (o *Outcome) HasLints() bool {
	return len(o.Lints) > 0
}

// DidNotConverge reports whether formatting never reached a steady state
func (o *Outcome) DidNotConverge() bool {
	return o.state == stateDidNotConverge
}

// 💾 WriteCanonicalTo atomically replaces path with the canonical content
func (o *Outcome) WriteCanonicalTo(path string) error {
	if o.Canonical == nil {
		return errors.Errorf("writing %s: %w", path, ErrNoCanonical)
	}
	if err := status.WriteFileAtomic(path, o.Canonical); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteCanonical writes the canonical content to w
func (o *Outcome) WriteCanonical(w io.Writer) error {
	if o.Canonical == nil {
		return ErrNoCanonical
	}
	if _, err := w.Write(o.Canonical); err != nil {
		return errors.Errorf("writing canonical content: %w", err)
	}
	return nil
}

// OneLine is the short report for a file that needs attention
func (o *Outcome) OneLine() string {
	if len(o.Lints) > 0 {
		line := o.Lints[0].Render(o.File)
		if n := len(o.Lints) - 1; n > 0 {
			line += fmt.Sprintf(" (and %d more)", n)
		}
		return line
	}
	return fmt.Sprintf("%s is violating formatting rules.", o.File)
}

// Detailed is the long report: a truncated diff followed by every lint
func (o *Outcome) Detailed() string {
	var b strings.Builder
	if o.Canonical != nil {
		fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", o.File, o.File)
		d, _ := diff.Unified(o.text(o.Raw), o.text(o.Canonical), diff.DefaultMaxHunks)
		b.WriteString(d)
	}
	for _, l := range o.Lints {
		b.WriteString(l.Render(o.File))
		b.WriteByte('\n')
	}
	return b.String()
}

// Changes returns how many lines the canonical content adds and removes
func (o *Outcome) Changes() (added, removed int) {
	if o.Canonical == nil {
		return 0, 0
	}
	return diff.Stat(o.text(o.Raw), o.text(o.Canonical))
}

func (o *Outcome) text(b []byte) string {
	if o.charset != nil {
		if s, err := o.charset.Decode(b); err == nil {
			return s
		}
	}
	return string(b)
}
