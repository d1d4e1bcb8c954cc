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
	"strings"

	"github.com/walteh/tidyrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ExitCodeFailure is returned when a run cannot complete
const ExitCodeFailure = -2

// 🎚️ Mode decides what happens to dirty files
type Mode string

const (
	// ModeApply writes canonical content back to dirty files
	ModeApply Mode = "apply"
	// ModeCheck only reports dirty files
	ModeCheck Mode = "check"
)

// ParseMode parses a mode name, case-insensitively
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeApply, ModeCheck:
		return m, nil
	}
	return "", errors.Errorf("unknown mode %q (want %s or %s)", s, ModeApply, ModeCheck)
}

func (m Mode) String() string { return string(m) }

// Type implements pflag.Value
func (m *Mode) Type() string { return "mode" }

// Set implements pflag.Value
func (m *Mode) Set(s string) error {
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// 🔢 ExitCode maps the run result to the process exit code
func (m Mode) ExitCode(r ResultType) int {
	switch r {
	case Clean:
		return 0
	case Dirty:
		if m == ModeCheck {
			return 1
		}
		return 0
	default:
		return -1
	}
}

// ⚖️ HandleResult classifies one file, writes it back when the mode applies
// and nothing prevents it, and tells the reporter.
func (m Mode) HandleResult(ctx context.Context, res *Result, reporter Reporter, detailed bool) (ResultType, error) {
	o := res.Outcome

	render := o.OneLine
	if detailed {
		render = o.Detailed
	}

	switch {
	case o.IsClean():
		reporter.File(ctx, FileReport{File: res.Target, Status: status.StatusClean})
		return Clean, nil
	case o.DidNotConverge():
		reporter.File(ctx, FileReport{File: res.Target, Status: status.StatusDidNotConverge, Detail: "formatting did not converge"})
		return DidNotConverge, nil
	}

	if m == ModeCheck {
		s := status.StatusDirty
		if !o.IsDirty() {
			s = status.StatusLint
		}
		reporter.File(ctx, FileReport{File: res.Target, Status: s, Detail: render()})
		return Dirty, nil
	}

	if o.HasLints() {
		reporter.File(ctx, FileReport{File: res.Target, Status: status.StatusLint, Detail: render()})
		return Dirty, nil
	}

	if err := o.WriteCanonicalTo(res.Target); err != nil {
		return Clean, err
	}
	reporter.File(ctx, FileReport{File: res.Target, Status: status.StatusRewritten})
	return Clean, nil
}
