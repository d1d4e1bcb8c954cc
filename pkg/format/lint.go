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
)

// 🚩 Lint is a problem a stage found but could not fix
type Lint struct {
	Stage   string
	Line    int // 1-based, 0 when the problem is not tied to a line
	Code    string
	Message string
}

// Render formats the lint for the file it was found in
func (l Lint) Render(file string) string {
	loc := file
	if l.Line > 0 {
		loc = fmt.Sprintf("%s:%d", file, l.Line)
	}
	return fmt.Sprintf("%s %s(%s) %s", loc, l.Stage, l.Code, l.Message)
}

// 🚩 LintError is returned by a stage that cannot format a file and wants the
// problem reported instead of failing the run. The stage's input passes through unchanged.
type LintError struct {
	Line    int
	Code    string
	Message string
}

func (e *LintError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s (%s)", e.Line, e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// NewLintError creates a lint error
func NewLintError(line int, code, message string) *LintError {
	return &LintError{Line: line, Code: code, Message: message}
}
