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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 17 // Width for status text
)

// Symbol returns the console symbol for s
func Symbol(s FileStatus) string {
	switch s {
	case StatusClean:
		return color.GreenString("✓")
	case StatusRewritten:
		return color.BlueString("⟳")
	case StatusDirty, StatusLint:
		return color.RedString("✗")
	case StatusDidNotConverge:
		return color.MagentaString("∞")
	default:
		return color.HiBlackString("-")
	}
}

// 🎯 FormatFileLine formats a file result for display
func FormatFileLine(path string, s FileStatus, detail string) string {
	namePart := fmt.Sprintf("%-*s", nameWidth, path)
	statusPart := fmt.Sprintf("%-*s", statusWidth, s.String())
	if s.NeedsAttention() {
		statusPart = color.YellowString(statusPart)
	}

	line := fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		Symbol(s),
		namePart,
		statusPart,
	)
	if detail != "" {
		line += " " + color.New(color.Faint).Sprint(detail)
	}
	return strings.TrimRight(line, " ")
}
