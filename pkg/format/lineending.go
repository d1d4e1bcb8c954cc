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
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"
)

// ↩️ LineEnding is the policy for line separators in formatted output
type LineEnding string

const (
	LineEndingUnix           LineEnding = "UNIX"
	LineEndingWindows        LineEnding = "WINDOWS"
	LineEndingMacClassic     LineEnding = "MAC_CLASSIC"
	LineEndingPlatformNative LineEnding = "PLATFORM_NATIVE"
	LineEndingPreserve       LineEnding = "PRESERVE"
)

// LineEndings lists every supported policy
var LineEndings = []LineEnding{
	LineEndingUnix,
	LineEndingWindows,
	LineEndingMacClassic,
	LineEndingPlatformNative,
	LineEndingPreserve,
}

var _ pflag.Value = (*LineEnding)(nil)

// ParseLineEnding accepts a policy name in any case
func ParseLineEnding(s string) (LineEnding, error) {
	want := LineEnding(strings.ToUpper(strings.TrimSpace(s)))
	for _, le := range LineEndings {
		if le == want {
			return le, nil
		}
	}
	return "", errors.Errorf("unknown line ending %q", s)
}

func (le LineEnding) String() string { return string(le) }

// Type is the name shown in flag help
func (le *LineEnding) Type() string { return "line-ending" }

// Set parses s into le
func (le *LineEnding) Set(s string) error {
	v, err := ParseLineEnding(s)
	if err != nil {
		return err
	}
	*le = v
	return nil
}

// Separator returns the line separator for content under this policy
func (le LineEnding) Separator(content string) string {
	switch le {
	case LineEndingWindows:
		return "\r\n"
	case LineEndingMacClassic:
		return "\r"
	case LineEndingPlatformNative:
		if runtime.GOOS == "windows" {
			return "\r\n"
		}
		return "\n"
	case LineEndingPreserve:
		return firstSeparator(content)
	default:
		return "\n"
	}
}

func firstSeparator(content string) string {
	i := strings.IndexAny(content, "\r\n")
	if i < 0 {
		return "\n"
	}
	if content[i] == '\n' {
		return "\n"
	}
	if i+1 < len(content) && content[i+1] == '\n' {
		return "\r\n"
	}
	return "\r"
}

// normalize rewrites every separator to \n
func normalize(content string) string {
	if !strings.ContainsRune(content, '\r') {
		return content
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// denormalize rewrites \n to sep
func denormalize(content, sep string) string {
	if sep == "\n" {
		return content
	}
	return strings.ReplaceAll(content, "\n", sep)
}
