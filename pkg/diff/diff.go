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

package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Truncated is the marker line appended when hunks were left out
const Truncated = "[...]"

// DefaultMaxHunks is how many hunks a detailed report shows
const DefaultMaxHunks = 3

// ✂️ Hunk is one contiguous change, rendered without context lines
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []string
}

func (h Hunk) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	for _, l := range h.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// 🔍 Hunks returns every line-level change between from and to
func Hunks(from, to string) []Hunk {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var (
		hunks   []Hunk
		cur     *Hunk
		oldLine = 1
		newLine = 1
	)
	flush := func() {
		if cur == nil {
			return
		}
		if cur.OldCount == 0 {
			cur.OldStart--
		}
		if cur.NewCount == 0 {
			cur.NewStart--
		}
		hunks = append(hunks, *cur)
		cur = nil
	}

	for _, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			oldLine += len(chunk)
			newLine += len(chunk)
		case diffmatchpatch.DiffDelete:
			if cur == nil {
				cur = &Hunk{OldStart: oldLine, NewStart: newLine}
			}
			for _, l := range chunk {
				cur.Lines = append(cur.Lines, "-"+l)
			}
			cur.OldCount += len(chunk)
			oldLine += len(chunk)
		case diffmatchpatch.DiffInsert:
			if cur == nil {
				cur = &Hunk{OldStart: oldLine, NewStart: newLine}
			}
			for _, l := range chunk {
				cur.Lines = append(cur.Lines, "+"+l)
			}
			cur.NewCount += len(chunk)
			newLine += len(chunk)
		}
	}
	flush()
	return hunks
}

// 📝 Unified renders at most maxHunks hunks; the bool reports whether any were dropped
func Unified(from, to string, maxHunks int) (string, bool) {
	hunks := Hunks(from, to)
	truncated := false
	if maxHunks > 0 && len(hunks) > maxHunks {
		hunks = hunks[:maxHunks]
		truncated = true
	}

	var b strings.Builder
	for _, h := range hunks {
		b.WriteString(h.String())
	}
	if truncated {
		b.WriteString(Truncated)
		b.WriteByte('\n')
	}
	return b.String(), truncated
}

// 📊 Stat counts added and removed lines
func Stat(from, to string) (added, removed int) {
	for _, h := range Hunks(from, to) {
		added += h.NewCount
		removed += h.OldCount
	}
	return added, removed
}

// splitLines splits text into lines without their terminators. A trailing
// newline does not start another line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = visibleCR(l)
	}
	return lines
}

func visibleCR(l string) string {
	return strings.ReplaceAll(l, "\r", `\r`)
}
