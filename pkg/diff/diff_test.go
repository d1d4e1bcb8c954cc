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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHunks(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want []Hunk
	}{
		{
			name: "identical",
			from: "a\nb\n",
			to:   "a\nb\n",
			want: nil,
		},
		{
			name: "single_replacement",
			from: "a\nb\nc\n",
			to:   "a\nB\nc\n",
			want: []Hunk{{OldStart: 2, OldCount: 1, NewStart: 2, NewCount: 1, Lines: []string{"-b", "+B"}}},
		},
		{
			name: "pure_insert",
			from: "a\nc\n",
			to:   "a\nb\nc\n",
			want: []Hunk{{OldStart: 1, OldCount: 0, NewStart: 2, NewCount: 1, Lines: []string{"+b"}}},
		},
		{
			name: "pure_delete",
			from: "a\nb\nc\n",
			to:   "a\nc\n",
			want: []Hunk{{OldStart: 2, OldCount: 1, NewStart: 1, NewCount: 0, Lines: []string{"-b"}}},
		},
		{
			name: "carriage_returns_are_visible",
			from: "a\r\n",
			to:   "a\n",
			want: []Hunk{{OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1, Lines: []string{`-a\r`, "+a"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hunks(tt.from, tt.to))
		})
	}
}

func TestUnified_Truncates(t *testing.T) {
	var from, to strings.Builder
	for i := 0; i < 5; i++ {
		from.WriteString("keep\nold\n")
		to.WriteString("keep\nnew\n")
	}

	out, truncated := Unified(from.String(), to.String(), DefaultMaxHunks)
	require.True(t, truncated)
	assert.Equal(t, 3, strings.Count(out, "@@ -"))
	assert.True(t, strings.HasSuffix(out, Truncated+"\n"))
	assert.True(t, strings.HasPrefix(out, "@@ -2,1 +2,1 @@\n-old\n+new\n"))

	out, truncated = Unified(from.String(), to.String(), 0)
	assert.False(t, truncated)
	assert.Equal(t, 5, strings.Count(out, "@@ -"))
}

func TestStat(t *testing.T) {
	added, removed := Stat("a\nb\nc\n", "a\nx\ny\n")
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, removed)
}
