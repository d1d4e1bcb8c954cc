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

package layout_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/layout"
	"gitlab.com/tozd/go/errors"
)

type fakeStep struct {
	name     string
	reusable bool
}

func (s *fakeStep) Fingerprint(h *checksum.Hasher) { h.String("name", s.name) }
func (s *fakeStep) GloballyReusable() bool         { return s.reusable }

type fakeSequence []*fakeStep

func (s fakeSequence) Fingerprint(h *checksum.Hasher) {
	h.String("sequence", checksum.OfSequence([]*fakeStep(s)))
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func newLayout(t *testing.T, base string, seq fakeSequence, tmp string) *layout.Layout {
	t.Helper()
	files, err := layout.NewFileResolver(base)
	require.NoError(t, err)
	return layout.New(files, seq, layout.WithTempDir(tmp))
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestLayout_BuildDir(t *testing.T) {
	tests := []struct {
		name     string
		markers  []string
		wantKind layout.RootKind
		wantRoot func(base, tmp string) string
	}{
		{
			name:     "gradle_build_file",
			markers:  []string{"build.gradle"},
			wantKind: layout.RootGradle,
			wantRoot: func(base, tmp string) string { return filepath.Join(base, "build", "tidyrc") },
		},
		{
			name:     "gradle_settings_kts",
			markers:  []string{"settings.gradle.kts"},
			wantKind: layout.RootGradle,
			wantRoot: func(base, tmp string) string { return filepath.Join(base, "build", "tidyrc") },
		},
		{
			name:     "maven_pom",
			markers:  []string{"pom.xml"},
			wantKind: layout.RootMaven,
			wantRoot: func(base, tmp string) string { return filepath.Join(base, "target", "tidyrc") },
		},
		{
			name:     "gradle_wins_over_maven",
			markers:  []string{"pom.xml", "build.gradle.kts"},
			wantKind: layout.RootGradle,
			wantRoot: func(base, tmp string) string { return filepath.Join(base, "build", "tidyrc") },
		},
		{
			name:     "no_markers_uses_temp",
			wantKind: layout.RootTemp,
			wantRoot: func(base, tmp string) string {
				return filepath.Join(tmp, "tidyrc", checksum.OfString(base))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			base := t.TempDir()
			tmp := t.TempDir()
			for _, m := range tt.markers {
				touch(t, filepath.Join(base, m))
			}
			l := newLayout(t, base, nil, tmp)
			root, kind := l.Root(ctx)

			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantRoot(base, tmp), root)
			assert.Equal(t, filepath.Join(root, layout.MainID), l.BuildDir(ctx))
		})
	}
}

func TestLayout_DetectionIsMemoized(t *testing.T) {
	ctx := testContext(t)
	base := t.TempDir()
	l := newLayout(t, base, nil, t.TempDir())

	first, kind := l.Root(ctx)
	require.Equal(t, layout.RootTemp, kind)

	// a marker appearing mid-run does not move the build root
	touch(t, filepath.Join(base, "pom.xml"))
	second, kind := l.Derive("1").Root(ctx)
	assert.Equal(t, first, second)
	assert.Equal(t, layout.RootTemp, kind)
}

func TestLayout_Derive(t *testing.T) {
	ctx := testContext(t)
	base := t.TempDir()
	touch(t, filepath.Join(base, "build.gradle"))
	l := newLayout(t, base, nil, t.TempDir())

	d1 := l.Derive("1")
	d2 := l.Derive("2")

	assert.Equal(t, "1", d1.DeriveID())
	assert.Equal(t, filepath.Join(base, "build", "tidyrc", "1"), d1.BuildDir(ctx))
	assert.NotEqual(t, d1.BuildDir(ctx), d2.BuildDir(ctx))
	assert.Equal(t, l.BaseDir(), d1.BaseDir())
	assert.Same(t, l.Files(), d2.Files())
}

func TestLayout_BuildDirFor(t *testing.T) {
	ctx := testContext(t)
	base := t.TempDir()
	touch(t, filepath.Join(base, "pom.xml"))

	reusable := &fakeStep{name: "trim", reusable: true}
	specific := &fakeStep{name: "exec", reusable: false}
	seqA := fakeSequence{reusable, specific}
	seqB := fakeSequence{specific, reusable}

	la := newLayout(t, base, seqA, t.TempDir())
	lb := newLayout(t, base, seqB, t.TempDir())

	assert.Equal(t, filepath.Join(la.BuildDir(ctx), checksum.Of(reusable)), la.BuildDirFor(ctx, reusable))
	assert.Equal(t, filepath.Base(la.BuildDirFor(ctx, reusable)), filepath.Base(lb.BuildDirFor(ctx, reusable)),
		"reusable steps ignore the surrounding sequence")

	wantA := filepath.Join(la.BuildDir(ctx), checksum.Of(specific)+"-"+checksum.Of(seqA))
	assert.Equal(t, wantA, la.BuildDirFor(ctx, specific))
	assert.NotEqual(t, la.BuildDirFor(ctx, specific), lb.BuildDirFor(ctx, specific),
		"sequence-specific steps change with step order")
}

func TestLayout_Find(t *testing.T) {
	base := t.TempDir()
	outside := t.TempDir()
	touch(t, filepath.Join(base, "header.txt"))
	touch(t, filepath.Join(outside, "abs.txt"))

	l := newLayout(t, base, nil, t.TempDir())

	got, ok := l.Find("header.txt")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(base, "header.txt"), got)

	got, ok = l.Find(filepath.Join(outside, "abs.txt"))
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(outside, "abs.txt"), got)

	_, ok = l.Find("missing.txt")
	assert.False(t, ok)
}

func TestLayout_TempRootIsSharedAcrossRuns(t *testing.T) {
	ctx := testContext(t)
	base := t.TempDir()
	tmp := t.TempDir()
	step := &fakeStep{name: "cache", reusable: true}

	first := newLayout(t, base, fakeSequence{step}, tmp).Derive("1")
	dir := first.BuildDirFor(ctx, step)
	touch(t, filepath.Join(dir, "artifact"))

	// a later run on the same base, even with another sequence, finds the artifact
	second := newLayout(t, base, fakeSequence{step, &fakeStep{name: "other"}}, tmp).Derive("1")
	assert.Equal(t, dir, second.BuildDirFor(ctx, step))
	assert.FileExists(t, filepath.Join(second.BuildDirFor(ctx, step), "artifact"))

	root, kind := second.Root(ctx)
	assert.Equal(t, layout.RootTemp, kind)
	assert.Equal(t, layout.TempRoot(tmp, second.BaseDir()), root)
}

func TestFileResolver(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "dir", "file.txt"))
	r, err := layout.NewFileResolver(base)
	require.NoError(t, err)

	got, err := r.RequireFile("dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "dir", "file.txt"), got)

	_, err = r.RequireFile("dir")
	assert.True(t, errors.Is(err, layout.ErrWrongKind))

	_, err = r.RequireFile("nope.txt")
	assert.True(t, errors.Is(err, layout.ErrNotFound))

	got, err = r.RequireDir("dir")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "dir"), got)

	_, err = r.RequireDir("dir/file.txt")
	assert.True(t, errors.Is(err, layout.ErrWrongKind))

	assert.Equal(t, "/abs/path", r.Resolve("/abs/path/"))
}
