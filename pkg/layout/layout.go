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

package layout

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/tidyrc/pkg/checksum"
)

const (
	// Namespace is the directory name used under every build root
	Namespace = "tidyrc"
	// MainID is the derive id of the layout created for the run itself.
	// Workers derive with their own numeric ids starting at 1.
	MainID = "0"
)

var (
	gradleMarkers = []string{"build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts"}
	mavenMarkers  = []string{"pom.xml"}
)

// 🏗️ RootKind tells which build tool convention the build root follows
type RootKind int

const (
	RootTemp RootKind = iota
	RootGradle
	RootMaven
)

func (k RootKind) String() string {
	switch k {
	case RootGradle:
		return "gradle"
	case RootMaven:
		return "maven"
	default:
		return "temp"
	}
}

// ♻️ GloballyReusable is implemented by steps whose cache does not depend on
// the rest of the step sequence
type GloballyReusable interface {
	GloballyReusable() bool
}

// shared is the state every derived layout of one run points at
type shared struct {
	files   *FileResolver
	tempDir string

	rootOnce sync.Once
	root     string
	kind     RootKind

	sequence checksum.Fingerprintable
	seqOnce  sync.Once
	seqFP    string
}

// 📐 Layout answers where a run keeps its build and cache directories
type Layout struct {
	shared   *shared
	deriveID string
}

// Option configures a Layout
type Option func(*shared)

// WithTempDir overrides the system temporary directory
func WithTempDir(dir string) Option {
	return func(s *shared) { s.tempDir = dir }
}

// 🏭 New creates the layout for a run. sequence is the configured step sequence;
// its fingerprint is computed lazily the first time a non-reusable step asks for a directory.
func New(files *FileResolver, sequence checksum.Fingerprintable, opts ...Option) *Layout {
	s := &shared{
		files:    files,
		tempDir:  os.TempDir(),
		sequence: sequence,
	}
	for _, o := range opts {
		o(s)
	}
	return &Layout{shared: s, deriveID: MainID}
}

// Files returns the resolver for configuration paths
func (l *Layout) Files() *FileResolver {
	return l.shared.files
}

// BaseDir returns the absolute base directory of the run
func (l *Layout) BaseDir() string {
	return l.shared.files.BaseDir()
}

// DeriveID returns the id this layout was derived with
func (l *Layout) DeriveID() string {
	return l.deriveID
}

// 🔀 Derive returns a layout with its own build directory that shares root
// detection and the sequence fingerprint with l
func (l *Layout) Derive(id string) *Layout {
	return &Layout{shared: l.shared, deriveID: id}
}

// Root returns the build root shared by all derived layouts and how it was chosen
func (l *Layout) Root(ctx context.Context) (string, RootKind) {
	s := l.shared
	s.rootOnce.Do(func() {
		s.root, s.kind = l.detectRoot()
		zerolog.Ctx(ctx).Debug().Str("root", s.root).Stringer("kind", s.kind).Msg("selected build root")
	})
	return s.root, s.kind
}

func (l *Layout) detectRoot() (string, RootKind) {
	base := l.BaseDir()
	for _, m := range gradleMarkers {
		if _, ok := l.Find(m); ok {
			return filepath.Join(base, "build", Namespace), RootGradle
		}
	}
	for _, m := range mavenMarkers {
		if _, ok := l.Find(m); ok {
			return filepath.Join(base, "target", Namespace), RootMaven
		}
	}
	return TempRoot(l.shared.tempDir, base), RootTemp
}

// TempRoot is the build root used for base when no build tool is detected.
// It is shared by every run on base and is only removed by an explicit clean.
func TempRoot(tempDir, base string) string {
	return filepath.Join(tempDir, Namespace, checksum.OfString(base))
}

// 📂 BuildDir returns the build directory of this layout
func (l *Layout) BuildDir(ctx context.Context) string {
	root, _ := l.Root(ctx)
	return filepath.Join(root, l.deriveID)
}

// 📂 BuildDirFor returns the cache directory for step. Globally reusable steps are
// keyed by their own fingerprint only; every other step also by the sequence fingerprint.
func (l *Layout) BuildDirFor(ctx context.Context, step checksum.Fingerprintable) string {
	name := checksum.Of(step)
	if r, ok := step.(GloballyReusable); !ok || !r.GloballyReusable() {
		name += "-" + l.sequenceFingerprint()
	}
	return filepath.Join(l.BuildDir(ctx), name)
}

func (l *Layout) sequenceFingerprint() string {
	s := l.shared
	s.seqOnce.Do(func() {
		s.seqFP = checksum.Of(s.sequence)
	})
	return s.seqFP
}

// 🔍 Find locates path: first relative to the base directory, then as given.
func (l *Layout) Find(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		if p := filepath.Join(l.BaseDir(), path); readable(p) {
			return p, true
		}
	}
	if readable(path) {
		return path, true
	}
	return "", false
}
