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

package operation_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/operation"
	"github.com/walteh/tidyrc/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

// 🔧 fakeStep is a step whose single stage runs fn
type fakeStep struct {
	name     string
	fn       func(content, file string) (string, error)
	prepared atomic.Int32
	closed   atomic.Int32
}

func newFakeStep(name string, fn func(content, file string) (string, error)) *fakeStep {
	return &fakeStep{name: name, fn: fn}
}

func (s *fakeStep) Name() string                   { return s.name }
func (s *fakeStep) Fingerprint(h *checksum.Hasher) { h.String("type", s.name) }
func (s *fakeStep) GloballyReusable() bool         { return true }
func (s *fakeStep) stage() *fakeStage              { return &fakeStage{step: s} }
func (s *fakeStep) closedCount() int               { return int(s.closed.Load()) }

func (s *fakeStep) Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error) {
	s.prepared.Add(1)
	return []format.Stage{s.stage()}, nil
}

type fakeStage struct {
	step *fakeStep
}

func (s *fakeStage) Name() string { return s.step.name }

func (s *fakeStage) Format(_ context.Context, content, file string) (string, error) {
	return s.step.fn(content, file)
}

func (s *fakeStage) Close() error {
	s.step.closed.Add(1)
	return nil
}

var (
	trimStep = func() *fakeStep {
		return newFakeStep("trim", func(c, _ string) (string, error) {
			lines := strings.Split(c, "\n")
			for i := range lines {
				lines[i] = strings.TrimRight(lines[i], " ")
			}
			return strings.Join(lines, "\n"), nil
		})
	}
	growStep = func() *fakeStep {
		return newFakeStep("grow", func(c, _ string) (string, error) { return c + "x", nil })
	}
	lintStep = func() *fakeStep {
		return newFakeStep("lint", func(c, file string) (string, error) {
			if strings.Contains(c, "TODO") {
				return "", format.NewLintError(1, "todo", "found a TODO")
			}
			return c, nil
		})
	}
	boomStep = func() *fakeStep {
		return newFakeStep("boom", func(c, file string) (string, error) {
			if strings.HasSuffix(file, "boom.txt") {
				return "", errors.New("tool crashed")
			}
			return c, nil
		})
	}
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// 📣 MockReporter is a mock implementation of operation.Reporter
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) File(ctx context.Context, r operation.FileReport) {
	m.Called(ctx, r)
}

func (m *MockReporter) Summary(ctx context.Context, s operation.Summary) {
	m.Called(ctx, s)
}

// recordingReporter keeps every report in arrival order
type recordingReporter struct {
	mu      sync.Mutex
	files   []operation.FileReport
	summary *operation.Summary
}

func (r *recordingReporter) File(_ context.Context, fr operation.FileReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, fr)
}

func (r *recordingReporter) Summary(_ context.Context, s operation.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = &s
}

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}
