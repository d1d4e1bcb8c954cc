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

package step

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/cleanup"
	"github.com/walteh/tidyrc/pkg/config"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

const ExecName = "exec"

// Environment handed to external formatters
const (
	EnvFile     = "TIDYRC_FILE"
	EnvCacheDir = "TIDYRC_CACHE_DIR"
)

// ⚙️ Exec pipes the file content through an external command and takes its
// stdout as the new content. Its cache directory is keyed by the whole step
// sequence; every pipeline also gets a scratch TMPDIR that is removed on close.
type Exec struct {
	Command []string
	Env     map[string]string
	Version *string
}

func newExec(cfg config.StepConfig) (Step, error) {
	if err := onlyAttributes(cfg, "command", "env", "version"); err != nil {
		return nil, err
	}
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return nil, errors.New("command is required")
	}
	return &Exec{Command: cfg.Command, Env: cfg.Env, Version: cfg.Version}, nil
}

func (s *Exec) Name() string {
	return ExecName + "(" + s.Command[0] + ")"
}

func (s *Exec) Fingerprint(h *checksum.Hasher) {
	h.String("type", ExecName)
	h.Strings("command", s.Command)
	h.StringMap("env", s.Env)
	h.OptionalString("version", s.Version)
}

func (s *Exec) Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error) {
	bin, err := exec.LookPath(s.Command[0])
	if err != nil {
		return nil, errors.Errorf("looking up %s: %w", s.Command[0], err)
	}

	cacheDir := rc.Layout().BuildDirFor(ctx, s)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, errors.Errorf("creating cache dir: %w", err)
	}

	scratch, err := os.MkdirTemp("", "tidyrc-exec-")
	if err != nil {
		return nil, errors.Errorf("creating scratch dir: %w", err)
	}

	st := &execStage{
		step:     s,
		bin:      bin,
		dir:      rc.BaseDir(),
		cacheDir: cacheDir,
		scratch:  scratch,
		registry: rc.Cleanup(),
		ctx:      ctx,
	}
	rc.Cleanup().Register(ctx, st, scratch)

	zerolog.Ctx(ctx).Debug().
		Str("command", bin).
		Str("cache_dir", cacheDir).
		Str("scratch", scratch).
		Str("derive_id", rc.DeriveID()).
		Msg("prepared exec step")

	return []format.Stage{st}, nil
}

type execStage struct {
	step     *Exec
	bin      string
	dir      string
	cacheDir string
	scratch  string
	registry *cleanup.Registry
	ctx      context.Context

	closeOnce sync.Once
}

func (e *execStage) Name() string { return e.step.Name() }

func (e *execStage) environ(file string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(e.step.Env))
	for k := range e.step.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+e.step.Env[k])
	}
	return append(env,
		EnvFile+"="+file,
		EnvCacheDir+"="+e.cacheDir,
		"TMPDIR="+e.scratch,
	)
}

func (e *execStage) Format(ctx context.Context, content, file string) (string, error) {
	cmd := exec.CommandContext(ctx, e.bin, e.step.Command[1:]...)
	cmd.Dir = e.dir
	cmd.Env = e.environ(file)
	cmd.Stdin = strings.NewReader(content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Errorf("running %s: %w: %s", strings.Join(e.step.Command, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Close removes the scratch directory
func (e *execStage) Close() error {
	e.closeOnce.Do(func() {
		e.registry.Release(e.ctx, e)
	})
	return nil
}
