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

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/tidyrc/pkg/operation"
	"github.com/walteh/tidyrc/pkg/status"
)

// 🎨 Display configuration
const (
	detailIndent = 6 // spaces to indent detail lines under a file entry
)

// 🎯 Logger prints run progress to the console and mirrors it to zerolog.
// It is the CLI's operation.Reporter.
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	baseDir   string
	showClean bool
	mu        sync.Mutex
}

var _ operation.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger. Paths are shown relative to baseDir when possible.
func New(console io.Writer, zlog zerolog.Logger, baseDir string, showClean bool) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		baseDir:   baseDir,
		showClean: showClean,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) display(path string) string {
	if l.baseDir == "" {
		return path
	}
	if rel, err := filepath.Rel(l.baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// 📝 File prints one file result. Clean files are only shown when asked for;
// multi-line details are printed indented under the entry.
func (l *Logger) File(ctx context.Context, r operation.FileReport) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.zlog.Debug().
		Str("file", r.File).
		Stringer("status", r.Status).
		Msg("file result")

	if r.Status == status.StatusClean && !l.showClean {
		return
	}

	detail := strings.TrimRight(r.Detail, "\n")
	var extra []string
	if strings.Contains(detail, "\n") {
		extra, detail = strings.Split(detail, "\n"), ""
	}
	fmt.Fprintln(l.console, status.FormatFileLine(l.display(r.File), r.Status, detail))
	pad := strings.Repeat(" ", detailIndent)
	for _, line := range extra {
		fmt.Fprintln(l.console, pad+colorDiffLine(line))
	}
}

func colorDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return color.New(color.Bold).Sprint(line)
	case strings.HasPrefix(line, "@@"):
		return color.CyanString(line)
	case strings.HasPrefix(line, "+"):
		return color.GreenString(line)
	case strings.HasPrefix(line, "-"):
		return color.RedString(line)
	default:
		return line
	}
}

// 📊 Summary prints the status table and the verdict
func (l *Logger) Summary(ctx context.Context, s operation.Summary) {
	l.mu.Lock()
	data := pterm.TableData{{"status", "files"}}
	for _, st := range status.AllStatuses {
		if n := s.Counts[st]; n > 0 {
			data = append(data, []string{st.String(), fmt.Sprintf("%d", n)})
		}
	}
	if len(data) > 1 {
		if table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender(); err == nil {
			fmt.Fprintf(l.console, "\n%s\n", table)
		}
	}
	l.mu.Unlock()

	l.zlog.Info().
		Stringer("mode", s.Mode).
		Stringer("result", s.Result).
		Int("exit_code", s.ExitCode).
		Int("files", s.Total).
		Msg("run complete")

	attention := s.Counts[status.StatusDirty] + s.Counts[status.StatusLint]
	switch {
	case s.Result == operation.DidNotConverge:
		l.Errorf("%d file(s) did not converge; a step keeps changing its own output", s.Counts[status.StatusDidNotConverge])
	case s.Result == operation.Dirty && s.Mode == operation.ModeCheck:
		l.Warningf("%d of %d file(s) need attention; run with --mode apply to fix them", attention, s.Total)
	case s.Result == operation.Dirty:
		l.Warningf("%d file(s) have lints and were left untouched", attention)
	case s.Total == 0:
		l.Info("no files matched")
	default:
		l.Successf("%d file(s) formatted", s.Total)
	}
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("tidyrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
