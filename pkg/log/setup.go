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
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ⚙️ Options configures the diagnostic logger
type Options struct {
	// Verbosity raises the level: 0 warn, 1 info, 2 debug, 3+ trace
	Verbosity int
	// Quiet only lets errors through
	Quiet bool
	// LogFile additionally receives JSON logs; "" disables it
	LogFile string
	// Out receives console logs, os.Stderr when nil
	Out io.Writer
}

// Level returns the zerolog level for the options
func (o Options) Level() zerolog.Level {
	if o.Quiet {
		return zerolog.ErrorLevel
	}
	switch {
	case o.Verbosity <= 0:
		return zerolog.WarnLevel
	case o.Verbosity == 1:
		return zerolog.InfoLevel
	case o.Verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// DefaultLogFile is where --log-file without a path writes to
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "tidyrc", "tidyrc.log")
}

// 🏭 Setup builds the diagnostic logger: a console writer, colored only on a
// terminal, plus an optional JSON log file. The closer closes the log file.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    !IsTerminal(out),
	}}

	var closer io.Closer = nopCloser{}
	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return zerolog.Nop(), nil, errors.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, errors.Errorf("opening log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(opts.Level()).
		With().Timestamp().Logger()
	if opts.Verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	return logger, closer, nil
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
