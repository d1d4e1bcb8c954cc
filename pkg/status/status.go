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
	"os"
	"path/filepath"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is what happened to one target file
type FileStatus int

const (
	StatusUnknown        FileStatus = iota
	StatusClean                     // already formatted
	StatusRewritten                 // canonical content written (apply)
	StatusDirty                     // needs formatting (check)
	StatusLint                      // a step reported a problem it could not fix
	StatusDidNotConverge            // formatting never reached a steady state
)

// AllStatuses lists the statuses a run can report, in summary order
var AllStatuses = []FileStatus{
	StatusClean,
	StatusRewritten,
	StatusDirty,
	StatusLint,
	StatusDidNotConverge,
}

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusRewritten:
		return "rewritten"
	case StatusDirty:
		return "dirty"
	case StatusLint:
		return "lint"
	case StatusDidNotConverge:
		return "did not converge"
	default:
		return "unknown"
	}
}

// NeedsAttention reports whether the status should fail a check
func (s FileStatus) NeedsAttention() bool {
	return s == StatusDirty || s == StatusLint || s == StatusDidNotConverge
}

// 📈 Tracker counts file statuses across workers
type Tracker struct {
	mu     sync.Mutex
	counts map[FileStatus]int
	total  int
}

// 🏭 NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{counts: make(map[FileStatus]int)}
}

// Track records one file
func (t *Tracker) Track(s FileStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[s]++
	t.total++
}

// Count returns how many files had status s
func (t *Tracker) Count(s FileStatus) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[s]
}

// Total returns how many files were tracked
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Snapshot returns a copy of the counts
func (t *Tracker) Snapshot() map[FileStatus]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[FileStatus]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// 💾 WriteFileAtomic replaces path with content through a temporary file in the
// same directory, keeping the original permissions when the file exists
func WriteFileAtomic(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking file: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
