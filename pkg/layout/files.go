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
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned when a referenced path does not exist
	ErrNotFound = errors.Base("path not found")
	// ErrWrongKind is returned when a path exists but is not the expected kind
	ErrWrongKind = errors.Base("path has wrong kind")
)

// 📁 FileResolver resolves paths from configuration against the base directory
type FileResolver struct {
	baseDir string
}

// 🏭 NewFileResolver creates a resolver rooted at baseDir (made absolute)
func NewFileResolver(baseDir string) (*FileResolver, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Errorf("resolving base directory %q: %w", baseDir, err)
	}
	return &FileResolver{baseDir: abs}, nil
}

// BaseDir returns the absolute base directory
func (r *FileResolver) BaseDir() string {
	return r.baseDir
}

// Resolve returns p as an absolute path, relative paths being taken from the base directory
func (r *FileResolver) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.baseDir, p)
}

// RequireFile resolves p and checks that it is a regular file
func (r *FileResolver) RequireFile(p string) (string, error) {
	abs := r.Resolve(p)
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Errorf("file %q: %w", p, ErrNotFound)
		}
		return "", errors.Errorf("checking file %q: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		return "", errors.Errorf("%q is not a regular file: %w", p, ErrWrongKind)
	}
	return abs, nil
}

// RequireDir resolves p and checks that it is a directory
func (r *FileResolver) RequireDir(p string) (string, error) {
	abs := r.Resolve(p)
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Errorf("directory %q: %w", p, ErrNotFound)
		}
		return "", errors.Errorf("checking directory %q: %w", p, err)
	}
	if !info.IsDir() {
		return "", errors.Errorf("%q is not a directory: %w", p, ErrWrongKind)
	}
	return abs, nil
}

func readable(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
