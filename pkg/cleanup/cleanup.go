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

package cleanup

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// 🌍 Default is the process-wide registry drained by the CLI on exit
var Default = New()

// 🧹 Registration is one directory waiting to be deleted on behalf of an owner
type Registration struct {
	owner any
	dir   string
	once  sync.Once
}

// Dir returns the registered directory
func (r *Registration) Dir() string {
	return r.dir
}

// 🗑️ Cleanup deletes the directory. Only the first call does any work.
func (r *Registration) Cleanup(ctx context.Context) {
	r.once.Do(func() {
		DeleteDir(ctx, r.dir)
	})
}

// 📋 Registry tracks directories that must not outlive their owners
type Registry struct {
	mu      sync.Mutex
	pending []*Registration
}

// 🏭 New creates an empty registry
func New() *Registry {
	return &Registry{}
}

// 📝 Register records dir for deletion when owner is released or the registry drains
func (r *Registry) Register(ctx context.Context, owner any, dir string) *Registration {
	reg := &Registration{owner: owner, dir: dir}

	r.mu.Lock()
	r.pending = append(r.pending, reg)
	r.mu.Unlock()

	zerolog.Ctx(ctx).Trace().Str("dir", dir).Msg("registered directory for cleanup")
	return reg
}

// 🔓 Release deletes every directory registered by owner
func (r *Registry) Release(ctx context.Context, owner any) {
	r.mu.Lock()
	var mine []*Registration
	kept := r.pending[:0]
	for _, reg := range r.pending {
		if reg.owner == owner {
			mine = append(mine, reg)
		} else {
			kept = append(kept, reg)
		}
	}
	r.pending = kept
	r.mu.Unlock()

	for _, reg := range mine {
		reg.Cleanup(ctx)
	}
}

// Pending reports how many registrations have not been released yet
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// 🚿 DrainAndCleanupNow deletes every pending directory immediately
func (r *Registry) DrainAndCleanupNow(ctx context.Context) {
	r.mu.Lock()
	all := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, reg := range all {
		reg.Cleanup(ctx)
	}
}

// 🗑️ DeleteDir removes dir and everything below it, deepest entries first.
// Failures are logged and never returned; a missing directory is a no-op.
func DeleteDir(ctx context.Context, dir string) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Lstat(dir); err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("dir", dir).Msg("directory already gone, nothing to clean")
			return
		}
		logger.Warn().Err(err).Str("dir", dir).Msg("unable to inspect directory for cleanup")
		return
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry during cleanup")
			if d != nil && d.IsDir() && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("walking directory for cleanup")
	}

	// children sort after their parents, so reverse order removes leaves first
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Debug().Err(err).Str("path", p).Msg("removing path during cleanup")
		}
	}

	if _, err := os.Lstat(dir); err == nil {
		logger.Warn().Str("dir", dir).Msg("unable to fully delete directory")
	} else if !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("dir", dir).Msg("unable to verify directory deletion")
	}
}
