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

package target

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const globMeta = "*?[{"

// 🎯 Resolver turns target specifications into absolute file paths
type Resolver struct {
	baseDir string
	specs   []string
}

// 🏭 NewResolver creates a resolver for specs, relative ones taken from baseDir
func NewResolver(baseDir string, specs []string) *Resolver {
	return &Resolver{baseDir: baseDir, specs: specs}
}

// 🔍 Resolve expands every specification. Specifications are expanded
// concurrently, but the result keeps specification order and, within one
// specification, walk order. A file matched by two specifications appears twice.
func (r *Resolver) Resolve(ctx context.Context) ([]string, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return nil, errors.Errorf("resolving base directory: %w", err)
	}

	slots := make([][]string, len(r.specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range r.specs {
		g.Go(func() error {
			files, err := expand(gctx, base, spec)
			if err != nil {
				return errors.Errorf("resolving target %q: %w", spec, err)
			}
			slots[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for i, files := range slots {
		zerolog.Ctx(ctx).Debug().Str("spec", r.specs[i]).Int("files", len(files)).Msg("resolved target")
		out = append(out, files...)
	}
	return out, nil
}

// IsGlob reports whether spec contains glob metacharacters
func IsGlob(spec string) bool {
	return strings.ContainsAny(spec, globMeta)
}

func expand(ctx context.Context, base, spec string) ([]string, error) {
	if IsGlob(spec) {
		return expandGlob(ctx, base, spec)
	}
	return expandLiteral(ctx, base, spec)
}

func expandLiteral(ctx context.Context, base, spec string) ([]string, error) {
	path := spec
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("literal target not found")
		return nil, nil
	}

	switch {
	case info.Mode().IsRegular():
		if !readable(path) {
			return nil, nil
		}
		return []string{path}, nil
	case info.IsDir():
		return walk(ctx, path, func(string) (bool, error) { return true, nil })
	default:
		return nil, nil
	}
}

func expandGlob(ctx context.Context, base, spec string) ([]string, error) {
	prefix, pattern := SplitGlob(spec)
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	root := filepath.FromSlash(prefix)
	if !filepath.IsAbs(root) {
		root = filepath.Join(base, root)
	}
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		zerolog.Ctx(ctx).Debug().Str("prefix", root).Msg("glob prefix does not exist")
		return nil, nil
	}

	return walk(ctx, root, func(rel string) (bool, error) {
		return doublestar.Match(pattern, rel)
	})
}

// ✂️ SplitGlob separates spec into its longest literal directory prefix and the
// pattern that follows it, both in slash form. Absolute specs keep a leading "/".
func SplitGlob(spec string) (prefix, pattern string) {
	spec = filepath.ToSlash(spec)
	abs := strings.HasPrefix(spec, "/")
	segments := strings.Split(strings.TrimPrefix(spec, "/"), "/")

	i := 0
	for i < len(segments)-1 && !IsGlob(segments[i]) {
		i++
	}

	prefix = strings.Join(segments[:i], "/")
	if abs {
		prefix = "/" + prefix
	}
	if prefix == "" {
		prefix = "."
	}
	return prefix, strings.Join(segments[i:], "/")
}

// walk yields the regular files below root accepted by match, which receives
// the slash-separated path relative to root. Symlinks are never followed.
func walk(ctx context.Context, root string, match func(rel string) (bool, error)) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Type()&fs.ModeSymlink != 0 || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		ok, err := match(filepath.ToSlash(rel))
		if err != nil {
			return errors.Errorf("matching %s: %w", rel, err)
		}
		if ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func readable(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
