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
	"sort"
	"strings"
	"sync"

	"github.com/walteh/tidyrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownStep is returned when a config names a step type nobody registered
var ErrUnknownStep = errors.Base("unknown step type")

// 🏭 Factory builds a step from its config block
type Factory func(cfg config.StepConfig) (Step, error)

// 🗺️ Registry maps step type names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// Default holds the built-in steps
var Default = NewRegistry()

func init() {
	Default.Register(TrimTrailingWhitespaceName, newTrimTrailingWhitespace)
	Default.Register(EndWithNewlineName, newEndWithNewline)
	Default.Register(IndentName, newIndent)
	Default.Register(GofmtName, newGofmt)
	Default.Register(LicenseHeaderName, newLicenseHeader)
	Default.Register(ReplaceName, newReplace)
	Default.Register(ExecName, newExec)
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds or replaces the factory for name
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get returns the factory for name
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered step types, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// 🔨 Build turns config blocks into a step sequence, keeping their order
func (r *Registry) Build(cfgs []config.StepConfig) (Sequence, error) {
	seq := make(Sequence, 0, len(cfgs))
	for i, cfg := range cfgs {
		f, ok := r.Get(cfg.Type)
		if !ok {
			return nil, errors.Errorf("step %d: %w %q (known: %s)", i, ErrUnknownStep, cfg.Type, strings.Join(r.Names(), ", "))
		}
		st, err := f(cfg)
		if err != nil {
			return nil, errors.Errorf("step %d (%s): %w", i, cfg.Type, err)
		}
		seq = append(seq, st)
	}
	return seq, nil
}
