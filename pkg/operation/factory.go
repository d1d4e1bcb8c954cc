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

package operation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

// ErrFactoryReleased is returned by Get once ReleaseAll ran
var ErrFactoryReleased = errors.Base("pipeline factory released")

// 🏭 BuildFunc builds the pipeline of one worker
type BuildFunc func(ctx context.Context, rc *runctx.Context) (*format.Pipeline, error)

// 🏭 PipelineFactory hands each worker its own pipeline for the whole run.
// Pipelines are built lazily on the first Get of a worker id.
type PipelineFactory struct {
	rc    *runctx.Context
	build BuildFunc

	byWorker sync.Map // int -> *format.Pipeline

	mu       sync.Mutex
	created  []*format.Pipeline
	released bool
}

// NewPipelineFactory creates a factory. Each worker's build gets rc derived for that worker.
func NewPipelineFactory(rc *runctx.Context, build BuildFunc) *PipelineFactory {
	return &PipelineFactory{rc: rc, build: build}
}

// Get returns the pipeline bound to workerID, building it on first use
func (f *PipelineFactory) Get(ctx context.Context, workerID int) (*format.Pipeline, error) {
	if p, ok := f.byWorker.Load(workerID); ok {
		return p.(*format.Pipeline), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.released {
		return nil, ErrFactoryReleased
	}
	if p, ok := f.byWorker.Load(workerID); ok {
		return p.(*format.Pipeline), nil
	}

	p, err := f.build(ctx, f.rc.Derive(workerID))
	if err != nil {
		return nil, errors.Errorf("building pipeline for worker %d: %w", workerID, err)
	}
	f.byWorker.Store(workerID, p)
	f.created = append(f.created, p)

	zerolog.Ctx(ctx).Debug().Int("worker", workerID).Int("stages", len(p.Stages())).Msg("built pipeline")
	return p, nil
}

// Created returns how many pipelines were built
func (f *PipelineFactory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// 🧹 ReleaseAll closes every pipeline built so far. Later calls do nothing.
func (f *PipelineFactory) ReleaseAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.released {
		return nil
	}
	f.released = true

	var errs []error
	for _, p := range f.created {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	zerolog.Ctx(ctx).Debug().Int("pipelines", len(f.created)).Msg("released pipelines")
	f.created = nil
	f.byWorker.Clear()

	return errors.Join(errs...)
}
