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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tidyrc/pkg/cleanup"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/layout"
	"github.com/walteh/tidyrc/pkg/operation"
	"github.com/walteh/tidyrc/pkg/runctx"
	"github.com/walteh/tidyrc/pkg/step"
	"gitlab.com/tozd/go/errors"
)

func newRunContext(t *testing.T, seq step.Sequence) *runctx.Context {
	t.Helper()
	files, err := layout.NewFileResolver(t.TempDir())
	require.NoError(t, err)
	reg := cleanup.New()
	t.Cleanup(func() { reg.DrainAndCleanupNow(context.Background()) })
	return runctx.New(layout.New(files, seq, layout.WithTempDir(t.TempDir())), reg)
}

type factoryFixture struct {
	factory  *operation.PipelineFactory
	st       *fakeStep
	builds   atomic.Int32
	deriveMu sync.Mutex
	derived  []string
}

func newFactoryFixture(t *testing.T) *factoryFixture {
	fx := &factoryFixture{st: trimStep()}
	seq := step.Sequence{fx.st}
	fx.factory = operation.NewPipelineFactory(newRunContext(t, seq), func(ctx context.Context, rc *runctx.Context) (*format.Pipeline, error) {
		fx.builds.Add(1)
		fx.deriveMu.Lock()
		fx.derived = append(fx.derived, rc.DeriveID())
		fx.deriveMu.Unlock()
		stages, err := seq.Prepare(ctx, rc)
		if err != nil {
			return nil, err
		}
		return format.New(format.Options{Stages: stages})
	})
	return fx
}

func TestPipelineFactory_Affinity(t *testing.T) {
	ctx := testContext(t)
	fx := newFactoryFixture(t)

	p0, err := fx.factory.Get(ctx, 0)
	require.NoError(t, err)
	again, err := fx.factory.Get(ctx, 0)
	require.NoError(t, err)
	p1, err := fx.factory.Get(ctx, 1)
	require.NoError(t, err)

	assert.Same(t, p0, again, "same worker, same pipeline")
	assert.NotSame(t, p0, p1, "different workers, different pipelines")
	assert.Equal(t, 2, fx.factory.Created())
	assert.Equal(t, []string{"1", "2"}, fx.derived)
}

func TestPipelineFactory_ConcurrentGet(t *testing.T) {
	ctx := testContext(t)
	fx := newFactoryFixture(t)

	const workers, callers = 4, 16
	got := make([][]*format.Pipeline, workers)
	for i := range got {
		got[i] = make([]*format.Pipeline, callers)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		for c := 0; c < callers; c++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p, err := fx.factory.Get(ctx, w)
				assert.NoError(t, err)
				got[w][c] = p
			}()
		}
	}
	wg.Wait()

	assert.EqualValues(t, workers, fx.builds.Load(), "one build per worker")
	for w := 0; w < workers; w++ {
		for c := 1; c < callers; c++ {
			assert.Same(t, got[w][0], got[w][c])
		}
	}
}

func TestPipelineFactory_ReleaseAll(t *testing.T) {
	ctx := testContext(t)
	fx := newFactoryFixture(t)

	for w := 0; w < 3; w++ {
		_, err := fx.factory.Get(ctx, w)
		require.NoError(t, err)
	}

	require.NoError(t, fx.factory.ReleaseAll(ctx))
	assert.Equal(t, 3, fx.st.closedCount(), "every pipeline closed")

	require.NoError(t, fx.factory.ReleaseAll(ctx))
	assert.Equal(t, 3, fx.st.closedCount(), "closed exactly once")

	_, err := fx.factory.Get(ctx, 0)
	assert.True(t, errors.Is(err, operation.ErrFactoryReleased))
}

func TestPipelineFactory_ReleaseUnused(t *testing.T) {
	ctx := testContext(t)
	fx := newFactoryFixture(t)

	require.NoError(t, fx.factory.ReleaseAll(ctx))
	assert.Zero(t, fx.builds.Load())
}

func TestPipelineFactory_BuildError(t *testing.T) {
	ctx := testContext(t)
	factory := operation.NewPipelineFactory(newRunContext(t, nil), func(ctx context.Context, rc *runctx.Context) (*format.Pipeline, error) {
		return nil, errors.New("no formatter")
	})

	_, err := factory.Get(ctx, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building pipeline for worker 7: no formatter")
	assert.Zero(t, factory.Created())
}
