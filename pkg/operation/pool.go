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

	"gitlab.com/tozd/go/errors"
)

var errPoolShutdown = errors.Base("worker pool shut down")

// task is run by whichever worker picks it up
type task func(ctx context.Context, workerID int) (*Result, error)

// future is the one-shot answer to a submitted task
type future struct {
	done chan struct{}
	res  *Result
	err  error
}

func (f *future) complete(res *Result, err error) {
	f.res, f.err = res, err
	close(f.done)
}

func (f *future) wait() (*Result, error) {
	<-f.done
	return f.res, f.err
}

type job struct {
	run task
	fut *future
}

// 🏃 pool runs tasks on a fixed set of workers with stable integer ids.
// The first failing task cancels every task still queued.
type pool struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	jobs   chan job
	wg     sync.WaitGroup

	shutdownOnce sync.Once
}

func newPool(ctx context.Context, workers, capacity int) *pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancelCause(ctx)
	p := &pool{
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(chan job, capacity),
	}
	for id := 0; id < workers; id++ {
		p.wg.Add(1)
		go p.work(id)
	}
	return p
}

func (p *pool) work(id int) {
	defer p.wg.Done()
	for j := range p.jobs {
		if p.ctx.Err() != nil {
			j.fut.complete(nil, context.Cause(p.ctx))
			continue
		}
		res, err := j.run(p.ctx, id)
		if err != nil {
			p.cancel(err)
		}
		j.fut.complete(res, err)
	}
}

// submit queues t. It blocks only when the queue is full.
func (p *pool) submit(t task) *future {
	f := &future{done: make(chan struct{})}
	p.jobs <- job{run: t, fut: f}
	return f
}

// shutdown stops accepting tasks, cancels whatever is still queued and waits
// for the workers to exit
func (p *pool) shutdown() {
	p.shutdownOnce.Do(func() {
		close(p.jobs)
		p.cancel(errPoolShutdown)
		p.wg.Wait()
	})
}
