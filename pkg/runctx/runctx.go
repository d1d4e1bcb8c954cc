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

// Package runctx carries the per-run (and per-worker) environment that steps
// see while they prepare their stages.
package runctx

import (
	"strconv"

	"github.com/walteh/tidyrc/pkg/cleanup"
	"github.com/walteh/tidyrc/pkg/layout"
)

// 🧭 Context is what a step can reach during preparation
type Context struct {
	layout   *layout.Layout
	registry *cleanup.Registry
}

// 🏭 New creates the run context
func New(l *layout.Layout, registry *cleanup.Registry) *Context {
	return &Context{layout: l, registry: registry}
}

func (c *Context) BaseDir() string             { return c.layout.BaseDir() }
func (c *Context) Layout() *layout.Layout      { return c.layout }
func (c *Context) Files() *layout.FileResolver { return c.layout.Files() }
func (c *Context) Cleanup() *cleanup.Registry  { return c.registry }
func (c *Context) DeriveID() string            { return c.layout.DeriveID() }

// 🔀 Derive returns the context handed to one worker: same run, its own build directory
func (c *Context) Derive(workerID int) *Context {
	return &Context{
		layout:   c.layout.Derive(WorkerID(workerID)),
		registry: c.registry,
	}
}

// WorkerID is the derive id used for a worker's layout. Worker n derives
// with n+1 so no worker shares the run's own id.
func WorkerID(id int) string {
	return strconv.Itoa(id + 1)
}
