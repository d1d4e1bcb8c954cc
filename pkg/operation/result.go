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
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/status"
)

// 🎯 ResultType is the run-level verdict for one file or for the whole run.
// Values form a join-semilattice under Combine with Clean as identity.
type ResultType int

const (
	Clean ResultType = iota
	Dirty
	DidNotConverge
)

// ResultTypes lists every result type, least to most severe
var ResultTypes = []ResultType{Clean, Dirty, DidNotConverge}

// Combine joins two results: DidNotConverge dominates, Dirty beats Clean
func (r ResultType) Combine(other ResultType) ResultType {
	if other > r {
		return other
	}
	return r
}

// String returns a string representation of ResultType
func (r ResultType) String() string {
	switch r {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case DidNotConverge:
		return "did not converge"
	default:
		return "unknown"
	}
}

// 📋 Result is the outcome of one target, produced by the worker that checked it
type Result struct {
	Target   string
	Outcome  *format.Outcome
	Pipeline *format.Pipeline
}

// 📣 FileReport is what a reporter hears about one file
type FileReport struct {
	File   string
	Status status.FileStatus
	Detail string
}

// 📊 Summary is what a reporter hears at the end of a run
type Summary struct {
	Mode     Mode
	Result   ResultType
	ExitCode int
	Counts   map[status.FileStatus]int
	Total    int
}
