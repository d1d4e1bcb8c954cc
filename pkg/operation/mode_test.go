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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/operation"
	"github.com/walteh/tidyrc/pkg/status"
)

func TestMode_HandleResult(t *testing.T) {
	tests := []struct {
		name       string
		mode       operation.Mode
		detailed   bool
		stages     []format.Stage
		content    string
		want       operation.ResultType
		wantStatus status.FileStatus
		wantDetail func(t *testing.T, file, detail string)
		wantFile   string
	}{
		{
			name:       "check_clean",
			mode:       operation.ModeCheck,
			stages:     []format.Stage{trimStep().stage()},
			content:    "ok\n",
			want:       operation.Clean,
			wantStatus: status.StatusClean,
			wantFile:   "ok\n",
		},
		{
			name:       "check_dirty_one_line",
			mode:       operation.ModeCheck,
			stages:     []format.Stage{trimStep().stage()},
			content:    "bad  \n",
			want:       operation.Dirty,
			wantStatus: status.StatusDirty,
			wantDetail: func(t *testing.T, file, detail string) {
				assert.Equal(t, file+" is violating formatting rules.", detail)
			},
			wantFile: "bad  \n",
		},
		{
			name:       "check_dirty_detailed",
			mode:       operation.ModeCheck,
			detailed:   true,
			stages:     []format.Stage{trimStep().stage()},
			content:    "bad  \n",
			want:       operation.Dirty,
			wantStatus: status.StatusDirty,
			wantDetail: func(t *testing.T, file, detail string) {
				assert.Contains(t, detail, "--- a/"+file)
				assert.Contains(t, detail, "-bad  ")
				assert.Contains(t, detail, "+bad")
			},
			wantFile: "bad  \n",
		},
		{
			name:       "check_lint_only",
			mode:       operation.ModeCheck,
			stages:     []format.Stage{lintStep().stage()},
			content:    "TODO\n",
			want:       operation.Dirty,
			wantStatus: status.StatusLint,
			wantDetail: func(t *testing.T, file, detail string) {
				assert.Contains(t, detail, "lint(todo) found a TODO")
			},
			wantFile: "TODO\n",
		},
		{
			name:       "check_did_not_converge",
			mode:       operation.ModeCheck,
			stages:     []format.Stage{growStep().stage()},
			content:    "x",
			want:       operation.DidNotConverge,
			wantStatus: status.StatusDidNotConverge,
			wantFile:   "x",
		},
		{
			name:       "apply_rewrites",
			mode:       operation.ModeApply,
			stages:     []format.Stage{trimStep().stage()},
			content:    "bad  \n",
			want:       operation.Clean,
			wantStatus: status.StatusRewritten,
			wantFile:   "bad\n",
		},
		{
			name:       "apply_with_lints_leaves_file",
			mode:       operation.ModeApply,
			stages:     []format.Stage{trimStep().stage(), lintStep().stage()},
			content:    "TODO  \n",
			want:       operation.Dirty,
			wantStatus: status.StatusLint,
			wantFile:   "TODO  \n",
		},
		{
			name:       "apply_did_not_converge",
			mode:       operation.ModeApply,
			stages:     []format.Stage{growStep().stage()},
			content:    "x",
			want:       operation.DidNotConverge,
			wantStatus: status.StatusDidNotConverge,
			wantFile:   "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			file := filepath.Join(t.TempDir(), "f.txt")
			require.NoError(t, os.WriteFile(file, []byte(tt.content), 0o644))

			p, err := format.New(format.Options{Stages: tt.stages})
			require.NoError(t, err)
			outcome, err := p.Check(ctx, file)
			require.NoError(t, err)

			rep := &MockReporter{}
			rep.On("File", mock.Anything, mock.MatchedBy(func(r operation.FileReport) bool {
				return r.File == file && r.Status == tt.wantStatus
			})).Run(func(args mock.Arguments) {
				if tt.wantDetail != nil {
					tt.wantDetail(t, file, args.Get(1).(operation.FileReport).Detail)
				}
			}).Once()

			got, err := tt.mode.HandleResult(ctx, &operation.Result{Target: file, Outcome: outcome, Pipeline: p}, rep, tt.detailed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFile, readFile(t, file))
			rep.AssertExpectations(t)
		})
	}
}

func TestMode_HandleResult_WriteFailure(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("bad  \n"), 0o644))

	p, err := format.New(format.Options{Stages: []format.Stage{trimStep().stage()}})
	require.NoError(t, err)
	outcome, err := p.Check(ctx, file)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))

	rep := &MockReporter{}
	_, err = operation.ModeApply.HandleResult(ctx, &operation.Result{Target: file, Outcome: outcome}, rep, false)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "writing "+file))
	rep.AssertNotCalled(t, "File", mock.Anything, mock.Anything)
}
