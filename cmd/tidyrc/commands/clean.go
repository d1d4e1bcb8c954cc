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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/tidyrc/cmd/tidyrc/opts"
	"github.com/walteh/tidyrc/pkg/cleanup"
	"github.com/walteh/tidyrc/pkg/layout"
	"github.com/walteh/tidyrc/pkg/log"
	"github.com/walteh/tidyrc/pkg/step"
	"gitlab.com/tozd/go/errors"
)

// NewCleanCmd creates the clean command
func NewCleanCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the build and cache directories of the base directory",
		Long: `Clean removes everything tidyrc keeps between runs for the base directory.
Build roots and step caches are never deleted by a run.
It will:
1. Detect the build root (build/tidyrc, target/tidyrc or the temporary root)
2. Delete it along with every cached step directory below it`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			base, err := o.AbsBaseDir()
			if err != nil {
				return err
			}
			files, err := layout.NewFileResolver(base)
			if err != nil {
				return errors.Errorf("resolving base directory: %w", err)
			}

			root, kind := layout.New(files, step.Sequence(nil)).Root(ctx)
			cleanup.DeleteDir(ctx, root)

			log.FromContext(ctx).Successf("removed %s build root %s", kind, root)
			return nil
		},
	}

	return cmd
}
