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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/tidyrc/cmd/tidyrc/opts"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd prints the effective configuration: the loaded file with all
// flags applied, as YAML
func NewConfigCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "config [targets...]",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.LoadConfig(cmd.Context(), cmd.Flags(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			location := cfg.Location()
			if location == "" {
				location = "(none)"
			}
			fmt.Fprintf(out, "# source: %s\n", location)

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return errors.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		},
	}
}
