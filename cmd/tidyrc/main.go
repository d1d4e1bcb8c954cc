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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/walteh/tidyrc/cmd/tidyrc/opts"
	"github.com/walteh/tidyrc/pkg/cleanup"
	"github.com/walteh/tidyrc/pkg/operation"
	"github.com/walteh/tidyrc/pkg/status"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	// anything still registered (an interrupted run) goes before we exit
	cleanup.Default.DrainAndCleanupNow(context.Background())
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o := opts.New()
	defer func() {
		_ = o.Close()
	}()

	root := newRootCmd(o, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, color.New(color.FgRed).Sprint(status.NewDefaultFileFormatter().FormatError(err)))
		return operation.ExitCodeFailure
	}
	return o.ExitCode
}
