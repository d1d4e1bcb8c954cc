package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/tidyrc/pkg/config"
)

func ExampleLoad() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "tidyrc-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	configYAML := `
targets: ["**/*.go"]
mode: check
steps:
  - type: trim-trailing-whitespace
  - type: replace
    replace:
      - from: foo
        to: bar
        files: "*.go"
`
	configPath := filepath.Join(dir, ".tidyrc.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Println(cfg.String())
	fmt.Println(cfg.Steps[1].Replace[0].From, "->", cfg.Steps[1].Replace[0].To)
	// Output:
	// check **/*.go [trim-trailing-whitespace -> replace]
	// foo -> bar
}
