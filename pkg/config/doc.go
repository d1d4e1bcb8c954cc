/*
Package config manages configuration parsing and validation for tidyrc.

	                 +-------------+
	                 |   Config    |
	                 | (Settings)  |
	                 +------+------+
	                        |
	     +----------+-------+-------+----------+
	     |          |               |          |
	+----+---+ +----+---+      +----+---+ +----+---+
	|  HCL   | |  YAML  |      |  JSON  | |  TOML  |
	| Parser | | Parser |      | Parser | | Parser |
	+--------+ +--------+      +--------+ +--------+

🎯 Purpose:
- Loads the targets, mode, encoding, line ending, parallelism and steps of a run
- Picks a parser by file extension through a small registry
- Validates values before anything touches a file

🔄 Flow:
1. Discover finds .tidyrc.{hcl,yaml,yml,json,toml} in the base directory,
   falling back to $XDG_CONFIG_HOME/tidyrc/config.*
2. Load reads the file and hands it to the matching Parser
3. Validate checks modes, line endings, encodings and step blocks
4. The CLI overlays explicitly set flags on top

🔍 Example (HCL):

	targets     = ["cmd", "pkg", "main.go"]
	mode        = "check"
	line_ending = "UNIX"

	step "license-header" {
		header_file = "LICENSE.header"
		delimiter   = "^package "
	}

	step "replace" {
		replace {
			from  = "Copyright 2024"
			to    = "Copyright 2025"
			files = "pkg/*.go"
		}
	}

	step "exec" {
		command = ["prettier", "--stdin-filepath", "x.ts"]
		env     = { HOME = env.HOME }
	}
*/
package config
