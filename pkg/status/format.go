package status

import (
	"fmt"
	"strings"
)

// FileFormatter defines how file results and progress should be formatted
type FileFormatter interface {
	// FormatFileResult formats the result for one file
	FormatFileResult(path string, s FileStatus) string

	// FormatSummary formats the per-status counts of a run
	FormatSummary(counts map[FileStatus]int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileResult formats a file result with emojis
func (f *DefaultFileFormatter) FormatFileResult(path string, s FileStatus) string {
	switch s {
	case StatusClean:
		return fmt.Sprintf("👍 Clean %s", path)
	case StatusRewritten:
		return fmt.Sprintf("📝 Rewrote %s", path)
	case StatusDirty:
		return fmt.Sprintf("🧹 Needs formatting %s", path)
	case StatusLint:
		return fmt.Sprintf("🚩 Lint in %s", path)
	case StatusDidNotConverge:
		return fmt.Sprintf("♾️  Did not converge %s", path)
	default:
		return fmt.Sprintf("❓ Unknown %s", path)
	}
}

// FormatSummary lists non-zero counts in summary order
func (f *DefaultFileFormatter) FormatSummary(counts map[FileStatus]int) string {
	var parts []string
	total := 0
	for _, s := range AllStatuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
			total += n
		}
	}
	if total == 0 {
		return "no files"
	}
	noun := "files"
	if total == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s: %s", total, noun, strings.Join(parts, ", "))
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
