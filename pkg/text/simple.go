package text

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

var _ TextReplacer = (*SimpleTextReplacer)(nil)

// SimpleTextReplacer implements TextReplacer using literal or regex replacement
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	// Read all content
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	// Create result with original content
	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	// Apply each rule
	currentContent := string(originalContent)
	for i, rule := range rules {
		// Skip empty rules
		if rule.FromText == "" {
			continue
		}

		var (
			newContent string
			count      int
		)
		if rule.Regex {
			re, err := regexp.Compile(rule.FromText)
			if err != nil {
				return nil, errors.Errorf("rule %d: compiling pattern: %w", i, err)
			}
			count = len(re.FindAllStringIndex(currentContent, -1))
			newContent = re.ReplaceAllString(currentContent, rule.ToText)
		} else {
			count = strings.Count(currentContent, rule.FromText)
			newContent = strings.ReplaceAll(currentContent, rule.FromText, rule.ToText)
		}

		// Update counts if changed
		if newContent != currentContent {
			result.WasModified = true
			result.ReplacementCount += count
		}

		currentContent = newContent
	}

	// Update final content
	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
		if rule.Regex {
			if _, err := regexp.Compile(rule.FromText); err != nil {
				return errors.Errorf("rule %d: invalid pattern: %w", i, err)
			}
		}
	}
	return nil
}

// FilterRules returns the rules that apply to relPath, a slash-separated path
// relative to the base directory
func FilterRules(rules []ReplacementRule, relPath string) []ReplacementRule {
	var out []ReplacementRule
	for _, rule := range rules {
		if rule.FileFilterGlob == "" {
			out = append(out, rule)
			continue
		}
		if ok, err := doublestar.Match(rule.FileFilterGlob, relPath); err == nil && ok {
			out = append(out, rule)
		}
	}
	return out
}
