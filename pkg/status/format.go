package status

import (
	"fmt"
)

// FileFormatter defines how file status and progress should be formatted
type FileFormatter interface {
	// FormatFileStatus formats a file status message
	FormatFileStatus(path string, status FileStatus) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileStatus formats a file status message with emojis
func (f *DefaultFileFormatter) FormatFileStatus(path string, status FileStatus) string {
	switch status {
	case StatusPatched:
		return fmt.Sprintf("📝 Patched %s", path)
	case StatusPending:
		return fmt.Sprintf("⏳ Pending %s", path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	case StatusRestored:
		return fmt.Sprintf("♻️  Restored %s", path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
