package summarize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinTextLength is the shortest input, in characters after trimming, worth summarizing.
const MinTextLength = 50

// promptTemplate has a single slot for the caller's text.
const promptTemplate = `Please provide a concise summary of the following text. Focus on the main points and key information:

%s

Summary:`

// BuildPrompt inserts text into the template verbatim: no escaping,
// truncation or sanitization. The backend treats the whole payload as a prompt.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// Validate checks the caller's text. Length is counted in runes on the
// trimmed text, so surrounding whitespace never satisfies the minimum.
func Validate(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) < MinTextLength {
		return ErrTooShort
	}
	return nil
}
