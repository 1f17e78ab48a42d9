package errors

import (
	"unicode/utf8"
)

// Length limits applied at the API boundary.
const (
	MaxProjectIDLength = 128
	MaxTitleLength     = 512
)

// ValidateProjectID checks the project identifier taken from the request
// path. The resolver never reads it; it only labels recorded schedules, so
// any non-empty value up to MaxProjectIDLength characters is accepted.
func ValidateProjectID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidProject, "project ID cannot be empty")
	}

	if utf8.RuneCountInString(id) > MaxProjectIDLength {
		return New(ErrCodeInvalidProject, "project ID too long (max %d characters)", MaxProjectIDLength)
	}

	return nil
}

// ValidateTitle checks the size of a task title or dependency reference.
// Content is not inspected: empty, blank and unknown titles are reported by
// the resolver with its own messages.
func ValidateTitle(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return New(ErrCodeInvalidTask, "task title too long (max %d characters)", MaxTitleLength)
	}
	return nil
}
