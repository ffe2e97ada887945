package domain

import "github.com/google/uuid"

// NewCompletionID creates a unique identifier for one natural completion.
func NewCompletionID() string {
	return uuid.New().String()
}
