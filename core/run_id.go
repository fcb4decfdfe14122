package core

import "github.com/google/uuid"

// NewRunID returns a short identifier that ties together the log lines of
// one invocation (and of one task inside a batch).
func NewRunID() string {
	return uuid.New().String()[:8]
}
