package services

import (
	"time"

	"github.com/google/uuid"
)

// newID returns a fresh identifier for documents and messages.
func newID() string {
	return uuid.NewString()
}

// clock is swapped in tests that need stable timestamps.
var clock = time.Now
