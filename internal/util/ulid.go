package util

import "github.com/oklog/ulid/v2"

// NewRequestID returns a new time-ordered ULID string.
func NewRequestID() string {
	return ulid.Make().String()
}
