package domain

import (
	"regexp"
	"time"
)

// usernamePattern accepts Unicode letters, digits and underscores.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_]+$`)

// ValidUsername reports whether name is non-empty and made only of word characters.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// Session is an authenticated chat session for one user.
type Session struct {
	ID        string
	Username  string
	StartedAt time.Time
}
