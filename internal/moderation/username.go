// Package moderation holds the stateless checks applied to chat input:
// username validation and message content moderation.
package moderation

import (
	"regexp"
	"strings"
)

const (
	// MinUsernameLength and MaxUsernameLength bound display names inclusively.
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reservedNames are substrings no display name may contain, to prevent
// impersonation of staff or the brand itself.
var reservedNames = []string{"admin", "moderator", "root", "system", "hachiko"}

// IsValidUsername reports whether a candidate display name is acceptable:
// 3-20 characters, ASCII letters/digits/underscore/hyphen only, and free of
// reserved substrings regardless of casing.
func IsValidUsername(username string) bool {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return false
	}

	if !usernamePattern.MatchString(username) {
		return false
	}

	lower := strings.ToLower(username)
	for _, reserved := range reservedNames {
		if strings.Contains(lower, reserved) {
			return false
		}
	}

	return true
}
