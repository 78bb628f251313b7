package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"simple name", "Yuki_99", true},
		{"hyphenated", "moon-dog", true},
		{"minimum length", "abc", true},
		{"maximum length", strings.Repeat("a", MaxUsernameLength), true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", MaxUsernameLength+1), false},
		{"empty", "", false},
		{"space", "cool name", false},
		{"unicode letters", "犬犬犬", false},
		{"punctuation", "dog!", false},
		{"reserved exact", "admin", false},
		{"reserved as substring", "admin2", false},
		{"reserved mixed case", "AdMiN_guy", false},
		{"reserved moderator", "the_moderator", false},
		{"reserved root", "rootless", false},
		{"reserved system", "system32", false},
		{"brand name", "hachiko_fan", false},
		{"brand name upper", "HACHIKO", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUsername(tt.username))
		})
	}
}
