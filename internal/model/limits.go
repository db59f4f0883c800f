package model

import (
	"strings"
	"unicode/utf8"
)

// Column widths from the users and feedback_pages tables, in characters.
const (
	MaxUsernameLength = 100
	MaxEmailLength    = 255
	MaxTitleLength    = 255
)

// StorableText reports whether s fits in a column of max characters and
// holds no NUL byte, which PostgreSQL text types reject. max <= 0 means
// unbounded.
func StorableText(s string, max int) bool {
	if strings.ContainsRune(s, 0) || !utf8.ValidString(s) {
		return false
	}
	return max <= 0 || utf8.RuneCountInString(s) <= max
}
