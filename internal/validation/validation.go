// Package validation holds the field rules shared by the profile and
// messaging services. All checks run before any write.
package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Length bounds count characters, not bytes; multibyte text gets the same
// budget as ASCII.
const (
	// MaxMessageLength bounds message content after trimming.
	MaxMessageLength = 1000

	// MaxUsernameLength bounds a display username after trimming.
	MaxUsernameLength = 50

	// MaxAboutMeLength bounds the free-text profile blurb.
	MaxAboutMeLength = 500
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// ValidateUsername accepts any non-blank trimmed name within the length
// bound. The app imposes no charset restriction on display names.
func ValidateUsername(username string) bool {
	username = NormalizeUsername(username)
	return username != "" && utf8.RuneCountInString(username) <= MaxUsernameLength
}

func NormalizeContent(content string) string {
	return strings.TrimSpace(content)
}

// ValidateContent reports whether trimmed message content is non-empty and
// within the length bound.
func ValidateContent(content string) bool {
	content = NormalizeContent(content)
	return content != "" && utf8.RuneCountInString(content) <= MaxMessageLength
}
