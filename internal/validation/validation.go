// Package validation provides input validation for group and user
// identifiers. Names are validated at the transport boundary so the domain
// layer can assume well-formed input.
package validation

import "fmt"

const (
	// MinNameLength is the minimum length of a group name or username.
	MinNameLength = 1
	// MaxNameLength is the maximum length of a group name or username.
	MaxNameLength = 50
)

// isAlpha returns true if the byte is an ASCII letter.
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isNum returns true if the byte is an ASCII digit.
func isNum(b byte) bool {
	return b >= '0' && b <= '9'
}

// isAlphaNum returns true if the byte is an ASCII letter or digit.
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isNum(b)
}

// validateIdentifier validates a 1-50 character alphanumeric identifier.
func validateIdentifier(value, what string) error {
	if len(value) < MinNameLength || len(value) > MaxNameLength {
		return fmt.Errorf("%s must be between %d and %d characters", what, MinNameLength, MaxNameLength)
	}
	for _, b := range []byte(value) {
		if !isAlphaNum(b) {
			return fmt.Errorf("%s can only contain letters and digits", what)
		}
	}
	return nil
}

// ValidateGroupName validates a group name: 1-50 alphanumeric characters.
func ValidateGroupName(name string) error {
	return validateIdentifier(name, "group name")
}

// ValidateUsername validates a username: 1-50 alphanumeric characters.
func ValidateUsername(username string) error {
	return validateIdentifier(username, "username")
}
