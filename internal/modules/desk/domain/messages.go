package domain

import "strings"

const noSeatsMarker = "not enough seats available"

// FriendlyError rewrites remote error text for the operator.
func FriendlyError(message string) string {
	switch {
	case strings.TrimSpace(message) == "":
		return "Unknown error"
	case strings.Contains(message, noSeatsMarker):
		return "No seats left"
	default:
		return message
	}
}

// IsLoginFailure reports whether an error text means the credential stopped working.
func IsLoginFailure(message string) bool {
	return strings.Contains(strings.ToLower(message), "login failed")
}
