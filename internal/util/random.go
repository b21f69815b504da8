// Package util provides utility functions for the CoachCore application.
package util

import (
	"math/rand"
	"strings"
)

// GenerateRandomID generates a random ID with the specified prefix and hex length.
// The returned ID will be in the format: "{prefix}{hex_string}".
func GenerateRandomID(prefix string, hexLength int) string {
	return prefix + GenerateRandomHex(hexLength)
}

// GenerateRandomHex generates a random hexadecimal string of the specified length.
// Uses math/rand/v2; not for cryptographic purposes.
func GenerateRandomHex(length int) string {
	if length <= 0 {
		return ""
	}

	const hexChars = "0123456789abcdef"
	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		builder.WriteByte(hexChars[rand.Intn(16)])
	}

	return builder.String()
}

// GenerateResponseID generates a unique response ID with "resp_" prefix.
func GenerateResponseID() string {
	return GenerateRandomID("resp_", 24)
}
