package platform

import (
	"regexp"
	"strings"
)

// unsafeChars are the characters rejected by at least one of the target filesystems.
var unsafeChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SanitizeFilename removes filesystem-unsafe characters and trims surrounding whitespace.
// Applying it to its own output returns the same string.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(unsafeChars.ReplaceAllString(name, ""))
}
