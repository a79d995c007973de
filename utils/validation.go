package utils

import (
	"os"
	"regexp"
	"strings"
)

var learnerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// NormalizeWord trims and lowercases a word for lookups.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// ValidLearnerID reports whether id is safe to use as a learner key:
// 1 to 64 ASCII letters, digits, underscores or dashes.
func ValidLearnerID(id string) bool {
	return learnerIDPattern.MatchString(id)
}

// VerifyFileExists checks if a regular file exists at path.
func VerifyFileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
