package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxServiceNameLength is the maximum length for a service name.
	MaxServiceNameLength = 64
)

// validServiceNamePattern matches alphanumeric, hyphens, underscores, and dots.
var validServiceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*$`)

// multipleSpacesPattern matches one or more consecutive whitespace characters.
var multipleSpacesPattern = regexp.MustCompile(`\s+`)

// ValidateServiceName validates a remote service name.
// Returns an error if the name is invalid.
func ValidateServiceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("service name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxServiceNameLength {
		return fmt.Errorf("service name cannot exceed %d characters", MaxServiceNameLength)
	}

	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("service name contains invalid characters")
	}

	if !validServiceNamePattern.MatchString(name) {
		return fmt.Errorf("service name can only contain letters, numbers, hyphens, underscores, and dots")
	}

	return nil
}

// SanitizeServiceName cleans up a service name typed by a user: trims it,
// turns runs of whitespace into a single hyphen and truncates it.
func SanitizeServiceName(name string) string {
	name = strings.TrimSpace(name)
	name = multipleSpacesPattern.ReplaceAllString(name, "-")

	if utf8.RuneCountInString(name) > MaxServiceNameLength {
		runes := []rune(name)
		name = string(runes[:MaxServiceNameLength])
	}

	return name
}
