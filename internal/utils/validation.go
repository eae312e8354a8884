package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Compiled regular expressions for validation
var (
	// Upload ids are UUIDs; figure names are file stems or Go style identifiers.
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Detect potentially dangerous characters - more focused on injection patterns
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateCountry validates a country name taken from a query string.
func ValidateCountry(name string) error {
	// Empty names select the default focus country
	if name == "" {
		return nil
	}

	if len(name) > 200 {
		return errors.New("country too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(name) {
		return errors.New("country contains invalid characters")
	}

	return nil
}

// ValidateYearRange checks that from <= to and both lie inside [minYear, maxYear].
func ValidateYearRange(from, to, minYear, maxYear int) map[string][]string {
	fieldErrors := make(map[string][]string)

	if from < minYear || from > maxYear {
		fieldErrors["from"] = append(fieldErrors["from"],
			fmt.Sprintf("from must be between %d and %d", minYear, maxYear))
	}

	if to < minYear || to > maxYear {
		fieldErrors["to"] = append(fieldErrors["to"],
			fmt.Sprintf("to must be between %d and %d", minYear, maxYear))
	}

	if from > to {
		fieldErrors["from"] = append(fieldErrors["from"], "from must not be after to")
	}

	return fieldErrors
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	// Remove HTML tags
	sanitized := htmlTagPattern.ReplaceAllString(input, "")

	// Trim whitespace
	sanitized = strings.TrimSpace(sanitized)

	return sanitized
}

// ValidateAndSanitizeCountry validates and sanitizes a country name
func ValidateAndSanitizeCountry(name string) (string, error) {
	if err := ValidateCountry(name); err != nil {
		return "", err
	}

	return SanitizeInput(name), nil
}
