package application

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidateAbsolute checks that a path field is set and absolute
func ValidateAbsolute(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if !filepath.IsAbs(value) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be an absolute path, got %q", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "modelPath" -> "model path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"logPath":    "log path",
		"modelPath":  "model path",
		"plotPath":   "plot path",
		"scriptPath": "script path",
		"workspace":  "workspace",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}
