package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// NormalizeResource maps singular and plural spellings to a collection name
func NormalizeResource(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "user", "users":
		return "users", nil
	case "property", "properties":
		return "properties", nil
	case "item", "items":
		return "items", nil
	case "admin", "admins":
		return "admins", nil
	case "blog", "blogs", "post", "posts":
		return "blogs", nil
	}
	return "", fmt.Errorf("invalid resource: %s (must be: %s)", kind, strings.Join(resource.Kinds, ", "))
}

// ValidatePurgeKind checks kind may be deleted in bulk
func ValidatePurgeKind(kind string) (string, error) {
	normalized, err := NormalizeResource(kind)
	if err != nil {
		return "", err
	}
	if !Contains(resource.PurgeableKinds, normalized) {
		return "", fmt.Errorf("%s cannot be deleted in bulk (allowed: %s)", normalized, strings.Join(resource.PurgeableKinds, ", "))
	}
	return normalized, nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateRecordID rejects ids that would escape the record path
func ValidateRecordID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("record id cannot be empty")
	}

	invalidChars := []string{"/", "\\", "..", "?", "#"}
	for _, char := range invalidChars {
		if strings.Contains(id, char) {
			return fmt.Errorf("record id contains invalid character: %s", char)
		}
	}

	return nil
}

// ParseAssignments parses key=value pairs from --set flags
func ParseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", pair)
		}
		values[key] = value
	}
	return values, nil
}

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
