package models

import "strings"

// NormalizeLabel case-folds and trims a detected label.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
