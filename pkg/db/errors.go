package db

import "strings"

// IsUniqueViolation reports whether err looks like a postgres unique
// constraint failure. Pass a constraint name to match one index
// specifically, or leave it empty to match any duplicate-key error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if constraintName != "" {
		return strings.Contains(err.Error(), constraintName)
	}
	return strings.Contains(err.Error(), "duplicate key value")
}
