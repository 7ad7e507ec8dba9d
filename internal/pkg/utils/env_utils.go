package utils

import (
	"os"
	"strings"
)

// GetEnv returns the value of key, or fallback when it is unset or blank.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
