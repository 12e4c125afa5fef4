package util

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFileNameBytes = 128

// ErrInvalidFileName is returned when a file name cannot be made safe.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName removes path separators, control characters and rejects
// traversal patterns. The result is safe to join under a directory.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimLeft(s, ".")
	if s == "" {
		return "", ErrInvalidFileName
	}
	return truncateBytes(s, maxFileNameBytes), nil
}

// IsPlainFileName reports whether name can be used as-is as a single path
// element: no separators, no traversal, no control characters.
func IsPlainFileName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// CapFileName trims name and cuts it to at most 128 bytes on a rune boundary.
func CapFileName(name string) string {
	return truncateBytes(strings.TrimSpace(name), maxFileNameBytes)
}

func truncateBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
