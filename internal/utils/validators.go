package utils

import (
	"strings"
	"unicode"
)

// IsValidJudgeName accepts any non-blank display name up to 80 runes.
func IsValidJudgeName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len([]rune(name)) <= 80
}

// IsValidSampleCode accepts short alphanumeric blinding codes. Underscores
// are rejected because the stored composite response keys use "_" as the
// sample/attribute separator.
func IsValidSampleCode(code string) bool {
	if code == "" || len(code) > 16 {
		return false
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
