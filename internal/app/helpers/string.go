package helpers

import (
	"strings"
	"unicode/utf8"
)

// Concatenate multiple strings into one.
func ConcatStrings(values ...string) string {
	var builder strings.Builder

	for _, value := range values {
		builder.WriteString(value)
	}

	return builder.String()
}

// Cut string to the given amount of runes, adding an ellipsis when cut.
func TruncateString(value string, length int) string {
	if utf8.RuneCountInString(value) <= length {
		return value
	}

	runes := []rune(value)

	return ConcatStrings(string(runes[:length]), "…")
}
