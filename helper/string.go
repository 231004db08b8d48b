package helper

import (
	"strings"
	"unicode"
)

// Underscore converts a StructField name like "ContentMarkdown" to
// "content_markdown" for validation error keys.
func Underscore(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
