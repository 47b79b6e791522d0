package output

import "strings"

// ContextSeparator sits between consecutive blocks of accumulated context.
const ContextSeparator = "\n\n---\n\n"

// JoinContext normalizes each part, drops the empty ones and joins the rest
// with ContextSeparator.
func JoinContext(parts ...any) string {
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if text := Normalize(part); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, ContextSeparator)
}
