package llm

import "unicode/utf8"

// Truncate returns the longest prefix of s that fits in n bytes without
// splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Preview is Truncate with a trailing "..." when s was cut. It keeps
// prompts and completions short in log lines.
func Preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return Truncate(s, n) + "..."
}
