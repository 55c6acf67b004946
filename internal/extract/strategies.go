package extract

import "strings"

// FinalAnswerMarker prefixes the answer in a ReAct transcript.
const FinalAnswerMarker = "Final Answer:"

// Default is the chain for generation output: whole text, final-answer
// tail, outer braces, outer brackets, then every balanced object.
func Default() []Strategy {
	return []Strategy{Whole, FinalAnswer, Braces, Brackets, Objects}
}

// VerdictChain prefers the agent's final answer, then the first complete
// object.
func VerdictChain() []Strategy {
	return []Strategy{FinalAnswer, Braces, Objects}
}

// Whole treats the full trimmed response as the document.
var Whole = Strategy{
	Name: "whole",
	Candidates: func(text string) []string {
		return nonEmpty(stripFence(text))
	},
}

// FinalAnswer takes what follows the last "Final Answer:" marker, plus the
// outermost object inside it.
var FinalAnswer = Strategy{
	Name: "final-answer",
	Candidates: func(text string) []string {
		i := strings.LastIndex(text, FinalAnswerMarker)
		if i < 0 {
			return nil
		}
		tail := stripFence(text[i+len(FinalAnswerMarker):])
		return nonEmpty(tail, span(tail, '{', '}'))
	},
}

// Braces spans the first '{' to the last '}'.
var Braces = Strategy{
	Name: "braces",
	Candidates: func(text string) []string {
		return nonEmpty(span(text, '{', '}'))
	},
}

// Brackets spans the first '[' to the last ']', for array-shaped output.
var Brackets = Strategy{
	Name: "brackets",
	Candidates: func(text string) []string {
		return nonEmpty(span(text, '[', ']'))
	},
}

// Objects yields every balanced {...} ordered by its opening brace, so an
// outer object that fails to decode is followed by the objects nested in
// it. Braces inside JSON strings do not close an object.
var Objects = Strategy{
	Name:       "candidates",
	Candidates: balancedObjects,
}

func nonEmpty(cs ...string) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// stripFence removes a leading ```lang ... ``` block wrapper.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	start := 3
	if nl := strings.Index(s[start:], "\n"); nl != -1 {
		start += nl + 1
	} else {
		// Single-line fence: ```json {...}```
		for start < len(s) && isLetter(s[start]) {
			start++
		}
	}

	body := s[start:]
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func span(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}
	end := strings.LastIndexByte(text, close)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}

func balancedObjects(text string) []string {
	var out []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end := matchBrace(text, i)
		if end < 0 {
			continue
		}
		out = append(out, text[i:end+1])
	}
	return out
}

// matchBrace returns the index of the '}' closing the '{' at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
