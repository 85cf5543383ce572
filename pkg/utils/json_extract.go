package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes Markdown fence markers the model likes to wrap JSON in.
func StripCodeFences(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```JSON", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}

// ExtractJSON returns the first balanced [...] or {...} fragment of raw after
// fence stripping. Brackets inside string literals are ignored.
func ExtractJSON(raw string) (string, error) {
	text := StripCodeFences(raw)

	start := strings.IndexAny(text, "[{")
	for start >= 0 {
		if end := matchBracket(text, start); end > start {
			fragment := text[start : end+1]
			if json.Valid([]byte(fragment)) {
				return fragment, nil
			}
		}
		next := strings.IndexAny(text[start+1:], "[{")
		if next < 0 {
			break
		}
		start += next + 1
	}

	return "", fmt.Errorf("%w: no balanced json fragment", ErrParseFailure)
}

// matchBracket returns the index of the bracket closing text[start], or -1.
func matchBracket(text string, start int) int {
	var stack []byte
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')
		case ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
