// Package jsonx recovers JSON from raw LLM output. Model replies routinely
// arrive wrapped in markdown fences, surrounded by prose, or truncated
// mid-array, so extraction tries progressively looser strategies and reports
// "unrecoverable" instead of returning an error the caller has to decode.
package jsonx

import (
	"encoding/json"
	"strings"
)

// Extract returns the first parseable JSON value found in raw.
// Order: fence-stripped direct parse, then a greedy substring between the
// outermost braces (or brackets when the payload is a bare array).
// ok is false when nothing parseable was found.
func Extract(raw string) (json.RawMessage, bool) {
	content := stripFences(raw)
	if content == "" {
		return nil, false
	}

	if json.Valid([]byte(content)) {
		return json.RawMessage(content), true
	}

	if sub, ok := greedySlice(content, '{', '}'); ok {
		return sub, true
	}
	if sub, ok := greedySlice(content, '[', ']'); ok {
		return sub, true
	}

	return nil, false
}

// ExtractArrayField behaves like Extract but adds a last-ditch strategy for
// truncated responses: it captures `"field": [ ... ]` up to the last complete
// array element and wraps it back into an object, recovering a valid prefix
// of the list instead of discarding everything. The result is always an
// object; a bare array found by Extract gets wrapped under field too.
func ExtractArrayField(raw, field string) (json.RawMessage, bool) {
	if v, ok := Extract(raw); ok {
		trimmed := strings.TrimSpace(string(v))
		if strings.HasPrefix(trimmed, "[") {
			return wrapField(field, trimmed), true
		}
		return v, true
	}
	return recoverTruncatedArray(stripFences(raw), field)
}

func stripFences(raw string) string {
	content := strings.TrimSpace(raw)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+3:]
	}
	if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[:idx]
	}

	return strings.TrimSpace(content)
}

// greedySlice parses the substring from the first open rune to the last close
// rune. Cheap but effective against prose before/after the JSON body.
func greedySlice(content string, open, close byte) (json.RawMessage, bool) {
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, close)
	if start == -1 || end <= start {
		return nil, false
	}

	candidate := content[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}

func recoverTruncatedArray(content, field string) (json.RawMessage, bool) {
	arrStart := findArrayStart(content, field)
	if arrStart == -1 {
		return nil, false
	}

	// Walk the array body tracking nesting and string state, remembering the
	// offset just past each complete top-level element.
	depth := 0
	inString := false
	escaped := false
	lastComplete := -1

	for i := arrStart; i < len(content); i++ {
		ch := content[i]

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
		case ',':
			if depth == 1 {
				// scalar element ended just before this comma
				lastComplete = i
			}
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 1 {
				// closed an element nested directly in the target array
				lastComplete = i + 1
			}
			if depth == 0 {
				// array actually closed; greedy parse must have failed for
				// another reason, so just try this slice
				candidate := wrapField(field, content[arrStart:i+1])
				if json.Valid(candidate) {
					return candidate, true
				}
				return nil, false
			}
		}
	}

	if lastComplete == -1 {
		return nil, false
	}

	candidate := wrapField(field, content[arrStart:lastComplete]+"]")
	if json.Valid(candidate) {
		return candidate, true
	}
	return nil, false
}

// findArrayStart locates the `[` that opens `"field": [`, tolerating
// whitespace around the colon. Returns the index of the bracket, or -1.
func findArrayStart(content, field string) int {
	needle := `"` + field + `"`
	idx := strings.Index(content, needle)
	if idx == -1 {
		return -1
	}

	i := idx + len(needle)
	for i < len(content) && (content[i] == ' ' || content[i] == '\t' || content[i] == '\n' || content[i] == '\r') {
		i++
	}
	if i >= len(content) || content[i] != ':' {
		return -1
	}
	i++
	for i < len(content) && (content[i] == ' ' || content[i] == '\t' || content[i] == '\n' || content[i] == '\r') {
		i++
	}
	if i >= len(content) || content[i] != '[' {
		return -1
	}
	return i
}

func wrapField(field, arrayBody string) json.RawMessage {
	return json.RawMessage(`{"` + field + `":` + arrayBody + `}`)
}
