package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSONObject = errors.New("no JSON object found in reply")

// extractor produces a candidate JSON string from a model reply, or reports
// that it found nothing.
type extractor struct {
	name string
	fn   func(text string) (string, bool)
}

// extractors are tried in order. The first candidate that decodes as a JSON
// object wins.
var extractors = []extractor{
	{"json-fence", jsonFence},
	{"any-fence", anyFence},
	{"braces", firstObject},
	{"whole", wholeReply},
}

// extractJSONObject finds the JSON object in a reply that may wrap it in
// markdown fences or prose. It returns the decoded fields and the name of the
// extractor that succeeded.
func extractJSONObject(text string) (map[string]any, string, error) {
	for _, ex := range extractors {
		candidate, ok := ex.fn(text)
		if !ok {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal([]byte(candidate), &fields); err != nil || fields == nil {
			continue
		}
		return fields, ex.name, nil
	}
	return nil, "", errNoJSONObject
}

func jsonFence(text string) (string, bool) {
	start := strings.Index(text, "```json")
	if start == -1 {
		return "", false
	}
	body := text[start+len("```json"):]
	end := strings.Index(body, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}

// anyFence returns the body of the first fenced block, dropping a language
// tag on the opening line.
func anyFence(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start == -1 {
		return "", false
	}
	body := text[start+3:]
	end := strings.Index(body, "```")
	if end == -1 {
		return "", false
	}
	body = body[:end]
	if nl := strings.IndexByte(body, '\n'); nl != -1 {
		tag := strings.TrimSpace(body[:nl])
		if tag != "" && !strings.ContainsAny(tag, "{[\" ") {
			body = body[nl+1:]
		}
	}
	return strings.TrimSpace(body), true
}

// firstObject returns the first balanced {...} span that decodes as a JSON
// object. Spans that do not decode, such as braces in prose, are skipped.
// Braces inside JSON strings are ignored.
func firstObject(text string) (string, bool) {
	for offset := 0; offset < len(text); {
		start := strings.IndexByte(text[offset:], '{')
		if start == -1 {
			return "", false
		}
		start += offset
		if end, ok := balancedEnd(text, start); ok {
			span := text[start : end+1]
			if isJSONObject(span) {
				return span, true
			}
		}
		offset = start + 1
	}
	return "", false
}

// balancedEnd returns the index of the brace closing the one at start.
func balancedEnd(text string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
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
				return i, true
			}
		}
	}
	return 0, false
}

func isJSONObject(s string) bool {
	var fields map[string]any
	return json.Unmarshal([]byte(s), &fields) == nil && fields != nil
}

func wholeReply(text string) (string, bool) {
	text = strings.TrimSpace(text)
	return text, text != ""
}
