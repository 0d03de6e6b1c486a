package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no candidate in the text decodes into the target.
var ErrNoJSON = errors.New("no json object found")

const fence = "```"

// ExtractJSON decodes a JSON object from free-form model output. It tries, in
// order: the whole text, the body of the first fenced code block, and the
// span from the first '{' to the last '}'.
func ExtractJSON[T any](text string) (T, error) {
	var result T

	for _, candidate := range candidates(strings.TrimSpace(text)) {
		if candidate == "" {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
		var zero T
		result = zero
	}

	return result, fmt.Errorf("%w in %d bytes of text", ErrNoJSON, len(text))
}

func candidates(text string) []string {
	out := []string{text, fenced(text)}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end > start {
		out = append(out, text[start:end+1])
	}

	return out
}

// fenced returns the body of the first ``` block, dropping an optional
// language tag on the opening line.
func fenced(text string) string {
	_, rest, ok := strings.Cut(text, fence)
	if !ok {
		return ""
	}
	body, _, ok := strings.Cut(rest, fence)
	if !ok {
		return ""
	}

	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		tag := strings.TrimSpace(body[:nl])
		if tag == "" || !strings.ContainsAny(tag, "{[") {
			body = body[nl+1:]
		}
	}

	return strings.TrimSpace(body)
}
