package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

type JSONKind int

const (
	JSONArray JSONKind = iota
	JSONObject
)

func (k JSONKind) brackets() (open, close string) {
	if k == JSONObject {
		return "{", "}"
	}
	return "[", "]"
}

const DefaultMaxCompletionBytes = 1 << 20

// ExtractJSON slices raw from the first opening bracket of kind to the last
// matching closing bracket and checks the slice parses as JSON. Prose and
// markdown fences around the payload are ignored. A closing bracket inside a
// string value after the real terminator makes the slice over-greedy; that
// case surfaces as ErrInvalidJSON rather than being repaired.
func ExtractJSON(raw string, kind JSONKind, maxBytes int) (json.RawMessage, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxCompletionBytes
	}
	if len(raw) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrResponseTooLarge, len(raw))
	}

	open, close := kind.brackets()
	start := strings.Index(raw, open)
	if start < 0 {
		return nil, ErrNoJSONFound
	}
	end := strings.LastIndex(raw, close)
	if end < start {
		return nil, fmt.Errorf("%w: unterminated %s", ErrInvalidJSON, open)
	}

	candidate := raw[start : end+1]
	if !json.Valid([]byte(candidate)) {
		var probe interface{}
		err := json.Unmarshal([]byte(candidate), &probe)
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return json.RawMessage(candidate), nil
}
