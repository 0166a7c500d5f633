package ai

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// CleanJSON strips a markdown code fence around a JSON reply and checks that what remains
// is a single valid JSON document.
func CleanJSON(reply string) (string, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// Drop the language tag line ("json", "JSON", or nothing).
			if tag := strings.TrimSpace(s[:nl]); tag == "" || !strings.ContainsAny(tag, "{[") {
				s = s[nl+1:]
			}
		}
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return "", ErrEmptyResponse
	}
	if !gjson.Valid(s) {
		return "", fmt.Errorf("%w: %.80q", ErrInvalidJSON, s)
	}
	return s, nil
}

// RequireFields reports the first of paths missing from the JSON document doc.
func RequireFields(doc string, paths ...string) error {
	for _, p := range paths {
		if !gjson.Get(doc, p).Exists() {
			return fmt.Errorf("%w: missing %q", ErrInvalidJSON, p)
		}
	}
	return nil
}
