package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \\t]*\n(.*?)\n?```")

// PostProcess turns a raw model reply into an untyped JSON value. The first fenced
// block wins; otherwise prose before the first '{' or '[' is dropped. Numbers are kept
// as json.Number so integers survive.
func PostProcess(raw string) (any, error) {
	text := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(text); len(m) == 2 {
		text = strings.TrimSpace(m[1])
	} else if i := strings.IndexAny(text, "{["); i > 0 {
		text = text[i:]
	}
	if text == "" {
		return nil, fmt.Errorf("model returned empty output: %w", ErrEmptyResponse)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("model returned malformed json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("model returned trailing data after json")
	}
	if v == nil {
		return nil, fmt.Errorf("model returned null: %w", ErrEmptyResponse)
	}
	return v, nil
}

// elementList accepts either {"elements": [...]} or a bare array.
func elementList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case map[string]any:
		list, ok := t["elements"].([]any)
		return list, ok
	}
	return nil, false
}

func compactJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return raw
	}
	return buf.String()
}
