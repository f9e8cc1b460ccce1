// Package ingredient turns raw user input, inline text or a file, into a
// normalized ingredient list ready for prompt construction.
package ingredient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidFormat is returned when a .json ingredient file cannot be parsed
// or has an unsupported shape.
var ErrInvalidFormat = errors.New("invalid ingredient file format")

// NormalizeText parses a delimited ingredient list into lowercase, trimmed,
// duplicate-free tokens in first-seen order. Newlines, semicolons and pipes
// all count as commas. Empty input yields an empty list, not an error.
func NormalizeText(text string) []string {
	if text == "" {
		return nil
	}

	r := strings.NewReplacer("\n", ",", ";", ",", "|", ",")
	text = r.Replace(text)

	seen := make(map[string]bool)
	var items []string
	for _, piece := range strings.Split(text, ",") {
		item := strings.ToLower(strings.TrimSpace(piece))
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		items = append(items, item)
	}
	return items
}

// LoadFromFile loads ingredients from a text or JSON file.
//
// A .json file may be a top-level array, an object with an "ingredients",
// "items" or "list" key (first non-empty match wins, in that order), or any
// other object, in which case its first value in document order is used.
// Elements are coerced to strings, trimmed and lowercased; falsy elements are
// dropped. Unlike NormalizeText, this path does NOT deduplicate.
//
// Any other extension is read as plain text and delegated to NormalizeText.
func LoadFromFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredients file: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return NormalizeText(string(content)), nil
	}

	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var elements []any
	switch v := data.(type) {
	case []any:
		elements = v
	case map[string]any:
		elements, err = elementsFromObject(v, content)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: JSON must contain a list or object with ingredients", ErrInvalidFormat)
	}

	var items []string
	for _, el := range elements {
		if isFalsy(el) {
			continue
		}
		items = append(items, strings.ToLower(strings.TrimSpace(stringify(el))))
	}
	return items, nil
}

// elementsFromObject extracts the ingredient elements from a JSON object. The
// well-known keys are checked first; an empty or missing value falls through
// to the next key, then to the object's first value in document order.
func elementsFromObject(obj map[string]any, content []byte) ([]any, error) {
	for _, key := range []string{"ingredients", "items", "list"} {
		if v, ok := obj[key]; ok && !isFalsy(v) {
			return asElements(v), nil
		}
	}

	if len(obj) == 0 {
		return nil, fmt.Errorf("%w: object has no usable ingredient values", ErrInvalidFormat)
	}

	v, ok := firstObjectValue(content)
	if !ok {
		return nil, fmt.Errorf("%w: object has no usable ingredient values", ErrInvalidFormat)
	}
	return asElements(v), nil
}

// firstObjectValue decodes the value of the object's first key as it appears
// in the document. Go maps don't preserve order, so this re-reads the raw
// bytes token by token.
func firstObjectValue(content []byte) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(string(content)))

	if _, err := dec.Token(); err != nil { // opening brace
		return nil, false
	}
	if !dec.More() {
		return nil, false
	}
	if _, err := dec.Token(); err != nil { // first key
		return nil, false
	}

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

func asElements(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

// isFalsy mirrors the loose emptiness check applied to extracted elements:
// nil, empty string, zero, false, and empty collections are all skipped.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// Render whole numbers without a trailing ".0"-style mantissa.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
