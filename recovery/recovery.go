// Package recovery coerces unpredictable text-generation output into a
// JSON-compatible value. Given a string, a structured value, or an opaque SDK
// wrapper, Recover applies a fixed chain of strategies and always returns
// something serializable; it has no failure mode visible to callers.
package recovery

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Serializable is the capability an SDK adapter implements to hand its
// payload to the recovery chain. The returned value may be a string (which is
// then parsed like any model output) or an already-structured value.
type Serializable interface {
	SerializeJSON() (any, error)
}

// Recover converts a raw model output into a JSON-compatible value, applying
// strategies in strict order and stopping at the first success:
//
//  1. sequences and mappings pass through unchanged
//  2. strings are parsed wholesale as JSON
//  3. failing that, the first [...] or {...} span is extracted and parsed
//  4. opaque values are probed for known serialization capabilities
//  5. everything else becomes a diagnostic mapping
//
// Internal parse and accessor failures mean "try the next strategy", never an
// error: the caller's only move on bad output is to write it out for
// inspection.
func Recover(v any) any {
	switch t := v.(type) {
	case nil:
		return diagnostic(v)
	case string:
		return recoverString(t)
	case []byte:
		return recoverString(string(t))
	case json.RawMessage:
		return recoverString(string(t))
	}

	if isStructured(v) {
		return v
	}

	if out, ok := fromAccessors(v); ok {
		return out
	}

	return diagnostic(v)
}

// recoverString applies the direct-parse and substring-extraction strategies,
// wrapping unparseable text in a raw_text mapping.
func recoverString(s string) any {
	s = strings.TrimSpace(s)
	if out, ok := parseDirect(s); ok {
		return out
	}
	if out, ok := extractEmbedded(s); ok {
		return out
	}
	return map[string]any{"raw_text": s}
}

func parseDirect(s string) (any, bool) {
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, false
	}
	return out, true
}

// extractEmbedded finds spans bounded by [...] or {...} delimiters, earliest
// opener first and greedy to the last matching closer, and returns the first
// span that parses as JSON.
func extractEmbedded(s string) (any, bool) {
	type delim struct {
		start int
		close byte
	}

	var candidates []delim
	if i := strings.IndexByte(s, '['); i >= 0 {
		candidates = append(candidates, delim{start: i, close: ']'})
	}
	if i := strings.IndexByte(s, '{'); i >= 0 {
		candidates = append(candidates, delim{start: i, close: '}'})
	}
	if len(candidates) == 2 && candidates[1].start < candidates[0].start {
		candidates[0], candidates[1] = candidates[1], candidates[0]
	}

	for _, c := range candidates {
		end := strings.LastIndexByte(s, c.close)
		if end <= c.start {
			continue
		}
		if out, ok := parseDirect(s[c.start : end+1]); ok {
			return out, true
		}
	}
	return nil, false
}

// fromAccessors probes an opaque value for serialization capabilities in a
// fixed order. String results re-enter the string strategies; structured
// results are returned as-is; anything else moves on to the next probe.
func fromAccessors(v any) (any, bool) {
	if sz, ok := v.(Serializable); ok {
		if val, err := sz.SerializeJSON(); err == nil && val != nil {
			if out, ok := coerce(val); ok {
				return out, true
			}
		}
	}

	if tj, ok := v.(interface{ ToJSON() (string, error) }); ok {
		if s, err := tj.ToJSON(); err == nil && s != "" {
			return recoverString(s), true
		}
	}

	if tm, ok := v.(interface{ ToMap() map[string]any }); ok {
		if m := tm.ToMap(); m != nil {
			return m, true
		}
	}

	if m, ok := v.(json.Marshaler); ok {
		if b, err := m.MarshalJSON(); err == nil && len(b) > 0 {
			if out, ok := parseDirect(string(b)); ok {
				return out, true
			}
		}
	}

	if d, ok := v.(interface{ Data() any }); ok {
		if val := d.Data(); val != nil {
			if out, ok := coerce(val); ok {
				return out, true
			}
		}
	}

	if c, ok := v.(interface{ Content() string }); ok {
		if s := c.Content(); s != "" {
			return recoverString(s), true
		}
	}

	if t, ok := v.(interface{ Text() string }); ok {
		if s := t.Text(); s != "" {
			return recoverString(s), true
		}
	}

	return nil, false
}

func coerce(val any) (any, bool) {
	switch t := val.(type) {
	case string:
		return recoverString(t), true
	case []byte:
		return recoverString(string(t)), true
	}
	if isStructured(val) {
		return val, true
	}
	return nil, false
}

func isStructured(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// diagnostic is the terminal strategy: a mapping carrying a developer-readable
// representation of the value and its runtime type.
func diagnostic(v any) map[string]any {
	if repr, ok := safeRepr(v); ok {
		return map[string]any{"raw_repr": repr, "type": fmt.Sprintf("%T", v)}
	}
	return map[string]any{"raw_str": safeString(v), "type": fmt.Sprintf("%T", v)}
}

func safeRepr(v any) (s string, ok bool) {
	defer func() {
		if recover() != nil {
			s, ok = "", false
		}
	}()
	return spew.Sprintf("%#v", v), true
}

func safeString(v any) (s string) {
	defer func() {
		if recover() != nil {
			s = fmt.Sprintf("%T", v)
		}
	}()
	return fmt.Sprint(v)
}
