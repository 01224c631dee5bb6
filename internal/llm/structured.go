package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded payload. A non-nil error rejects it.
type SchemaValidator[T any] func(T) error

// ParseObject decodes the first top-level object in a model reply into T.
// A fence wrapping the whole reply is removed first; the object itself is
// parsed exactly as written, so commented or otherwise non-standard JSON is
// rejected with ErrInvalidOutput.
func ParseObject[T any](raw string, validate SchemaValidator[T]) (T, error) {
	return decodeObject(raw, false, validate)
}

// ExtractJSON is ParseObject for payloads the model tends to decorate. It
// additionally drops // and /* */ comments and rewrites bare decimals such as
// .5 or -.5 before decoding. String contents are never touched.
func ExtractJSON[T any](raw string, validate SchemaValidator[T]) (T, error) {
	return decodeObject(raw, true, validate)
}

func decodeObject[T any](raw string, repair bool, validate SchemaValidator[T]) (T, error) {
	var out T
	obj := FirstObject(StripCodeFences(raw))
	if obj == "" {
		return out, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	if repair {
		obj = repairJSON(obj)
	}
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validate != nil {
		if err := validate(out); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// StripCodeFences removes a leading ```json or ``` marker and a trailing ```
// marker from the trimmed reply. The markers may share a line with the
// payload. Fences that open mid-reply are left alone.
func StripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(t, "```json"); ok {
		t = rest
	} else if rest, ok := strings.CutPrefix(t, "```"); ok {
		t = rest
	}
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// FirstObject returns the first balanced top-level { ... } block in s.
// Braces inside string literals do not count. It returns "" when s has no
// opening brace or the object never closes.
func FirstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	var lit literalState
	depth := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		if lit.step(c) {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// literalState tracks whether a byte scan is inside a JSON string.
type literalState struct {
	open    bool
	escaped bool
}

// step consumes c and reports whether it belonged to a string literal,
// including the quotes that open and close it.
func (l *literalState) step(c byte) bool {
	if l.open {
		switch {
		case l.escaped:
			l.escaped = false
		case c == '\\':
			l.escaped = true
		case c == '"':
			l.open = false
		}
		return true
	}
	if c == '"' {
		l.open = true
		return true
	}
	return false
}

// repairJSON drops comments and zero-pads bare decimals outside strings.
// An unterminated block comment swallows the rest of the input.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var lit literalState
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lit.step(c) {
			b.WriteByte(c)
			continue
		}
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "//"):
			nl := strings.IndexByte(rest, '\n')
			if nl < 0 {
				return b.String()
			}
			i += nl - 1
			continue
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += end + 3
			continue
		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && opensNumber(s[:i]):
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// opensNumber reports whether a number may start right after prefix.
func opensNumber(prefix string) bool {
	trimmed := strings.TrimRight(prefix, " \t\r\n")
	if trimmed == "" {
		return true
	}
	switch trimmed[len(trimmed)-1] {
	case ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
