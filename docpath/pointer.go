// Package docpath addresses values inside decoded rtyaml documents using
// JSON Pointer (RFC 6901) syntax.
//
// Paths walk *omap.Map and []any values:
//   - "/server/port" - key "port" of mapping "server"
//   - "/servers/0"   - first item of sequence "servers"
//   - "/servers/-"   - one past the end of "servers" (Set appends)
//   - "/a~1b"        - key "a/b"
//
// Reference: https://tools.ietf.org/html/rfc6901
package docpath

import (
	"fmt"
	"strings"
)

// Escape encodes "~" and "/" in a key for use in a pointer.
func Escape(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	key = strings.ReplaceAll(key, "/", "~1")
	return key
}

// Unescape reverses Escape.
func Unescape(token string) string {
	key := strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(key, "~0", "~")
}

// Parse splits a pointer into unescaped tokens.
// The empty pointer refers to the whole document and yields no tokens.
//
//	Parse("/a/0/b~1c") -> ["a", "0", "b/c"]
//	Parse("")          -> []
//	Parse("/")         -> [""]
func Parse(pointer string) ([]string, error) {
	if pointer == "" {
		return []string{}, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, &PathError{Pointer: pointer, Reason: "must start with '/' or be empty"}
	}

	parts := strings.Split(pointer[1:], "/")
	for i, part := range parts {
		parts[i] = Unescape(part)
	}
	return parts, nil
}

// Build joins tokens into a pointer, escaping each one.
// Non-string tokens are formatted with fmt.Sprint.
//
//	Build("servers", 0, "name") -> "/servers/0/name"
func Build(tokens ...any) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteByte('/')
		s, ok := tok.(string)
		if !ok {
			s = fmt.Sprint(tok)
		}
		b.WriteString(Escape(s))
	}
	return b.String()
}
