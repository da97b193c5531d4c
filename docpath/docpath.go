package docpath

import (
	"fmt"
	"strconv"

	"github.com/yacchi/rtyaml/omap"
)

// Get returns the value at pointer within root.
func Get(root any, pointer string) (any, error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, err
	}

	current := root
	for i, tok := range tokens {
		switch node := current.(type) {
		case *omap.Map:
			key, ok := lookupKey(node, tok)
			if !ok {
				return nil, &NotFoundError{Pointer: pointer}
			}
			current, _ = node.Get(key)
		case []any:
			index, err := parseIndex(tok)
			if err != nil || index >= len(node) {
				return nil, &NotFoundError{Pointer: pointer}
			}
			current = node[index]
		default:
			return nil, &TypeMismatchError{
				Pointer:  Build(anySlice(tokens[:i])...),
				Expected: "mapping or sequence",
				Actual:   kindOf(current),
			}
		}
	}
	return current, nil
}

// Set stores value at pointer and returns the updated root.
//
// Missing intermediate containers are created: a sequence when the next
// token is numeric or "-", a mapping otherwise. Scalars below the root are
// replaced; a scalar root is a TypeMismatchError. Setting index len(seq)
// or "-" appends. The returned root must
// be used in place of the old one, since appending may reallocate a
// top-level sequence.
func Set(root any, pointer string, value any) (any, error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &PathError{Pointer: pointer, Reason: "cannot set root document"}
	}
	if root == nil {
		root = containerFor(nil, tokens[0])
	}
	return set(root, pointer, tokens, value)
}

func set(node any, pointer string, tokens []string, value any) (any, error) {
	tok, rest := tokens[0], tokens[1:]

	switch n := node.(type) {
	case *omap.Map:
		key, ok := lookupKey(n, tok)
		if !ok {
			key = tok
		}
		if len(rest) == 0 {
			n.Set(key, value)
			return n, nil
		}
		child, _ := n.Get(key)
		child, err := set(containerFor(child, rest[0]), pointer, rest, value)
		if err != nil {
			return nil, err
		}
		n.Set(key, child)
		return n, nil

	case []any:
		index := len(n)
		if tok != "-" {
			var err error
			if index, err = parseIndex(tok); err != nil {
				return nil, &PathError{Pointer: pointer, Reason: err.Error()}
			}
		}
		if index > len(n) {
			return nil, &PathError{
				Pointer: pointer,
				Reason:  fmt.Sprintf("array index %d out of range [0, %d]", index, len(n)),
			}
		}

		var existing any
		if index < len(n) {
			existing = n[index]
		}
		child := value
		if len(rest) > 0 {
			var err error
			if child, err = set(containerFor(existing, rest[0]), pointer, rest, value); err != nil {
				return nil, err
			}
		}
		if index == len(n) {
			return append(n, child), nil
		}
		n[index] = child
		return n, nil

	default:
		return nil, &TypeMismatchError{Pointer: pointer, Expected: "mapping or sequence", Actual: kindOf(node)}
	}
}

// Delete removes the value at pointer and returns the updated root.
// Missing paths are not an error.
func Delete(root any, pointer string) (any, error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &PathError{Pointer: pointer, Reason: "cannot delete root document"}
	}
	return del(root, tokens), nil
}

func del(node any, tokens []string) any {
	tok, rest := tokens[0], tokens[1:]

	switch n := node.(type) {
	case *omap.Map:
		key, ok := lookupKey(n, tok)
		if !ok {
			return n
		}
		if len(rest) == 0 {
			n.Delete(key)
			return n
		}
		child, _ := n.Get(key)
		n.Set(key, del(child, rest))
		return n

	case []any:
		index, err := parseIndex(tok)
		if err != nil || index >= len(n) {
			return n
		}
		if len(rest) == 0 {
			return append(n[:index], n[index+1:]...)
		}
		n[index] = del(n[index], rest)
		return n

	default:
		return node
	}
}

// lookupKey finds the key of m addressed by tok. String keys match
// directly; other keys match by their YAML text, so "/8080" finds the
// integer key 8080 and "/~" finds a null key.
func lookupKey(m *omap.Map, tok string) (any, bool) {
	if m.Has(tok) {
		return tok, true
	}
	for _, k := range m.Keys() {
		if _, isString := k.(string); !isString && keyText(k) == tok {
			return k, true
		}
	}
	return nil, false
}

func keyText(k any) string {
	if k == nil {
		return "~"
	}
	return fmt.Sprint(k)
}

// containerFor returns existing if it can hold children, or a new empty
// container suited to the next token.
func containerFor(existing any, next string) any {
	switch existing.(type) {
	case *omap.Map, []any:
		return existing
	}
	if next == "-" {
		return []any{}
	}
	if _, err := parseIndex(next); err == nil {
		return []any{}
	}
	return omap.New()
}

func parseIndex(tok string) (int, error) {
	if tok == "" {
		return 0, fmt.Errorf("array index must be non-empty")
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("array index must be a number: %q", tok)
		}
	}
	if len(tok) > 1 && tok[0] == '0' {
		return 0, fmt.Errorf("array index must not have leading zeros: %q", tok)
	}
	return strconv.Atoi(tok)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *omap.Map:
		return "mapping"
	case []any:
		return "sequence"
	default:
		return fmt.Sprintf("scalar (%T)", v)
	}
}

func anySlice(tokens []string) []any {
	out := make([]any, len(tokens))
	for i, t := range tokens {
		out[i] = t
	}
	return out
}
