package rtyaml

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/yacchi/rtyaml/omap"
	"gopkg.in/yaml.v3"
)

// Dump writes v to w in block style.
//
// If v is a *Document carrying a LeadingComment, the comment is written
// first. Mappings keep their order, and scalars follow the quoting policy
// described in the package documentation.
func (c *Codec) Dump(w io.Writer, v any) error {
	return c.DumpAll(w, v)
}

// DumpString is like Dump but returns the output as a string.
func (c *Codec) DumpString(v any) (string, error) {
	return c.DumpAllString(v)
}

// DumpAll writes docs to w as a multi-document stream. Only the first
// document's LeadingComment is written.
func (c *Codec) DumpAll(w io.Writer, docs ...any) error {
	if len(docs) == 0 {
		return nil
	}

	if comment := leadingComment(docs[0]); comment != "" {
		if !strings.HasSuffix(comment, "\n") {
			comment += "\n"
		}
		if _, err := io.WriteString(w, comment); err != nil {
			return fmt.Errorf("failed to write leading comment: %w", err)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(c.indent)
	for _, doc := range docs {
		node, err := c.represent(doc)
		if err != nil {
			return err
		}
		if err := enc.Encode(node); err != nil {
			return err
		}
	}
	return enc.Close()
}

// DumpAllString is like DumpAll but returns the output as a string.
func (c *Codec) DumpAllString(docs ...any) (string, error) {
	var b strings.Builder
	if err := c.DumpAll(&b, docs...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// PrettyPrint writes v to standard output using plain yaml.v3 formatting.
// It applies no quoting policy and writes no leading comment.
func PrettyPrint(v any) error {
	return Fprint(os.Stdout, v)
}

// Fprint is like PrettyPrint but writes to w.
func Fprint(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// represent converts v into a node tree ready for the encoder.
func (c *Codec) represent(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case nil:
		return nullNode(), nil
	case *Document:
		if v == nil {
			return nullNode(), nil
		}
		return c.represent(v.Value)
	case *omap.Map:
		if v == nil {
			return nullNode(), nil
		}
		return c.representMap(v)
	case []any:
		return c.representSeq(len(v), func(i int) any { return v[i] })
	case string:
		return c.representString(v), nil
	case *yaml.Node:
		if v == nil {
			return nullNode(), nil
		}
		return v, nil
	case yaml.Marshaler:
		out, err := v.MarshalYAML()
		if err != nil {
			return nil, err
		}
		return c.represent(out)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nullNode(), nil
		}
		return c.represent(rv.Elem().Interface())
	case reflect.Map:
		return c.representGoMap(rv)
	case reflect.Slice:
		if rv.IsNil() {
			return nullNode(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		return c.representSeq(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Array:
		return c.representSeq(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.String:
		return c.representString(rv.String()), nil
	case reflect.Float32, reflect.Float64:
		return floatNode(rv.Float(), rv.Type().Bits()), nil
	}

	// Everything else (numbers, booleans, structs, time.Time, ...) is left
	// to yaml.v3, then strings and nulls inside are brought in line.
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	c.applyPolicy(&node)
	return &node, nil
}

func (c *Codec) representMap(m *omap.Map) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for k, v := range m.All() {
		if err := c.appendPair(node, k, v); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// representGoMap emits a Go map. Go maps carry no order, so keys are
// sorted by their string form to keep the output deterministic.
func (c *Codec) representGoMap(rv reflect.Value) (*yaml.Node, error) {
	if rv.IsNil() {
		return nullNode(), nil
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	})

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		if err := c.appendPair(node, k.Interface(), rv.MapIndex(k).Interface()); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (c *Codec) appendPair(node *yaml.Node, key, value any) error {
	k, err := c.represent(key)
	if err != nil {
		return fmt.Errorf("failed to encode key %v: %w", key, err)
	}
	v, err := c.represent(value)
	if err != nil {
		return fmt.Errorf("failed to encode value of %v: %w", key, err)
	}
	node.Content = append(node.Content, k, v)
	return nil
}

func (c *Codec) representSeq(n int, item func(int) any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for i := range n {
		v, err := c.represent(item(i))
		if err != nil {
			return nil, fmt.Errorf("failed to encode item %d: %w", i, err)
		}
		node.Content = append(node.Content, v)
	}
	return node, nil
}

func (c *Codec) representString(s string) *yaml.Node {
	style, ok := c.stringStyle(s)
	if !ok {
		// yaml.v3 writes invalid UTF-8 as !!binary when no tag is forced.
		return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: s, Style: style}
}

// applyPolicy rewrites string and null scalars of a node tree produced by
// yaml.v3 so they follow the same rules as values represented directly.
func (c *Codec) applyPolicy(node *yaml.Node) {
	switch node.Kind {
	case yaml.DocumentNode, yaml.MappingNode, yaml.SequenceNode:
		for _, child := range node.Content {
			c.applyPolicy(child)
		}
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case strTag:
			*node = *c.representString(node.Value)
		case nulTag:
			*node = *nullNode()
		case floatTag:
			node.Value = floatText(node.Value)
		}
	}
}

var integerText = regexp.MustCompile(`^[-+]?[0-9]+$`)

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: nulTag, Value: "~"}
}

// floatNode formats f the way yaml.v3 does, keeping a fractional part on
// integral values so they load back as floats.
func floatNode(f float64, bits int) *yaml.Node {
	var text string
	switch {
	case math.IsInf(f, 1):
		text = ".inf"
	case math.IsInf(f, -1):
		text = "-.inf"
	case math.IsNaN(f):
		text = ".nan"
	default:
		text = floatText(strconv.FormatFloat(f, 'g', -1, bits))
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: floatTag, Value: text}
}

// floatText appends ".0" to float text that would otherwise read as an
// integer, such as "1" or "-3".
func floatText(s string) string {
	if integerText.MatchString(s) {
		return s + ".0"
	}
	return s
}
