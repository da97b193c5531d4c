package rtyaml

import (
	"reflect"

	"github.com/yacchi/rtyaml/omap"
	"gopkg.in/yaml.v3"
)

// Document is a decoded YAML document together with the comment block
// found at the top of the stream it was read from.
type Document struct {
	// Value is the decoded value: *omap.Map, []any, a scalar or nil.
	Value any

	// LeadingComment holds the "#" lines that preceded the document,
	// newlines included. Load only sets it when Value is a mapping or
	// sequence.
	LeadingComment string
}

// Ensure Document encodes like its value under plain yaml.v3.
var _ yaml.Marshaler = (*Document)(nil)

// NewDocument wraps v in a Document with no leading comment.
func NewDocument(v any) *Document {
	return &Document{Value: v}
}

// Map returns the value as an ordered map, or nil if it is not one.
func (d *Document) Map() *omap.Map {
	m, _ := d.Value.(*omap.Map)
	return m
}

// Seq returns the value as a sequence, or nil if it is not one.
func (d *Document) Seq() []any {
	s, _ := d.Value.([]any)
	return s
}

// MarshalYAML implements yaml.Marshaler. The leading comment is not part of
// the value; only Dump writes it.
func (d *Document) MarshalYAML() (any, error) {
	return d.Value, nil
}

// attachComment records comment on the document if the value can carry it.
func (d *Document) attachComment(comment string) {
	if comment != "" && isCollection(d.Value) {
		d.LeadingComment = comment
	}
}

// isCollection reports whether v is a mapping or a sequence.
func isCollection(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case *Document:
		return v != nil && isCollection(v.Value)
	case *omap.Map:
		return v != nil
	case []any:
		return true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Array:
		return true
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// leadingComment returns the comment carried by v, if any.
func leadingComment(v any) string {
	d, ok := v.(*Document)
	if !ok || d == nil {
		return ""
	}
	return d.LeadingComment
}
