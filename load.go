package rtyaml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yacchi/rtyaml/omap"
	"gopkg.in/yaml.v3"
)

// Short tags understood by the construct table.
const (
	mapTag   = "!!map"
	seqTag   = "!!seq"
	strTag   = "!!str"
	nulTag   = "!!null"
	floatTag = "!!float"
)

// constructFunc builds the Go value for a node.
type constructFunc func(c *constructor, node *yaml.Node) (any, error)

// constructor converts one node tree into Go values.
// It lives for a single document.
type constructor struct {
	codec *Codec
	// expanding tracks anchors currently being expanded, so an alias that
	// refers to one of its own ancestors fails instead of recursing forever.
	expanding map[*yaml.Node]bool
}

// Load reads the first document from r.
//
// If r is an io.Seeker whose position can be queried, the "#" lines at the
// top of the stream are kept as the document's LeadingComment and r is
// left positioned at the first non-comment line before decoding. For other
// readers the comment is silently dropped. An empty stream yields a
// Document with a nil Value. A stream holding more than one document is a
// *StructureError; use LoadAll for those.
func (c *Codec) Load(r io.Reader) (*Document, error) {
	comment, err := readLeadingComment(r)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(r)
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, err
	}

	var next yaml.Node
	if err := dec.Decode(&next); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, &StructureError{
			Line:    next.Line,
			Column:  next.Column,
			Context: "while loading a single document",
			Problem: "found another document in the stream",
		}
	}

	doc, err := c.construct(&root)
	if err != nil {
		return nil, err
	}
	doc.attachComment(comment)
	return doc, nil
}

// LoadAll reads every document from r. The leading comment, if any, is
// attached to the first document only.
func (c *Codec) LoadAll(r io.Reader) ([]*Document, error) {
	comment, err := readLeadingComment(r)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(r)
	var docs []*Document
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		doc, err := c.construct(&root)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if len(docs) > 0 {
		docs[0].attachComment(comment)
	}
	return docs, nil
}

func (c *Codec) construct(root *yaml.Node) (*Document, error) {
	ctor := &constructor{codec: c, expanding: make(map[*yaml.Node]bool)}
	v, err := ctor.construct(root)
	if err != nil {
		return nil, err
	}
	return &Document{Value: v}, nil
}

func (ctor *constructor) construct(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return ctor.construct(node.Content[0])
	case yaml.AliasNode:
		return ctor.constructAlias(node)
	}

	if fn, ok := ctor.codec.constructors[node.ShortTag()]; ok {
		return fn(ctor, node)
	}

	// Application-specific tags keep the shape of the node.
	switch node.Kind {
	case yaml.MappingNode:
		return constructMapping(ctor, node)
	case yaml.SequenceNode:
		return constructSequence(ctor, node)
	default:
		return constructScalar(node)
	}
}

func (ctor *constructor) constructAlias(node *yaml.Node) (any, error) {
	target := node.Alias
	if target == nil {
		return nil, &StructureError{
			Line:    node.Line,
			Column:  node.Column,
			Context: "while resolving an alias",
			Problem: fmt.Sprintf("unknown anchor %q", node.Value),
		}
	}
	if ctor.expanding[target] {
		return nil, &StructureError{
			Line:    node.Line,
			Column:  node.Column,
			Context: "while resolving an alias",
			Problem: fmt.Sprintf("anchor %q refers to itself", node.Value),
		}
	}
	ctor.expanding[target] = true
	defer delete(ctor.expanding, target)
	return ctor.construct(target)
}

// constructMapping builds an *omap.Map with entries in source order.
func constructMapping(ctor *constructor, node *yaml.Node) (any, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &StructureError{
			Line:    node.Line,
			Column:  node.Column,
			Context: "while constructing an ordered map",
			Problem: fmt.Sprintf("expected a mapping node, but found %s", kindString(node.Kind)),
		}
	}

	m := omap.New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		key, err := ctor.construct(keyNode)
		if err != nil {
			return nil, err
		}
		if !omap.Hashable(key) {
			return nil, &StructureError{
				Line:    keyNode.Line,
				Column:  keyNode.Column,
				Context: "while constructing an ordered map",
				Problem: fmt.Sprintf("found unhashable key of type %T", key),
			}
		}

		value, err := ctor.construct(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
	}
	return m, nil
}

func constructSequence(ctor *constructor, node *yaml.Node) (any, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &StructureError{
			Line:    node.Line,
			Column:  node.Column,
			Context: "while constructing a sequence",
			Problem: fmt.Sprintf("expected a sequence node, but found %s", kindString(node.Kind)),
		}
	}

	s := make([]any, 0, len(node.Content))
	for _, item := range node.Content {
		v, err := ctor.construct(item)
		if err != nil {
			return nil, err
		}
		s = append(s, v)
	}
	return s, nil
}

// constructScalar lets yaml.v3 resolve the scalar: ~ and null both become
// nil, numbers become int or float64, and so on.
func constructScalar(node *yaml.Node) (any, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// readLeadingComment consumes the "#" lines at the current position of r
// and returns them. r is left at the start of the first other line.
// Readers that cannot report their position are left untouched.
func readLeadingComment(r io.Reader) (string, error) {
	s, ok := r.(io.ReadSeeker)
	if !ok {
		return "", nil
	}
	start, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		// Pipes and terminals: nothing has been read yet, so just skip.
		return "", nil
	}

	br := bufio.NewReader(s)
	var (
		comment  strings.Builder
		consumed int64
	)
	for {
		line, err := br.ReadString('\n')
		if !strings.HasPrefix(line, "#") {
			break
		}
		comment.WriteString(line)
		consumed += int64(len(line))
		if err != nil {
			break
		}
	}

	if _, err := s.Seek(start+consumed, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind after leading comment: %w", err)
	}
	return comment.String(), nil
}

// kindString returns a human-readable name for a node kind.
func kindString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
