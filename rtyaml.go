// Package rtyaml reads and writes YAML so that files kept in version control
// produce small, stable diffs.
//
// It sits on top of gopkg.in/yaml.v3 and adds a formatting policy:
//   - mapping keys keep the order they were read (or inserted) in
//   - strings that look like leading-zero numbers are single-quoted
//   - multi-line strings use literal (|) or folded (>) block style
//   - null is always written as ~
//   - a "#" comment block at the top of a file survives load and dump
//
// Edit and Session provide a load-modify-save cycle over a file:
//
//	err := rtyaml.Edit("data.yaml", omap.New(), func(doc *rtyaml.Document) error {
//	    doc.Map().Set("hello", "world")
//	    return nil
//	})
package rtyaml

import (
	"io"
	"os"
)

// Default settings used by New.
const (
	DefaultIndent        = 2
	DefaultFoldThreshold = 70
	DefaultFileMode      = 0644
	DefaultDirMode       = 0755
)

// Codec holds the decode and encode configuration. A Codec is immutable
// after New returns and may be shared between goroutines.
type Codec struct {
	indent        int
	foldThreshold float64
	fileMode      os.FileMode
	dirMode       os.FileMode

	// constructors maps a resolved short tag to the function that builds
	// its Go value. Tags without an entry fall back to the node kind.
	constructors map[string]constructFunc
}

// Option configures a Codec.
type Option func(*Codec)

// WithIndent sets the number of spaces used for each nesting level.
// Default is 2.
func WithIndent(n int) Option {
	return func(c *Codec) {
		if n > 0 {
			c.indent = n
		}
	}
}

// WithFoldThreshold sets the average line length above which multi-line
// strings are written in folded style instead of literal style.
// Default is 70.
func WithFoldThreshold(n int) Option {
	return func(c *Codec) {
		c.foldThreshold = float64(n)
	}
}

// WithFileMode sets the permission mode of files created by Open.
// Default is 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(c *Codec) {
		c.fileMode = mode
	}
}

// WithDirMode sets the permission mode of parent directories created by Open.
// Default is 0755.
func WithDirMode(mode os.FileMode) Option {
	return func(c *Codec) {
		c.dirMode = mode
	}
}

// New creates a Codec.
//
// Example:
//
//	codec := rtyaml.New()
//	codec := rtyaml.New(rtyaml.WithIndent(4), rtyaml.WithFileMode(0600))
func New(opts ...Option) *Codec {
	c := &Codec{
		indent:        DefaultIndent,
		foldThreshold: DefaultFoldThreshold,
		fileMode:      DefaultFileMode,
		dirMode:       DefaultDirMode,
		constructors: map[string]constructFunc{
			mapTag: constructMapping,
			seqTag: constructSequence,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Load reads the first document from r with a default Codec.
func Load(r io.Reader) (*Document, error) {
	return New().Load(r)
}

// LoadAll reads every document from r with a default Codec.
func LoadAll(r io.Reader) ([]*Document, error) {
	return New().LoadAll(r)
}

// Dump writes v to w with a default Codec.
func Dump(w io.Writer, v any) error {
	return New().Dump(w, v)
}

// DumpString returns v serialized with a default Codec.
func DumpString(v any) (string, error) {
	return New().DumpString(v)
}

// DumpAll writes docs to w as a multi-document stream with a default Codec.
func DumpAll(w io.Writer, docs ...any) error {
	return New().DumpAll(w, docs...)
}

// DumpAllString returns docs serialized as a multi-document stream with a
// default Codec.
func DumpAllString(docs ...any) (string, error) {
	return New().DumpAllString(docs...)
}

// Open starts an edit session on path with a default Codec.
func Open(path string, def any) (*Session, error) {
	return New().Open(path, def)
}

// Edit runs fn over the document stored at path with a default Codec.
func Edit(path string, def any, fn func(doc *Document) error) error {
	return New().Edit(path, def, fn)
}
