package rtyaml

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Stream is a read-write stream that can be rewound and truncated.
// *os.File implements it.
type Stream interface {
	io.ReadWriteSeeker
	Truncate(size int64) error
}

// Session is an open load-modify-save cycle over a stream.
//
// The document is read when the session starts. Close rewinds the stream,
// truncates it and writes the current document back. The session closes
// the stream only if it opened it itself (Open); streams passed to
// OpenStream remain the caller's.
//
// Edit the document in place, or assign a new Value on the Document. The
// Document pointer itself is what gets written back.
type Session struct {
	codec  *Codec
	stream Stream
	file   *os.File // set when the session owns the stream
	doc    *Document
	closed bool
}

// Open starts a session on the file at path.
//
// If the file does not exist and def is a mapping or sequence, the file is
// created (with parent directories), def is written to it and the session
// starts from that content. Otherwise a *NotFoundError is returned.
func (c *Codec) Open(path string, def any) (*Session, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, fs.ErrNotExist) {
		if !isCollection(def) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		f, err = c.create(path, def)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	s, err := c.start(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.file = f
	return s, nil
}

// OpenStream starts a session on a stream the caller owns. Close writes
// the document back but leaves the stream open.
func (c *Codec) OpenStream(stream Stream) (*Session, error) {
	return c.start(stream)
}

// create makes the file at path holding def and rewinds it for reading.
func (c *Codec) create(path string, def any) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, c.dirMode); err != nil {
		return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, c.fileMode)
	if err != nil {
		return nil, err
	}
	if err := c.Dump(f, def); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write default to %q: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (c *Codec) start(stream Stream) (*Session, error) {
	doc, err := c.Load(stream)
	if err != nil {
		return nil, err
	}
	return &Session{codec: c, stream: stream, doc: doc}, nil
}

// Document returns the working document.
func (s *Session) Document() *Document {
	return s.doc
}

// Value returns the working value, shorthand for Document().Value.
func (s *Session) Value() any {
	return s.doc.Value
}

// Close writes the document back and, if the session opened the stream,
// closes it. When writing fails the file is still released, and the write
// error is the one returned. Calling Close again does nothing.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.flush()
	if s.file == nil {
		return err
	}
	if err != nil {
		s.file.Close()
		return err
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", s.file.Name(), err)
	}
	return nil
}

func (s *Session) flush() error {
	if _, err := s.stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind stream: %w", err)
	}
	if err := s.stream.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate stream: %w", err)
	}
	if err := s.codec.Dump(s.stream, s.doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if s.file != nil {
		if err := s.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync %q: %w", s.file.Name(), err)
		}
	}
	return nil
}

// Edit opens a session on path, runs fn over the document and closes the
// session. The document is written back however fn returns, including when
// it fails or panics; panics are re-raised after the write-back, wrapped
// in a *PanicError if the write-back failed too. Errors from fn and from
// writing back are both reported.
//
// Example:
//
//	err := codec.Edit("data.yaml", omap.New(), func(doc *rtyaml.Document) error {
//	    doc.Map().Set("hello", "world")
//	    return nil
//	})
func (c *Codec) Edit(path string, def any, fn func(doc *Document) error) error {
	s, err := c.Open(path, def)
	if err != nil {
		return err
	}
	return s.run(fn)
}

// EditStream is like Edit over a caller-owned stream, which stays open.
func (c *Codec) EditStream(stream Stream, fn func(doc *Document) error) error {
	s, err := c.OpenStream(stream)
	if err != nil {
		return err
	}
	return s.run(fn)
}

func (s *Session) run(fn func(doc *Document) error) error {
	defer func() {
		if r := recover(); r != nil {
			if err := s.Close(); err != nil {
				panic(&PanicError{Value: r, Err: err})
			}
			panic(r)
		}
	}()
	fnErr := fn(s.doc)
	return errors.Join(fnErr, s.Close())
}
