package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/yacchi/rtyaml"
	"github.com/yacchi/rtyaml/docpath"
)

func newCtx() (*cliCtx, *bytes.Buffer) {
	var out bytes.Buffer
	return &cliCtx{
		Context: context.Background(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Codec:   rtyaml.New(),
		Out:     &out,
	}, &out
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readTemp(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	return string(data)
}

const unformatted = "a:   1\nb: \"012\"\nc: null\n"
const formatted = "a: 1\nb: '012'\nc: ~\n"

func TestFmtCmdRewrites(t *testing.T) {
	path := writeTemp(t, "data.yaml", unformatted)
	ctx, out := newCtx()

	err := (&FmtCmd{Files: []string{path}, Color: "never"}).Run(ctx)
	assert.NoError(t, err)
	assert.Equal(t, formatted, readTemp(t, path))
	assert.Equal(t, "", out.String())
}

func TestFmtCmdKeepsHeaderAndDocuments(t *testing.T) {
	content := "# header\nb: 1\na: 2\n---\n- x\n"
	path := writeTemp(t, "multi.yaml", content)
	ctx, _ := newCtx()

	err := (&FmtCmd{Files: []string{path}, Color: "never"}).Run(ctx)
	assert.NoError(t, err)
	assert.Equal(t, content, readTemp(t, path))
}

func TestFmtCmdCheck(t *testing.T) {
	dirty := writeTemp(t, "dirty.yaml", unformatted)
	clean := writeTemp(t, "clean.yaml", formatted)
	ctx, out := newCtx()

	err := (&FmtCmd{Files: []string{dirty, clean}, Check: true, Color: "never"}).Run(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) not formatted")
	assert.Equal(t, dirty+"\n", out.String())
	assert.Equal(t, unformatted, readTemp(t, dirty))
}

func TestFmtCmdDiff(t *testing.T) {
	path := writeTemp(t, "data.yaml", unformatted)
	ctx, out := newCtx()

	err := (&FmtCmd{Files: []string{path}, Diff: true, Color: "never"}).Run(ctx)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "--- "+path+"\n")
	assert.Contains(t, out.String(), "-c: null\n")
	assert.Contains(t, out.String(), "+c: ~\n")
	assert.Contains(t, out.String(), "+b: '012'\n")
	assert.Equal(t, unformatted, readTemp(t, path))
}

func TestFmtCmdSkipsEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.yaml", "# only a comment\n")
	ctx, _ := newCtx()

	assert.NoError(t, (&FmtCmd{Files: []string{path}, Check: true}).Run(ctx))
	assert.Equal(t, "# only a comment\n", readTemp(t, path))
}

func TestWriteDiffColor(t *testing.T) {
	var plain, colored bytes.Buffer
	assert.NoError(t, writeDiff(&plain, "f", "a: 1\n", "a: 2\n", false))
	assert.NoError(t, writeDiff(&colored, "f", "a: 1\n", "a: 2\n", true))

	assert.Equal(t, "--- f\n+++ f (formatted)\n-a: 1\n+a: 2\n", plain.String())
	assert.Contains(t, colored.String(), "\x1b[31m-a: 1")
	assert.Contains(t, colored.String(), "\x1b[32m+a: 2")
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useColor("always", &buf))
	assert.False(t, useColor("never", &buf))
	assert.False(t, useColor("auto", &buf))
}

func TestPrintCmd(t *testing.T) {
	path := writeTemp(t, "data.yaml", "# header\nz: 1\na: \"007\"\n")

	ctx, out := newCtx()
	assert.NoError(t, (&PrintCmd{File: path}).Run(ctx))
	assert.Equal(t, "# header\nz: 1\na: '007'\n", out.String())

	ctx, out = newCtx()
	assert.NoError(t, (&PrintCmd{File: path, Plain: true}).Run(ctx))
	assert.Equal(t, "z: 1\na: \"007\"\n", out.String())
}

func TestPrintCmdMissingFile(t *testing.T) {
	ctx, _ := newCtx()
	err := (&PrintCmd{File: filepath.Join(t.TempDir(), "missing.yaml")}).Run(ctx)

	var nf *rtyaml.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestGetCmd(t *testing.T) {
	path := writeTemp(t, "data.yaml", "server:\n  host: localhost\n  port: 8080\nlist:\n  - a\n  - b\n")

	tests := []struct {
		pointer string
		want    string
	}{
		{pointer: "/server/port", want: "8080\n"},
		{pointer: "/list/1", want: "b\n"},
		{pointer: "/server", want: "host: localhost\nport: 8080\n"},
	}
	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			ctx, out := newCtx()
			assert.NoError(t, (&GetCmd{File: path, Pointer: tt.pointer}).Run(ctx))
			assert.Equal(t, tt.want, out.String())
		})
	}

	ctx, _ := newCtx()
	err := (&GetCmd{File: path, Pointer: "/missing"}).Run(ctx)
	var nf *docpath.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestSetCmd(t *testing.T) {
	path := writeTemp(t, "data.yaml", "# header\nb: 1\na: 2\n")
	ctx, _ := newCtx()

	assert.NoError(t, (&SetCmd{File: path, Pointer: "/c", Value: "[x, y]"}).Run(ctx))
	assert.NoError(t, (&SetCmd{File: path, Pointer: "/b", Value: "'012'"}).Run(ctx))
	assert.Equal(t, "# header\nb: '012'\na: 2\nc:\n  - x\n  - y\n", readTemp(t, path))
}

func TestSetCmdCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "new.yaml")
	ctx, _ := newCtx()

	err := (&SetCmd{File: path, Pointer: "/a", Value: "1"}).Run(ctx)
	var nf *rtyaml.NotFoundError
	assert.True(t, errors.As(err, &nf))

	assert.NoError(t, (&SetCmd{File: path, Pointer: "/a", Value: "1", Create: true}).Run(ctx))
	assert.Equal(t, "a: 1\n", readTemp(t, path))
}

func TestDeleteCmd(t *testing.T) {
	path := writeTemp(t, "data.yaml", "a: 1\nb:\n  - x\n  - y\n")
	ctx, _ := newCtx()

	assert.NoError(t, (&DeleteCmd{File: path, Pointer: "/a"}).Run(ctx))
	assert.NoError(t, (&DeleteCmd{File: path, Pointer: "/b/0"}).Run(ctx))
	assert.Equal(t, "b:\n  - y\n", readTemp(t, path))

	assert.Error(t, (&DeleteCmd{File: path, Pointer: ""}).Run(ctx))
}

func TestSetCmdRefusesMultipleDocuments(t *testing.T) {
	content := "a: 1\n---\nb: 2\n"
	path := writeTemp(t, "multi.yaml", content)
	ctx, _ := newCtx()

	err := (&SetCmd{File: path, Pointer: "/c", Value: "3"}).Run(ctx)
	var serr *rtyaml.StructureError
	assert.True(t, errors.As(err, &serr))
	assert.Equal(t, content, readTemp(t, path))
}
