package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/yacchi/rtyaml"
)

type PrintCmd struct {
	File  string `arg:"" help:"YAML file to print, or - for standard input"`
	Plain bool   `help:"Use plain YAML formatting without the quoting policy or header comment" short:"p"`
}

func (c *PrintCmd) Run(ctx *cliCtx) error {
	data, err := readInput(c.File)
	if err != nil {
		return err
	}

	docs, err := ctx.Codec.LoadAll(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", c.File, err)
	}
	ctx.Logger.Debug("loaded documents", "file", c.File, "count", len(docs))

	if c.Plain {
		for i, doc := range docs {
			if i > 0 {
				fmt.Fprintln(ctx.Out, "---")
			}
			if err := rtyaml.Fprint(ctx.Out, doc.Value); err != nil {
				return err
			}
		}
		return nil
	}

	values := make([]any, len(docs))
	for i, doc := range docs {
		values[i] = doc
	}
	return ctx.Codec.DumpAll(ctx.Out, values...)
}

// readInput reads a whole file, or standard input for "-". Reading into
// memory keeps the input seekable so header comments are captured.
func readInput(file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &rtyaml.NotFoundError{Path: file, Err: err}
		}
		return nil, fmt.Errorf("error reading %s: %w", file, err)
	}
	return data, nil
}
