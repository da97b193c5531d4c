package commands

import (
	"bytes"
	"fmt"

	"github.com/yacchi/rtyaml/docpath"
)

type GetCmd struct {
	File    string `arg:"" help:"YAML file to read, or - for standard input"`
	Pointer string `arg:"" help:"JSON Pointer to the value, e.g. /server/port"`
}

func (c *GetCmd) Run(ctx *cliCtx) error {
	data, err := readInput(c.File)
	if err != nil {
		return err
	}
	doc, err := ctx.Codec.Load(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", c.File, err)
	}

	value, err := docpath.Get(doc.Value, c.Pointer)
	if err != nil {
		ctx.Logger.Debug("lookup failed", "file", c.File, "pointer", c.Pointer, "error", err)
		return err
	}
	return ctx.Codec.Dump(ctx.Out, value)
}
