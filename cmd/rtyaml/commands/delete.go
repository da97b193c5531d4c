package commands

import (
	"github.com/yacchi/rtyaml"
	"github.com/yacchi/rtyaml/docpath"
)

type DeleteCmd struct {
	File    string `arg:"" help:"YAML file to modify"`
	Pointer string `arg:"" help:"JSON Pointer to the value to remove"`
}

func (c *DeleteCmd) Run(ctx *cliCtx) error {
	ctx.Logger.Debug("deleting value", "file", c.File, "pointer", c.Pointer)
	return ctx.Codec.Edit(c.File, nil, func(doc *rtyaml.Document) error {
		root, err := docpath.Delete(doc.Value, c.Pointer)
		if err != nil {
			return err
		}
		doc.Value = root
		return nil
	})
}
