package commands

import (
	"fmt"
	"strings"

	"github.com/yacchi/rtyaml"
	"github.com/yacchi/rtyaml/docpath"
	"github.com/yacchi/rtyaml/omap"
)

type SetCmd struct {
	File    string `arg:"" help:"YAML file to modify"`
	Pointer string `arg:"" help:"JSON Pointer to the value, e.g. /server/port"`
	Value   string `arg:"" help:"New value, parsed as YAML"`
	Create  bool   `help:"Create the file as an empty mapping if it does not exist"`
}

func (c *SetCmd) Run(ctx *cliCtx) error {
	parsed, err := ctx.Codec.Load(strings.NewReader(c.Value))
	if err != nil {
		return fmt.Errorf("error parsing value %q: %w", c.Value, err)
	}

	var def any
	if c.Create {
		def = omap.New()
	}

	ctx.Logger.Debug("setting value", "file", c.File, "pointer", c.Pointer, "value", parsed.Value)
	return ctx.Codec.Edit(c.File, def, func(doc *rtyaml.Document) error {
		root, err := docpath.Set(doc.Value, c.Pointer, parsed.Value)
		if err != nil {
			return err
		}
		doc.Value = root
		return nil
	})
}
