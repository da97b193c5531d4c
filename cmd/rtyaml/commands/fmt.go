package commands

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

type FmtCmd struct {
	Files []string `arg:"" type:"existingfile" help:"YAML files to format"`
	Check bool     `help:"List files that would change and exit non-zero" short:"c"`
	Diff  bool     `help:"Print a diff instead of rewriting files" short:"d"`
	Color string   `help:"Colorize diff output (auto, always, never)" enum:"auto,always,never" default:"auto" env:"RTYAML_COLOR"`
}

func (c *FmtCmd) Run(ctx *cliCtx) error {
	var unformatted []string
	for _, file := range c.Files {
		changed, err := c.format(ctx, file)
		if err != nil {
			return err
		}
		if changed {
			unformatted = append(unformatted, file)
		}
	}

	if c.Check && len(unformatted) > 0 {
		return fmt.Errorf("%d file(s) not formatted: %s", len(unformatted), strings.Join(unformatted, ", "))
	}
	return nil
}

// format reports whether file differs from its normalized form, and
// rewrites it unless Check or Diff is set.
func (c *FmtCmd) format(ctx *cliCtx, file string) (bool, error) {
	info, err := os.Stat(file)
	if err != nil {
		return false, fmt.Errorf("error reading %s: %w", file, err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("error reading %s: %w", file, err)
	}

	docs, err := ctx.Codec.LoadAll(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("error parsing %s: %w", file, err)
	}
	if len(docs) == 0 {
		ctx.Logger.Debug("no documents, skipping", "file", file)
		return false, nil
	}

	values := make([]any, len(docs))
	for i, doc := range docs {
		values[i] = doc
	}
	formatted, err := ctx.Codec.DumpAllString(values...)
	if err != nil {
		return false, fmt.Errorf("error formatting %s: %w", file, err)
	}
	if formatted == string(data) {
		ctx.Logger.Debug("already formatted", "file", file)
		return false, nil
	}

	switch {
	case c.Diff:
		if err := writeDiff(ctx.Out, file, string(data), formatted, useColor(c.Color, ctx.Out)); err != nil {
			return true, err
		}
	case c.Check:
		fmt.Fprintln(ctx.Out, file)
	default:
		if err := os.WriteFile(file, []byte(formatted), info.Mode().Perm()); err != nil {
			return true, fmt.Errorf("error writing %s: %w", file, err)
		}
		ctx.Logger.Info("formatted", "file", file)
	}
	return true, nil
}
