// Package commands implements the rtyaml command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/yacchi/rtyaml"
)

type cliCtx struct {
	context.Context
	Logger *slog.Logger
	Codec  *rtyaml.Codec
	Out    io.Writer
}

type cli struct {
	Debug         bool `help:"Enable debug logging" env:"RTYAML_DEBUG"`
	Indent        int  `help:"Indentation width" default:"2" env:"RTYAML_INDENT"`
	FoldThreshold int  `help:"Average line length above which multi-line strings are folded" default:"70" env:"RTYAML_FOLD_THRESHOLD"`

	Fmt     FmtCmd           `cmd:"" help:"Normalize YAML files in place"`
	Print   PrintCmd         `cmd:"" help:"Print a YAML file"`
	Get     GetCmd           `cmd:"" help:"Print the value at a JSON Pointer"`
	Set     SetCmd           `cmd:"" help:"Store a value at a JSON Pointer"`
	Delete  DeleteCmd        `cmd:"" help:"Remove the value at a JSON Pointer"`
	Watch   WatchCmd         `cmd:"" help:"Re-print a file whenever it changes"`
	Version kong.VersionFlag `help:"Show version"`
}

func Execute(version string) {
	var cli cli
	ctx := kong.Parse(&cli,
		kong.UsageOnError(),
		kong.Name("rtyaml"),
		kong.Description("rtyaml reads and writes YAML files while keeping key order, quoting and header comments"),
		kong.Vars{"version": version},
	)

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := ctx.Run(&cliCtx{
		Context: context.Background(),
		Logger:  logger,
		Codec: rtyaml.New(
			rtyaml.WithIndent(cli.Indent),
			rtyaml.WithFoldThreshold(cli.FoldThreshold),
		),
		Out: os.Stdout,
	})
	ctx.FatalIfErrorf(err)
}
