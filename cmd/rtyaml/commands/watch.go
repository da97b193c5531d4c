package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yacchi/rtyaml"
	"github.com/yacchi/rtyaml/watcher"
)

type WatchCmd struct {
	File     string        `arg:"" type:"existingfile" help:"YAML file to watch"`
	Debounce time.Duration `help:"Quiet period before reloading" default:"100ms" env:"RTYAML_DEBOUNCE"`
}

func (c *WatchCmd) Run(ctx *cliCtx) error {
	w := watcher.New(c.File,
		watcher.WithCodec(ctx.Codec),
		watcher.WithLogger(ctx.Logger),
		watcher.WithDebounce(c.Debounce),
	)

	doc, err := w.Load()
	if err != nil {
		return err
	}
	if err := ctx.Codec.Dump(ctx.Out, doc); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = w.Start(sigCtx, func(doc *rtyaml.Document, err error) {
		if err != nil {
			ctx.Logger.Error("reload failed", "file", c.File, "error", err)
			return
		}
		fmt.Fprintln(ctx.Out, "---")
		if err := ctx.Codec.Dump(ctx.Out, doc); err != nil {
			ctx.Logger.Error("print failed", "file", c.File, "error", err)
		}
	})
	if err != nil {
		return err
	}
	ctx.Logger.Info("watching", "file", c.File)

	<-sigCtx.Done()
	return w.Stop()
}
