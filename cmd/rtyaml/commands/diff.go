package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// useColor resolves a --color mode against the output writer.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// lineDiff diffs two texts line by line.
func lineDiff(from, to string) []diffpatch.Diff {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func writeDiff(w io.Writer, name, from, to string, colored bool) error {
	header := color.New(color.Bold)
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, c := range []*color.Color{header, removed, added} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	if _, err := header.Fprintf(w, "--- %s\n+++ %s (formatted)\n", name, name); err != nil {
		return err
	}
	for _, d := range lineDiff(from, to) {
		for _, line := range splitLines(d.Text) {
			var err error
			switch d.Type {
			case diffpatch.DiffDelete:
				_, err = removed.Fprintf(w, "-%s\n", line)
			case diffpatch.DiffInsert:
				_, err = added.Fprintf(w, "+%s\n", line)
			default:
				_, err = fmt.Fprintf(w, " %s\n", line)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
