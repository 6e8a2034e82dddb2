package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/cfgdump"
	"github.com/slowlang/cfgdump/compiler/dot"
	"github.com/slowlang/cfgdump/compiler/export"
	"github.com/slowlang/cfgdump/compiler/load"
)

func main() {
	jsonCmd := &cli.Command{
		Name:   "json",
		Action: jsonAct,
		Args:   cli.Args{},
	}

	dotCmd := &cli.Command{
		Name:   "dot",
		Action: dotAct,
		Args:   cli.Args{},
	}

	svgCmd := &cli.Command{
		Name:   "svg",
		Action: svgAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "cfgdump",
		Description: "cfgdump renders control flow graph descriptions as json, dot or svg",
		Commands: []*cli.Command{
			jsonCmd,
			dotCmd,
			svgCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func jsonAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		doc, err := cfgdump.ExportFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "export %v", a)
		}

		fmt.Printf("%s\n", doc)
	}

	return nil
}

func dotAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		g, err := load.LoadFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "load %v", a)
		}

		fmt.Printf("%s", dot.Render(export.Export(g)))
	}

	return nil
}

func svgAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		g, err := load.LoadFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "load %v", a)
		}

		svg, err := dot.RenderSVG(ctx, dot.Render(export.Export(g)))
		if err != nil {
			return errors.Wrap(err, "render %v", a)
		}

		_, err = os.Stdout.Write(svg)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}
