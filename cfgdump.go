package cfgdump

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/cfgdump/compiler/export"
	"github.com/slowlang/cfgdump/compiler/load"
)

func ExportFile(ctx context.Context, name string) (doc []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Export(ctx, text)
}

func Export(ctx context.Context, text []byte) (doc []byte, err error) {
	g, err := load.Load(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "load graph")
	}

	doc, err = export.JSON(g)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}

	return doc, nil
}
