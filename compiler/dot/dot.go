// Package dot renders exported documents as graphviz dot and svg. It
// works on the flat document, not on the graph itself, so it consumes
// the export format the same way external visualization tooling does.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"tlog.app/go/errors"

	"github.com/slowlang/cfgdump/compiler/export"
)

func Render(doc export.Document) string {
	var buf bytes.Buffer

	buf.WriteString("digraph cfg {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, fontname=\"Courier\"];\n\n")

	for _, frag := range doc {
		switch f := frag.(type) {
		case export.Block:
			fmt.Fprintf(&buf, "  %q [label=%q];\n", f.ID, blockLabel(f))
		case export.Exit:
			edges(&buf, f)
		default:
			panic(frag)
		}
	}

	buf.WriteString("}\n")

	return buf.String()
}

func blockLabel(b export.Block) string {
	label := b.ID

	for _, op := range b.Instructions {
		label += "\n" + opLabel(op)
	}

	return label
}

func opLabel(op export.Op) string {
	var text string

	switch {
	case len(op.Assignment) != 0:
		text = strings.Join(op.Assignment, ", ") + " :="
	case len(op.BuiltinArgs) != 0:
		text = op.Op + " [" + strings.Join(op.BuiltinArgs, ", ") + "]"
	default:
		text = op.Op
	}

	return text + " (" + strings.Join(op.In, ", ") + ") -> (" + strings.Join(op.Out, ", ") + ")"
}

func edges(buf *bytes.Buffer, x export.Exit) {
	from := strings.TrimSuffix(x.ID, "Exit")

	switch x.Type {
	case "Jump":
		fmt.Fprintf(buf, "  %q -> %q;\n", from, x.Exit[0])
	case "ConditionalJump":
		fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", from, x.Exit[0], x.Cond[0]+" == 0")
		fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", from, x.Exit[1], x.Cond[0]+" != 0")
	case "MainExit", "Terminated":
		fmt.Fprintf(buf, "  %q [label=%q, shape=oval];\n", x.ID, x.Type)
		fmt.Fprintf(buf, "  %q -> %q;\n", from, x.ID)
	case "FunctionReturn":
		label := x.Type
		if len(x.Instructions) != 0 {
			label += " " + x.Instructions[0]
		}

		fmt.Fprintf(buf, "  %q [label=%q, shape=oval];\n", x.ID, label)
		fmt.Fprintf(buf, "  %q -> %q;\n", from, x.ID)
	default:
		panic(x.Type)
	}
}

// RenderSVG lays the dot text out with graphviz and returns svg bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(err, "parse dot")
	}
	defer g.Close()

	var buf bytes.Buffer

	err = gv.Render(ctx, g, graphviz.SVG, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "render")
	}

	return buf.Bytes(), nil
}
