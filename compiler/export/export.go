package export

import (
	"encoding/json"

	"tlog.app/go/tlog"

	"github.com/slowlang/cfgdump/compiler/cfg"
)

type (
	// Document is the flat top level array of the export format. It
	// holds Block and Exit fragments interleaved in visitation order,
	// cross-referenced by identifier strings, never by nesting.
	Document []any

	exporter struct {
		ids map[*cfg.BasicBlock]int
		q   []*cfg.BasicBlock
	}
)

// Export linearizes g into a Document. Blocks are visited breadth
// first starting from the main entry and every function entry, each
// reachable block exactly once, back edges included. Identifiers are
// allocated in discovery order, so the result is a pure function of
// the graph.
//
// Export allocates all of its state per call. The same graph may be
// exported concurrently from several goroutines.
func Export(g *cfg.Graph) Document {
	e := &exporter{
		ids: map[*cfg.BasicBlock]int{},
	}

	e.blockID(g.Entry)
	for _, f := range g.Funcs {
		e.blockID(f.Entry)
	}

	var doc Document

	for i := 0; i < len(e.q); i++ {
		b := e.q[i]

		tlog.V("export").Printw("block", "id", e.ids[b], "ops", len(b.Ops), "exit", tlog.FormatNext("%T"), b.Exit)

		doc = append(doc, e.encodeBlock(b), e.encodeExit(b))
	}

	return doc
}

// JSON is Export followed by indented json marshalling.
func JSON(g *cfg.Graph) ([]byte, error) {
	return json.MarshalIndent(Export(g), "", "  ")
}

// blockID returns the identifier of b, allocating the next free one
// and scheduling b for traversal on first encounter. The map doubles
// as the visited set: a block with an identifier is queued or already
// encoded, so it is never enqueued twice.
func (e *exporter) blockID(b *cfg.BasicBlock) int {
	if id, ok := e.ids[b]; ok {
		return id
	}

	id := len(e.ids)
	e.ids[b] = id
	e.q = append(e.q, b)

	return id
}
