package cfgdump

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const smokeText = `
entry: b0
blocks:
  - name: b0
    exit: {type: jump, to: b1}
  - name: b1
    exit: {type: main}
`

func TestSmoke(t *testing.T) {
	ctx := context.Background()

	doc, err := Export(ctx, []byte(smokeText))
	if err != nil {
		t.Errorf("export: %v", err)
	}

	t.Logf("result:\n%s", doc)
}

func TestExportFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "graph.yaml")

	err := os.WriteFile(name, []byte(smokeText), 0o644)
	if err != nil {
		t.Fatalf("write file: %v", err)
	}

	ctx := context.Background()

	doc, err := ExportFile(ctx, name)
	if err != nil {
		t.Errorf("export file: %v", err)
	}

	t.Logf("result:\n%s", doc)
}
