package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testDiagram = `{
  "direction": "TB",
  "nodes": [
    {"id": "a", "label": "Start"},
    {"id": "b"},
    {"id": "c", "label": "End"}
  ],
  "edges": [
    {"from": "a", "to": "b"},
    {"from": "b", "to": "c", "label": "done"}
  ]
}`

func writeTestDiagram(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagram.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestCLI() (*CLI, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, log.ErrorLevel), &buf
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c, _ := newTestCLI()
	root := c.RootCommand()

	want := []string{"layout", "render", "score", "preview", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestLayoutCommandWritesJSON(t *testing.T) {
	path := writeTestDiagram(t, testDiagram)
	c, _ := newTestCLI()
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"layout", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("layout command failed: %v", err)
	}

	var doc layoutDocument
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("layout output is not valid JSON: %v", err)
	}
	if len(doc.Layout.Nodes) != 3 {
		t.Errorf("got %d nodes, want 3", len(doc.Layout.Nodes))
	}
	if len(doc.Routes) != 2 {
		t.Errorf("got %d routes, want 2", len(doc.Routes))
	}
}

func TestRenderCommandDrawsNodes(t *testing.T) {
	path := writeTestDiagram(t, testDiagram)
	c, _ := newTestCLI()
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"render", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("render command failed: %v", err)
	}
	for _, id := range []string{"b"} {
		if !strings.Contains(out.String(), id) {
			t.Errorf("render output missing node %q", id)
		}
	}
	if !strings.Contains(out.String(), "┌") {
		t.Error("render output missing box-drawing frame")
	}
}

func TestLayoutCommandMissingFile(t *testing.T) {
	c, _ := newTestCLI()
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"layout", "does-not-exist.json"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for missing diagram file")
	}
}

func TestPresetWeights(t *testing.T) {
	for _, name := range []string{"", "normal", "compact", "rich"} {
		if _, err := presetWeights(name); err != nil {
			t.Errorf("presetWeights(%q) returned error: %v", name, err)
		}
	}
	if _, err := presetWeights("fancy"); err == nil {
		t.Error("presetWeights should reject unknown presets")
	}
}

func TestScoreCommandComparesFiles(t *testing.T) {
	pathA := writeTestDiagram(t, testDiagram)
	pathB := writeTestDiagram(t, `{
  "nodes": [{"id": "x"}, {"id": "y"}],
  "edges": [{"from": "x", "to": "y"}]
}`)

	c, _ := newTestCLI()
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"score", pathA, pathB, "--preset", "compact"})

	if err := root.Execute(); err != nil {
		t.Fatalf("score command failed: %v", err)
	}
}

func TestLoadInputsWithConfig(t *testing.T) {
	dir := t.TempDir()
	diagramPath := filepath.Join(dir, "d.json")
	if err := os.WriteFile(diagramPath, []byte(testDiagram), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(dir, "cfg.toml")
	if err := os.WriteFile(configPath, []byte("node_gap = 4.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := newTestCLI()
	d, cfg, err := loadInputs(c.Logger, diagramPath, configPath)
	if err != nil {
		t.Fatalf("loadInputs: %v", err)
	}
	if len(d.Nodes) != 3 {
		t.Errorf("got %d nodes, want 3", len(d.Nodes))
	}
	if cfg.NodeGap != 4.0 {
		t.Errorf("NodeGap = %v, want 4.0", cfg.NodeGap)
	}
}

func TestComputePipelineWithLegend(t *testing.T) {
	path := writeTestDiagram(t, testDiagram)
	c, _ := newTestCLI()

	doc, d, err := computePipeline(context.Background(), c.Logger, path, "", "below")
	if err != nil {
		t.Fatalf("computePipeline: %v", err)
	}
	if d == nil || len(d.Nodes) != 3 {
		t.Fatal("pipeline should return the parsed diagram")
	}
	if doc.Objective.Score == 0 && len(doc.Routes) > 0 {
		t.Error("objective score should be populated for a routed diagram")
	}
}

func TestLayoutWithCacheRoundTrip(t *testing.T) {
	path := writeTestDiagram(t, testDiagram)
	cacheDir := filepath.Join(t.TempDir(), "cache")
	c, _ := newTestCLI()
	ctx := context.Background()

	first, err := layoutWithCache(ctx, c.Logger, path, "", "", cacheDir)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := layoutWithCache(ctx, c.Logger, path, "", "", cacheDir)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached result should match the computed result")
	}
}
