package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/argmap/pkg/config"
	"github.com/matzehuels/argmap/pkg/layout"
	"github.com/matzehuels/argmap/pkg/viewport"
)

const testPayload = `{
	"nodes": [
		{"id": "I:p1", "kind": "I", "label": "It is raining"},
		{"id": "RA:1", "kind": "RA"},
		{"id": "I:c1", "kind": "I", "label": "The street is wet"}
	],
	"edges": [
		{"id": "e1", "from": "I:p1", "to": "RA:1", "role": "premise"},
		{"id": "e2", "from": "RA:1", "to": "I:c1", "role": "conclusion"}
	]
}`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePayload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debate.json")
	if err := os.WriteFile(path, []byte(testPayload), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"RA:1", []string{"RA:1"}},
		{"RA:1, RA:2 ,,RA:3", []string{"RA:1", "RA:2", "RA:3"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitList(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	dir, err := configDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-config", "argmap") {
		t.Errorf("configDir() = %q", dir)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		c := New(&bytes.Buffer{}, log.InfoLevel)
		c.configPath = writeConfig(t, "[canvas]\nwidth = 640\n")
		if err := c.loadConfig(); err != nil {
			t.Fatal(err)
		}
		if c.cfg.Canvas.Width != 640 {
			t.Errorf("width = %v, want 640", c.cfg.Canvas.Width)
		}
	})

	t.Run("default file", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		if err := os.MkdirAll(filepath.Join(home, "argmap"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(home, "argmap", "config.toml"), []byte("[layout]\nnode_sep = 12\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		c := New(&bytes.Buffer{}, log.InfoLevel)
		if err := c.loadConfig(); err != nil {
			t.Fatal(err)
		}
		if c.cfg.Layout.NodeSep != 12 {
			t.Errorf("node_sep = %v, want 12", c.cfg.Layout.NodeSep)
		}
	})

	t.Run("no file", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		c := New(&bytes.Buffer{}, log.InfoLevel)
		if err := c.loadConfig(); err != nil {
			t.Fatal(err)
		}
		if c.cfg != config.Default() {
			t.Error("config should be the defaults")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		c := New(&bytes.Buffer{}, log.InfoLevel)
		c.configPath = writeConfig(t, "[canvas]\nwidth = -1\n")
		if err := c.loadConfig(); err == nil {
			t.Error("expected an error for a negative width")
		}
	})
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "debate.json", "debate"},
		{"", "dir/debate.json", "dir/debate"},
		{"out/map", "debate.json", "out/map"},
		{"out/map.svg", "debate.json", "out/map"},
		{"out/map.v2", "debate.json", "out/map.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := parseFormats("SVG, png")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"svg", "png"}) {
		t.Errorf("parseFormats = %v", got)
	}
	for _, bad := range []string{"", "gif", "svg,jpeg"} {
		if _, err := parseFormats(bad); err == nil {
			t.Errorf("parseFormats(%q) should fail", bad)
		}
	}
}

func TestCanvasFrom(t *testing.T) {
	base := viewport.DefaultCanvas()
	if got := canvasFrom(base, 0, 0); got != base {
		t.Errorf("zero flags changed the canvas: %+v", got)
	}
	if got := canvasFrom(base, 640, 0); got.Width != 640 || got.Height != base.Height {
		t.Errorf("canvasFrom width = %+v", got)
	}
}

func TestRenderCommand(t *testing.T) {
	input := writePayload(t)
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")
	out := filepath.Join(t.TempDir(), "map")

	if _, err := execute(t, "render", input, "-o", out, "--config", cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<svg", `data-id="RA:1"`, "It is raining"} {
		if !strings.Contains(string(svg), want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestRenderCommandExpandWithoutSource(t *testing.T) {
	input := writePayload(t)
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")
	out := filepath.Join(t.TempDir(), "map")

	// Statements are not expandable, which is a silent rejection.
	if _, err := execute(t, "render", input, "-o", out, "--expand", "I:p1", "--config", cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(out + ".svg"); err != nil {
		t.Errorf("svg not written: %v", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	input := writePayload(t)
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")
	out := filepath.Join(t.TempDir(), "map")

	if _, err := execute(t, "layout", input, "-o", out, "--graph", "--config", cfg); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(out + ".layout.json")
	if err != nil {
		t.Fatal(err)
	}
	r, err := layout.UnmarshalResult(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Nodes) != 3 || r.Strategy != layout.StrategyLayered {
		t.Errorf("layout = %d nodes, strategy %q", len(r.Nodes), r.Strategy)
	}

	var graph struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	data, err = os.ReadFile(out + ".graph.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &graph); err != nil {
		t.Fatal(err)
	}
	if len(graph.Nodes) != 3 || len(graph.Edges) != 2 {
		t.Errorf("graph = %d nodes, %d edges", len(graph.Nodes), len(graph.Edges))
	}
}

func TestConfigShow(t *testing.T) {
	cfg := writeConfig(t, "[server]\naddr = \":9999\"\n")
	out, err := execute(t, "config", "show", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `addr = ":9999"`) {
		t.Errorf("config show output missing addr:\n%s", out)
	}
	if _, err := config.Decode(strings.NewReader(out)); err != nil {
		t.Errorf("config show output does not load: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != config.Default() {
		t.Error("written config should hold the defaults")
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("init over an existing file should fail without --force")
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestImportNeedsURI(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := execute(t, "import", writePayload(t)); err == nil {
		t.Error("import without a MongoDB URI should fail")
	}
}

func TestLayoutCommandSugiyama(t *testing.T) {
	input := writePayload(t)
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n\n[layout]\nsolver = \"sugiyama\"\n")
	out := filepath.Join(t.TempDir(), "map")

	if _, err := execute(t, "layout", input, "-o", out, "--config", cfg); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(out + ".layout.json")
	if err != nil {
		t.Fatal(err)
	}
	r, err := layout.UnmarshalResult(data)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := r.Node("I:p1")
	ra, _ := r.Node("RA:1")
	c, _ := r.Node("I:c1")
	if !(p.Y < ra.Y && ra.Y < c.Y) {
		t.Errorf("y = %v, %v, %v, want premise above rule above conclusion", p.Y, ra.Y, c.Y)
	}
}

func TestCompletion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tests := []struct {
		shell   string
		want    string
		wantErr bool
	}{
		{shell: "bash", want: "__start_argmap"},
		{shell: "zsh", want: "#compdef argmap"},
		{shell: "fish", want: "complete -c argmap"},
		{shell: "tcsh", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := execute(t, "completion", tt.shell)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("script missing %q", tt.want)
			}
		})
	}
}

func TestCompletePayloads(t *testing.T) {
	exts, directive := completePayloads(nil, nil, "")
	if !slices.Equal(exts, []string{"json"}) || directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("completePayloads() = %v, %v", exts, directive)
	}
}
