package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
)

// run executes the root command with an isolated config and cache.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return runWithConfig(t, filepath.Join(dir, "config.json"), args...)
}

func runWithConfig(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseDims(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    [4]int
		wantErr bool
	}{
		{"four numbers", []string{"29", "17", "4", "7"}, [4]int{29, 17, 4, 7}, false},
		{"pairs", []string{"29x17", "4X7"}, [4]int{29, 17, 4, 7}, false},
		{"pairs with spaces", []string{"29 x 17", "4x7"}, [4]int{29, 17, 4, 7}, false},
		{"three numbers", []string{"29", "17", "4"}, [4]int{}, true},
		{"bad pair", []string{"29x17x1", "4x7"}, [4]int{}, true},
		{"not a number", []string{"29", "abc", "4", "7"}, [4]int{}, true},
		{"zero", []string{"29", "17", "0", "7"}, [4]int{}, true},
		{"negative", []string{"-29x17", "4x7"}, [4]int{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDims(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDims(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseDims(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "palletcut") {
		t.Errorf("cacheDir() = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", "palletcut") {
		t.Errorf("cacheDir() = %q, want under %q", dir, home)
	}
}

func TestDrawLayout(t *testing.T) {
	r := model.Result{
		Problem: model.NewProblem("", 6, 2, 2, 1),
		Boxes: []model.Box{
			{X1: 0, Y1: 0, X2: 2, Y2: 1},
			{X1: 0, Y1: 1, X2: 2, Y2: 2},
			{X1: 2, Y1: 0, X2: 3, Y2: 2, Rotated: true},
		},
	}
	want := "BBc...\nAAc...\n"
	if got := drawLayout(r); got != want {
		t.Errorf("drawLayout =\n%s\nwant\n%s", got, want)
	}
}

func TestSolveCommand(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "result.json")
	pngPath := filepath.Join(dir, "layout.png")
	ncPath := filepath.Join(dir, "sheet.nc")

	_, err := run(t, "solve", "11x8", "3x2", "--label", "test",
		"--json", jsonPath, "--png", pngPath, "--gcode", ncPath, "--size", "220")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var res model.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Count != 14 || len(res.Boxes) != 14 || res.Problem.Label != "test" {
		t.Errorf("unexpected result %+v", res)
	}

	for _, p := range []string{pngPath, ncPath} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("expected %s to be written: %v", p, err)
		}
	}
	code, _ := os.ReadFile(ncPath)
	if !strings.Contains(string(code), "Box 14") {
		t.Error("G-code should cut all 14 boxes")
	}
}

func TestSolveCommand_DepthFlag(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "result.json")
	if _, err := run(t, "solve", "29", "17", "4", "7", "--depth", "1", "--json", jsonPath, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(jsonPath)
	var res model.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Problem.Depth != 1 || res.Count == 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSolveCommand_BadArgs(t *testing.T) {
	if _, err := run(t, "solve", "11x8"); err == nil {
		t.Error("expected an error for a single argument")
	}
	if _, err := run(t, "solve", "3000x10", "3x2"); err == nil {
		t.Error("expected an error for an oversized pallet")
	}
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "pallets.csv")
	csv := "label,length,width,box length,box width\n" +
		"first,11,8,3,2\n" +
		"second,10,10,5,5\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir)
	xlsxPath := filepath.Join(dir, "report.xlsx")
	pngDir := filepath.Join(dir, "png")
	jsonPath := filepath.Join(dir, "all.json")

	if _, err := run(t, "batch", csvPath, "--xlsx", xlsxPath, "--png", pngDir, "--json", jsonPath); err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	for _, p := range []string{
		xlsxPath,
		filepath.Join(pngDir, "001_first.png"),
		filepath.Join(pngDir, "002_second.png"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}

	data, _ := os.ReadFile(jsonPath)
	var results []model.Result
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Count != 14 || results[1].Count != 4 {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestBatchCommand_NothingImported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte("label,length,width,box length,box width\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "batch", path); err == nil {
		t.Error("expected an error for a file without instances")
	}
}

func TestProjectCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	configPath := filepath.Join(dir, "config.json")
	csvPath := writeCSV(t, dir)
	projectPath := filepath.Join(dir, "warehouse")

	if _, err := runWithConfig(t, configPath, "project", "new", projectPath, "--from", csvPath); err != nil {
		t.Fatalf("project new: %v", err)
	}
	projectPath += project.FileExtension

	p, err := project.Load(projectPath)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "warehouse" || len(p.Problems) != 2 || len(p.Results) != 0 {
		t.Fatalf("unexpected new project %+v", p)
	}

	if _, err := runWithConfig(t, configPath, "project", "solve", projectPath); err != nil {
		t.Fatalf("project solve: %v", err)
	}
	p, _ = project.Load(projectPath)
	if len(p.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(p.Results))
	}
	if r, ok := p.ResultFor(p.Problems[0].ID); !ok || r.Count != 14 {
		t.Errorf("unexpected first result %+v", r)
	}

	if _, err := runWithConfig(t, configPath, "project", "show", projectPath); err != nil {
		t.Errorf("project show: %v", err)
	}

	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.RecentProjects) != 1 || filepath.Base(cfg.RecentProjects[0]) != "warehouse.palletcut" {
		t.Errorf("unexpected recent projects %v", cfg.RecentProjects)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	if _, err := runWithConfig(t, configPath, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := runWithConfig(t, configPath, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}

	out, err := runWithConfig(t, configPath, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `cache_backend = "file"`) {
		t.Errorf("config show output missing cache_backend:\n%s", out)
	}

	out, _ = runWithConfig(t, configPath, "config", "path")
	if strings.TrimSpace(out) != configPath {
		t.Errorf("config path = %q", out)
	}

	backup := filepath.Join(dir, "backup.json")
	if _, err := runWithConfig(t, configPath, "config", "export", backup); err != nil {
		t.Fatalf("config export: %v", err)
	}
	other := filepath.Join(dir, "restored", "config.json")
	if _, err := runWithConfig(t, other, "config", "import", backup); err != nil {
		t.Fatalf("config import: %v", err)
	}
	cfg, err := project.LoadAppConfig(other)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheBackend != "file" || cfg.DefaultDepth != model.DefaultAppConfig().DefaultDepth {
		t.Errorf("unexpected restored config %+v", cfg)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cacheHome := filepath.Join(dir, "cache")
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	configPath := filepath.Join(dir, "config.json")

	out, err := runWithConfig(t, configPath, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(cacheHome, "palletcut") {
		t.Errorf("cache path = %q", out)
	}

	if _, err := runWithConfig(t, configPath, "solve", "10x10", "5x5"); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(filepath.Join(cacheHome, "palletcut"))
	if len(entries) == 0 {
		t.Fatal("solve should populate the cache")
	}

	if _, err := runWithConfig(t, configPath, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, _ = os.ReadDir(filepath.Join(cacheHome, "palletcut"))
	if len(entries) != 0 {
		t.Errorf("cache should be empty after clear, found %d entries", len(entries))
	}
}

func TestComparisonTable(t *testing.T) {
	results := []engine.ComparisonResult{
		{Scenario: engine.ComparisonScenario{Name: "Current Settings", Params: engine.Parameters{Depth: 2}}, Count: 13, Method: engine.MethodFiveBlock},
		{Scenario: engine.ComparisonScenario{Name: "Unbounded Depth"}, Count: 14, Optimal: true, Method: engine.MethodLBlock},
	}
	table := comparisonTable(results)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), table)
	}
	if !strings.Contains(lines[1], "13") || !strings.Contains(lines[1], "best found") {
		t.Errorf("unexpected row %q", lines[1])
	}
	if !strings.Contains(lines[2], "unbounded") || !strings.Contains(lines[2], "optimal") {
		t.Errorf("unexpected row %q", lines[2])
	}
}
