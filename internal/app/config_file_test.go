package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := writeConfig(t, "cfg.yaml", `
input: invoices/
output: results.json
pdf: summary.pdf
max:
  concurrent: 8
timeout: 30s
verbose: true
`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Input != "invoices/" || fc.Output != "results.json" || fc.PDF != "summary.pdf" {
		t.Fatalf("paths = %+v", fc)
	}
	if fc.Max.Concurrent != 8 || fc.Timeout != "30s" || !fc.Verbose {
		t.Fatalf("options = %+v", fc)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{"input":"a.html","max":{"concurrent":2}}`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Input != "a.html" || fc.Max.Concurrent != 2 {
		t.Fatalf("config = %+v", fc)
	}
}

func TestApplyFileConfig_FillsOnlyUnsetFields(t *testing.T) {
	cfg := Config{
		InputPath:     "explicit.html",
		OutputPath:    DefaultOutputPath,
		MaxConcurrent: DefaultMaxConcurrent,
		Timeout:       DefaultTimeout,
	}
	fc := FileConfig{Input: "file.html", Output: "file.json", Timeout: "1m"}
	fc.Max.Concurrent = 16

	ApplyFileConfig(&cfg, fc)

	if cfg.InputPath != "explicit.html" {
		t.Fatalf("explicit input overwritten: %q", cfg.InputPath)
	}
	if cfg.OutputPath != "file.json" {
		t.Fatalf("default output not overlaid: %q", cfg.OutputPath)
	}
	if cfg.MaxConcurrent != 16 || cfg.Timeout != time.Minute {
		t.Fatalf("defaults not overlaid: %+v", cfg)
	}
}

func TestValidateConfig(t *testing.T) {
	ok := Config{InputPath: "in", OutputPath: "out"}
	if err := ValidateConfig(ok); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if err := ValidateConfig(Config{OutputPath: "out"}); err == nil {
		t.Fatal("missing input accepted")
	}
	if err := ValidateConfig(Config{InputPath: "in", OutputPath: "out", Timeout: -1}); err == nil {
		t.Fatal("negative timeout accepted")
	}
}
