package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRun_DirectoryInputWritesJSON(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "Reikn-100.html", `<h1>REIKNINGUR 100100</h1><div class="payable_amount">1.000,00</div>`)
	writeInput(t, dir, "blank.html", "   ")

	outPath := filepath.Join(t.TempDir(), "out.json")
	a, err := New(Config{InputPath: dir, OutputPath: outPath})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var out Output
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if out.Parsed != 1 || out.Failed != 1 {
		t.Fatalf("parsed=%d failed=%d", out.Parsed, out.Failed)
	}
	if len(out.Invoices) != 1 || out.Invoices[0].Number != "100100" {
		t.Fatalf("invoices = %+v", out.Invoices)
	}
	if len(out.Failures) != 1 || out.Failures[0].File != "blank.html" {
		t.Fatalf("failures = %+v", out.Failures)
	}
}

func TestRun_SingleFileInput(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "Reikn-200.html", `<h1>REIKNINGUR 200200</h1>`)

	outPath := filepath.Join(dir, "out.json")
	a, err := New(Config{
		InputPath:  filepath.Join(dir, "Reikn-200.html"),
		OutputPath: outPath,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var out Output
	b, _ := os.ReadFile(outPath)
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if out.Parsed != 1 || out.Invoices[0].Number != "200200" {
		t.Fatalf("output = %+v", out)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{OutputPath: "x.json"}); err == nil {
		t.Fatal("expected error for missing input path")
	}
	if _, err := New(Config{InputPath: "a", OutputPath: "b", MaxConcurrent: -1}); err == nil {
		t.Fatal("expected error for negative concurrency")
	}
}
