package main

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-tex2html/internal/config"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stubs are not runnable on windows")
	}
}

func TestRunDoctorAllToolsPresent(t *testing.T) {
	skipOnWindows(t)
	binDir := t.TempDir()
	for _, tool := range []string{"latexmk", "pdf2svg", "pandoc"} {
		installFakeTool(t, binDir, tool, "exit 0")
	}
	t.Setenv("PATH", binDir)

	result := runDoctor(config.DefaultConfig())
	if result.Status != "ready" {
		t.Errorf("Status = %q, want ready (errors: %v)", result.Status, result.Errors)
	}
	if len(result.Tools) != 3 {
		t.Errorf("Tools = %d entries, want 3 (katex unset is skipped)", len(result.Tools))
	}
	for _, tool := range result.Tools {
		if !tool.Found {
			t.Errorf("tool %s not found", tool.Tool)
		}
	}
}

func TestRunDoctorMissingRequiredTool(t *testing.T) {
	skipOnWindows(t)
	binDir := t.TempDir()
	installFakeTool(t, binDir, "latexmk", "exit 0")
	installFakeTool(t, binDir, "pandoc", "exit 0")
	t.Setenv("PATH", binDir)

	result := runDoctor(config.DefaultConfig())
	if result.Status != "errors" {
		t.Errorf("Status = %q, want errors", result.Status)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "pdf2svg") {
		t.Errorf("Errors = %v", result.Errors)
	}
}

func TestRunDoctorMissingOptionalToolWarns(t *testing.T) {
	skipOnWindows(t)
	binDir := t.TempDir()
	for _, tool := range []string{"latexmk", "pdf2svg", "pandoc"} {
		installFakeTool(t, binDir, tool, "exit 0")
	}
	t.Setenv("PATH", binDir)

	cfg := config.DefaultConfig()
	cfg.Tools.Katex = "katex"
	result := runDoctor(cfg)
	if result.Status != "warnings" {
		t.Errorf("Status = %q, want warnings", result.Status)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestRunDoctorHonorsToolOverrides(t *testing.T) {
	skipOnWindows(t)
	binDir := t.TempDir()
	for _, tool := range []string{"lualatex", "pdftocairo", "pandoc"} {
		installFakeTool(t, binDir, tool, "exit 0")
	}
	t.Setenv("PATH", binDir)

	cfg := config.DefaultConfig()
	cfg.Tools.Latex = "lualatex"
	cfg.Tools.Pdf2Svg = "pdftocairo"
	result := runDoctor(cfg)
	if result.Status != "ready" {
		t.Errorf("Status = %q, want ready (errors: %v)", result.Status, result.Errors)
	}
}

func TestRunDoctorCmdJSON(t *testing.T) {
	skipOnWindows(t)
	binDir := t.TempDir()
	for _, tool := range []string{"latexmk", "pdf2svg", "pandoc"} {
		installFakeTool(t, binDir, tool, "exit 0")
	}
	t.Setenv("PATH", binDir)

	env, stdout, _ := newTestEnv()
	if code := runDoctorCmd([]string{"--json"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout.String())
	}
	if result.Status != "ready" {
		t.Errorf("Status = %q", result.Status)
	}
}

func TestPrintDoctorResult(t *testing.T) {
	env, stdout, _ := newTestEnv()
	printDoctorResult(env.Stdout, &doctorResult{
		Status: "errors",
		Tools: []toolInfo{
			{Name: "LaTeX compiler", Tool: "latexmk", Found: true, Path: "/usr/bin/latexmk"},
			{Name: "PDF to SVG converter", Tool: "pdf2svg"},
		},
		System: systemInfo{TempWritable: true},
		Errors: []string{"PDF to SVG converter (pdf2svg) not found on PATH"},
	})

	out := stdout.String()
	if !strings.Contains(out, "[OK] LaTeX compiler: /usr/bin/latexmk") {
		t.Errorf("missing OK line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] PDF to SVG converter: pdf2svg not found") {
		t.Errorf("missing error line: %q", out)
	}
	if !strings.Contains(out, "Status: Not ready") {
		t.Errorf("missing status line: %q", out)
	}
}
