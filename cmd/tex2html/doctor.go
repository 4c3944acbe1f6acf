package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/alnah/go-tex2html/internal/config"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Tools    []toolInfo `json:"tools"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds detection results for one external tool.
type toolInfo struct {
	Name     string `json:"name"`
	Tool     string `json:"tool"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Optional bool   `json:"optional"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	configName := ""
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--json":
			jsonOutput = true
		case args[i] == "--config" && i+1 < len(args):
			configName = args[i+1]
			i++
		}
	}

	cfg := config.DefaultConfig()
	if configName != "" {
		loaded, err := config.LoadConfig(configName)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return ExitUsage
		}
		cfg = loaded
	}

	result := runDoctor(cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkTools(result, cfg)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTools looks up each external tool on PATH. The math renderer is
// optional: the delimiter fallback needs no tool at all.
func checkTools(result *doctorResult, cfg *config.Config) {
	tools := []toolInfo{
		{Name: "LaTeX compiler", Tool: withDefault(cfg.Tools.Latex, "latexmk")},
		{Name: "PDF to SVG converter", Tool: withDefault(cfg.Tools.Pdf2Svg, "pdf2svg")},
		{Name: "Markup converter", Tool: withDefault(cfg.Tools.Pandoc, "pandoc")},
		{Name: "Math renderer", Tool: cfg.Tools.Katex, Optional: true},
	}

	for _, t := range tools {
		if t.Tool == "" {
			continue
		}
		path, err := exec.LookPath(t.Tool)
		if err == nil {
			t.Found = true
			t.Path = path
		} else if t.Optional {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s (%s) not found; math falls back to client-side delimiters", t.Name, t.Tool))
		} else {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s (%s) not found on PATH", t.Name, t.Tool))
		}
		result.Tools = append(result.Tools, t)
	}
}

// withDefault returns value, or fallback when value is empty.
func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "tex2html-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "tex2html doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tools")
	for _, t := range r.Tools {
		if t.Found {
			fmt.Fprintf(w, "  [OK] %s: %s\n", t.Name, t.Path)
		} else if t.Optional {
			fmt.Fprintf(w, "  [WARN] %s: %s not found\n", t.Name, t.Tool)
		} else {
			fmt.Fprintf(w, "  [ERROR] %s: %s not found\n", t.Name, t.Tool)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
