package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	path, cleanup, err := WriteTempFile("content", "tex")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	defer cleanup()

	if !strings.HasSuffix(path, ".tex") {
		t.Errorf("path = %q, want .tex suffix", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteTempFileCleanup(t *testing.T) {
	path, cleanup, err := WriteTempFile("x", "tex")
	if err != nil {
		t.Fatal(err)
	}
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cleanup did not remove the file")
	}
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"valid", "tex", nil},
		{"empty", "", ErrExtensionEmpty},
		{"slash", "a/b", ErrExtensionPathTraversal},
		{"backslash", `a\b`, ErrExtensionPathTraversal},
		{"null byte", "a\x00b", ErrExtensionPathTraversal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateExtension(tt.extension); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists() = false for regular file")
	}
	if FileExists(dir) {
		t.Error("FileExists() = true for directory")
	}
	if FileExists(filepath.Join(dir, "absent")) {
		t.Error("FileExists() = true for missing path")
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !DirExists(dir) {
		t.Error("DirExists() = false for directory")
	}
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if DirExists(file) {
		t.Error("DirExists() = true for regular file")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	if err := os.WriteFile(src, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "nested", "deep", "dst.pdf")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF" {
		t.Errorf("copied content = %q", data)
	}
}

func TestCopyFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old content longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("destination = %q, want truncated overwrite", data)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestIsFilePath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"professional", false},
		{"./custom.yaml", true},
		{"../shared/cfg.yaml", true},
		{"/absolute/path", true},
		{`C:\windows\path`, true},
		{"my-config", false},
	}
	for _, tt := range tests {
		if got := IsFilePath(tt.in); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://example.com/x.png") || !IsURL("http://example.com") {
		t.Error("IsURL() = false for URL")
	}
	if IsURL("ftp://example.com") || IsURL("images/x.png") {
		t.Error("IsURL() = true for non-http reference")
	}
}
