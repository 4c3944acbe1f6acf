package tex2html

import (
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkConverterBasic(t *testing.T) {
	conv := NewGoldmarkConverter()
	got, err := conv.Convert("", "# Title\n\nSome *emphasis* here.")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(got, "<!DOCTYPE html>") {
		t.Error("output is not a standalone document")
	}
	if !strings.Contains(got, `<h1 id="title">Title</h1>`) {
		t.Errorf("heading missing: %q", got)
	}
	if !strings.Contains(got, "<em>emphasis</em>") {
		t.Errorf("emphasis missing: %q", got)
	}
}

func TestGoldmarkConverterGFMTable(t *testing.T) {
	conv := NewGoldmarkConverter()
	got, err := conv.Convert("", "| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<table>") {
		t.Errorf("GFM table not rendered: %q", got)
	}
}

func TestGoldmarkConverterImagePassesThrough(t *testing.T) {
	conv := NewGoldmarkConverter()
	got, err := conv.Convert("", "![diagram](figs/diagram.png)")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `src="figs/diagram.png"`) {
		t.Errorf("image reference lost: %q", got)
	}
}

func TestGoldmarkConverterEmptyInput(t *testing.T) {
	conv := NewGoldmarkConverter()
	if _, err := conv.Convert("", ""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("error = %v, want ErrEmptySource", err)
	}
}
