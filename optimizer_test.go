package tex2html

import (
	"strings"
	"testing"
)

func TestUnitNormalizerFromViewBox(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.5 80">content</svg>`
	out, err := NewUnitNormalizer("").Optimize([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	if !strings.Contains(got, `width="120.5pt"`) || !strings.Contains(got, `height="80pt"`) {
		t.Errorf("Optimize() = %q", got)
	}
	if !strings.Contains(got, "content</svg>") {
		t.Error("body altered by normalization")
	}
}

func TestUnitNormalizerOverridesExistingDimensions(t *testing.T) {
	in := `<svg width="300" height="150" viewBox="0 0 100 50"></svg>`
	out, err := NewUnitNormalizer("").Optimize([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	// viewBox wins over existing width/height.
	if !strings.Contains(got, `width="100pt"`) || !strings.Contains(got, `height="50pt"`) {
		t.Errorf("Optimize() = %q", got)
	}
}

func TestUnitNormalizerReinterpretsBareDimensions(t *testing.T) {
	in := `<svg width="200px" height="100"></svg>`
	out, err := NewUnitNormalizer("").Optimize([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	// Existing unit is stripped, number reinterpreted under the target unit.
	if !strings.Contains(got, `width="200pt"`) || !strings.Contains(got, `height="100pt"`) {
		t.Errorf("Optimize() = %q", got)
	}
}

func TestUnitNormalizerCustomUnit(t *testing.T) {
	in := `<svg viewBox="0 0 10 20"/>`
	out, err := NewUnitNormalizer("mm").Optimize([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `width="10mm"`) {
		t.Errorf("Optimize() = %q", out)
	}
}

func TestUnitNormalizerPassThrough(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no svg tag", `<html><body>not an svg</body></html>`},
		{"no dimensions", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`},
		{"percent width", `<svg width="100%" height="auto"></svg>`},
		{"malformed viewBox", `<svg viewBox="0 0 100"></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewUnitNormalizer("").Optimize([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.in {
				t.Errorf("Optimize() = %q, want unchanged", out)
			}
		})
	}
}

func TestUnitNormalizerViewBoxWithCommas(t *testing.T) {
	in := `<svg viewBox="0,0,42,24"></svg>`
	out, err := NewUnitNormalizer("").Optimize([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `width="42pt"`) {
		t.Errorf("Optimize() = %q", out)
	}
}

func TestSetTagAttr(t *testing.T) {
	tests := []struct {
		name, tag, attr, value, want string
	}{
		{"replace", `<svg width="5">`, "width", "9pt", `<svg width="9pt">`},
		{"insert", `<svg>`, "width", "9pt", `<svg width="9pt">`},
		{"self-closing", `<svg/>`, "width", "9pt", `<svg width="9pt"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := setTagAttr(tt.tag, tt.attr, tt.value); got != tt.want {
				t.Errorf("setTagAttr() = %q, want %q", got, tt.want)
			}
		})
	}
}
