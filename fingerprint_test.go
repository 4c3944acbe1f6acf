package tex2html

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprintInsertionOrderPreserved(t *testing.T) {
	fp := NewFingerprint()
	fp.Set("file:main.tex", "aaa")
	fp.Set("input:chapter", "bbb")
	fp.Set("graphics:figure", "ccc")

	got := fp.Keys()
	want := []string{"file:main.tex", "input:chapter", "graphics:figure"}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFingerprintFirstValueWins(t *testing.T) {
	fp := NewFingerprint()
	fp.Set("input:chapter", "first")
	fp.Set("input:chapter", "second")

	if got := fp.Hash("input:chapter"); got != "first" {
		t.Errorf("Hash() = %q, want %q", got, "first")
	}
	if fp.Len() != 1 {
		t.Errorf("Len() = %d, want 1", fp.Len())
	}
}

func TestFingerprintSerialization(t *testing.T) {
	nested := NewFingerprint()
	nested.Set("sub:a.png", "111")
	nested.Set("sub:b.png", "222")

	fp := NewFingerprint()
	fp.Set("file:main.tex", "aaa")
	fp.SetNested("graphics:figs", nested)

	want := "file:main.tex=aaa\ngraphics:figs={\n  sub:a.png=111\n  sub:b.png=222\n}\n"
	if got := fp.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// Serialization is order-sensitive on purpose: the cache compares sidecar
// bytes exactly, and a reordered but semantically equal fingerprint must
// count as a miss.
func TestFingerprintSerializationOrderSensitive(t *testing.T) {
	a := NewFingerprint()
	a.Set("file:main.tex", "aaa")
	a.Set("input:chapter", "bbb")

	b := NewFingerprint()
	b.Set("input:chapter", "bbb")
	b.Set("file:main.tex", "aaa")

	if !a.Equal(b) {
		t.Error("Equal() = false, want true for same entries in different order")
	}
	if a.String() == b.String() {
		t.Error("String() should differ when insertion order differs")
	}
}

func TestFingerprintEqual(t *testing.T) {
	build := func() *Fingerprint {
		nested := NewFingerprint()
		nested.Set("sub:x", "1")
		fp := NewFingerprint()
		fp.Set("file:a", "h")
		fp.SetNested("dir:d", nested)
		return fp
	}

	a, b := build(), build()
	if !a.Equal(b) {
		t.Error("Equal() = false for identical fingerprints")
	}

	b.Set("input:extra", "zzz")
	if a.Equal(b) {
		t.Error("Equal() = true after adding an entry")
	}
}

func TestFingerprintWriteFile(t *testing.T) {
	fp := NewFingerprint()
	fp.Set("file:main.tex", "abc")

	path := filepath.Join(t.TempDir(), "main"+FingerprintExtension)
	if err := fp.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	if string(data) != fp.String() {
		t.Errorf("sidecar = %q, want %q", data, fp.String())
	}
	if !strings.HasSuffix(path, ".fingerprint") {
		t.Errorf("unexpected sidecar extension: %s", path)
	}
}
