package tex2html

import (
	"path/filepath"
	"testing"
)

func newTestResolver(t *testing.T, assetRoot string, opts ...AssetResolverOption) *AssetResolver {
	t.Helper()
	svg := newTestSvgBuilder(&mockCompiler{}, &mockPdfConverter{})
	return NewAssetResolver(svg, assetRoot, opts...)
}

func TestResolveUnderAssetRoot(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "doc.tex")
	writeFile(t, filepath.Join(root, "test.png"), "png bytes")

	r := newTestResolver(t, root)
	ri, ok := r.Resolve(source, "test.png")
	if !ok {
		t.Fatal("Resolve() = false for existing asset")
	}
	if ri.PublicPath != "/test.png" {
		t.Errorf("PublicPath = %q, want /test.png", ri.PublicPath)
	}
	if ri.OriginalRef != "test.png" {
		t.Errorf("OriginalRef = %q", ri.OriginalRef)
	}
}

func TestResolveNestedPublicPath(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "doc.tex")
	writeFile(t, filepath.Join(root, "figs", "plot.svg"), "<svg/>")

	r := newTestResolver(t, root)
	ri, ok := r.Resolve(source, "figs/plot.svg")
	if !ok {
		t.Fatal("Resolve() = false")
	}
	if ri.PublicPath != "/figs/plot.svg" {
		t.Errorf("PublicPath = %q", ri.PublicPath)
	}
}

func TestResolveExtensionProbing(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "doc.tex")
	writeFile(t, filepath.Join(root, "diagram.svg"), "<svg/>")

	r := newTestResolver(t, root)
	ri, ok := r.Resolve(source, "diagram")
	if !ok {
		t.Fatal("Resolve() = false for extensionless reference")
	}
	if filepath.Ext(ri.SourcePath) != ".svg" {
		t.Errorf("SourcePath = %q, want .svg resolution", ri.SourcePath)
	}
}

func TestResolveExtraDirs(t *testing.T) {
	root := t.TempDir()
	extra := t.TempDir()
	source := filepath.Join(root, "doc.tex")
	writeFile(t, filepath.Join(extra, "shared.png"), "png")

	r := newTestResolver(t, root, WithExtraDirs(extra))
	ri, ok := r.Resolve(source, "shared.png")
	if !ok {
		t.Fatal("Resolve() = false for asset in extra dir")
	}
	// Outside the asset root: public path falls back to the base name.
	if ri.PublicPath != "/shared.png" {
		t.Errorf("PublicPath = %q", ri.PublicPath)
	}
}

func TestResolveMissingReference(t *testing.T) {
	root := t.TempDir()
	r := newTestResolver(t, root)
	if _, ok := r.Resolve(filepath.Join(root, "doc.tex"), "nowhere.png"); ok {
		t.Error("Resolve() = true for missing asset")
	}
}

func TestResolveSkipsURLs(t *testing.T) {
	r := newTestResolver(t, t.TempDir())
	if _, ok := r.Resolve("doc.tex", "https://example.com/x.png"); ok {
		t.Error("Resolve() = true for remote URL")
	}
}

func TestResolveBuiltArtifactMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tikzpicture-1.svg"), "<svg/>")

	r := newTestResolver(t, root)
	ri, ok := r.Resolve(filepath.Join(root, "doc.tex"), "file://"+filepath.Join(root, "tikzpicture-1.svg"))
	if !ok {
		t.Fatal("Resolve() = false for built artifact marker")
	}
	if ri.PublicPath != "/tikzpicture-1.svg" {
		t.Errorf("PublicPath = %q", ri.PublicPath)
	}
}

func TestResolveTexReferenceBuilds(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "doc.tex")
	writeFile(t, filepath.Join(root, "figure.tex"), `\begin{tikzpicture}\end{tikzpicture}`)

	r := newTestResolver(t, root)
	ri, ok := r.Resolve(source, "figure.tex")
	if !ok {
		t.Fatal("Resolve() = false for buildable .tex reference")
	}
	if filepath.Ext(ri.SourcePath) != ".svg" {
		t.Errorf("SourcePath = %q, want built SVG", ri.SourcePath)
	}
	if ri.PublicPath != "/figure.svg" {
		t.Errorf("PublicPath = %q", ri.PublicPath)
	}
}

func TestResolveTexReferenceBuildFailure(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "doc.tex")
	writeFile(t, filepath.Join(root, "figure.tex"), "broken")

	svg := newTestSvgBuilder(&mockCompiler{fail: true}, &mockPdfConverter{})
	r := NewAssetResolver(svg, root)
	if _, ok := r.Resolve(source, "figure.tex"); ok {
		t.Error("Resolve() = true although the SVG build failed")
	}
}

func TestResolvePdfReferenceConverts(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "doc.tex")
	writeFile(t, filepath.Join(root, "scan.pdf"), "%PDF")

	r := newTestResolver(t, root)
	ri, ok := r.Resolve(source, "scan.pdf")
	if !ok {
		t.Fatal("Resolve() = false for convertible PDF")
	}
	if ri.PublicPath != "/scan.svg" {
		t.Errorf("PublicPath = %q", ri.PublicPath)
	}
}

func TestResolveCustomPublicPath(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "doc.tex")
	writeFile(t, filepath.Join(root, "x.png"), "png")

	r := newTestResolver(t, root, WithPublicPath(func(path string) string {
		return "https://cdn.example.com/" + filepath.Base(path)
	}))
	ri, ok := r.Resolve(source, "x.png")
	if !ok {
		t.Fatal("Resolve() = false")
	}
	if ri.PublicPath != "https://cdn.example.com/x.png" {
		t.Errorf("PublicPath = %q", ri.PublicPath)
	}
}
