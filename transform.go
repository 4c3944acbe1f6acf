package tex2html

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ResolvedImage records one image reference resolved during a transform.
type ResolvedImage struct {
	OriginalRef string // the src as produced by the markup converter
	SourcePath  string // the file the reference resolved to
	PublicPath  string // the path written into the tree
}

// TransformResult is the outcome of one transform call. A nil Document means
// markup conversion failed; Images lists resolved references in document
// order.
type TransformResult struct {
	Document *Document
	Images   []ResolvedImage
}

// DocumentTransformer orchestrates the full pipeline: image extraction,
// markup conversion, image reference resolution, and math rendering.
// Configured once and reused across documents.
type DocumentTransformer struct {
	converter  MarkupConverter
	extractors []*ImageExtractor
	resolver   ImageSourceResolver
	math       MathRenderer
	logger     *slog.Logger
}

// TransformerOption configures a DocumentTransformer.
type TransformerOption func(*DocumentTransformer)

// WithExtractors sets the image extractors, applied in order. Later
// extractors see text already rewritten by earlier ones, so block names must
// not overlap.
func WithExtractors(extractors ...*ImageExtractor) TransformerOption {
	return func(t *DocumentTransformer) { t.extractors = extractors }
}

// WithImageResolver sets the image source resolver (nil leaves all image
// elements untouched).
func WithImageResolver(r ImageSourceResolver) TransformerOption {
	return func(t *DocumentTransformer) { t.resolver = r }
}

// WithMathRenderer replaces the default delimiter renderer.
func WithMathRenderer(r MathRenderer) TransformerOption {
	return func(t *DocumentTransformer) { t.math = r }
}

// WithTransformLogger sets the logger for pipeline events.
func WithTransformLogger(l *slog.Logger) TransformerOption {
	return func(t *DocumentTransformer) { t.logger = l }
}

// NewDocumentTransformer creates a transformer around the given converter.
func NewDocumentTransformer(converter MarkupConverter, opts ...TransformerOption) *DocumentTransformer {
	t := &DocumentTransformer{
		converter: converter,
		math:      NewDelimiterRenderer(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform runs the pipeline on sourcePath. sourceText may be supplied to
// skip the read; pass "" to load the file.
//
// A failed markup conversion returns an empty result (nil Document), not an
// error: the caller sees "no result" and decides what to do. Errors are
// reserved for I/O failures with no degraded interpretation, such as an
// unreadable source file.
func (t *DocumentTransformer) Transform(sourcePath, sourceText string) (*TransformResult, error) {
	if sourceText == "" {
		data, err := os.ReadFile(sourcePath) // #nosec G304 -- caller-supplied source path by design
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
		}
		sourceText = string(data)
	}

	for _, ex := range t.extractors {
		rewritten, err := ex.ExtractImages(sourceText, sourcePath)
		if err != nil {
			return nil, err
		}
		sourceText = rewritten
	}

	markup, err := t.converter.Convert(filepath.Dir(sourcePath), sourceText)
	if err != nil || markup == "" {
		t.logger.Error("markup conversion failed", "source", sourcePath, "error", err)
		return &TransformResult{}, nil
	}

	doc, err := ParseDocument(markup)
	if err != nil {
		return nil, err
	}

	result := &TransformResult{Document: doc}
	t.resolveImages(doc, sourcePath, result)
	t.renderMath(doc)
	return result, nil
}

// resolveImages rewrites img elements through the resolver and accumulates
// resolved references in encounter order. Elements the resolver declines are
// left exactly as produced by the converter, broken references included.
func (t *DocumentTransformer) resolveImages(doc *Document, sourcePath string, result *TransformResult) {
	if t.resolver == nil {
		return
	}
	for _, img := range doc.ElementsByTag("img") {
		src := img.Attr("src")
		if src == "" {
			continue
		}
		ri, ok := t.resolver.Resolve(sourcePath, src)
		if !ok {
			continue
		}
		img.SetAttr("src", ri.PublicPath)
		img.SetAttr("alt", imageAlt(ri.SourcePath))
		result.Images = append(result.Images, ri)
	}
}

// renderMath replaces each math span in place with the renderer's output.
// A renderer failure leaves that one span untouched and processing continues.
func (t *DocumentTransformer) renderMath(doc *Document) {
	if t.math == nil {
		return
	}
	for _, span := range doc.ElementsByTag("span") {
		if !span.HasClass("math") {
			continue
		}
		display := span.HasClass("display")
		rendered, err := t.math.Render(stripMathDelimiters(span.Text()), display)
		if err != nil {
			t.logger.Warn("math rendering failed", "expression", span.Text(), "error", err)
			continue
		}
		if err := span.ReplaceWith(rendered); err != nil {
			t.logger.Warn("math replacement failed", "error", err)
		}
	}
}

// imageAlt derives alt text from the resolved file's base name.
func imageAlt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// stripMathDelimiters removes MathJax-style \( \) and \[ \] wrappers the
// markup converter leaves around math expressions.
func stripMathDelimiters(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range [][2]string{{`\(`, `\)`}, {`\[`, `\]`}} {
		if strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) && len(s) >= len(pair[0])+len(pair[1]) {
			return strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}
