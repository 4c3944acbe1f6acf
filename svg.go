package tex2html

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// PdfConverter abstracts the external PDF to SVG conversion tool.
// Convert is idempotent: a pre-existing output file is returned without
// reinvoking the tool.
type PdfConverter interface {
	Convert(workDir, pdfFileName string) (string, error)
}

// Pdf2SvgConverter invokes pdf2svg (or a compatible tool) through a
// CommandRunner.
type Pdf2SvgConverter struct {
	Tool   string // defaults to "pdf2svg"
	Runner CommandRunner
}

// NewPdf2SvgConverter creates a converter with a real command runner.
func NewPdf2SvgConverter(tool string) *Pdf2SvgConverter {
	if tool == "" {
		tool = "pdf2svg"
	}
	return &Pdf2SvgConverter{Tool: tool, Runner: &ExecRunner{}}
}

// Convert renders pdfFileName in workDir into a sibling SVG.
func (c *Pdf2SvgConverter) Convert(workDir, pdfFileName string) (string, error) {
	target := filepath.Join(workDir, replaceExt(pdfFileName, ".svg"))
	if fileutil.FileExists(target) {
		return target, nil
	}

	_, stderr, err := c.Runner.Run(workDir, c.Tool, pdfFileName, replaceExt(pdfFileName, ".svg"))
	if err != nil {
		return "", fmt.Errorf("converting %s: %s: %w", pdfFileName, tailOf(stderr, 256), err)
	}
	if !fileutil.FileExists(target) {
		return "", fmt.Errorf("converting %s: no SVG produced", pdfFileName)
	}
	return target, nil
}

// Optimizer is a pluggable SVG post-processing step.
type Optimizer interface {
	Optimize(svg []byte) ([]byte, error)
}

// SvgResult reports the outcome of one SvgBuilder call. An empty
// ArtifactPath means the build failed.
type SvgResult struct {
	ArtifactPath string
	Cached       bool
}

// SvgBuilder orchestrates SVG production: PDF build, PDF to SVG conversion,
// and an optimizer chain. Its "already exists" short-circuit is independent
// of the PDF builder's: an existing SVG is considered fresh without the PDF
// path ever being consulted.
type SvgBuilder struct {
	pdf             *PdfBuilder
	converter       PdfConverter
	optimizers      []Optimizer
	optimize        bool
	rebuildIfExists bool
	logger          *slog.Logger
}

// SvgOption configures an SvgBuilder.
type SvgOption func(*SvgBuilder)

// WithSvgRebuild forces reconversion even when the target SVG exists.
func WithSvgRebuild(rebuild bool) SvgOption {
	return func(b *SvgBuilder) { b.rebuildIfExists = rebuild }
}

// WithSvgOptimization toggles the optimizer chain (enabled by default).
func WithSvgOptimization(enabled bool) SvgOption {
	return func(b *SvgBuilder) { b.optimize = enabled }
}

// WithSvgOptimizers appends optimizers after the built-in unit normalizer.
func WithSvgOptimizers(opts ...Optimizer) SvgOption {
	return func(b *SvgBuilder) { b.optimizers = append(b.optimizers, opts...) }
}

// WithSvgUnit sets the physical unit forced onto width/height attributes
// (default "pt").
func WithSvgUnit(unit string) SvgOption {
	return func(b *SvgBuilder) { b.optimizers[0] = NewUnitNormalizer(unit) }
}

// WithSvgLogger sets the logger for build and conversion events.
func WithSvgLogger(l *slog.Logger) SvgOption {
	return func(b *SvgBuilder) { b.logger = l }
}

// NewSvgBuilder creates a builder chaining pdfBuilder and converter.
// The unit normalizer is always the first optimizer; viewBox-only SVGs
// render inconsistently across embedding contexts without it.
func NewSvgBuilder(pdfBuilder *PdfBuilder, converter PdfConverter, opts ...SvgOption) *SvgBuilder {
	b := &SvgBuilder{
		pdf:        pdfBuilder,
		converter:  converter,
		optimizers: []Optimizer{NewUnitNormalizer("")},
		optimize:   true,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the SVG for sourcePath (a LaTeX file). Conversion failures
// surface as an empty ArtifactPath, not an error.
func (b *SvgBuilder) Build(sourcePath, cacheDirectory, cacheKeyName string) (SvgResult, error) {
	target := replaceExt(sourcePath, ".svg")
	if fileutil.FileExists(target) && !b.rebuildIfExists {
		return SvgResult{ArtifactPath: target, Cached: true}, nil
	}

	pdfRes, err := b.pdf.Build(sourcePath, cacheDirectory, cacheKeyName)
	if err != nil {
		return SvgResult{}, err
	}
	if pdfRes.ArtifactPath == "" {
		return SvgResult{}, nil
	}

	// A cached PDF with an existing SVG needs no reconversion.
	if pdfRes.Cached && fileutil.FileExists(target) {
		return SvgResult{ArtifactPath: target, Cached: true}, nil
	}

	return b.RenderPdf(pdfRes.ArtifactPath)
}

// RenderPdf converts an existing PDF into its sibling SVG and applies the
// optimizer chain. Used by Build and by image resolution when a reference
// names a raw PDF artifact.
func (b *SvgBuilder) RenderPdf(pdfPath string) (SvgResult, error) {
	svgPath, err := b.converter.Convert(filepath.Dir(pdfPath), filepath.Base(pdfPath))
	if err != nil || svgPath == "" {
		b.logger.Error("SVG conversion failed", "pdf", pdfPath, "error", err)
		return SvgResult{}, nil
	}

	if b.optimize {
		if err := b.optimizeFile(svgPath); err != nil {
			return SvgResult{}, err
		}
	}
	return SvgResult{ArtifactPath: svgPath, Cached: false}, nil
}

// optimizeFile runs the optimizer chain over the file in place.
func (b *SvgBuilder) optimizeFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- produced by the converter above
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	for _, opt := range b.optimizers {
		out, err := opt.Optimize(data)
		if err != nil {
			// A single optimizer failure degrades to the unoptimized
			// artifact rather than discarding the build.
			b.logger.Warn("optimizer failed", "svg", path, "error", err)
			continue
		}
		data = out
	}
	return os.WriteFile(path, data, fileutil.FilePerm)
}
