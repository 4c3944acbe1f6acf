package tex2html

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// ContentRenderer turns one extracted block into a complete standalone
// document. It receives the path the document will be written to and the raw
// matched text, letting callers inject preambles and packages.
type ContentRenderer func(extractedPath, blockText string) string

// DirResolver chooses the directory extracted documents are written to.
type DirResolver func(sourcePath string) string

// CacheDirResolver chooses the build cache directory for one extracted
// document. Returning "" disables caching for that build.
type CacheDirResolver func(extractedPath string) string

// StandaloneRenderer returns a ContentRenderer wrapping blocks in a minimal
// standalone document loading the given packages.
func StandaloneRenderer(packages ...string) ContentRenderer {
	return func(_, blockText string) string {
		var b strings.Builder
		b.WriteString("\\documentclass{standalone}\n")
		for _, pkg := range packages {
			b.WriteString("\\usepackage{" + pkg + "}\n")
		}
		b.WriteString("\\begin{document}\n")
		b.WriteString(blockText)
		b.WriteString("\n\\end{document}\n")
		return b.String()
	}
}

// ImageExtractor scans source text for one embedded block environment
// (\begin{name}...\end{name}), builds each occurrence into a standalone SVG,
// and rewrites the text to reference the built artifact. Run several
// extractors in sequence to support multiple embedded-diagram conventions;
// their block names must not overlap.
type ImageExtractor struct {
	blockName     string
	pattern       *regexp.Regexp
	svg           *SvgBuilder
	renderContent ContentRenderer
	targetDir     DirResolver
	cacheDir      CacheDirResolver
	logger        *slog.Logger
}

// ExtractorOption configures an ImageExtractor.
type ExtractorOption func(*ImageExtractor)

// WithContentRenderer replaces the standalone document renderer.
func WithContentRenderer(r ContentRenderer) ExtractorOption {
	return func(e *ImageExtractor) { e.renderContent = r }
}

// WithTargetDir replaces the extracted-document directory resolver
// (default: the source file's own directory).
func WithTargetDir(r DirResolver) ExtractorOption {
	return func(e *ImageExtractor) { e.targetDir = r }
}

// WithExtractorCacheDir sets the per-build cache directory resolver
// (default: no cache).
func WithExtractorCacheDir(r CacheDirResolver) ExtractorOption {
	return func(e *ImageExtractor) { e.cacheDir = r }
}

// WithExtractorLogger sets the logger for extraction events.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(e *ImageExtractor) { e.logger = l }
}

// NewImageExtractor creates an extractor for one block environment name.
func NewImageExtractor(blockName string, svg *SvgBuilder, opts ...ExtractorOption) (*ImageExtractor, error) {
	if blockName == "" {
		return nil, ErrEmptyBlockName
	}
	e := &ImageExtractor{
		blockName:     blockName,
		pattern:       compileBlockPattern(blockName),
		svg:           svg,
		renderContent: StandaloneRenderer("tikz"),
		targetDir:     func(sourcePath string) string { return filepath.Dir(sourcePath) },
		cacheDir:      func(string) string { return "" },
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// BlockName returns the environment name this extractor scans for.
func (e *ImageExtractor) BlockName() string { return e.blockName }

// compileBlockPattern matches one non-nested \begin{name}...\end{name} span.
func compileBlockPattern(name string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?s)\\begin\{` + quoted + `\}.*?\\end\{` + quoted + `\}`)
}

// ExtractImages builds every matched block and returns the rewritten text.
// Numbering restarts at zero on every call.
//
// Matches are located against the original immutable text while replacements
// accumulate in the result, so offsets stay valid. A block whose build fails
// is left unchanged and surfaces later as an unresolved reference; this is
// accepted degraded behavior, not a hard failure.
func (e *ImageExtractor) ExtractImages(sourceText, sourcePath string) (string, error) {
	matches := e.pattern.FindAllStringIndex(sourceText, -1)
	if len(matches) == 0 {
		return sourceText, nil
	}

	var out strings.Builder
	prev := 0
	for k, span := range matches {
		out.WriteString(sourceText[prev:span[0]])
		block := sourceText[span[0]:span[1]]

		artifact, err := e.buildBlock(block, sourcePath, k)
		if err != nil {
			return "", err
		}
		if artifact == "" {
			out.WriteString(block)
		} else {
			out.WriteString(`\includegraphics{file://` + artifact + `}`)
		}
		prev = span[1]
	}
	out.WriteString(sourceText[prev:])
	return out.String(), nil
}

// buildBlock materializes the k-th matched block on disk, builds it, and
// removes the temporary source regardless of outcome. Returns the absolute
// artifact path, or "" when the build failed.
func (e *ImageExtractor) buildBlock(block, sourcePath string, k int) (string, error) {
	dir := e.targetDir(sourcePath)
	if err := os.MkdirAll(dir, fileutil.DirPerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractWrite, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%d.tex", e.blockName, k+1))
	document := e.renderContent(path, block)
	if err := os.WriteFile(path, []byte(document), fileutil.FilePerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractWrite, err)
	}
	defer func() { _ = os.Remove(path) }()

	res, err := e.svg.Build(path, e.cacheDir(path), "")
	if err != nil {
		return "", err
	}
	if res.ArtifactPath == "" {
		e.logger.Warn("block image build failed", "block", e.blockName, "index", k, "source", sourcePath)
		return "", nil
	}

	abs, err := filepath.Abs(res.ArtifactPath)
	if err != nil {
		abs = res.ArtifactPath
	}
	return abs, nil
}
