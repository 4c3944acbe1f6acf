package tex2html

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// Compiler abstracts the external LaTeX compiler. Compile runs on
// sourceFileName inside workDir and returns the produced artifact path, or
// "" when compilation failed. cleanAux requests auxiliary file cleanup after
// a successful run.
type Compiler interface {
	Compile(workDir, sourceFileName string, cleanAux bool) (string, error)
	CleanAuxFiles(workDir string) error
}

// LatexCompiler invokes latexmk (or a compatible tool) through a CommandRunner.
type LatexCompiler struct {
	Tool   string // defaults to "latexmk"
	Runner CommandRunner
}

// NewLatexCompiler creates a compiler invoking the given tool with a real
// command runner. An empty tool name selects latexmk.
func NewLatexCompiler(tool string) *LatexCompiler {
	if tool == "" {
		tool = "latexmk"
	}
	return &LatexCompiler{Tool: tool, Runner: &ExecRunner{}}
}

// Compile builds sourceFileName into a PDF inside workDir.
// Returns "" with the underlying error when the tool fails; the caller
// decides whether that is fatal.
func (c *LatexCompiler) Compile(workDir, sourceFileName string, cleanAux bool) (string, error) {
	_, stderr, err := c.Runner.Run(workDir, c.Tool, "-pdf", "-interaction=nonstopmode", "-halt-on-error", sourceFileName)
	if err != nil {
		return "", fmt.Errorf("compiling %s: %s: %w", sourceFileName, tailOf(stderr, 512), err)
	}

	artifact := filepath.Join(workDir, replaceExt(sourceFileName, ".pdf"))
	if !fileutil.FileExists(artifact) {
		return "", fmt.Errorf("compiling %s: no PDF produced", sourceFileName)
	}

	if cleanAux {
		// Best effort: a failed cleanup never invalidates the artifact.
		_ = c.CleanAuxFiles(workDir)
	}
	return artifact, nil
}

// CleanAuxFiles removes auxiliary files left behind by the compiler.
func (c *LatexCompiler) CleanAuxFiles(workDir string) error {
	_, stderr, err := c.Runner.Run(workDir, c.Tool, "-c")
	if err != nil {
		return fmt.Errorf("cleaning aux files: %s: %w", tailOf(stderr, 256), err)
	}
	return nil
}

// PdfResult reports the outcome of one PdfBuilder call. An empty
// ArtifactPath means the build failed and downstream stages must skip the
// document.
type PdfResult struct {
	ArtifactPath    string
	FingerprintPath string
	Cached          bool
}

// PdfBuilder orchestrates PDF production: reuse an existing artifact, restore
// from the cache, or invoke the compiler and persist a fresh fingerprint.
type PdfBuilder struct {
	compiler        Compiler
	calculator      *ChecksumCalculator
	cache           *ArtifactCache
	rebuildIfExists bool
	cleanAux        bool
	logger          *slog.Logger
}

// PdfOption configures a PdfBuilder.
type PdfOption func(*PdfBuilder)

// WithPdfCalculator replaces the default calculator (LaTeX rules, graphics
// searched next to the source).
func WithPdfCalculator(calc *ChecksumCalculator) PdfOption {
	return func(b *PdfBuilder) { b.calculator = calc }
}

// WithPdfRebuild forces recompilation even when the target PDF exists.
func WithPdfRebuild(rebuild bool) PdfOption {
	return func(b *PdfBuilder) { b.rebuildIfExists = rebuild }
}

// WithPdfCleanAux requests auxiliary file cleanup after successful builds.
func WithPdfCleanAux(clean bool) PdfOption {
	return func(b *PdfBuilder) { b.cleanAux = clean }
}

// WithPdfLogger sets the logger for build and cache events.
func WithPdfLogger(l *slog.Logger) PdfOption {
	return func(b *PdfBuilder) { b.logger = l }
}

// NewPdfBuilder creates a builder around the given compiler.
func NewPdfBuilder(compiler Compiler, opts ...PdfOption) *PdfBuilder {
	b := &PdfBuilder{compiler: compiler, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.calculator == nil {
		rules := append(DefaultIncludeRules(), GraphicsRule())
		b.calculator = NewChecksumCalculator(rules, WithCalculatorLogger(b.logger))
	}
	if b.cache == nil {
		b.cache = NewArtifactCache(b.calculator, WithCacheLogger(b.logger))
	}
	return b
}

// Build produces the PDF for sourcePath. cacheDirectory may be empty (no
// cache consulted); cacheKeyName defaults to the source base name.
//
// Compiler failures are reported through the logger and returned as an empty
// ArtifactPath, never as an error: a document that cannot be built is skipped
// by downstream stages, not a crash. Errors are reserved for I/O failures
// with no safe degraded interpretation.
func (b *PdfBuilder) Build(sourcePath, cacheDirectory, cacheKeyName string) (PdfResult, error) {
	target := replaceExt(sourcePath, ".pdf")
	sidecar := replaceExt(sourcePath, FingerprintExtension)
	baseDir := filepath.Dir(sourcePath)

	// Existing artifact short-circuit. A missing sidecar is repaired in
	// place without rebuilding (self-healing after a crash between steps).
	if fileutil.FileExists(target) && !b.rebuildIfExists {
		if !fileutil.FileExists(sidecar) {
			fp, err := b.calculator.ComputeFingerprint(sourcePath, baseDir)
			if err != nil {
				return PdfResult{}, err
			}
			if err := fp.WriteFile(sidecar); err != nil {
				return PdfResult{}, err
			}
			b.logger.Info("repaired missing fingerprint sidecar", "sidecar", sidecar)
		}
		return PdfResult{ArtifactPath: target, FingerprintPath: sidecar, Cached: true}, nil
	}

	// Cache lookup. Equality is byte-for-byte on the canonical
	// serialization; any difference falls through to a rebuild.
	var entry *CacheEntry
	if cacheDirectory != "" {
		var err error
		entry, err = b.cache.Lookup(sourcePath, baseDir, cacheDirectory, cacheKeyName, ".pdf")
		if err != nil {
			return PdfResult{}, err
		}
		if entry.FullyCached {
			if err := b.cache.Restore(entry, target, sidecar); err != nil {
				return PdfResult{}, err
			}
			return PdfResult{ArtifactPath: target, FingerprintPath: sidecar, Cached: true}, nil
		}
	}

	artifact, err := b.compiler.Compile(baseDir, filepath.Base(sourcePath), b.cleanAux)
	if err != nil || artifact == "" {
		b.logger.Error("compilation failed", "source", sourcePath, "error", err)
		return PdfResult{}, nil
	}

	fingerprint := ""
	if entry != nil {
		fingerprint = entry.Fingerprint
	}
	if fingerprint == "" {
		fp, err := b.calculator.ComputeFingerprint(sourcePath, baseDir)
		if err != nil {
			return PdfResult{}, err
		}
		fingerprint = fp.String()
	}
	if err := os.WriteFile(sidecar, []byte(fingerprint), fileutil.FilePerm); err != nil {
		return PdfResult{}, fmt.Errorf("%w: %v", ErrFingerprintWrite, err)
	}

	if cacheDirectory != "" {
		key := cacheKeyName
		if key == "" {
			key = cacheKeyFor(sourcePath)
		}
		if err := b.cache.Store(cacheDirectory, key, artifact, sidecar); err != nil {
			b.logger.Warn("failed to populate cache", "source", sourcePath, "error", err)
		}
	}

	return PdfResult{ArtifactPath: artifact, FingerprintPath: sidecar, Cached: false}, nil
}

// replaceExt swaps the extension of path for ext (which includes the dot).
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
