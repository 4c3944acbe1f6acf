package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tex2html "github.com/alnah/go-tex2html"
	"github.com/alnah/go-tex2html/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrInvalidExtension = errors.New("file must have a .tex, .md, or .markdown extension")
	ErrWriteOutput      = errors.New("failed to write output file")
	ErrConversionFailed = errors.New("conversion produced no output")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Images     int
	Err        error
	Duration   time.Duration
}

// pipeline holds one transformer per input format, sharing the same SVG
// builder, resolver, and math renderer.
type pipeline struct {
	latex    *tex2html.DocumentTransformer
	markdown *tex2html.DocumentTransformer
}

// transformerFor selects the transformer by input extension.
func (p *pipeline) transformerFor(inputPath string) *tex2html.DocumentTransformer {
	switch filepath.Ext(inputPath) {
	case ".md", ".markdown":
		return p.markdown
	default:
		return p.latex
	}
}

// runConvert orchestrates the conversion process.
func runConvert(positionalArgs []string, flags *convertFlags, env *Environment) error {
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	mergeFlags(flags, cfg)

	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	inputPath := positionalArgs[0]

	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no convertible files found in %s", inputPath)
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	assetRoot, err := resolveAssetRoot(cfg, inputPath)
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg, assetRoot, logger)
	if err != nil {
		return err
	}

	results := make([]ConversionResult, len(files))
	for i, f := range files {
		results[i] = convertFile(p, f)
	}

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.cache.dir != "" {
		cfg.Cache.Dir = flags.cache.dir
	}
	if flags.cache.rebuild {
		cfg.Cache.Rebuild = true
	}

	if flags.assets.root != "" {
		cfg.Assets.Root = flags.assets.root
	}
	if len(flags.assets.extraDirs) > 0 {
		cfg.Assets.ExtraDirs = append(cfg.Assets.ExtraDirs, flags.assets.extraDirs...)
	}

	if len(flags.extract.blocks) > 0 {
		cfg.Extract.Blocks = flags.extract.blocks
	}
	if len(flags.extract.packages) > 0 {
		cfg.Extract.Packages = flags.extract.packages
	}
	if flags.extract.dir != "" {
		cfg.Extract.Dir = flags.extract.dir
	}

	if flags.tools.latex != "" {
		cfg.Tools.Latex = flags.tools.latex
	}
	if flags.tools.pdf2svg != "" {
		cfg.Tools.Pdf2Svg = flags.tools.pdf2svg
	}
	if flags.tools.pandoc != "" {
		cfg.Tools.Pandoc = flags.tools.pandoc
	}
	if flags.tools.katex != "" {
		cfg.Tools.Katex = flags.tools.katex
	}

	if flags.svg.unit != "" {
		cfg.Svg.Unit = flags.svg.unit
	}
	if flags.svg.noOptimize {
		cfg.Svg.Optimize = false
	}
}

// newLogger builds the pipeline logger from the output mode flags.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveAssetRoot determines the public path root: config wins, otherwise
// the input directory.
func resolveAssetRoot(cfg *config.Config, inputPath string) (string, error) {
	if cfg.Assets.Root != "" {
		return cfg.Assets.Root, nil
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", tex2html.ErrSourceRead, err)
	}
	if info.IsDir() {
		return inputPath, nil
	}
	return filepath.Dir(inputPath), nil
}

// buildPipeline wires the builders, extractors, resolver, and math renderer
// from config into one transformer per input format.
func buildPipeline(cfg *config.Config, assetRoot string, logger *slog.Logger) (*pipeline, error) {
	compiler := tex2html.NewLatexCompiler(cfg.Tools.Latex)
	pdfBuilder := tex2html.NewPdfBuilder(compiler,
		tex2html.WithPdfRebuild(cfg.Cache.Rebuild),
		tex2html.WithPdfCleanAux(true),
		tex2html.WithPdfLogger(logger),
	)
	svgBuilder := tex2html.NewSvgBuilder(pdfBuilder, tex2html.NewPdf2SvgConverter(cfg.Tools.Pdf2Svg),
		tex2html.WithSvgRebuild(cfg.Cache.Rebuild),
		tex2html.WithSvgOptimization(cfg.Svg.Optimize),
		tex2html.WithSvgUnit(cfg.Svg.Unit),
		tex2html.WithSvgLogger(logger),
	)

	cacheDir := func(string) string { return cfg.Cache.Dir }

	extractors := make([]*tex2html.ImageExtractor, 0, len(cfg.Extract.Blocks))
	for _, block := range cfg.Extract.Blocks {
		opts := []tex2html.ExtractorOption{
			tex2html.WithContentRenderer(tex2html.StandaloneRenderer(cfg.Extract.Packages...)),
			tex2html.WithExtractorCacheDir(cacheDir),
			tex2html.WithExtractorLogger(logger),
		}
		if cfg.Extract.Dir != "" {
			dir := cfg.Extract.Dir
			opts = append(opts, tex2html.WithTargetDir(func(string) string { return dir }))
		}
		ex, err := tex2html.NewImageExtractor(block, svgBuilder, opts...)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, ex)
	}

	resolverOpts := []tex2html.AssetResolverOption{
		tex2html.WithResolverCacheDir(cacheDir),
		tex2html.WithResolverLogger(logger),
	}
	if len(cfg.Assets.ExtraDirs) > 0 {
		resolverOpts = append(resolverOpts, tex2html.WithExtraDirs(cfg.Assets.ExtraDirs...))
	}
	if cfg.Extract.Dir != "" {
		resolverOpts = append(resolverOpts, tex2html.WithOutputDirs(cfg.Extract.Dir))
	}
	resolver := tex2html.NewAssetResolver(svgBuilder, assetRoot, resolverOpts...)

	var math tex2html.MathRenderer = tex2html.NewDelimiterRenderer()
	if cfg.Tools.Katex != "" {
		math = tex2html.NewKatexRenderer(cfg.Tools.Katex)
	}

	pandoc := tex2html.NewPandocConverter(tex2html.WithPandocLogger(logger))
	if cfg.Tools.Pandoc != "" {
		pandoc.Tool = cfg.Tools.Pandoc
	}

	return &pipeline{
		latex: tex2html.NewDocumentTransformer(pandoc,
			tex2html.WithExtractors(extractors...),
			tex2html.WithImageResolver(resolver),
			tex2html.WithMathRenderer(math),
			tex2html.WithTransformLogger(logger),
		),
		markdown: tex2html.NewDocumentTransformer(tex2html.NewGoldmarkConverter(),
			tex2html.WithImageResolver(resolver),
			tex2html.WithMathRenderer(math),
			tex2html.WithTransformLogger(logger),
		),
	}, nil
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.Dir
}

// discoverFiles finds all convertible files under inputPath.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !convertibleExtension(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !convertibleExtension(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// convertibleExtension reports whether path is a source document.
func convertibleExtension(path string) bool {
	switch filepath.Ext(path) {
	case ".tex", ".md", ".markdown":
		return true
	}
	return false
}

// resolveOutputPath determines the HTML output path for a source file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".html")
	}

	if strings.HasSuffix(outputDir, ".html") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".html")
		}
	}

	return filepath.Join(outputDir, base+".html")
}

// convertFile processes a single file and returns the result.
func convertFile(p *pipeline, f FileToConvert) (result ConversionResult) {
	start := time.Now()
	result = ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	defer func() { result.Duration = time.Since(start) }()

	transformed, err := p.transformerFor(f.InputPath).Transform(f.InputPath, "")
	if err != nil {
		result.Err = err
		return result
	}
	if transformed.Document == nil {
		result.Err = ErrConversionFailed
		return result
	}
	result.Images = len(transformed.Images)

	html, err := transformed.Document.Render()
	if err != nil {
		result.Err = err
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return result
	}
	// #nosec G306 -- generated HTML is meant to be readable
	if err := os.WriteFile(f.OutputPath, []byte(html), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return result
	}

	return result
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d images, %v)\n",
				r.InputPath, r.OutputPath, r.Images, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
