package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// cacheFlags holds build cache flags.
type cacheFlags struct {
	dir     string
	rebuild bool
}

// assetFlags holds image resolution flags.
type assetFlags struct {
	root      string
	extraDirs []string
}

// extractFlags holds embedded-image extraction flags.
type extractFlags struct {
	blocks   []string
	packages []string
	dir      string
}

// toolFlags holds external tool override flags.
type toolFlags struct {
	latex   string
	pdf2svg string
	pandoc  string
	katex   string
}

// svgFlags holds SVG post-processing flags.
type svgFlags struct {
	unit       string
	noOptimize bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	cache   cacheFlags
	assets  assetFlags
	extract extractFlags
	tools   toolFlags
	svg     svgFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and build events")
}

// addCacheFlags adds build cache flags to a FlagSet.
func addCacheFlags(fs *flag.FlagSet, f *cacheFlags) {
	fs.StringVar(&f.dir, "cache-dir", "", "build cache directory (\"\" = no cache)")
	fs.BoolVar(&f.rebuild, "rebuild", false, "rebuild artifacts even when they exist")
}

// addAssetFlags adds image resolution flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.root, "assets-root", "", "asset root for public paths (\"\" = input directory)")
	fs.StringSliceVar(&f.extraDirs, "asset-dir", nil, "additional image search directory (repeatable)")
}

// addExtractFlags adds embedded-image extraction flags to a FlagSet.
func addExtractFlags(fs *flag.FlagSet, f *extractFlags) {
	fs.StringSliceVar(&f.blocks, "extract", nil, "block environment to extract as an image (repeatable)")
	fs.StringSliceVar(&f.packages, "extract-package", nil, "package loaded by standalone documents (repeatable)")
	fs.StringVar(&f.dir, "extract-dir", "", "directory for extracted images (\"\" = next to source)")
}

// addToolFlags adds external tool override flags to a FlagSet.
func addToolFlags(fs *flag.FlagSet, f *toolFlags) {
	fs.StringVar(&f.latex, "latex", "", "LaTeX compiler (default latexmk)")
	fs.StringVar(&f.pdf2svg, "pdf2svg", "", "PDF to SVG converter (default pdf2svg)")
	fs.StringVar(&f.pandoc, "pandoc", "", "markup converter (default pandoc)")
	fs.StringVar(&f.katex, "katex", "", "math renderer (\"\" = delimiter passthrough)")
}

// addSvgFlags adds SVG post-processing flags to a FlagSet.
func addSvgFlags(fs *flag.FlagSet, f *svgFlags) {
	fs.StringVar(&f.unit, "svg-unit", "", "physical unit for SVG dimensions (default pt)")
	fs.BoolVar(&f.noOptimize, "no-optimize", false, "skip SVG post-processing")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")

	addCommonFlags(fs, &f.common)
	addCacheFlags(fs, &f.cache)
	addAssetFlags(fs, &f.assets)
	addExtractFlags(fs, &f.extract)
	addToolFlags(fs, &f.tools)
	addSvgFlags(fs, &f.svg)

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
