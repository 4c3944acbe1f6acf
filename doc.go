// Package tex2html converts LaTeX source documents to HTML using external
// typesetting tools, with a checksum-based build cache for derived artifacts.
//
// # Quick Start
//
// Create a transformer and run it on a source file:
//
//	tr := tex2html.NewDocumentTransformer(
//	    tex2html.NewPandocConverter(),
//	    tex2html.WithMathRenderer(tex2html.NewDelimiterRenderer()),
//	)
//
//	result, err := tr.Transform("doc/main.tex", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html, _ := result.Document.Render()
//
// The result contains the parsed HTML tree and the list of image references
// resolved during the transform, in document order.
//
// # Transform Pipeline
//
// A transform runs these stages:
//
//  1. Image extraction: embedded block environments (e.g. tikzpicture) are
//     built into standalone SVGs and replaced by references to the artifacts.
//  2. Markup conversion via an external converter (pandoc by default, or the
//     built-in goldmark backend for Markdown sources).
//  3. Image reference resolution against an asset root.
//  4. Math rendering through a pluggable renderer.
//
// # Build Cache
//
// PdfBuilder and SvgBuilder skip rebuilds when a content fingerprint of the
// source and its transitive includes matches a sidecar file stored next to a
// previously built artifact:
//
//	pdf := tex2html.NewPdfBuilder(tex2html.NewLatexCompiler("latexmk"))
//	res, err := pdf.Build("doc/figure.tex", "/var/cache/tex", "")
//	if res.Cached {
//	    // compiler was never invoked
//	}
//
// Fingerprints are pure functions of file contents: no timestamps, no paths,
// no environment. Unresolvable include references are omitted rather than
// treated as errors, so a missing optional dependency never blocks a build.
//
// # Failure Policy
//
// External tool failures (compiler, converter) are reported through the
// injected logger and surface as absent artifact paths; downstream stages
// skip what could not be built and keep going. Only unreadable input and
// unwritable output abort a call.
//
// # Tool Requirements
//
// The default collaborators shell out to latexmk, pdf2svg, and pandoc. All of
// them are injectable, so tests and embedders can substitute their own.
package tex2html
