package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert LaTeX or markdown files to HTML")
	fmt.Fprintln(w, "  doctor     Check external tool availability")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tex2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2html convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert LaTeX or markdown files to HTML. Embedded diagram blocks are")
	fmt.Fprintln(w, "compiled to SVG; unchanged sources are restored from the build cache.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Source file or directory (.tex, .md, .markdown)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build Cache:")
	fmt.Fprintln(w, "      --cache-dir <path>     Build cache directory (\"\" = no cache)")
	fmt.Fprintln(w, "      --rebuild              Rebuild artifacts even when they exist")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --assets-root <path>   Asset root for public paths")
	fmt.Fprintln(w, "      --asset-dir <path>     Additional image search directory (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extraction:")
	fmt.Fprintln(w, "      --extract <name>       Block environment to extract (repeatable)")
	fmt.Fprintln(w, "      --extract-package <s>  Package for standalone documents (repeatable)")
	fmt.Fprintln(w, "      --extract-dir <path>   Directory for extracted images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tools:")
	fmt.Fprintln(w, "      --latex <tool>         LaTeX compiler (default latexmk)")
	fmt.Fprintln(w, "      --pdf2svg <tool>       PDF to SVG converter (default pdf2svg)")
	fmt.Fprintln(w, "      --pandoc <tool>        Markup converter (default pandoc)")
	fmt.Fprintln(w, "      --katex <tool>         Math renderer (\"\" = delimiter passthrough)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SVG:")
	fmt.Fprintln(w, "      --svg-unit <unit>      Physical unit for dimensions (default pt)")
	fmt.Fprintln(w, "      --no-optimize          Skip SVG post-processing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show detailed timing and build events")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: tex2html doctor [--json] [--config <name>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that the external tools are installed and the system is ready.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: tex2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: tex2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
