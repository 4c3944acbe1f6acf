package tex2html

import (
	"fmt"
	"strings"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// MathRenderer turns a math expression into a markup fragment.
type MathRenderer interface {
	Render(expression string, displayMode bool) (string, error)
}

// DelimiterRenderer emits MathJax-style delimited spans without invoking any
// external tool. The expression is rendered client-side.
type DelimiterRenderer struct{}

// NewDelimiterRenderer creates the no-tool fallback renderer.
func NewDelimiterRenderer() *DelimiterRenderer { return &DelimiterRenderer{} }

// Render wraps the expression in \( .. \) or \[ .. \] delimiters.
func (r *DelimiterRenderer) Render(expression string, displayMode bool) (string, error) {
	escaped := escapeMarkup(expression)
	if displayMode {
		return `<span class="math display">\[` + escaped + `\]</span>`, nil
	}
	return `<span class="math inline">\(` + escaped + `\)</span>`, nil
}

// KatexRenderer shells out to the katex CLI.
type KatexRenderer struct {
	Tool   string // defaults to "katex"
	Runner CommandRunner
}

// NewKatexRenderer creates a renderer with a real command runner.
func NewKatexRenderer(tool string) *KatexRenderer {
	if tool == "" {
		tool = "katex"
	}
	return &KatexRenderer{Tool: tool, Runner: &ExecRunner{}}
}

// Render produces KaTeX HTML for the expression.
func (r *KatexRenderer) Render(expression string, displayMode bool) (string, error) {
	path, cleanup, err := fileutil.WriteTempFile(expression, "tex")
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := []string{"--input", path}
	if displayMode {
		args = append(args, "--display-mode")
	}
	stdout, stderr, err := r.Runner.Run("", r.Tool, args...)
	if err != nil {
		return "", fmt.Errorf("rendering math: %s: %w", tailOf(stderr, 256), err)
	}
	return strings.TrimRight(stdout, "\n"), nil
}

// escapeMarkup escapes characters that would alter the surrounding tree.
func escapeMarkup(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
