package tex2html

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// MarkupConverter abstracts the external typesetting-to-markup converter.
// Convert runs in workDir on the given text and returns the markup, or ""
// when conversion failed. A failed conversion terminates a transform softly;
// it never raises across the component boundary.
type MarkupConverter interface {
	Convert(workDir, text string, extraArgs ...string) (string, error)
}

// PandocConverter converts LaTeX to HTML5 by invoking the pandoc CLI.
type PandocConverter struct {
	Tool   string // defaults to "pandoc"
	Header string // optional header prepended to the input text
	Runner CommandRunner
	logger *slog.Logger
}

// PandocOption configures a PandocConverter.
type PandocOption func(*PandocConverter)

// WithPandocHeader sets a header prepended to every input (e.g. macro
// definitions shared across documents).
func WithPandocHeader(header string) PandocOption {
	return func(c *PandocConverter) { c.Header = header }
}

// WithPandocLogger sets the logger for conversion failures.
func WithPandocLogger(l *slog.Logger) PandocOption {
	return func(c *PandocConverter) { c.logger = l }
}

// NewPandocConverter creates a converter with a real command runner.
func NewPandocConverter(opts ...PandocOption) *PandocConverter {
	c := &PandocConverter{Tool: "pandoc", Runner: &ExecRunner{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts LaTeX text to an HTML5 fragment with MathJax-delimited
// math. The text is written to a temporary file inside workDir so relative
// references keep resolving.
func (c *PandocConverter) Convert(workDir, text string, extraArgs ...string) (string, error) {
	if text == "" {
		return "", ErrEmptySource
	}
	if c.Header != "" {
		text = c.Header + "\n" + text
	}

	tmpPath, cleanup, err := writeWorkFile(workDir, text)
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := []string{filepath.Base(tmpPath), "-f", "latex", "-t", "html5", "--mathjax"}
	args = append(args, extraArgs...)

	stdout, stderr, err := c.Runner.Run(workDir, c.Tool, args...)
	if err != nil {
		if stderr != "" {
			return "", fmt.Errorf("converting to HTML: %s: %w", tailOf(stderr, 512), err)
		}
		return "", fmt.Errorf("converting to HTML: %w", err)
	}
	return stdout, nil
}

// writeWorkFile creates a temporary .tex file inside dir.
// Returns the file path and a cleanup function to remove the file.
func writeWorkFile(dir, content string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp(dir, "tex2html-*.tex")
	if err != nil {
		return "", nil, fmt.Errorf("creating work file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing work file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing work file: %w", closeErr)
	}

	return path, cleanup, nil
}
