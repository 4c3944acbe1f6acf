package tex2html

import (
	"crypto/md5" // #nosec G401 -- content fingerprinting, not security
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// targetCharset restricts directive targets to path-safe characters.
// Letters (including extended Latin), digits, and / , . - : _ only.
const targetCharset = `[0-9A-Za-zÀ-ÖØ-öø-ÿ/,.:_-]+`

// IncludeRule describes one class of cross-file reference syntax, e.g. how
// \input{chapter} or \includegraphics{figure} point at another file.
// A rule is immutable once constructed.
type IncludeRule struct {
	// Directive is matched literally in source as \<Directive>[opts]{target}.
	Directive string

	// Directories are candidate search locations, resolved against the base
	// directory first and then taken as-is.
	Directories []string

	// Extensions are tried in order after an exact-name probe.
	Extensions []string

	// Exclude lists target names that are never followed (e.g. standard
	// package names that do not live in the source tree).
	Exclude []string

	// TargetIsDirectory hashes the target's immediate children instead of
	// treating the target as a single file.
	TargetIsDirectory bool

	// ResolvesRecursively parses the target for further includes instead of
	// hashing it as an opaque leaf.
	ResolvesRecursively bool
}

// standardPackages are LaTeX packages assumed to come from the TeX
// distribution rather than the source tree. Hashing them would tie
// fingerprints to the installation, not the document.
var standardPackages = []string{
	"amsmath", "amssymb", "amsthm", "amsfonts",
	"babel", "fontenc", "inputenc", "geometry", "graphicx",
	"hyperref", "tikz", "pgfplots", "xcolor", "booktabs",
}

// DefaultIncludeRules returns the fixed rule set for LaTeX sources:
// \input and \include are parsed recursively, packages, classes and
// bibliographies are hashed as leaves.
func DefaultIncludeRules() []IncludeRule {
	return []IncludeRule{
		{Directive: "input", Extensions: []string{".tex"}, ResolvesRecursively: true},
		{Directive: "include", Extensions: []string{".tex"}, ResolvesRecursively: true},
		{Directive: "usepackage", Extensions: []string{".sty"}, Exclude: standardPackages},
		{Directive: "documentclass", Extensions: []string{".cls"}, Exclude: []string{"article", "book", "report", "beamer", "standalone", "minimal"}},
		{Directive: "bibliography", Extensions: []string{".bib"}},
	}
}

// GraphicsRule returns the parameterized rule for \includegraphics, searching
// the given directories. Graphics are hashed as leaves.
func GraphicsRule(directories ...string) IncludeRule {
	return IncludeRule{
		Directive:   "includegraphics",
		Directories: directories,
		Extensions:  []string{".pdf", ".png", ".jpeg", ".jpg", ".eps", ".svg"},
	}
}

// compiledRule pairs a rule with its precompiled directive pattern.
type compiledRule struct {
	IncludeRule
	pattern *regexp.Regexp
	exclude map[string]bool
}

// ChecksumCalculator computes content fingerprints for a source file and its
// transitively included dependencies. Configured once, reused across calls.
type ChecksumCalculator struct {
	rules  []compiledRule
	logger *slog.Logger
}

// CalculatorOption configures a ChecksumCalculator.
type CalculatorOption func(*ChecksumCalculator)

// WithCalculatorLogger sets the logger used for resolution events.
func WithCalculatorLogger(l *slog.Logger) CalculatorOption {
	return func(c *ChecksumCalculator) { c.logger = l }
}

// NewChecksumCalculator creates a calculator for the given rule set.
// Pass DefaultIncludeRules() plus GraphicsRule(...) for LaTeX sources.
func NewChecksumCalculator(rules []IncludeRule, opts ...CalculatorOption) *ChecksumCalculator {
	c := &ChecksumCalculator{logger: slog.Default()}
	for _, r := range rules {
		cr := compiledRule{
			IncludeRule: r,
			pattern:     compileDirectivePattern(r.Directive),
			exclude:     make(map[string]bool, len(r.Exclude)),
		}
		for _, name := range r.Exclude {
			cr.exclude[name] = true
		}
		c.rules = append(c.rules, cr)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// compileDirectivePattern builds the scan pattern for one directive:
// a backslash, the literal directive name, optional bracketed options
// (content ignored), and a braced target restricted to path-safe characters.
func compileDirectivePattern(directive string) *regexp.Regexp {
	return regexp.MustCompile(`\\` + regexp.QuoteMeta(directive) + `(?:\[[^\]]*\])?\{(` + targetCharset + `)\}`)
}

// ComputeFingerprint computes the fingerprint of sourcePath and every
// dependency reachable through the configured rules. baseDirectory may be
// empty; it anchors relative rule directories and recursive resolution.
//
// The result is a pure function of file contents and file existence.
// Unresolvable references are omitted, never errors; only an unreadable
// source file aborts the computation.
func (c *ChecksumCalculator) ComputeFingerprint(sourcePath, baseDirectory string) (*Fingerprint, error) {
	return c.compute(sourcePath, baseDirectory, make(map[string]bool))
}

func (c *ChecksumCalculator) compute(sourcePath, baseDirectory string, seen map[string]bool) (*Fingerprint, error) {
	data, err := os.ReadFile(sourcePath) // #nosec G304 -- caller-supplied source path by design
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	if abs, absErr := filepath.Abs(sourcePath); absErr == nil {
		seen[abs] = true
	}

	fp := NewFingerprint()
	fp.Set("file:"+filepath.Base(sourcePath), hashText(data))

	text := string(data)
	for i := range c.rules {
		rule := &c.rules[i]
		for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
			target := m[1]
			key := rule.Directive + ":" + target
			// First match wins; duplicates and excluded targets are no-ops.
			if fp.Has(key) || rule.exclude[target] {
				continue
			}
			if err := c.addDependency(fp, key, rule, target, sourcePath, baseDirectory, seen); err != nil {
				return nil, err
			}
		}
	}
	return fp, nil
}

// addDependency resolves one directive target and records its hash (or nested
// fingerprint) under key. A target that resolves nowhere is silently omitted:
// a missing optional dependency must not block checksum computation.
func (c *ChecksumCalculator) addDependency(fp *Fingerprint, key string, rule *compiledRule, target, sourcePath, baseDirectory string, seen map[string]bool) error {
	if rule.TargetIsDirectory {
		dir, ok := c.resolveDirectory(rule, target, sourcePath, baseDirectory)
		if !ok {
			c.logger.Debug("include target not found", "directive", rule.Directive, "target", target)
			return nil
		}
		nested, err := c.hashDirectory(dir, rule, baseDirectory, seen)
		if err != nil {
			return err
		}
		fp.SetNested(key, nested)
		return nil
	}

	resolved, ok := c.resolveFile(rule, target, sourcePath, baseDirectory)
	if !ok {
		c.logger.Debug("include target not found", "directive", rule.Directive, "target", target)
		return nil
	}
	if rule.ResolvesRecursively {
		if abs, err := filepath.Abs(resolved); err == nil && seen[abs] {
			return nil // circular include, already covered
		}
		nested, err := c.compute(resolved, baseDirectory, seen)
		if err != nil {
			return err
		}
		fp.SetNested(key, nested)
		return nil
	}
	data, err := os.ReadFile(resolved) // #nosec G304 -- resolved from configured search dirs
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	fp.Set(key, hashText(data))
	return nil
}

// hashDirectory fingerprints the immediate children of dir. Regular files
// are hashed by content under sub:<name>; with ResolvesRecursively each child
// gets a full nested fingerprint instead. Subdirectories are skipped.
func (c *ChecksumCalculator) hashDirectory(dir string, rule *compiledRule, baseDirectory string, seen map[string]bool) (*Fingerprint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	fp := NewFingerprint()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		if rule.ResolvesRecursively {
			nested, err := c.compute(child, baseDirectory, seen)
			if err != nil {
				return nil, err
			}
			fp.SetNested("sub:"+entry.Name(), nested)
			continue
		}
		data, err := os.ReadFile(child) // #nosec G304 -- listed from resolved directory
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
		}
		fp.Set("sub:"+entry.Name(), hashText(data))
	}
	return fp, nil
}

// searchDirectories returns candidate directories in resolution order:
// bare name, the base directory, rule directories anchored to the base,
// rule directories as given, and finally the source file's own directory.
func (c *ChecksumCalculator) searchDirectories(rule *compiledRule, sourcePath, baseDirectory string) []string {
	dirs := []string{""}
	if baseDirectory != "" {
		dirs = append(dirs, baseDirectory)
	}
	if baseDirectory != "" {
		for _, d := range rule.Directories {
			dirs = append(dirs, filepath.Join(baseDirectory, d))
		}
	}
	dirs = append(dirs, rule.Directories...)
	if sourceDir := filepath.Dir(sourcePath); sourceDir != baseDirectory {
		dirs = append(dirs, sourceDir)
	}
	return dirs
}

// resolveFile probes each search directory with each extension (exact name
// first) and returns the first existing regular file.
func (c *ChecksumCalculator) resolveFile(rule *compiledRule, target, sourcePath, baseDirectory string) (string, bool) {
	extensions := append([]string{""}, rule.Extensions...)
	for _, dir := range c.searchDirectories(rule, sourcePath, baseDirectory) {
		for _, ext := range extensions {
			if ext != "" && strings.HasSuffix(target, ext) {
				continue
			}
			candidate := filepath.Join(dir, target+ext)
			if dir == "" {
				candidate = target + ext
			}
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

// resolveDirectory returns the first existing directory matching target.
func (c *ChecksumCalculator) resolveDirectory(rule *compiledRule, target, sourcePath, baseDirectory string) (string, bool) {
	for _, dir := range c.searchDirectories(rule, sourcePath, baseDirectory) {
		candidate := filepath.Join(dir, target)
		if dir == "" {
			candidate = target
		}
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// hashText returns the hex-encoded 128-bit content digest of data.
// The only contract is run-to-run stability for identical bytes.
func hashText(data []byte) string {
	sum := md5.Sum(data) // #nosec G401 -- content fingerprinting, not security
	return hex.EncodeToString(sum[:])
}
