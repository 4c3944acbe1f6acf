package tex2html

import "errors"

// Sentinel errors for library operations.
var (
	// Source reading errors.
	ErrSourceRead  = errors.New("failed to read source file")
	ErrEmptySource = errors.New("source content cannot be empty")

	// Fingerprint errors.
	ErrFingerprintWrite = errors.New("failed to write fingerprint sidecar")

	// Cache errors.
	ErrCacheRestore = errors.New("failed to restore cached artifact")

	// Extraction errors.
	ErrEmptyBlockName = errors.New("block name cannot be empty")
	ErrExtractWrite   = errors.New("failed to write extracted document")

	// Markup tree errors.
	ErrMarkupParse   = errors.New("failed to parse markup")
	ErrFragmentParse = errors.New("failed to parse markup fragment")
	ErrDetachedNode  = errors.New("element is detached from the tree")
	ErrMarkupRender  = errors.New("failed to render markup")
)
