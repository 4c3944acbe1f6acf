package tex2html

import (
	"fmt"
	"os"
	"strings"
)

// FingerprintExtension is the suffix of sidecar files stored beside built
// artifacts.
const FingerprintExtension = ".fingerprint"

// Fingerprint maps textual keys to content hashes or nested fingerprints
// (for directory targets). Keys are namespaced by kind: file:<name> for the
// root document, <directive>:<target> for dependencies, sub:<name> for
// directory entries.
//
// Key order is first-insertion order and is preserved by serialization.
// The cache compares serializations byte-for-byte, so this order must never
// vary between runs for identical input.
type Fingerprint struct {
	keys    []string
	entries map[string]fingerprintEntry
}

type fingerprintEntry struct {
	hash   string
	nested *Fingerprint
}

// NewFingerprint returns an empty fingerprint.
func NewFingerprint() *Fingerprint {
	return &Fingerprint{entries: make(map[string]fingerprintEntry)}
}

// Set records a hash under key. The first value for a key wins; setting an
// existing key is a no-op.
func (f *Fingerprint) Set(key, hash string) {
	if f.Has(key) {
		return
	}
	f.keys = append(f.keys, key)
	f.entries[key] = fingerprintEntry{hash: hash}
}

// SetNested records a nested fingerprint under key, first value wins.
func (f *Fingerprint) SetNested(key string, nested *Fingerprint) {
	if f.Has(key) {
		return
	}
	f.keys = append(f.keys, key)
	f.entries[key] = fingerprintEntry{nested: nested}
}

// Has reports whether key is present.
func (f *Fingerprint) Has(key string) bool {
	_, ok := f.entries[key]
	return ok
}

// Hash returns the hash stored under key, or "" for absent or nested keys.
func (f *Fingerprint) Hash(key string) string {
	return f.entries[key].hash
}

// Nested returns the nested fingerprint under key, or nil.
func (f *Fingerprint) Nested(key string) *Fingerprint {
	return f.entries[key].nested
}

// Keys returns the keys in insertion order.
func (f *Fingerprint) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of entries.
func (f *Fingerprint) Len() int {
	return len(f.keys)
}

// Equal reports deep value equality regardless of insertion order.
// Note: the build cache does NOT use this; it compares serializations
// byte-for-byte, where order matters.
func (f *Fingerprint) Equal(other *Fingerprint) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.keys) != len(other.keys) {
		return false
	}
	for key, entry := range f.entries {
		oe, ok := other.entries[key]
		if !ok || entry.hash != oe.hash {
			return false
		}
		if (entry.nested == nil) != (oe.nested == nil) {
			return false
		}
		if entry.nested != nil && !entry.nested.Equal(oe.nested) {
			return false
		}
	}
	return true
}

// String returns the canonical serialization: one "key=hash" line per entry
// in insertion order, nested fingerprints wrapped in braces. This exact byte
// sequence is what sidecar files store and what cache lookups compare.
func (f *Fingerprint) String() string {
	var b strings.Builder
	f.write(&b, "")
	return b.String()
}

func (f *Fingerprint) write(b *strings.Builder, indent string) {
	for _, key := range f.keys {
		entry := f.entries[key]
		if entry.nested != nil {
			b.WriteString(indent + key + "={\n")
			entry.nested.write(b, indent+"  ")
			b.WriteString(indent + "}\n")
			continue
		}
		b.WriteString(indent + key + "=" + entry.hash + "\n")
	}
}

// WriteFile persists the canonical serialization to path.
func (f *Fingerprint) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(f.String()), 0o644); err != nil { // #nosec G306 -- sidecar is not sensitive
		return fmt.Errorf("%w: %v", ErrFingerprintWrite, err)
	}
	return nil
}
