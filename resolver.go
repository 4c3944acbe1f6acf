package tex2html

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// imageExtensions is the fixed probe list for image reference resolution,
// tried in order; "" means the reference already carries its extension.
var imageExtensions = []string{"", ".svg", ".tex", ".pdf", ".png", ".jpeg", ".jpg", ".gif"}

// ImageSourceResolver maps an image element's src to a file on disk and a
// public path. Returning ok=false leaves the element exactly as the markup
// converter produced it.
type ImageSourceResolver interface {
	Resolve(sourcePath, src string) (ResolvedImage, bool)
}

// PublicPathFunc maps a resolved absolute path to the public path written
// into the tree.
type PublicPathFunc func(resolvedPath string) string

// AssetResolver resolves image references against an asset root. Built
// artifacts referenced through file:// markers bypass the directory search
// and go straight through PDF/SVG normalization.
type AssetResolver struct {
	svg        *SvgBuilder
	assetRoot  string
	extraDirs  []string
	outputDirs []string
	cacheDir   CacheDirResolver
	publicPath PublicPathFunc
	logger     *slog.Logger
}

// AssetResolverOption configures an AssetResolver.
type AssetResolverOption func(*AssetResolver)

// WithExtraDirs adds directories probed between the source directory and the
// extractor output directories.
func WithExtraDirs(dirs ...string) AssetResolverOption {
	return func(r *AssetResolver) { r.extraDirs = append(r.extraDirs, dirs...) }
}

// WithOutputDirs adds known extractor output directories to the probe list.
func WithOutputDirs(dirs ...string) AssetResolverOption {
	return func(r *AssetResolver) { r.outputDirs = append(r.outputDirs, dirs...) }
}

// WithResolverCacheDir sets the cache directory resolver used when a .tex
// reference needs building.
func WithResolverCacheDir(f CacheDirResolver) AssetResolverOption {
	return func(r *AssetResolver) { r.cacheDir = f }
}

// WithPublicPath replaces the default root-relative public path mapping.
func WithPublicPath(f PublicPathFunc) AssetResolverOption {
	return func(r *AssetResolver) { r.publicPath = f }
}

// WithResolverLogger sets the logger for resolution events.
func WithResolverLogger(l *slog.Logger) AssetResolverOption {
	return func(r *AssetResolver) { r.logger = l }
}

// NewAssetResolver creates a resolver computing public paths relative to
// assetRoot.
func NewAssetResolver(svg *SvgBuilder, assetRoot string, opts ...AssetResolverOption) *AssetResolver {
	r := &AssetResolver{
		svg:       svg,
		assetRoot: assetRoot,
		cacheDir:  func(string) string { return "" },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.publicPath == nil {
		r.publicPath = r.rootRelative
	}
	return r
}

// Resolve implements ImageSourceResolver. Probe order: the bare reference,
// the source document's directory, extra directories, extractor output
// directories; each with the fixed extension list, first existing file wins.
func (r *AssetResolver) Resolve(sourcePath, src string) (ResolvedImage, bool) {
	if fileutil.IsURL(src) {
		return ResolvedImage{}, false
	}

	// Built artifacts skip the directory search entirely.
	if path, ok := strings.CutPrefix(src, "file://"); ok {
		resolved, ok := r.normalize(path)
		if !ok {
			return ResolvedImage{}, false
		}
		return r.resolved(src, resolved), true
	}

	for _, dir := range r.probeDirs(sourcePath) {
		for _, ext := range imageExtensions {
			candidate := src + ext
			if dir != "" {
				candidate = filepath.Join(dir, src+ext)
			}
			if !fileutil.FileExists(candidate) {
				continue
			}
			resolved, ok := r.normalize(candidate)
			if !ok {
				// A .tex or .pdf that cannot be built stays a dangling
				// reference; the rest of the document is unaffected.
				return ResolvedImage{}, false
			}
			return r.resolved(src, resolved), true
		}
	}
	r.logger.Debug("image reference unresolved", "src", src, "source", sourcePath)
	return ResolvedImage{}, false
}

func (r *AssetResolver) probeDirs(sourcePath string) []string {
	dirs := []string{"", filepath.Dir(sourcePath)}
	dirs = append(dirs, r.extraDirs...)
	dirs = append(dirs, r.outputDirs...)
	return dirs
}

// normalize routes .tex and .pdf references through the same build logic as
// SvgBuilder's second stage, so only displayable artifacts reach the tree.
func (r *AssetResolver) normalize(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tex":
		res, err := r.svg.Build(path, r.cacheDir(path), "")
		if err != nil || res.ArtifactPath == "" {
			r.logger.Warn("image build failed", "source", path, "error", err)
			return "", false
		}
		return res.ArtifactPath, true
	case ".pdf":
		res, err := r.svg.RenderPdf(path)
		if err != nil || res.ArtifactPath == "" {
			r.logger.Warn("image conversion failed", "source", path, "error", err)
			return "", false
		}
		return res.ArtifactPath, true
	default:
		return path, true
	}
}

func (r *AssetResolver) resolved(src, path string) ResolvedImage {
	return ResolvedImage{
		OriginalRef: src,
		SourcePath:  path,
		PublicPath:  r.publicPath(path),
	}
}

// rootRelative maps a resolved path to a root-relative public path under the
// asset root. Paths outside the root fall back to their base name.
func (r *AssetResolver) rootRelative(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	root, err := filepath.Abs(r.assetRoot)
	if err != nil {
		root = r.assetRoot
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "/" + filepath.Base(abs)
	}
	return "/" + filepath.ToSlash(rel)
}
