// Package images provides a best-effort image optimizer: resized variants are
// cached on disk, keyed by a hash of the source path and options. Every
// failure falls back to the original image path; callers never see an
// optimizer error as fatal.
package images

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/staticpress/staticpress/internal/logging"
	"github.com/staticpress/staticpress/pkg/interfaces"
)

// DefaultCacheDir is the cache directory name under the public root.
const DefaultCacheDir = "optimized-images"

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Options controls one optimization. Zero-valued fields fall back to the
// optimizer defaults.
type Options struct {
	Width   int
	Height  int
	Quality int
	Format  string
	Fit     string
}

func (o Options) merged(defaults Options) Options {
	if o.Width == 0 && o.Height == 0 {
		o.Width = defaults.Width
		o.Height = defaults.Height
	}
	if o.Quality == 0 {
		o.Quality = defaults.Quality
	}
	if o.Format == "" {
		o.Format = defaults.Format
	}
	if o.Fit == "" {
		o.Fit = defaults.Fit
	}
	return o
}

// DefaultOptions resize to a 1200px width at quality 80, keeping the source
// format and covering the target box.
func DefaultOptions() Options {
	return Options{Width: 1200, Quality: 80, Fit: "cover"}
}

// Optimizer resizes images under a public directory into a disk cache.
type Optimizer struct {
	publicDir string
	cacheDir  string
	defaults  Options
	logger    interfaces.Logger
}

// Option mutates the Optimizer configuration.
type Option func(*Optimizer)

// WithCacheDir overrides the cache directory name under the public root.
func WithCacheDir(dir string) Option {
	return func(o *Optimizer) {
		if strings.TrimSpace(dir) != "" {
			o.cacheDir = dir
		}
	}
}

// WithDefaults overrides the default optimization options.
func WithDefaults(defaults Options) Option {
	return func(o *Optimizer) {
		o.defaults = defaults
	}
}

// WithLogger attaches a logger to the optimizer.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *Optimizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New constructs an optimizer rooted at publicDir and ensures the cache
// directory exists.
func New(publicDir string, opts ...Option) (*Optimizer, error) {
	o := &Optimizer{
		publicDir: filepath.Clean(publicDir),
		cacheDir:  DefaultCacheDir,
		defaults:  DefaultOptions(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if err := os.MkdirAll(filepath.Join(o.publicDir, o.cacheDir), 0o755); err != nil {
		return nil, fmt.Errorf("images: ensure cache dir: %w", err)
	}
	return o, nil
}

// CacheKey derives the deterministic cache key for a public path and options.
func (o *Optimizer) CacheKey(publicPath string, opts Options) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%d|%d|%d|%s|%s",
		publicPath, opts.Width, opts.Height, opts.Quality, opts.Format, opts.Fit)))
	return hex.EncodeToString(sum[:])
}

// Optimize resizes the image at publicPath (a slash path relative to the
// public root, e.g. "/images/hero.png") and returns the public path of the
// cached variant. The cached file is reused when it already exists.
func (o *Optimizer) Optimize(publicPath string, opts Options) (string, error) {
	src := filepath.Join(o.publicDir, filepath.FromSlash(strings.TrimPrefix(publicPath, "/")))

	ext := strings.ToLower(filepath.Ext(src))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("images: unsupported format %q", ext)
	}
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("images: source %s: %w", publicPath, err)
	}

	opts = opts.merged(o.defaults)

	outExt := ext
	if opts.Format != "" {
		outExt = "." + strings.TrimPrefix(strings.ToLower(opts.Format), ".")
		if outExt == ".jpg" {
			outExt = ".jpeg"
		}
	}
	outName := o.CacheKey(publicPath, opts) + outExt
	out := filepath.Join(o.publicDir, o.cacheDir, outName)
	public := "/" + o.cacheDir + "/" + outName

	if _, err := os.Stat(out); err == nil {
		return public, nil
	}

	img, err := imaging.Open(src)
	if err != nil {
		return "", fmt.Errorf("images: decode %s: %w", publicPath, err)
	}

	bounds := img.Bounds()
	switch {
	case opts.Width > 0 && opts.Height > 0:
		switch opts.Fit {
		case "contain", "inside":
			img = imaging.Fit(img, opts.Width, opts.Height, imaging.Lanczos)
		case "fill":
			img = imaging.Resize(img, opts.Width, opts.Height, imaging.Lanczos)
		default: // cover
			img = imaging.Fill(img, opts.Width, opts.Height, imaging.Center, imaging.Lanczos)
		}
	case opts.Width > 0 && bounds.Dx() > opts.Width:
		img = imaging.Resize(img, opts.Width, 0, imaging.Lanczos)
	case opts.Height > 0 && bounds.Dy() > opts.Height:
		img = imaging.Resize(img, 0, opts.Height, imaging.Lanczos)
	}

	if err := imaging.Save(img, out, imaging.JPEGQuality(opts.Quality)); err != nil {
		return "", fmt.Errorf("images: save %s: %w", out, err)
	}
	return public, nil
}

var (
	markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)
	htmlImageRe     = regexp.MustCompile(`<img[^>]*?src=["']([^"']+)["']`)
)

// ExtractImages returns the local image references found in markdown content.
// Remote (http/https) references are left alone.
func ExtractImages(content []byte) []string {
	var out []string
	seen := map[string]struct{}{}

	for _, re := range []*regexp.Regexp{markdownImageRe, htmlImageRe} {
		for _, match := range re.FindAllSubmatch(content, -1) {
			ref := string(match[1])
			if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
				continue
			}
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}

// RewriteMarkdown implements interfaces.ImageRewriter: every local image
// reference that optimizes successfully is substituted with its cached
// variant; anything else keeps its original path.
func (o *Optimizer) RewriteMarkdown(content []byte) []byte {
	text := string(content)
	for _, ref := range ExtractImages(content) {
		optimized, err := o.Optimize(ref, Options{})
		if err != nil {
			o.logger.Debug("image rewrite skipped", "path", ref, "error", err)
			continue
		}
		text = strings.ReplaceAll(text, "("+ref+")", "("+optimized+")")
		text = strings.ReplaceAll(text, `"`+ref+`"`, `"`+optimized+`"`)
		text = strings.ReplaceAll(text, `'`+ref+`'`, `'`+optimized+`'`)
	}
	return []byte(text)
}

var _ interfaces.ImageRewriter = (*Optimizer)(nil)

// Middleware redirects image requests to their optimized variant, honoring
// width/height/quality/format/fit query parameters. Requests that are not
// images, already optimized, or fail to optimize pass through untouched.
func (o *Optimizer) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			ext := strings.ToLower(filepath.Ext(path))
			if r.Method != http.MethodGet || !supportedExtensions[ext] ||
				strings.Contains(path, "/"+o.cacheDir+"/") {
				next.ServeHTTP(w, r)
				return
			}

			optimized, err := o.Optimize(path, optionsFromQuery(r))
			if err != nil {
				o.logger.Debug("image middleware pass-through", "path", path, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, optimized, http.StatusFound)
		})
	}
}

func optionsFromQuery(r *http.Request) Options {
	query := r.URL.Query()
	opts := Options{
		Format: query.Get("format"),
		Fit:    query.Get("fit"),
	}
	if v, err := strconv.Atoi(query.Get("width")); err == nil {
		opts.Width = v
	}
	if v, err := strconv.Atoi(query.Get("height")); err == nil {
		opts.Height = v
	}
	if v, err := strconv.Atoi(query.Get("quality")); err == nil {
		opts.Quality = v
	}
	return opts
}
