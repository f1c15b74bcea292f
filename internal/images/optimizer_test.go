package images

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

func TestExtractImages(t *testing.T) {
	content := []byte(strings.Join([]string{
		"![alt](/images/a.png)",
		"![other](/images/b.jpg)",
		"![remote](https://example.com/c.png)",
		`<img class="x" src="/images/d.gif">`,
		"![dup](/images/a.png)",
	}, "\n"))

	refs := ExtractImages(content)
	want := []string{"/images/a.png", "/images/b.jpg", "/images/d.gif"}
	if len(refs) != len(want) {
		t.Fatalf("expected %d refs, got %v", len(want), refs)
	}
	for i, ref := range want {
		if refs[i] != ref {
			t.Fatalf("ref %d: got %q, want %q", i, refs[i], ref)
		}
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	public := t.TempDir()
	o, err := New(public)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a := o.CacheKey("/images/a.png", Options{Width: 100})
	b := o.CacheKey("/images/a.png", Options{Width: 100})
	c := o.CacheKey("/images/a.png", Options{Width: 200})

	if a != b {
		t.Fatalf("identical inputs should share a key: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("different options should not share a key")
	}
}

func TestOptimizeCachesResult(t *testing.T) {
	public := t.TempDir()
	writeTestPNG(t, filepath.Join(public, "images", "hero.png"), 64, 32)

	o, err := New(public, WithDefaults(Options{Width: 16, Quality: 80, Fit: "cover"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := o.Optimize("/images/hero.png", Options{})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !strings.HasPrefix(first, "/"+DefaultCacheDir+"/") {
		t.Fatalf("expected cached public path, got %q", first)
	}
	if _, err := os.Stat(filepath.Join(public, filepath.FromSlash(strings.TrimPrefix(first, "/")))); err != nil {
		t.Fatalf("cached file missing: %v", err)
	}

	second, err := o.Optimize("/images/hero.png", Options{})
	if err != nil {
		t.Fatalf("second Optimize: %v", err)
	}
	if second != first {
		t.Fatalf("cache miss on identical input: %q vs %q", second, first)
	}
}

func TestOptimizeRejectsUnknownSource(t *testing.T) {
	o, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := o.Optimize("/images/missing.png", Options{}); err == nil {
		t.Fatalf("expected error for missing source")
	}
	if _, err := o.Optimize("/notes/readme.txt", Options{}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestRewriteMarkdownFallsBack(t *testing.T) {
	public := t.TempDir()
	writeTestPNG(t, filepath.Join(public, "images", "ok.png"), 32, 32)

	o, err := New(public, WithDefaults(Options{Width: 8, Quality: 80, Fit: "cover"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	content := []byte("![ok](/images/ok.png)\n![missing](/images/missing.png)\n")
	rewritten := string(o.RewriteMarkdown(content))

	if !strings.Contains(rewritten, "/"+DefaultCacheDir+"/") {
		t.Fatalf("expected optimized reference, got %q", rewritten)
	}
	if !strings.Contains(rewritten, "(/images/missing.png)") {
		t.Fatalf("missing image should keep its original path, got %q", rewritten)
	}
}
