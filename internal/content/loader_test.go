package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/staticpress/staticpress/internal/markdown"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestLoader(t *testing.T, root string, opts ...LoaderOption) (*Loader, *Store) {
	t.Helper()
	store := NewStore()
	loader := NewLoader(store, markdown.NewService(), root, opts...)
	return loader, store
}

func TestLoaderEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tutorials/hello.md", "---\ntitle: Hello\ntags:\n  - intro\n---\n# Hi\n\nWorld\n")

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	article, err := store.Article("hello")
	if err != nil {
		t.Fatalf("Article(hello): %v", err)
	}
	if article.Slug != "hello" || article.Title != "Hello" {
		t.Fatalf("unexpected article: %+v", article)
	}
	if article.Collection != "tutorials" {
		t.Fatalf("collection mismatch: %q", article.Collection)
	}
	if len(article.Tags) != 1 || article.Tags[0] != "intro" {
		t.Fatalf("tags mismatch: %#v", article.Tags)
	}
	if !strings.Contains(article.HTML, "<h1") || !strings.Contains(article.HTML, "<p>World</p>") {
		t.Fatalf("rendered HTML mismatch: %q", article.HTML)
	}
	if article.Date.IsZero() {
		t.Fatalf("expected date to default to load time")
	}

	collection, err := store.Collection("tutorials")
	if err != nil {
		t.Fatalf("Collection(tutorials): %v", err)
	}
	if collection.Name != "Tutorials" {
		t.Fatalf("collection name mismatch: %q", collection.Name)
	}
}

func TestLoaderSlugOverrideAndFilenameFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/Some File.md", "---\ntitle: A\n---\nbody\n")
	writeFile(t, root, "docs/custom.md", "---\ntitle: B\nslug: overridden\n---\nbody\n")

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := store.Article("some-file"); err != nil {
		t.Fatalf("expected normalized filename slug, got %v", err)
	}
	if _, err := store.Article("overridden"); err != nil {
		t.Fatalf("expected frontmatter slug override, got %v", err)
	}
	if _, err := store.Article("custom"); err == nil {
		t.Fatalf("filename slug should not be registered when frontmatter overrides it")
	}
}

func TestLoaderCollectionNameTitleCased(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "deep-dive-guides/a.md", "content\n")

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	collection, err := store.Collection("deep-dive-guides")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	if collection.Name != "Deep Dive Guides" {
		t.Fatalf("expected title-cased name, got %q", collection.Name)
	}
}

func TestLoaderCollectionNameTitleCasedNonASCII(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "émigré-notes/a.md", "content\n")

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	collection, err := store.Collection("émigré-notes")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	if collection.Name != "Émigré Notes" {
		t.Fatalf("expected upper-cased first rune, got %q", collection.Name)
	}
}

func TestLoaderIdempotentAcrossReloads(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/a.md", "---\ntitle: A\ndate: 2024-01-01\n---\nbody\n")
	writeFile(t, root, "docs/b.md", "---\ntitle: B\ndate: 2024-01-02\n---\nbody\n")
	writeFile(t, root, "groups/reading.json", `{"name": "Reading Path", "chapters": []}`)

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	if got := len(store.Articles()); got != 2 {
		t.Fatalf("expected 2 articles after reload, got %d", got)
	}
	if got := len(store.Collections()); got != 1 {
		t.Fatalf("expected 1 collection after reload, got %d", got)
	}
	if got := len(store.Groups()); got != 1 {
		t.Fatalf("expected 1 group after reload, got %d", got)
	}
}

func TestLoaderGroupDescriptor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/a.md", "body\n")
	writeFile(t, root, "groups/path.json", `{
		"name": "Learning Path",
		"description": "ordered reading",
		"chapters": [
			{"title": "One", "description": "", "articles": [{"slug": "a", "collection": "docs"}]}
		]
	}`)

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	group, err := store.Group("learning-path")
	if err != nil {
		t.Fatalf("Group(learning-path): %v", err)
	}
	if group.Name != "Learning Path" {
		t.Fatalf("group name mismatch: %q", group.Name)
	}
	if len(group.Chapters) != 1 || len(group.Chapters[0].Articles) != 1 {
		t.Fatalf("chapters not stored verbatim: %+v", group.Chapters)
	}
}

func TestLoaderSkipsBadFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/good.md", "---\ntitle: Good\n---\nbody\n")
	writeFile(t, root, "groups/bad.json", `{not json`)
	writeFile(t, root, "groups/unnamed.json", `{"description": "missing name"}`)
	writeFile(t, root, "groups/good.json", `{"name": "Good Group", "chapters": []}`)

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := store.Article("good"); err != nil {
		t.Fatalf("good article should survive bad siblings: %v", err)
	}
	if got := len(store.Groups()); got != 1 {
		t.Fatalf("expected only the valid group, got %d", got)
	}
}

func TestLoaderDuplicateSlugFirstWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "aaa/dup.md", "---\ntitle: From AAA\n---\nbody\n")
	writeFile(t, root, "bbb/dup.md", "---\ntitle: From BBB\n---\nbody\n")

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	article, err := store.Article("dup")
	if err != nil {
		t.Fatalf("Article(dup): %v", err)
	}
	// Directories are scanned in lexical order, so aaa registers first.
	if article.Title != "From AAA" {
		t.Fatalf("expected first registration to win, got %q", article.Title)
	}
	if got := len(store.Articles()); got != 1 {
		t.Fatalf("expected 1 article, got %d", got)
	}
}

func TestLoaderBootstrapSampleCorpus(t *testing.T) {
	root := filepath.Join(t.TempDir(), "content")

	loader, store := newTestLoader(t, root, WithBootstrap(true))
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(store.Collections()); got != 2 {
		t.Fatalf("expected 2 sample collections, got %d", got)
	}
	if got := len(store.Articles()); got != 3 {
		t.Fatalf("expected 3 sample articles, got %d", got)
	}
	groups := store.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 sample group, got %d", len(groups))
	}
	if len(groups[0].Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(groups[0].Chapters))
	}
}

func TestLoaderNoBootstrapWhenDisabled(t *testing.T) {
	root := filepath.Join(t.TempDir(), "content")

	loader, store := newTestLoader(t, root)
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(store.Articles()); got != 0 {
		t.Fatalf("expected empty corpus, got %d articles", got)
	}
}

func TestLoaderFrontmatterDates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/dated.md", "---\ntitle: Dated\ndate: 2024-03-10\nupdated: 2024-04-01\nsequence: 7\n---\nbody\n")

	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	loader, store := newTestLoader(t, root, WithClock(func() time.Time { return fixed }))
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	article, err := store.Article("dated")
	if err != nil {
		t.Fatalf("Article(dated): %v", err)
	}
	if !article.Date.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date mismatch: %v", article.Date)
	}
	if article.UpdatedAt == nil || !article.UpdatedAt.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("updatedAt mismatch: %v", article.UpdatedAt)
	}
	if article.Sequence == nil || *article.Sequence != 7 {
		t.Fatalf("sequence mismatch: %v", article.Sequence)
	}
}
