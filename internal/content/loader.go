package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/staticpress/staticpress/internal/logging"
	"github.com/staticpress/staticpress/internal/markdown"
	"github.com/staticpress/staticpress/internal/slug"
	"github.com/staticpress/staticpress/pkg/interfaces"
)

const (
	defaultPattern   = "*.md"
	defaultGroupsDir = "groups"
)

// Loader scans a content root and populates a store: one collection per
// subdirectory, one article per markdown file, one group per JSON descriptor
// in the reserved groups directory. A load pass builds a staging store and
// swaps it in atomically, which makes repeated loads idempotent and keeps
// readers off partially loaded state.
//
// The loader never aborts the corpus for a single bad file: per-file I/O and
// parse failures are logged and skipped.
type Loader struct {
	store     *Store
	parser    *markdown.Service
	root      string
	pattern   string
	groupsDir string
	bootstrap bool
	logger    interfaces.Logger
	now       func() time.Time
}

// LoaderOption mutates the Loader configuration.
type LoaderOption func(*Loader)

// WithPattern overrides the markdown filename glob (defaults to "*.md").
func WithPattern(pattern string) LoaderOption {
	return func(l *Loader) {
		if strings.TrimSpace(pattern) != "" {
			l.pattern = pattern
		}
	}
}

// WithGroupsDir overrides the reserved group descriptor directory name.
func WithGroupsDir(dir string) LoaderOption {
	return func(l *Loader) {
		if strings.TrimSpace(dir) != "" {
			l.groupsDir = dir
		}
	}
}

// WithBootstrap controls whether an empty content root is seeded with the
// sample corpus before loading.
func WithBootstrap(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.bootstrap = enabled
	}
}

// WithLoaderLogger attaches a logger to the loader.
func WithLoaderLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the timestamp source used when frontmatter has no date.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader constructs a Loader for the given store, parser, and content root.
func NewLoader(store *Store, parser *markdown.Service, root string, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:     store,
		parser:    parser,
		root:      filepath.Clean(root),
		pattern:   defaultPattern,
		groupsDir: defaultGroupsDir,
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load runs one full pass: ensure collections, load articles, load groups,
// then swap the result into the store. It returns an error only when the
// content root itself cannot be prepared or read.
func (l *Loader) Load(ctx context.Context) error {
	if err := l.ensureRoot(); err != nil {
		return err
	}

	staging := NewStore()

	if err := l.ensureCollections(staging); err != nil {
		return err
	}
	if err := l.loadArticles(ctx, staging); err != nil {
		return err
	}
	l.loadGroups(staging)

	l.store.Replace(staging)
	l.logger.Info("content loaded",
		"articles", len(staging.Articles()),
		"collections", len(staging.Collections()),
		"groups", len(staging.Groups()))
	return nil
}

// ensureRoot creates the content root when missing and seeds the sample
// corpus when the directory is empty and bootstrapping is enabled.
func (l *Loader) ensureRoot() error {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return fmt.Errorf("content loader: ensure root %s: %w", l.root, err)
	}

	entries, err := os.ReadDir(l.root)
	if err != nil {
		return fmt.Errorf("content loader: read root %s: %w", l.root, err)
	}

	if len(entries) == 0 && l.bootstrap {
		l.logger.Info("content root empty, writing sample corpus", "root", l.root)
		if err := writeSampleContent(l.root, l.groupsDir); err != nil {
			return fmt.Errorf("content loader: write sample corpus: %w", err)
		}
	}
	return nil
}

// ensureCollections registers one collection per immediate subdirectory.
// The reserved groups directory holds descriptors, not articles, and is
// skipped. Collections must exist before articles reference them by slug.
func (l *Loader) ensureCollections(staging *Store) error {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return fmt.Errorf("content loader: read root %s: %w", l.root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == l.groupsDir {
			continue
		}

		name := entry.Name()
		_, err := staging.CreateCollection(Collection{
			Name:        titleize(name),
			Slug:        name,
			Description: fmt.Sprintf("%s collection", name),
		})
		if errors.Is(err, ErrSlugExists) {
			l.logger.Info("collection already exists", "slug", name)
			continue
		}
		if err != nil {
			l.logger.Error("register collection failed", "slug", name, "error", err)
		}
	}
	return nil
}

// loadArticles parses every matching markdown file per collection directory.
func (l *Loader) loadArticles(ctx context.Context, staging *Store) error {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return fmt.Errorf("content loader: read root %s: %w", l.root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == l.groupsDir {
			continue
		}

		dir := filepath.Join(l.root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			l.logger.Error("read collection directory failed", "path", dir, "error", err)
			continue
		}

		for _, file := range files {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if file.IsDir() {
				continue
			}
			if match, _ := filepath.Match(l.pattern, file.Name()); !match {
				continue
			}
			l.loadArticle(staging, entry.Name(), filepath.Join(dir, file.Name()))
		}
	}
	return nil
}

func (l *Loader) loadArticle(staging *Store, collection, path string) {
	logger := logging.WithContentContext(l.logger, path, "", collection)

	source, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read article file failed", "error", err)
		return
	}

	doc := l.parser.Parse(source)
	meta := doc.FrontMatter

	articleSlug := meta.Slug
	if articleSlug == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		articleSlug = slug.Normalize(base)
	}

	title := meta.Title
	if title == "" {
		title = articleSlug
	}

	date := meta.Date
	if date.IsZero() {
		date = l.now()
	}

	var updatedAt *time.Time
	if !meta.Updated.IsZero() {
		updated := meta.Updated
		updatedAt = &updated
	}

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err = staging.CreateArticle(Article{
		Slug:        articleSlug,
		Title:       title,
		Content:     string(doc.Content),
		HTML:        string(doc.HTML),
		Excerpt:     doc.Excerpt,
		Collection:  collection,
		Date:        date,
		UpdatedAt:   updatedAt,
		Sequence:    meta.Sequence,
		Tags:        tags,
		Frontmatter: meta.Raw,
	})
	if errors.Is(err, ErrSlugExists) {
		logger.Info("article already exists, keeping first registration", "slug", articleSlug)
		return
	}
	if err != nil {
		logger.Error("register article failed", "slug", articleSlug, "error", err)
	}
}

// loadGroups parses every JSON descriptor in the reserved groups directory.
// Chapter article references are stored verbatim; they are resolved lazily
// at read time.
func (l *Loader) loadGroups(staging *Store) {
	dir := filepath.Join(l.root, l.groupsDir)
	files, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Error("read groups directory failed", "path", dir, "error", err)
		}
		return
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, file.Name())
		logger := logging.WithContentContext(l.logger, path, "", "")

		source, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read group descriptor failed", "error", err)
			continue
		}

		var descriptor groupDescriptor
		if err := json.Unmarshal(source, &descriptor); err != nil {
			logger.Error("parse group descriptor failed", "error", err)
			continue
		}
		if err := descriptor.Validate(); err != nil {
			logger.Error("invalid group descriptor", "error", err)
			continue
		}

		groupSlug := descriptor.Slug
		if groupSlug == "" {
			groupSlug = slug.Normalize(descriptor.Name)
		}

		_, err = staging.CreateGroup(Group{
			Name:        descriptor.Name,
			Slug:        groupSlug,
			Description: descriptor.Description,
			Chapters:    descriptor.Chapters,
		})
		if errors.Is(err, ErrSlugExists) {
			logger.Info("group already exists, keeping first registration", "slug", groupSlug)
			continue
		}
		if err != nil {
			logger.Error("register group failed", "slug", groupSlug, "error", err)
		}
	}
}

// groupDescriptor is the on-disk shape of one group JSON file.
type groupDescriptor struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters"`
}

// Validate checks the descriptor shape. Referenced articles are deliberately
// not checked for existence here.
func (d groupDescriptor) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Chapters, validation.Each(validation.By(validateChapter))),
	)
}

func validateChapter(value any) error {
	chapter, ok := value.(Chapter)
	if !ok {
		return errors.New("chapter has unexpected shape")
	}
	if strings.TrimSpace(chapter.Title) == "" {
		return errors.New("chapter title is required")
	}
	return nil
}

// titleize converts a hyphen-separated directory name into a display name.
func titleize(name string) string {
	words := strings.Split(name, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(first)) + word[size:]
	}
	return strings.Join(words, " ")
}
