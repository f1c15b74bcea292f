package interfaces

import "time"

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations are expected to be stateless so a single instance can be
// shared across requests without locking.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// ImageRewriter rewrites embedded image references inside Markdown content,
// typically pointing them at optimized variants. Implementations must be
// best-effort: a reference that cannot be rewritten is left untouched, and
// the rewriter never fails the surrounding parse.
type ImageRewriter interface {
	RewriteMarkdown(content []byte) []byte
}

// Document represents one parsed Markdown file. The struct is shared between
// the interfaces package and internal implementations so consumers can depend
// on a stable contract.
type Document struct {
	FrontMatter FrontMatter
	// Content is the Markdown body with the frontmatter block stripped.
	Content []byte
	// Excerpt is the first paragraph of the body with emphasis, heading, and
	// code markers removed.
	Excerpt string
	// HTML is the rendered body.
	HTML []byte
}

// FrontMatter models metadata extracted from Markdown files. Typed fields
// cover the attributes the loader consumes directly; Raw preserves the full
// key/value set, Custom only the keys without a typed counterpart.
type FrontMatter struct {
	Title    string         `yaml:"title" json:"title"`
	Slug     string         `yaml:"slug" json:"slug"`
	Tags     []string       `yaml:"tags" json:"tags"`
	Sequence *int           `yaml:"sequence" json:"sequence"`
	Date     time.Time      `yaml:"date" json:"date"`
	Updated  time.Time      `yaml:"updated" json:"updated"`
	Custom   map[string]any `yaml:",inline" json:"custom"`
	Raw      map[string]any `yaml:"-" json:"raw"`
}
