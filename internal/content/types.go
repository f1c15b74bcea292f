package content

import "time"

// Article is one published content unit backed by a single markdown file.
// JSON field names follow the wire schema served by the read API.
type Article struct {
	ID      int    `json:"id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
	HTML    string `json:"html"`
	Excerpt string `json:"excerpt,omitempty"`
	// Collection holds the owning directory's slug, not a live reference.
	Collection  string         `json:"collection"`
	Date        time.Time      `json:"date"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
	Sequence    *int           `json:"sequence"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter"`
}

// Collection is a named grouping of articles backed by one top-level content
// directory.
type Collection struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Group is a curated, cross-collection reading path made of ordered chapters.
type Group struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters"`
}

// Chapter is an ordered sub-section of a group. It owns no identity of its
// own and stores article references by slug only.
type Chapter struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Articles    []ArticleRef `json:"articles"`
}

// ArticleRef points at an article by slug and owning collection. References
// are resolved lazily at read time; a dangling reference is dropped from
// display, never an error.
type ArticleRef struct {
	Slug       string `json:"slug"`
	Collection string `json:"collection"`
}

// ResolvedChapter is a chapter with its article references materialized.
type ResolvedChapter struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Articles    []Article `json:"articles"`
}

// Tag is a read-time aggregate recomputed on every tag-list query; it is
// never stored.
type Tag struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// ArticlePatch carries optional field updates for Store.UpdateArticle. Nil
// fields are left untouched.
type ArticlePatch struct {
	Title    *string
	Content  *string
	HTML     *string
	Sequence *int
	Tags     []string
}
