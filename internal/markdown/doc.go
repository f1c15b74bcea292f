// Package markdown parses raw article files into documents: YAML frontmatter
// metadata, the Markdown body, a plain-text excerpt, and GFM-rendered HTML.
package markdown
