package content

import (
	"os"
	"path/filepath"
)

// Sample corpus written when the content root is empty so a first run serves
// something browsable: two collections, three articles, one group with three
// chapters.
var sampleArticles = map[string]string{
	"tutorials/getting-started.md": `---
title: Getting Started
date: 2024-01-15
sequence: 1
tags:
  - intro
  - setup
---
# Getting Started

Welcome to StaticPress. Drop markdown files into collection directories and
they are published the next time the server loads content.

## Your first article

Create a file under any collection directory with YAML frontmatter at the top
and markdown below it.
`,
	"tutorials/yaml-frontmatter.md": `---
title: YAML Frontmatter
date: 2024-01-22
sequence: 2
tags:
  - intro
  - metadata
---
# YAML Frontmatter

Frontmatter is the metadata block between ` + "`---`" + ` markers at the top of a
markdown file. StaticPress reads title, date, updated, sequence, tags, and an
optional slug override from it; every other key is preserved as-is.
`,
	"docs/collections.md": `---
title: Collections
date: 2024-02-01
tags:
  - organization
---
# Collections

Every top-level directory under the content root becomes a collection. The
directory name is the collection slug; hyphen-separated words are title-cased
into its display name.
`,
}

const sampleGroup = `{
  "name": "Getting Started Guide",
  "slug": "getting-started-guide",
  "description": "A curated collection of articles to help you get started with StaticPress. Follow these guides in sequence for the best learning experience.",
  "chapters": [
    {
      "title": "Chapter 1: Installation and Setup",
      "description": "Learn how to install StaticPress and configure your first site.",
      "articles": [
        { "slug": "getting-started", "collection": "tutorials" },
        { "slug": "yaml-frontmatter", "collection": "tutorials" },
        { "slug": "collections", "collection": "docs" }
      ]
    },
    {
      "title": "Chapter 2: Content Organization",
      "description": "Explore different ways to organize your content with collections and tags.",
      "articles": [
        { "slug": "collections", "collection": "docs" },
        { "slug": "yaml-frontmatter", "collection": "tutorials" }
      ]
    },
    {
      "title": "Chapter 3: Advanced Features",
      "description": "Discover more powerful features to enhance your static site.",
      "articles": [
        { "slug": "getting-started", "collection": "tutorials" }
      ]
    }
  ]
}
`

// writeSampleContent materializes the starter corpus under root.
func writeSampleContent(root, groupsDir string) error {
	for rel, body := range sampleArticles {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return err
		}
	}

	groupPath := filepath.Join(root, groupsDir, "getting-started.json")
	if err := os.MkdirAll(filepath.Dir(groupPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(groupPath, []byte(sampleGroup), 0o644)
}
