package content

import (
	"errors"
	"testing"
)

func newPopulatedService(t *testing.T) Service {
	t.Helper()
	store := NewStore()
	mustCreate(t, store, Article{Slug: "getting-started", Collection: "tutorials", Date: day(0)})
	mustCreate(t, store, Article{Slug: "collections", Collection: "docs", Date: day(1)})

	if _, err := store.CreateGroup(Group{
		Name: "Guide",
		Slug: "guide",
		Chapters: []Chapter{
			{
				Title: "Chapter 1",
				Articles: []ArticleRef{
					{Slug: "getting-started", Collection: "tutorials"},
					{Slug: "missing", Collection: "tutorials"},
					{Slug: "collections", Collection: "docs"},
				},
			},
			{
				Title: "Chapter 2",
				Articles: []ArticleRef{
					{Slug: "missing", Collection: "docs"},
				},
			},
		},
	}); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	return NewService(store)
}

func TestServiceResolveGroupDropsDanglingRefs(t *testing.T) {
	svc := newPopulatedService(t)

	group, chapters, err := svc.ResolveGroup("guide")
	if err != nil {
		t.Fatalf("ResolveGroup: %v", err)
	}
	if group.Slug != "guide" {
		t.Fatalf("group mismatch: %+v", group)
	}
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}

	first := chapters[0]
	if len(first.Articles) != 2 {
		t.Fatalf("expected dangling ref to be dropped, got %d articles", len(first.Articles))
	}
	if first.Articles[0].Slug != "getting-started" || first.Articles[1].Slug != "collections" {
		t.Fatalf("resolved order mismatch: %+v", first.Articles)
	}

	// A chapter whose every reference dangles still renders, just empty.
	if len(chapters[1].Articles) != 0 {
		t.Fatalf("expected empty second chapter, got %+v", chapters[1].Articles)
	}
}

func TestServiceResolveGroupNotFound(t *testing.T) {
	svc := newPopulatedService(t)

	_, _, err := svc.ResolveGroup("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceDelegatesToStore(t *testing.T) {
	svc := newPopulatedService(t)

	if got := len(svc.Articles()); got != 2 {
		t.Fatalf("expected 2 articles, got %d", got)
	}
	if got := len(svc.ArticlesByCollection("docs")); got != 1 {
		t.Fatalf("expected 1 docs article, got %d", got)
	}
	if _, err := svc.Article("collections"); err != nil {
		t.Fatalf("Article: %v", err)
	}
	if got := len(svc.Groups()); got != 1 {
		t.Fatalf("expected 1 group, got %d", got)
	}
}
