package content

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Store is the process-wide in-memory index of loaded records, keyed by slug.
// Insertion order is preserved so listings and sort tie-breaks stay stable
// across identical loads. All reads take a read lock; the only writers are
// the load pass and the watch-driven Replace, so contention is negligible.
type Store struct {
	mu sync.RWMutex

	articles    []Article
	articleIdx  map[string]int
	collections []Collection
	collIdx     map[string]int
	groups      []Group
	groupIdx    map[string]int

	articleID int
	collID    int
	groupID   int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		articleIdx: map[string]int{},
		collIdx:    map[string]int{},
		groupIdx:   map[string]int{},
	}
}

// CreateArticle registers an article under its slug, assigning the next
// numeric id. A colliding slug returns ErrSlugExists and leaves the first
// registration untouched.
func (s *Store) CreateArticle(article Article) (Article, error) {
	if strings.TrimSpace(article.Slug) == "" {
		return Article{}, ErrSlugRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articleIdx[article.Slug]; ok {
		return Article{}, ErrSlugExists
	}

	s.articleID++
	article.ID = s.articleID
	if article.Tags == nil {
		article.Tags = []string{}
	}
	s.articleIdx[article.Slug] = len(s.articles)
	s.articles = append(s.articles, article)
	return article, nil
}

// CreateCollection registers a collection under its slug.
func (s *Store) CreateCollection(collection Collection) (Collection, error) {
	if strings.TrimSpace(collection.Slug) == "" {
		return Collection{}, ErrSlugRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collIdx[collection.Slug]; ok {
		return Collection{}, ErrSlugExists
	}

	s.collID++
	collection.ID = s.collID
	s.collIdx[collection.Slug] = len(s.collections)
	s.collections = append(s.collections, collection)
	return collection, nil
}

// CreateGroup registers a group under its slug.
func (s *Store) CreateGroup(group Group) (Group, error) {
	if strings.TrimSpace(group.Slug) == "" {
		return Group{}, ErrSlugRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groupIdx[group.Slug]; ok {
		return Group{}, ErrSlugExists
	}

	s.groupID++
	group.ID = s.groupID
	s.groupIdx[group.Slug] = len(s.groups)
	s.groups = append(s.groups, group)
	return group, nil
}

// Articles returns every article sorted by publish date, most recent first.
func (s *Store) Articles() []Article {
	s.mu.RLock()
	out := append([]Article(nil), s.articles...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// ArticlesByCollection returns the articles owned by the collection slug.
// When both articles of a comparison carry a sequence the order is ascending
// numeric; otherwise the pair falls back to date descending. The sort is
// stable, so equal pairs keep insertion order.
func (s *Store) ArticlesByCollection(slug string) []Article {
	s.mu.RLock()
	var out []Article
	for _, a := range s.articles {
		if a.Collection == slug {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != nil && out[j].Sequence != nil {
			return *out[i].Sequence < *out[j].Sequence
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// ArticlesByTag returns articles whose tag set contains tag (exact,
// case-sensitive match), sorted by date descending.
func (s *Store) ArticlesByTag(tag string) []Article {
	s.mu.RLock()
	var out []Article
	for _, a := range s.articles {
		for _, t := range a.Tags {
			if t == tag {
				out = append(out, a)
				break
			}
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Article looks up a single article by slug.
func (s *Store) Article(slug string) (Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.articleIdx[slug]
	if !ok {
		return Article{}, &NotFoundError{Kind: KindArticle, Slug: slug}
	}
	return s.articles[idx], nil
}

// UpdateArticle applies a patch to an existing article and stamps UpdatedAt.
// The read-only runtime has no caller for this; it completes the store
// contract for hosts that mutate content programmatically.
func (s *Store) UpdateArticle(slug string, patch ArticlePatch) (Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.articleIdx[slug]
	if !ok {
		return Article{}, &NotFoundError{Kind: KindArticle, Slug: slug}
	}

	article := s.articles[idx]
	if patch.Title != nil {
		article.Title = *patch.Title
	}
	if patch.Content != nil {
		article.Content = *patch.Content
	}
	if patch.HTML != nil {
		article.HTML = *patch.HTML
	}
	if patch.Sequence != nil {
		article.Sequence = patch.Sequence
	}
	if patch.Tags != nil {
		article.Tags = append([]string(nil), patch.Tags...)
	}
	now := time.Now()
	article.UpdatedAt = &now

	s.articles[idx] = article
	return article, nil
}

// DeleteArticle removes an article by slug, reporting whether it existed.
func (s *Store) DeleteArticle(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.articleIdx[slug]
	if !ok {
		return false
	}

	s.articles = append(s.articles[:idx], s.articles[idx+1:]...)
	delete(s.articleIdx, slug)
	for i := idx; i < len(s.articles); i++ {
		s.articleIdx[s.articles[i].Slug] = i
	}
	return true
}

// Collections returns every collection in registration order.
func (s *Store) Collections() []Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Collection(nil), s.collections...)
}

// Collection looks up a single collection by slug.
func (s *Store) Collection(slug string) (Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.collIdx[slug]
	if !ok {
		return Collection{}, &NotFoundError{Kind: KindCollection, Slug: slug}
	}
	return s.collections[idx], nil
}

// Groups returns every group in registration order.
func (s *Store) Groups() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Group(nil), s.groups...)
}

// Group looks up a single group by slug. Chapter article references are left
// unresolved; resolution happens at read time in the query service.
func (s *Store) Group(slug string) (Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.groupIdx[slug]
	if !ok {
		return Group{}, &NotFoundError{Kind: KindGroup, Slug: slug}
	}
	return s.groups[idx], nil
}

// Tags tallies tag occurrences across all articles, recomputed on every call.
// Articles are scanned in date-descending order so ties keep first-encounter
// order under the stable count-descending sort.
func (s *Store) Tags() []Tag {
	counts := map[string]int{}
	var order []string

	for _, article := range s.Articles() {
		for _, tag := range article.Tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make([]Tag, 0, len(order))
	for _, name := range order {
		out = append(out, Tag{Name: name, Slug: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Replace atomically swaps this store's dataset with the one held by src.
// The loader populates a staging store and swaps it in so readers never see
// a partially loaded corpus.
func (s *Store) Replace(src *Store) {
	if src == nil {
		return
	}

	src.mu.RLock()
	articles := append([]Article(nil), src.articles...)
	collections := append([]Collection(nil), src.collections...)
	groups := append([]Group(nil), src.groups...)
	articleID, collID, groupID := src.articleID, src.collID, src.groupID
	src.mu.RUnlock()

	articleIdx := make(map[string]int, len(articles))
	for i, a := range articles {
		articleIdx[a.Slug] = i
	}
	collIdx := make(map[string]int, len(collections))
	for i, c := range collections {
		collIdx[c.Slug] = i
	}
	groupIdx := make(map[string]int, len(groups))
	for i, g := range groups {
		groupIdx[g.Slug] = i
	}

	s.mu.Lock()
	s.articles = articles
	s.articleIdx = articleIdx
	s.collections = collections
	s.collIdx = collIdx
	s.groups = groups
	s.groupIdx = groupIdx
	s.articleID = articleID
	s.collID = collID
	s.groupID = groupID
	s.mu.Unlock()
}
