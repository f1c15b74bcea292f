package content

import (
	"github.com/staticpress/staticpress/internal/logging"
	"github.com/staticpress/staticpress/pkg/interfaces"
)

// Service is the read contract consumed by external surfaces. It maps read
// requests onto store operations and is the only place cross-entity
// consistency is checked, always best-effort: a group chapter referencing a
// missing article simply renders with fewer articles.
type Service interface {
	Articles() []Article
	ArticlesByCollection(slug string) []Article
	ArticlesByTag(tag string) []Article
	Article(slug string) (Article, error)
	Collections() []Collection
	Collection(slug string) (Collection, error)
	Groups() []Group
	Group(slug string) (Group, error)
	Tags() []Tag
	ResolveGroup(slug string) (Group, []ResolvedChapter, error)
}

type service struct {
	store  *Store
	logger interfaces.Logger
}

// ServiceOption mutates the service configuration.
type ServiceOption func(*service)

// WithServiceLogger attaches a logger to the query service.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wraps a store with the read contract.
func NewService(store *Store, opts ...ServiceOption) Service {
	svc := &service{
		store:  store,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *service) Articles() []Article { return s.store.Articles() }

func (s *service) ArticlesByCollection(slug string) []Article {
	return s.store.ArticlesByCollection(slug)
}

func (s *service) ArticlesByTag(tag string) []Article { return s.store.ArticlesByTag(tag) }

func (s *service) Article(slug string) (Article, error) { return s.store.Article(slug) }

func (s *service) Collections() []Collection { return s.store.Collections() }

func (s *service) Collection(slug string) (Collection, error) { return s.store.Collection(slug) }

func (s *service) Groups() []Group { return s.store.Groups() }

func (s *service) Group(slug string) (Group, error) { return s.store.Group(slug) }

func (s *service) Tags() []Tag { return s.store.Tags() }

// ResolveGroup materializes the group's chapter references against the
// article store. References that do not resolve are dropped from the chapter
// and logged at debug level; they are never an error.
func (s *service) ResolveGroup(slug string) (Group, []ResolvedChapter, error) {
	group, err := s.store.Group(slug)
	if err != nil {
		return Group{}, nil, err
	}

	chapters := make([]ResolvedChapter, 0, len(group.Chapters))
	for _, chapter := range group.Chapters {
		resolved := ResolvedChapter{
			Title:       chapter.Title,
			Description: chapter.Description,
			Articles:    []Article{},
		}
		for _, ref := range chapter.Articles {
			article, err := s.store.Article(ref.Slug)
			if err != nil {
				s.logger.Debug("dropping unresolved chapter reference",
					"group", group.Slug, "chapter", chapter.Title,
					"slug", ref.Slug, "collection", ref.Collection)
				continue
			}
			resolved.Articles = append(resolved.Articles, article)
		}
		chapters = append(chapters, resolved)
	}
	return group, chapters, nil
}
