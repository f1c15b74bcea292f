// Package http exposes the read-only REST surface over the content store.
// Every route is a thin mapping onto the query service; list endpoints
// return empty arrays, single lookups return an explicit 404.
package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/staticpress/staticpress/internal/content"
	"github.com/staticpress/staticpress/internal/logging"
	"github.com/staticpress/staticpress/pkg/interfaces"
)

// API serves the read endpoints of the publishing platform.
type API struct {
	content  content.Service
	basePath string
	logger   interfaces.Logger
	// middleware applied before the routes, e.g. the image optimizer.
	middleware []func(http.Handler) http.Handler
}

// Option mutates the API configuration.
type Option func(*API)

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(a *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			a.basePath = "/" + strings.Trim(trimmed, "/")
		}
	}
}

// WithLogger attaches a logger to the API.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMiddleware appends middleware applied ahead of the API routes.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *API) {
		for _, m := range mw {
			if m != nil {
				a.middleware = append(a.middleware, m)
			}
		}
	}
}

// NewAPI constructs the read API over a query service.
func NewAPI(svc content.Service, opts ...Option) *API {
	api := &API{
		content:  svc,
		basePath: "/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Router builds the chi router with all read routes mounted under the base
// path.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID())
	r.Use(RequestLogger(a.logger))
	for _, mw := range a.middleware {
		r.Use(mw)
	}

	r.Route(a.basePath, func(r chi.Router) {
		r.Get("/articles", a.listArticles)
		r.Get("/articles/{slug}", a.getArticle)

		r.Get("/collections", a.listCollections)
		r.Get("/collections/{slug}", a.getCollection)
		r.Get("/collections/{slug}/articles", a.listCollectionArticles)

		r.Get("/tags", a.listTags)
		r.Get("/tags/{tag}/articles", a.listTagArticles)

		r.Get("/groups", a.listGroups)
		r.Get("/groups/{slug}", a.getGroup)
		r.Get("/groups/{slug}/chapters", a.getGroupChapters)
	})

	return r
}

func (a *API) listArticles(w http.ResponseWriter, _ *http.Request) {
	articles := a.content.Articles()
	if articles == nil {
		articles = []content.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func (a *API) getArticle(w http.ResponseWriter, r *http.Request) {
	article, err := a.content.Article(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (a *API) listCollections(w http.ResponseWriter, _ *http.Request) {
	collections := a.content.Collections()
	if collections == nil {
		collections = []content.Collection{}
	}
	writeJSON(w, http.StatusOK, collections)
}

func (a *API) getCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := a.content.Collection(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collection)
}

func (a *API) listCollectionArticles(w http.ResponseWriter, r *http.Request) {
	articles := a.content.ArticlesByCollection(chi.URLParam(r, "slug"))
	if articles == nil {
		articles = []content.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func (a *API) listTags(w http.ResponseWriter, _ *http.Request) {
	tags := a.content.Tags()
	if tags == nil {
		tags = []content.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (a *API) listTagArticles(w http.ResponseWriter, r *http.Request) {
	articles := a.content.ArticlesByTag(chi.URLParam(r, "tag"))
	if articles == nil {
		articles = []content.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func (a *API) listGroups(w http.ResponseWriter, _ *http.Request) {
	groups := a.content.Groups()
	if groups == nil {
		groups = []content.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (a *API) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := a.content.Group(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (a *API) getGroupChapters(w http.ResponseWriter, r *http.Request) {
	_, chapters, err := a.content.ResolveGroup(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chapters)
}
