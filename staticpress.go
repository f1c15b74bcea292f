package staticpress

import (
	"context"
	"net/http"

	"github.com/staticpress/staticpress/internal/content"
	httpapi "github.com/staticpress/staticpress/internal/http"
	"github.com/staticpress/staticpress/internal/images"
	"github.com/staticpress/staticpress/internal/logging"
	"github.com/staticpress/staticpress/internal/logging/gologger"
	"github.com/staticpress/staticpress/internal/markdown"
	"github.com/staticpress/staticpress/pkg/interfaces"
)

// ContentService exports the content query contract for consumers of the
// staticpress package.
type ContentService = content.Service

// Article exports the article DTO.
type Article = content.Article

// Collection exports the collection DTO.
type Collection = content.Collection

// Group exports the group DTO.
type Group = content.Group

// Tag exports the tag tally DTO.
type Tag = content.Tag

// Module is the top level publishing runtime façade. It owns the in-memory
// store, the markdown pipeline, the loader, and the read API router.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider

	store     *content.Store
	loader    *content.Loader
	service   content.Service
	api       *httpapi.API
	watcher   *content.Watcher
	optimizer *images.Optimizer
}

// ModuleOption overrides a collaborator wired by New.
type ModuleOption func(*Module)

// WithLoggerProvider replaces the go-logger provider built from the
// configuration. Useful for tests and embedding hosts.
func WithLoggerProvider(provider interfaces.LoggerProvider) ModuleOption {
	return func(m *Module) {
		m.provider = provider
	}
}

// New constructs a publishing module from the provided configuration. The
// content root is not touched until Load runs.
func New(cfg Config, opts ...ModuleOption) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.provider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	parserOpts := []markdown.Option{
		markdown.WithLogger(logging.MarkdownLogger(m.provider)),
	}

	if cfg.Images.Enabled {
		publicDir := cfg.Images.PublicDir
		if publicDir == "" {
			publicDir = cfg.Content.Root
		}
		optimizer, err := images.New(publicDir,
			images.WithCacheDir(cfg.Images.CacheDir),
			images.WithDefaults(images.Options{
				Width:   cfg.Images.Width,
				Quality: cfg.Images.Quality,
				Format:  cfg.Images.Format,
			}),
			images.WithLogger(logging.ImagesLogger(m.provider)),
		)
		if err != nil {
			return nil, err
		}
		m.optimizer = optimizer
		parserOpts = append(parserOpts, markdown.WithImageRewriter(optimizer))
	}

	parser := markdown.NewService(parserOpts...)

	m.store = content.NewStore()
	m.loader = content.NewLoader(m.store, parser, cfg.Content.Root,
		content.WithPattern(cfg.Content.Pattern),
		content.WithGroupsDir(cfg.Content.GroupsDir),
		content.WithBootstrap(cfg.Content.Bootstrap),
		content.WithLoaderLogger(logging.ContentLogger(m.provider)),
	)
	m.service = content.NewService(m.store,
		content.WithServiceLogger(logging.ContentLogger(m.provider)),
	)

	apiOpts := []httpapi.Option{
		httpapi.WithBasePath(cfg.Server.BasePath),
		httpapi.WithLogger(logging.HTTPLogger(m.provider)),
	}
	if m.optimizer != nil {
		apiOpts = append(apiOpts, httpapi.WithMiddleware(m.optimizer.Middleware()))
	}
	m.api = httpapi.NewAPI(m.service, apiOpts...)

	if cfg.Watch.Enabled {
		m.watcher = content.NewWatcher(m.loader,
			content.WithDebounce(cfg.Watch.Debounce),
			content.WithWatcherLogger(logging.ContentLogger(m.provider)),
		)
	}

	return m, nil
}

// Load scans the content root and atomically replaces the in-memory corpus.
func (m *Module) Load(ctx context.Context) error {
	return m.loader.Load(ctx)
}

// Content returns the configured content query service.
func (m *Module) Content() ContentService {
	return m.service
}

// Store exposes the underlying store for advanced integrations.
func (m *Module) Store() *content.Store {
	return m.store
}

// Optimizer returns the image optimizer, or nil when images are disabled.
func (m *Module) Optimizer() *images.Optimizer {
	return m.optimizer
}

// Router returns the read API handler rooted at the configured base path.
func (m *Module) Router() http.Handler {
	return m.api.Router()
}

// Watch blocks reloading the corpus whenever the content root changes. It
// returns immediately when watching is disabled in the configuration.
func (m *Module) Watch(ctx context.Context) error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Watch(ctx)
}
