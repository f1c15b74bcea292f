package markdown

import (
	"strings"

	"github.com/staticpress/staticpress/internal/logging"
	"github.com/staticpress/staticpress/pkg/interfaces"
)

// Service turns raw file text into parsed documents: frontmatter, body,
// excerpt, and rendered HTML. Parse is total: malformed frontmatter degrades
// to empty metadata, a rewriter failure keeps the original image paths, and a
// render failure yields empty HTML. Errors are logged, never returned.
type Service struct {
	parser   interfaces.MarkdownParser
	rewriter interfaces.ImageRewriter
	defaults interfaces.ParseOptions
	logger   interfaces.Logger
}

// Option mutates the Service configuration.
type Option func(*Service)

// WithParser overrides the markdown-to-HTML engine.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithImageRewriter wires an optional rewriter applied to the body before
// rendering.
func WithImageRewriter(rewriter interfaces.ImageRewriter) Option {
	return func(s *Service) {
		s.rewriter = rewriter
	}
}

// WithParseOptions sets the default render options.
func WithParseOptions(opts interfaces.ParseOptions) Option {
	return func(s *Service) {
		s.defaults = opts
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs the parse pipeline with a goldmark engine by default.
func NewService(opts ...Option) *Service {
	svc := &Service{
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	if svc.parser == nil {
		svc.parser = NewGoldmarkParser(svc.defaults)
	}
	return svc
}

// Parse splits frontmatter from the body, derives the excerpt, optionally
// rewrites embedded image references, and renders the body to HTML.
func (s *Service) Parse(source []byte) *interfaces.Document {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		// Malformed frontmatter is not fatal: serve the whole file as body.
		s.logger.Warn("frontmatter parse failed, treating metadata as empty", "error", err)
		meta = interfaces.FrontMatter{Custom: map[string]any{}, Raw: map[string]any{}}
		body = source
	}

	if s.rewriter != nil {
		body = s.rewriter.RewriteMarkdown(body)
	}

	html, err := s.parser.ParseWithOptions(body, s.defaults)
	if err != nil {
		s.logger.Error("markdown render failed", "error", err)
		html = nil
	}

	return &interfaces.Document{
		FrontMatter: meta,
		Content:     body,
		Excerpt:     excerptOf(body),
		HTML:        html,
	}
}

// excerptOf returns the first blank-line-delimited paragraph with heading,
// emphasis, and code markers stripped.
func excerptOf(body []byte) string {
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	text = strings.TrimLeft(text, "\n")
	first, _, _ := strings.Cut(text, "\n\n")
	first = strings.Map(func(r rune) rune {
		switch r {
		case '#', '*', '`':
			return -1
		}
		return r
	}, first)
	return strings.TrimSpace(first)
}
