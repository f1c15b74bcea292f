package content

import (
	"errors"
	"fmt"
)

var (
	// ErrSlugExists signals a duplicate registration. The loader treats it as
	// informational: first write wins.
	ErrSlugExists = errors.New("content: slug already exists")
	// ErrNotFound is the base error every NotFoundError unwraps to.
	ErrNotFound = errors.New("content: not found")
	// ErrSlugRequired rejects entity registration without a slug.
	ErrSlugRequired = errors.New("content: slug is required")
)

// Entity kinds used by NotFoundError.
const (
	KindArticle    = "article"
	KindCollection = "collection"
	KindGroup      = "group"
)

// NotFoundError reports a missing entity lookup by slug. It is distinct from
// an empty list result: the read API maps it to an explicit 404.
type NotFoundError struct {
	Kind string
	Slug string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("content: %s %q not found", e.Kind, e.Slug)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
