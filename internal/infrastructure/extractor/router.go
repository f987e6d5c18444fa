// Package extractor picks a text extractor by file extension.
package extractor

import (
	"context"
	"fmt"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
)

type Router struct {
	byExt map[string]ports.TextExtractor
}

// NewRouter maps lowercased extensions (".pdf") to extractors.
func NewRouter(byExt map[string]ports.TextExtractor) *Router {
	return &Router{byExt: byExt}
}

func (r *Router) Extract(ctx context.Context, doc domain.SourceDocument) (string, error) {
	ext := doc.Extension()
	next, ok := r.byExt[ext]
	if !ok {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("unsupported file type %q", ext))
	}
	return next.Extract(ctx, doc)
}

// Supports reports whether a file with the given name can be extracted.
func (r *Router) Supports(name string) bool {
	_, ok := r.byExt[domain.SourceDocument{Name: name}.Extension()]
	return ok
}
