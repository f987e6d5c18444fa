package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the document as text; binary content is rejected.
func (e *Extractor) Extract(_ context.Context, doc domain.SourceDocument) (string, error) {
	if !utf8.Valid(doc.Content) {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract plain text", fmt.Errorf("%s is not valid utf-8 text", doc.Name))
	}
	return strings.TrimSpace(strings.TrimPrefix(string(doc.Content), "\ufeff")), nil
}
