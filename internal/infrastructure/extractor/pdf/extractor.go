package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract concatenates the plain text of every page. Pages that fail to
// decode are left out.
func (e *Extractor) Extract(ctx context.Context, doc domain.SourceDocument) (text string, err error) {
	// The parser panics on some corrupt files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrInvalidInput, "read pdf", fmt.Errorf("%s: %v", doc.Name, r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "open pdf", fmt.Errorf("%s: %w", doc.Name, err))
	}

	var out strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		out.WriteString(pageText)
		out.WriteString("\n")
	}
	return strings.TrimSpace(out.String()), nil
}
