// Package corpus reads gold-standard references and protocol texts from
// storage: <id>.json in the reference store and <id>.txt in the text store.
package corpus

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
)

const (
	referenceExt = ".json"
	textExt      = ".txt"
)

type FileCorpus struct {
	references ports.ObjectStorage
	texts      ports.ObjectStorage
}

func New(references, texts ports.ObjectStorage) *FileCorpus {
	return &FileCorpus{references: references, texts: texts}
}

// ListDocuments returns the ids of every reference file, sorted.
func (c *FileCorpus) ListDocuments(ctx context.Context) ([]string, error) {
	names, err := c.references.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasSuffix(name, referenceExt) {
			ids = append(ids, strings.TrimSuffix(name, referenceExt))
		}
	}
	return ids, nil
}

func (c *FileCorpus) LoadReference(ctx context.Context, documentID string) (*domain.StructuredSummary, error) {
	raw, err := readAll(ctx, c.references, documentID+referenceExt)
	if err != nil {
		return nil, fmt.Errorf("load reference %s: %w", documentID, err)
	}
	summary, err := domain.ParseSummary(raw)
	if err != nil {
		return nil, fmt.Errorf("parse reference %s: %w", documentID, err)
	}
	return summary, nil
}

func (c *FileCorpus) LoadProtocolText(ctx context.Context, documentID string) (string, error) {
	text, err := readAll(ctx, c.texts, documentID+textExt)
	if err != nil {
		return "", fmt.Errorf("load protocol text %s: %w", documentID, err)
	}
	return text, nil
}

func readAll(ctx context.Context, store ports.ObjectStorage, key string) (string, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), nil
}
