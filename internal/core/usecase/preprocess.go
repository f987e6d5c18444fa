package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
)

type PreprocessUseCase struct {
	raw       ports.ObjectStorage
	processed ports.ObjectStorage
	extractor ports.TextExtractor
}

func NewPreprocessUseCase(raw, processed ports.ObjectStorage, extractor ports.TextExtractor) *PreprocessUseCase {
	return &PreprocessUseCase{
		raw:       raw,
		processed: processed,
		extractor: extractor,
	}
}

// Preprocess converts every raw file whose name ends in "pdf" into
// <base>.txt. Unreadable files and empty extractions are skipped.
func (uc *PreprocessUseCase) Preprocess(ctx context.Context) (*domain.PreprocessResult, error) {
	names, err := uc.raw.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list raw protocols: %w", err)
	}

	result := &domain.PreprocessResult{}
	for _, name := range names {
		if !strings.HasSuffix(strings.ToLower(name), "pdf") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := uc.convert(ctx, name); err != nil {
			result.Skipped = append(result.Skipped, domain.PreprocessSkip{File: name, Reason: err.Error()})
			continue
		}
		result.Converted = append(result.Converted, name)
	}
	return result, nil
}

func (uc *PreprocessUseCase) convert(ctx context.Context, name string) error {
	content, err := uc.read(ctx, name)
	if err != nil {
		return err
	}

	text, err := uc.extractor.Extract(ctx, domain.SourceDocument{Name: name, Content: content})
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("no text extracted"))
	}

	if err := uc.processed.Save(ctx, TextFileName(name), strings.NewReader(text)); err != nil {
		return fmt.Errorf("save text: %w", err)
	}
	return nil
}

func (uc *PreprocessUseCase) read(ctx context.Context, name string) ([]byte, error) {
	rc, err := uc.raw.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open raw protocol: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read raw protocol: %w", err)
	}
	return content, nil
}

// TextFileName replaces the last extension of name with ".txt".
func TextFileName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ".txt"
}
