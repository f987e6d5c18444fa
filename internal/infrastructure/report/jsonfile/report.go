// Package jsonfile persists evaluation reports as indented JSON.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
)

const DefaultName = "summary_report.json"

type Store struct {
	storage ports.ObjectStorage
	name    string
}

func New(storage ports.ObjectStorage, name string) *Store {
	if name == "" {
		name = DefaultName
	}
	return &Store{storage: storage, name: name}
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) WriteReport(ctx context.Context, report *domain.EvaluationReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := s.storage.Save(ctx, s.name, bytes.NewReader(append(data, '\n'))); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// ReadReport returns domain.ErrDocumentNotFound when no report was written yet.
func (s *Store) ReadReport(ctx context.Context) (*domain.EvaluationReport, error) {
	rc, err := s.storage.Open(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer rc.Close()

	var report domain.EvaluationReport
	if err := json.NewDecoder(rc).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if report.IndividualScores == nil {
		report.IndividualScores = []domain.DocumentScore{}
	}
	return &report, nil
}
