package scoring

import (
	"github.com/kirillkom/trialsage/internal/core/domain"
)

// EvaluateCorpus scores every complete entry and aggregates the results.
// Entries with a Skip record, a missing generated summary or a missing
// reference are reported in SkippedDocuments and excluded from the averages.
// When nothing could be scored AverageScores stays nil and the returned error
// is domain.ErrNoDocumentsScored; the report is still returned for auditing.
func EvaluateCorpus(entries []domain.CorpusEntry) (*domain.EvaluationReport, error) {
	tally := NewTally()
	for _, entry := range entries {
		tally.Add(entry)
	}
	return tally.Report()
}

// Tally accumulates an EvaluationReport one entry at a time, so callers can
// react to each document as soon as it is classified.
type Tally struct {
	report domain.EvaluationReport
}

func NewTally() *Tally {
	return &Tally{report: domain.EvaluationReport{IndividualScores: []domain.DocumentScore{}}}
}

// Add scores or skips entry. Exactly one of the returned values is non-nil.
func (t *Tally) Add(entry domain.CorpusEntry) (*domain.DocumentScore, *domain.SkippedDocument) {
	t.report.DocumentsTotal++
	if skip := skipFor(entry); skip != nil {
		t.report.SkippedDocuments = append(t.report.SkippedDocuments, *skip)
		return nil, skip
	}
	score := domain.DocumentScore{
		Document:    entry.DocumentID,
		FieldScores: ScoreSummary(entry.Generated, entry.Reference),
	}
	t.report.IndividualScores = append(t.report.IndividualScores, score)
	return &score, nil
}

// Report returns a snapshot of the entries added so far with their averages.
func (t *Tally) Report() (*domain.EvaluationReport, error) {
	report := t.report
	report.IndividualScores = append([]domain.DocumentScore{}, t.report.IndividualScores...)
	report.SkippedDocuments = append([]domain.SkippedDocument(nil), t.report.SkippedDocuments...)
	report.DocumentsScored = len(report.IndividualScores)

	averages, err := Average(report.IndividualScores)
	if err != nil {
		return &report, err
	}
	report.AverageScores = &averages
	return &report, nil
}

func skipFor(entry domain.CorpusEntry) *domain.SkippedDocument {
	switch {
	case entry.Skip != nil:
		skip := *entry.Skip
		if skip.Document == "" {
			skip.Document = entry.DocumentID
		}
		return &skip
	case entry.Reference == nil:
		return &domain.SkippedDocument{Document: entry.DocumentID, Reason: domain.SkipMissingReference}
	case entry.Generated == nil:
		return &domain.SkippedDocument{Document: entry.DocumentID, Reason: domain.SkipNoGeneratorOutput}
	default:
		return nil
	}
}

// Average returns the per-field arithmetic mean of scores.
func Average(scores []domain.DocumentScore) (domain.FieldScores, error) {
	if len(scores) == 0 {
		return domain.FieldScores{}, domain.ErrNoDocumentsScored
	}
	var sum domain.FieldScores
	for _, s := range scores {
		sum.ObjectiveRougeL += s.ObjectiveRougeL
		sum.InclusionAccuracy += s.InclusionAccuracy
		sum.ExclusionAccuracy += s.ExclusionAccuracy
		sum.PrimaryEndpointAccuracy += s.PrimaryEndpointAccuracy
		sum.SecondaryEndpointAccuracy += s.SecondaryEndpointAccuracy
	}
	n := float64(len(scores))
	return domain.FieldScores{
		ObjectiveRougeL:           sum.ObjectiveRougeL / n,
		InclusionAccuracy:         sum.InclusionAccuracy / n,
		ExclusionAccuracy:         sum.ExclusionAccuracy / n,
		PrimaryEndpointAccuracy:   sum.PrimaryEndpointAccuracy / n,
		SecondaryEndpointAccuracy: sum.SecondaryEndpointAccuracy / n,
	}, nil
}
