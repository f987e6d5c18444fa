// Package scoring compares generated protocol summaries with gold-standard
// references and aggregates the results over a corpus.
package scoring

import (
	"strings"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/scoring/rouge"
)

var stemmedScorer = rouge.NewScorer(true)

// ScoreFreeText returns the stemmed ROUGE-L F-measure of generated against
// reference, or 0 when either text is empty.
func ScoreFreeText(generated, reference string) float64 {
	if generated == "" || reference == "" {
		return 0
	}
	return clamp(stemmedScorer.RougeL(reference, generated).FMeasure)
}

// ScoreListRecall returns the fraction of distinct reference items found in
// generated after trimming and lowercasing both sides. Malformed lists score
// 0 and an empty reference scores 1.
//
// Matching is exact after normalization; paraphrased criteria do not match.
func ScoreListRecall(generated, reference domain.ListField) float64 {
	if generated.Malformed || reference.Malformed {
		return 0
	}
	want := normalizedSet(reference.Items)
	if len(want) == 0 {
		return 1
	}
	have := normalizedSet(generated.Items)

	matched := 0
	for item := range want {
		if _, ok := have[item]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(want))
}

func normalizedSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	return set
}

// ScoreSummary scores every field of generated against reference.
func ScoreSummary(generated, reference *domain.StructuredSummary) domain.FieldScores {
	var objective float64
	if !generated.StudyObjective.Malformed && !reference.StudyObjective.Malformed {
		objective = ScoreFreeText(generated.StudyObjective.Value, reference.StudyObjective.Value)
	}
	return domain.FieldScores{
		ObjectiveRougeL:           objective,
		InclusionAccuracy:         ScoreListRecall(generated.InclusionCriteria, reference.InclusionCriteria),
		ExclusionAccuracy:         ScoreListRecall(generated.ExclusionCriteria, reference.ExclusionCriteria),
		PrimaryEndpointAccuracy:   ScoreListRecall(generated.PrimaryEndpoints, reference.PrimaryEndpoints),
		SecondaryEndpointAccuracy: ScoreListRecall(generated.SecondaryEndpoints, reference.SecondaryEndpoints),
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
