package domain

// FieldScores holds one score in [0, 1] per StructuredSummary field.
type FieldScores struct {
	ObjectiveRougeL           float64 `json:"objective_rougeL"`
	InclusionAccuracy         float64 `json:"inclusion_accuracy"`
	ExclusionAccuracy         float64 `json:"exclusion_accuracy"`
	PrimaryEndpointAccuracy   float64 `json:"primary_endpoint_accuracy"`
	SecondaryEndpointAccuracy float64 `json:"secondary_endpoint_accuracy"`
}

// DocumentScore is the per-document result of one evaluation run.
type DocumentScore struct {
	Document string `json:"document"`
	FieldScores
}

type SkipReason string

const (
	SkipMissingReference       SkipReason = "missing_reference"
	SkipInvalidReference       SkipReason = "invalid_reference"
	SkipMissingProtocolText    SkipReason = "missing_protocol_text"
	SkipNoGeneratorOutput      SkipReason = "no_generator_output"
	SkipInvalidGeneratorOutput SkipReason = "invalid_generator_output"
)

// SkippedDocument records why a document was left out of aggregation.
type SkippedDocument struct {
	Document  string     `json:"document"`
	Reason    SkipReason `json:"reason"`
	Detail    string     `json:"detail,omitempty"`
	RawOutput string     `json:"raw_output,omitempty"`
}

// EvaluationReport is the corpus-level outcome of a batch run.
// AverageScores is nil when no document was scored.
type EvaluationReport struct {
	AverageScores    *FieldScores      `json:"average_scores"`
	IndividualScores []DocumentScore   `json:"individual_scores"`
	SkippedDocuments []SkippedDocument `json:"skipped_documents,omitempty"`
	DocumentsTotal   int               `json:"documents_total"`
	DocumentsScored  int               `json:"documents_scored"`
}

// CorpusEntry is one (document, generated, reference) triple fed to the
// scoring engine. Skip is set when the entry could not be assembled.
type CorpusEntry struct {
	DocumentID string
	Generated  *StructuredSummary
	Reference  *StructuredSummary
	Skip       *SkippedDocument
}
