package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

const (
	FieldStudyObjective     = "study_objective"
	FieldInclusionCriteria  = "inclusion_criteria"
	FieldExclusionCriteria  = "exclusion_criteria"
	FieldPrimaryEndpoints   = "primary_endpoints"
	FieldSecondaryEndpoints = "secondary_endpoints"

	// fieldStudyObjectiveAlias is the spelling some model replies use.
	fieldStudyObjectiveAlias = "study objective"
)

// StructuredSummary is the five-field extraction of a clinical trial protocol.
// It is decoded leniently: absent fields are empty and fields with the wrong
// JSON shape are flagged as malformed instead of failing the whole decode.
type StructuredSummary struct {
	StudyObjective     TextField `json:"study_objective"`
	InclusionCriteria  ListField `json:"inclusion_criteria"`
	ExclusionCriteria  ListField `json:"exclusion_criteria"`
	PrimaryEndpoints   ListField `json:"primary_endpoints"`
	SecondaryEndpoints ListField `json:"secondary_endpoints"`
}

// TextField is a free-text summary field.
type TextField struct {
	Value     string
	Malformed bool
}

// Text builds a well-formed TextField.
func Text(value string) TextField {
	return TextField{Value: value}
}

func (f TextField) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// ListField is an ordered list of text items.
type ListField struct {
	Items     []string
	Malformed bool
}

// List builds a well-formed ListField.
func List(items ...string) ListField {
	return ListField{Items: append([]string{}, items...)}
}

func (f ListField) MarshalJSON() ([]byte, error) {
	if f.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f.Items)
}

func (s *StructuredSummary) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("summary must be a JSON object, got null")
	}

	objective, ok := fields[FieldStudyObjective]
	if !ok {
		objective, ok = fields[fieldStudyObjectiveAlias]
	}

	*s = StructuredSummary{
		StudyObjective:     decodeTextField(objective, ok),
		InclusionCriteria:  decodeListField(fields, FieldInclusionCriteria),
		ExclusionCriteria:  decodeListField(fields, FieldExclusionCriteria),
		PrimaryEndpoints:   decodeListField(fields, FieldPrimaryEndpoints),
		SecondaryEndpoints: decodeListField(fields, FieldSecondaryEndpoints),
	}
	return nil
}

func decodeTextField(raw json.RawMessage, present bool) TextField {
	if !present || isJSONNull(raw) {
		return TextField{}
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return TextField{Malformed: true}
	}
	return TextField{Value: value}
}

// decodeListField treats an explicit null like any other non-array value.
func decodeListField(fields map[string]json.RawMessage, key string) ListField {
	raw, ok := fields[key]
	if !ok {
		return ListField{Items: []string{}}
	}
	var items []json.RawMessage
	if isJSONNull(raw) || json.Unmarshal(raw, &items) != nil {
		return ListField{Malformed: true}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, itemText(item))
	}
	return ListField{Items: out}
}

// itemText renders a list element the way a Python str() of the decoded
// value reads: strings verbatim, null as None, booleans capitalised, integers
// in full and other numbers in shortest float form. Objects and arrays keep
// their compact JSON literal.
func itemText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}
	switch string(trimmed) {
	case "null":
		return "None"
	case "true":
		return "True"
	case "false":
		return "False"
	}
	if len(trimmed) > 0 && (trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')) {
		if out, ok := numberText(string(trimmed)); ok {
			return out
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}

// numberText formats a JSON number literal. Literals without a fraction or
// exponent are integers of any size; the rest use repr-style float output.
func numberText(literal string) (string, bool) {
	if !strings.ContainsAny(literal, ".eE") {
		n, ok := new(big.Int).SetString(literal, 10)
		if !ok {
			return "", false
		}
		return n.String(), true
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil && !math.IsInf(f, 0) {
		return "", false
	}
	return floatText(f), true
}

func floatText(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ParseSummary decodes model or reference text into a StructuredSummary.
// Empty input yields ErrNoOutput; anything that is not a JSON object yields a
// *ParseError carrying the raw text.
func ParseSummary(raw string) (*StructuredSummary, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNoOutput
	}
	var summary StructuredSummary
	if err := json.Unmarshal([]byte(trimmed), &summary); err != nil {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("decode summary json: %w", err)}
	}
	return &summary, nil
}
