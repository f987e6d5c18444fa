package httpadapter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// apiContract is the loaded OpenAPI document used to validate request bodies
// and to serve the published contract.
type apiContract struct {
	published    []byte
	scoreRequest *openapi3.Schema
}

func loadAPIContract() (*apiContract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	ref, ok := doc.Components.Schemas["ScoreRequest"]
	if !ok || ref.Value == nil {
		return nil, errors.New("openapi document has no ScoreRequest schema")
	}

	published, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	return &apiContract{
		published:    published,
		scoreRequest: ref.Value,
	}, nil
}

func (c *apiContract) validateScoreRequest(body []byte) error {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return c.scoreRequest.VisitJSON(value)
}
