package dispatcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidRequest is returned by DecodeRequest for envelopes that are not
// JSON or do not have the request shape.
var ErrInvalidRequest = errors.New("invalid request")

const envelopeSchemaJSON = `{
  "type": "object",
  "required": ["operation"],
  "properties": {
    "id": {"type": "string"},
    "operation": {"type": "string", "minLength": 1},
    "payload": {
      "type": ["object", "null"],
      "properties": {
        "records": {"type": "array", "items": {"type": "object"}},
        "criteria": {"type": "object"},
        "query": {"type": "string"},
        "fuzzy": {"type": "boolean"},
        "key": {"type": "string"},
        "order": {"type": "string"}
      }
    }
  }
}`

var envelopeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(envelopeSchemaJSON))
})

type envelope struct {
	ID        string          `json:"id"`
	Operation Operation       `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
}

// DecodeRequest parses a JSON request envelope
// {"id": ..., "operation": ..., "payload": {...}}. A missing id is replaced
// by a random UUID. Unknown operations decode without a payload so that
// dispatching them yields an Error response.
func DecodeRequest(data []byte) (Request, error) {
	schema, err := envelopeSchema()
	if err != nil {
		return Request{}, fmt.Errorf("failed to compile request schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return Request{}, fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	req := Request{ID: env.ID, Operation: env.Operation}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	req.Payload, err = decodePayload(env.Operation, env.Payload)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %s payload: %v", ErrInvalidRequest, env.Operation, err)
	}
	return req, nil
}

func decodePayload(op Operation, raw json.RawMessage) (Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	switch op {
	case OpFilter:
		var p FilterPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case OpSearch:
		var p SearchPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case OpSort:
		var p SortPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case OpStats:
		var p StatsPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	default:
		return nil, nil
	}
}
