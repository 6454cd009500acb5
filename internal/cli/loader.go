package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"propsearch/internal/models"
)

// LoadRecords reads property records from path, or from stdin when path is
// empty or "-". Files ending in .yaml or .yml are YAML, everything else
// JSON. The document is either a list of records or an object with a
// "records" list.
func LoadRecords(path string, stdin io.Reader) ([]models.PropertyRecord, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML records: %w", err)
		}
	}

	return decodeRecords(data)
}

func decodeRecords(data []byte) ([]models.PropertyRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []models.PropertyRecord{}, nil
	}

	if data[0] == '{' {
		var wrapped struct {
			Records []models.PropertyRecord `json:"records"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
		if wrapped.Records == nil {
			wrapped.Records = []models.PropertyRecord{}
		}
		return wrapped.Records, nil
	}

	var records []models.PropertyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// yamlToJSON re-encodes a YAML document as JSON so records go through the
// same lenient decoding as JSON input.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return json.Marshal(doc)
}
