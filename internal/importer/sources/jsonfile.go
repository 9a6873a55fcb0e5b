package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"storefront/internal/importer"
)

// ── JSON File Source ────────────────────────────────────────

type jsonFileSource struct{}

func init() { importer.RegisterSource(&jsonFileSource{}) }

func (s *jsonFileSource) Spec() importer.SourceSpec {
	return importer.SourceSpec{
		Type:  "json_file",
		Label: "JSON File",
		Icon:  "IconFileTypeJs",
		ConfigFields: []importer.ConfigField{
			{Key: "filePath", Label: "File Path", Type: "file", Required: true, Help: "Absolute path to the JSON export"},
			{Key: "dataPath", Label: "Data Path", Type: "string", Required: false, Help: "Dot path to the product array, e.g. data.products"},
		},
	}
}

func (s *jsonFileSource) Discover(ctx context.Context, cfg importer.SourceConfig) (*importer.Schema, error) {
	records, err := readJSONFile(cfg)
	if err != nil {
		return nil, err
	}
	return inferSchema(records), nil
}

func (s *jsonFileSource) Read(ctx context.Context, cfg importer.SourceConfig) (<-chan importer.Record, <-chan error) {
	out := make(chan importer.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		records, err := readJSONFile(cfg)
		if err != nil {
			errCh <- err
			return
		}

		for _, rec := range records {
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errCh
}

func readJSONFile(cfg importer.SourceConfig) ([]importer.Record, error) {
	filePath, _ := cfg["filePath"].(string)
	if filePath == "" {
		return nil, fmt.Errorf("filePath is required")
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	if dataPath, ok := cfg["dataPath"].(string); ok && dataPath != "" {
		parsed, err = navigatePath(parsed, dataPath)
		if err != nil {
			return nil, err
		}
	}

	return toRecords(parsed)
}
