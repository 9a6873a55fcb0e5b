package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"storefront/internal/importer"
)

// ── HTTP API Source ─────────────────────────────────────────
// Pulls product feeds from a partner's REST endpoint. Responses are
// expected to be JSON, either a bare array or an object with the
// array nested under dataPath.

type httpSource struct{}

func init() { importer.RegisterSource(&httpSource{}) }

func (s *httpSource) Spec() importer.SourceSpec {
	return importer.SourceSpec{
		Type:  "http_api",
		Label: "HTTP API",
		Icon:  "IconApi",
		ConfigFields: []importer.ConfigField{
			{Key: "url", Label: "URL", Type: "string", Required: true, Help: "Feed endpoint returning JSON"},
			{Key: "method", Label: "Method", Type: "select", Required: false, Options: []string{"GET", "POST"}, Default: "GET"},
			{Key: "headers", Label: "Headers", Type: "json", Required: false, Help: `Request headers as JSON, e.g. {"Authorization": "Bearer …"}`},
			{Key: "dataPath", Label: "Data Path", Type: "string", Required: false, Help: "Dot path to the product array in the response"},
		},
	}
}

func (s *httpSource) Discover(ctx context.Context, cfg importer.SourceConfig) (*importer.Schema, error) {
	records, err := fetchHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return inferSchema(records), nil
}

func (s *httpSource) Read(ctx context.Context, cfg importer.SourceConfig) (<-chan importer.Record, <-chan error) {
	out := make(chan importer.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		records, err := fetchHTTP(ctx, cfg)
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

func fetchHTTP(ctx context.Context, cfg importer.SourceConfig) ([]importer.Record, error) {
	url, _ := cfg["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	method, _ := cfg["method"].(string)
	if method == "" {
		method = "GET"
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if headersJSON, ok := cfg["headers"].(string); ok && headersJSON != "" {
		var headers map[string]string
		if err := json.Unmarshal([]byte(headersJSON), &headers); err != nil {
			return nil, fmt.Errorf("parse headers: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if dataPath, ok := cfg["dataPath"].(string); ok && dataPath != "" {
		parsed, err = navigatePath(parsed, dataPath)
		if err != nil {
			return nil, err
		}
	}

	return toRecords(parsed)
}

// navigatePath walks a dot-separated key path into nested JSON objects.
func navigatePath(data any, path string) (any, error) {
	current := data
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("path %q: expected object at %q", path, key)
		}
		current, ok = obj[key]
		if !ok {
			return nil, fmt.Errorf("path %q: key %q not found", path, key)
		}
	}
	return current, nil
}

// toRecords converts parsed JSON into flat records. Arrays become one
// record per element; a single object becomes one record.
func toRecords(data any) ([]importer.Record, error) {
	switch v := data.(type) {
	case []any:
		records := make([]importer.Record, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				obj = map[string]any{"value": item}
			}
			records = append(records, importer.Record{Data: flattenMap(obj, "")})
		}
		return records, nil
	case map[string]any:
		return []importer.Record{{Data: flattenMap(v, "")}}, nil
	default:
		return nil, fmt.Errorf("expected JSON array or object, got %T", data)
	}
}

// flattenMap flattens nested objects into dotted keys so transforms
// can address fields like "pricing.amount". Arrays are kept as-is.
func flattenMap(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flattenMap(nested, key) {
				out[nk] = nv
			}
			continue
		}
		out[key] = v
	}
	return out
}

// inferSchema derives field names and types from a sample of records.
func inferSchema(records []importer.Record) *importer.Schema {
	seen := make(map[string]string)
	order := []string{}

	sample := records
	if len(sample) > 50 {
		sample = sample[:50]
	}
	for _, rec := range sample {
		for k, v := range rec.Data {
			if _, ok := seen[k]; !ok {
				seen[k] = inferType(v)
				order = append(order, k)
			}
		}
	}

	schema := &importer.Schema{Fields: make([]importer.Field, 0, len(order))}
	for _, name := range order {
		schema.Fields = append(schema.Fields, importer.Field{Name: name, Type: seen[name]})
	}
	return schema
}

func inferType(v any) string {
	if v == nil {
		return "text"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Float64, reflect.Float32, reflect.Int, reflect.Int64:
		return "number"
	case reflect.Bool:
		return "boolean"
	default:
		return "text"
	}
}
