package sources

import (
	"context"
	"fmt"

	"storefront/internal/importer"
)

// ── Partner Database Source ─────────────────────────────────
// Reads products straight out of a partner's database. The actual
// driver work lives in dbclient; this source only knows how to page
// through a query via the provider installed at startup.

// QueryPage is one page of rows from a partner database query.
type QueryPage struct {
	Columns []string
	Rows    []map[string]any
	HasMore bool
}

// DBProvider executes queries against a saved partner connection.
// The app layer installs an implementation backed by dbclient.
type DBProvider interface {
	QueryPage(ctx context.Context, connectionID, query string, page, pageSize int) (*QueryPage, error)
}

var dbProvider DBProvider

// SetDBProvider wires the database source to the connection layer.
// Must be called before a database import runs.
func SetDBProvider(p DBProvider) { dbProvider = p }

const dbPageSize = 500

type databaseSource struct{}

func init() { importer.RegisterSource(&databaseSource{}) }

func (s *databaseSource) Spec() importer.SourceSpec {
	return importer.SourceSpec{
		Type:  "database",
		Label: "Partner Database",
		Icon:  "IconDatabase",
		ConfigFields: []importer.ConfigField{
			{Key: "connectionId", Label: "Connection", Type: "connection", Required: true, Help: "Saved partner database connection"},
			{Key: "query", Label: "Query", Type: "sql", Required: true, Help: "Query returning one row per product"},
		},
	}
}

func (s *databaseSource) Discover(ctx context.Context, cfg importer.SourceConfig) (*importer.Schema, error) {
	connectionID, query, err := dbSourceConfig(cfg)
	if err != nil {
		return nil, err
	}

	page, err := dbProvider.QueryPage(ctx, connectionID, query, 0, 50)
	if err != nil {
		return nil, fmt.Errorf("sample query: %w", err)
	}

	schema := &importer.Schema{Fields: make([]importer.Field, 0, len(page.Columns))}
	for _, col := range page.Columns {
		fieldType := "text"
		for _, row := range page.Rows {
			if v, ok := row[col]; ok && v != nil {
				fieldType = inferType(v)
				break
			}
		}
		schema.Fields = append(schema.Fields, importer.Field{Name: col, Type: fieldType})
	}
	return schema, nil
}

func (s *databaseSource) Read(ctx context.Context, cfg importer.SourceConfig) (<-chan importer.Record, <-chan error) {
	out := make(chan importer.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		connectionID, query, err := dbSourceConfig(cfg)
		if err != nil {
			errCh <- err
			return
		}

		for page := 0; ; page++ {
			result, err := dbProvider.QueryPage(ctx, connectionID, query, page, dbPageSize)
			if err != nil {
				errCh <- fmt.Errorf("query page %d: %w", page, err)
				return
			}

			for _, row := range result.Rows {
				select {
				case out <- importer.Record{Data: row}:
				case <-ctx.Done():
					return
				}
			}

			if !result.HasMore {
				return
			}
		}
	}()

	return out, errCh
}

func dbSourceConfig(cfg importer.SourceConfig) (string, string, error) {
	if dbProvider == nil {
		return "", "", fmt.Errorf("database provider not configured")
	}
	connectionID, _ := cfg["connectionId"].(string)
	if connectionID == "" {
		return "", "", fmt.Errorf("connectionId is required")
	}
	query, _ := cfg["query"].(string)
	if query == "" {
		return "", "", fmt.Errorf("query is required")
	}
	return connectionID, query, nil
}
