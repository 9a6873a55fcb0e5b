package dbclient

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

// FeedPage is a batch of rows read from a partner database, keyed by
// column name so they can flow straight into the import pipeline.
type FeedPage struct {
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	TotalFetched int              `json:"totalFetched"` // total rows fetched so far
	HasMore      bool             `json:"hasMore"`      // cursor has more rows
}

// SchemaInfo describes a partner database for the import wizard's
// table picker and field mapping step.
type SchemaInfo struct {
	Tables []TableInfo `json:"tables"`
}

// TableInfo describes a table/collection.
type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// ColumnInfo describes a column/field.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Connector abstracts read access to a partner's product database.
// Imports only ever read, so there is no write surface here.
type Connector interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// Execute runs a read query, opens a cursor, and returns the
	// first batch of up to fetchSize rows.
	Execute(ctx context.Context, query string, fetchSize int) (*FeedPage, error)

	// FetchMore continues reading from the open cursor.
	FetchMore(ctx context.Context, fetchSize int) (*FeedPage, error)

	// Introspect returns the schema for the import wizard.
	Introspect(ctx context.Context) (*SchemaInfo, error)

	// Close closes the connection and any open cursor.
	Close() error
}

// NewConnector creates a Connector for the given partner connection.
// The password must be provided separately (from SecretStore).
func NewConnector(conn *domain.PartnerConnection, password string) (Connector, error) {
	switch conn.Driver {
	case domain.PartnerDriverSQLite:
		return newSQLiteConnector(conn)
	case domain.PartnerDriverMySQL:
		return newSQLConnector("mysql", buildMySQLDSN(conn, password))
	case domain.PartnerDriverPostgres:
		return newSQLConnector("postgres", buildPostgresDSN(conn, password))
	case domain.PartnerDriverMongoDB:
		return newMongoConnector(conn, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}
