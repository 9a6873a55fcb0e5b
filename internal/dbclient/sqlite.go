package dbclient

import (
	"storefront/internal/domain"

	_ "modernc.org/sqlite"
)

// newSQLiteConnector creates a connector for a partner SQLite file.
// Many small merchants hand over their whole shop as one .db file.
func newSQLiteConnector(conn *domain.PartnerConnection) (*sqlConnector, error) {
	dsn := conn.Host + "?mode=ro&_busy_timeout=5000"
	return newSQLConnector("sqlite", dsn)
}
