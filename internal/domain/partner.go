package domain

import "time"

// PartnerDriver represents the database engine of an import partner.
type PartnerDriver string

const (
	PartnerDriverMySQL    PartnerDriver = "mysql"
	PartnerDriverPostgres PartnerDriver = "postgres"
	PartnerDriverMongoDB  PartnerDriver = "mongodb"
	PartnerDriverSQLite   PartnerDriver = "sqlite"
)

// PartnerConnection holds the metadata for connecting to a product-import
// partner's database. The password lives in the SecretStore, never here.
type PartnerConnection struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Driver    PartnerDriver `json:"driver"`
	Host      string        `json:"host"`     // hostname or file path (sqlite)
	Port      int           `json:"port"`     // 0 for sqlite
	Database  string        `json:"database"` // db name, empty for sqlite
	Username  string        `json:"username"`
	SSLMode   string        `json:"sslMode"`
	ExtraJSON string        `json:"extraJson"` // driver-specific options
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// PartnerConnectionStore manages CRUD for partner connections.
type PartnerConnectionStore interface {
	CreateConnection(c *PartnerConnection) error
	GetConnection(id string) (*PartnerConnection, error)
	ListConnections() ([]PartnerConnection, error)
	UpdateConnection(c *PartnerConnection) error
	DeleteConnection(id string) error
}
