package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
)

// PartnerStore implements domain.PartnerConnectionStore using SQLite.
type PartnerStore struct {
	db *DB
}

func NewPartnerStore(db *DB) *PartnerStore {
	return &PartnerStore{db: db}
}

func (s *PartnerStore) CreateConnection(c *domain.PartnerConnection) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.ExtraJSON == "" {
		c.ExtraJSON = "{}"
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO partner_connections (id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Driver), c.Host, c.Port, c.Database, c.Username, c.SSLMode, c.ExtraJSON, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *PartnerStore) GetConnection(id string) (*domain.PartnerConnection, error) {
	c := &domain.PartnerConnection{}
	var driver string
	err := s.db.Conn().QueryRow(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at
		 FROM partner_connections WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &driver, &c.Host, &c.Port, &c.Database, &c.Username, &c.SSLMode, &c.ExtraJSON, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("partner connection not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	c.Driver = domain.PartnerDriver(driver)
	return c, nil
}

func (s *PartnerStore) ListConnections() ([]domain.PartnerConnection, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at
		 FROM partner_connections ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []domain.PartnerConnection
	for rows.Next() {
		var c domain.PartnerConnection
		var driver string
		if err := rows.Scan(&c.ID, &c.Name, &driver, &c.Host, &c.Port, &c.Database, &c.Username, &c.SSLMode, &c.ExtraJSON, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Driver = domain.PartnerDriver(driver)
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

func (s *PartnerStore) UpdateConnection(c *domain.PartnerConnection) error {
	c.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE partner_connections SET name = ?, driver = ?, host = ?, port = ?, database_name = ?, username = ?, ssl_mode = ?, extra_json = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, string(c.Driver), c.Host, c.Port, c.Database, c.Username, c.SSLMode, c.ExtraJSON, c.UpdatedAt, c.ID,
	)
	return err
}

func (s *PartnerStore) DeleteConnection(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM partner_connections WHERE id = ?`, id)
	return err
}
