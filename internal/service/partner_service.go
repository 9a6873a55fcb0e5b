package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/dbclient"
	"storefront/internal/domain"
	"storefront/internal/importer/sources"
	"storefront/internal/secret"
)

// ─────────────────────────────────────────────────────────────
// Partner Service — partner database connections for imports
// ─────────────────────────────────────────────────────────────

// PartnerService manages saved partner database connections and hands
// out live connectors for import jobs. Passwords go to the secret
// store keyed by connection id, never to SQLite.
type PartnerService struct {
	store   domain.PartnerConnectionStore
	secrets secret.SecretStore

	mu         sync.Mutex
	connectors map[string]dbclient.Connector // open connectors by connection id
}

func NewPartnerService(store domain.PartnerConnectionStore, secrets secret.SecretStore) *PartnerService {
	return &PartnerService{
		store:      store,
		secrets:    secrets,
		connectors: make(map[string]dbclient.Connector),
	}
}

type PartnerConnectionInput struct {
	Name      string `json:"name"`
	Driver    string `json:"driver"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Database  string `json:"database"`
	Username  string `json:"username"`
	Password  string `json:"password"` // write-only, goes to the secret store
	SSLMode   string `json:"sslMode"`
	ExtraJSON string `json:"extraJson"`
}

func (s *PartnerService) CreateConnection(input PartnerConnectionInput) (*domain.PartnerConnection, error) {
	conn := &domain.PartnerConnection{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Driver:    domain.PartnerDriver(input.Driver),
		Host:      input.Host,
		Port:      input.Port,
		Database:  input.Database,
		Username:  input.Username,
		SSLMode:   input.SSLMode,
		ExtraJSON: input.ExtraJSON,
	}
	if err := s.store.CreateConnection(conn); err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}
	if input.Password != "" {
		if err := s.secrets.Set(conn.ID, []byte(input.Password)); err != nil {
			return nil, fmt.Errorf("store password: %w", err)
		}
	}
	return conn, nil
}

func (s *PartnerService) GetConnection(id string) (*domain.PartnerConnection, error) {
	return s.store.GetConnection(id)
}

func (s *PartnerService) ListConnections() ([]domain.PartnerConnection, error) {
	return s.store.ListConnections()
}

func (s *PartnerService) UpdateConnection(id string, input PartnerConnectionInput) error {
	conn, err := s.store.GetConnection(id)
	if err != nil {
		return err
	}
	conn.Name = input.Name
	conn.Driver = domain.PartnerDriver(input.Driver)
	conn.Host = input.Host
	conn.Port = input.Port
	conn.Database = input.Database
	conn.Username = input.Username
	conn.SSLMode = input.SSLMode
	conn.ExtraJSON = input.ExtraJSON

	if err := s.store.UpdateConnection(conn); err != nil {
		return err
	}
	if input.Password != "" {
		if err := s.secrets.Set(id, []byte(input.Password)); err != nil {
			return fmt.Errorf("store password: %w", err)
		}
	}
	s.closeConnector(id) // settings changed, force a fresh connector
	return nil
}

func (s *PartnerService) DeleteConnection(id string) error {
	s.closeConnector(id)
	if err := s.store.DeleteConnection(id); err != nil {
		return err
	}
	s.secrets.Delete(id)
	return nil
}

// TestConnection opens a fresh connector and pings the partner database.
func (s *PartnerService) TestConnection(ctx context.Context, id string) error {
	conn, err := s.store.GetConnection(id)
	if err != nil {
		return err
	}
	password, _ := s.secrets.Get(id)
	connector, err := dbclient.NewConnector(conn, string(password))
	if err != nil {
		return err
	}
	defer connector.Close()
	return connector.TestConnection(ctx)
}

// Introspect returns the partner database schema for the import wizard.
func (s *PartnerService) Introspect(ctx context.Context, id string) (*dbclient.SchemaInfo, error) {
	connector, err := s.connector(id)
	if err != nil {
		return nil, err
	}
	return connector.Introspect(ctx)
}

// QueryPage implements sources.DBProvider: page 0 opens a cursor, later
// pages continue it. The database import source drives this.
func (s *PartnerService) QueryPage(ctx context.Context, connectionID, query string, page, pageSize int) (*sources.QueryPage, error) {
	connector, err := s.connector(connectionID)
	if err != nil {
		return nil, err
	}

	var feedPage *dbclient.FeedPage
	if page == 0 {
		feedPage, err = connector.Execute(ctx, query, pageSize)
	} else {
		feedPage, err = connector.FetchMore(ctx, pageSize)
	}
	if err != nil {
		return nil, err
	}

	return &sources.QueryPage{
		Columns: feedPage.Columns,
		Rows:    feedPage.Rows,
		HasMore: feedPage.HasMore,
	}, nil
}

// Close closes all open connectors. Called on shutdown.
func (s *PartnerService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.connectors {
		c.Close()
		delete(s.connectors, id)
	}
}

// connector returns a cached open connector for the connection,
// creating one on first use.
func (s *PartnerService) connector(id string) (dbclient.Connector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.connectors[id]; ok {
		return c, nil
	}

	conn, err := s.store.GetConnection(id)
	if err != nil {
		return nil, err
	}
	password, _ := s.secrets.Get(id)
	c, err := dbclient.NewConnector(conn, string(password))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", conn.Name, err)
	}
	s.connectors[id] = c
	return c, nil
}

func (s *PartnerService) closeConnector(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.connectors[id]; ok {
		c.Close()
		delete(s.connectors, id)
	}
}
