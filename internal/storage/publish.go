package storage

import (
	"fmt"
	"time"
)

// PublishRecord is one attempt at publishing the storefront.
type PublishRecord struct {
	ID         string    `json:"id"`
	Provider   string    `json:"provider"` // "netlify" | "vercel" | "rsync" | "custom"
	Target     string    `json:"target"`
	Status     string    `json:"status"` // "success" | "error" | "running"
	Output     string    `json:"output"` // captured command output, truncated
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// PublishStore keeps the publish history.
type PublishStore struct {
	db *DB
}

func NewPublishStore(db *DB) *PublishStore {
	return &PublishStore{db: db}
}

func (s *PublishStore) RecordPublish(p *PublishRecord) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO publishes (id, provider, target, status, output, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, output = excluded.output, finished_at = excluded.finished_at`,
		p.ID, p.Provider, p.Target, p.Status, p.Output, p.StartedAt, p.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record publish: %w", err)
	}
	return nil
}

func (s *PublishStore) ListPublishes(limit int) ([]PublishRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Conn().Query(
		`SELECT id, provider, target, status, output, started_at, finished_at
		 FROM publishes ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PublishRecord
	for rows.Next() {
		var p PublishRecord
		if err := rows.Scan(&p.ID, &p.Provider, &p.Target, &p.Status, &p.Output, &p.StartedAt, &p.FinishedAt); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}
