package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Revision is one undo snapshot of a page's component tree.
type Revision struct {
	ID        string    `json:"id"`
	PageID    string    `json:"pageId"`
	ParentID  string    `json:"parentId,omitempty"`
	Label     string    `json:"label"`
	Snapshot  string    `json:"-"` // serialized page JSON, omitted from listings
	CreatedAt time.Time `json:"createdAt"`
}

// RevisionStore keeps an undo history per page. Revisions form a chain
// hanging off the page's current pointer; saving while undone starts a
// new branch, and redo follows the newest child.
type RevisionStore struct {
	db *DB
}

func NewRevisionStore(db *DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// maxRevisionsPerPage caps history so the database doesn't grow without
// bound under heavy editing.
const maxRevisionsPerPage = 200

// SaveRevision records a snapshot as a child of the page's current
// revision and moves the pointer to it.
func (s *RevisionStore) SaveRevision(pageID, label, snapshotJSON string) (*Revision, error) {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var parentID sql.NullString
	err = tx.QueryRow(
		`SELECT current_revision_id FROM revision_state WHERE page_id = ?`, pageID,
	).Scan(&parentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read revision pointer: %w", err)
	}

	rev := &Revision{
		ID:        uuid.New().String(),
		PageID:    pageID,
		ParentID:  parentID.String,
		Label:     label,
		Snapshot:  snapshotJSON,
		CreatedAt: time.Now(),
	}

	_, err = tx.Exec(
		`INSERT INTO page_revisions (id, page_id, parent_id, label, snapshot_json, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rev.ID, rev.PageID, nullIfEmpty(rev.ParentID), rev.Label, rev.Snapshot, rev.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO revision_state (page_id, current_revision_id) VALUES (?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET current_revision_id = excluded.current_revision_id`,
		pageID, rev.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("move revision pointer: %w", err)
	}

	// Trim oldest revisions past the cap. The current pointer always
	// sits near the newest end so it is never trimmed.
	_, err = tx.Exec(
		`DELETE FROM page_revisions WHERE page_id = ? AND id NOT IN (
			SELECT id FROM page_revisions WHERE page_id = ? ORDER BY created_at DESC LIMIT ?
		)`, pageID, pageID, maxRevisionsPerPage,
	)
	if err != nil {
		return nil, fmt.Errorf("trim revisions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rev, nil
}

// Undo moves the page's pointer to the current revision's parent and
// returns that parent. Returns (nil, nil) when there is nothing to undo.
func (s *RevisionStore) Undo(pageID string) (*Revision, error) {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := currentRevision(tx, pageID)
	if err != nil || current == nil {
		return nil, err
	}
	if current.ParentID == "" {
		return nil, nil // at the root of history
	}

	parent, err := getRevision(tx, current.ParentID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		`UPDATE revision_state SET current_revision_id = ? WHERE page_id = ?`, parent.ID, pageID,
	); err != nil {
		return nil, fmt.Errorf("move revision pointer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return parent, nil
}

// Redo moves the pointer to the newest child of the current revision.
// Returns (nil, nil) when there is nothing to redo.
func (s *RevisionStore) Redo(pageID string) (*Revision, error) {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := currentRevision(tx, pageID)
	if err != nil || current == nil {
		return nil, err
	}

	child := &Revision{}
	var parentID sql.NullString
	err = tx.QueryRow(
		`SELECT id, page_id, parent_id, label, snapshot_json, created_at FROM page_revisions
		 WHERE page_id = ? AND parent_id = ? ORDER BY created_at DESC LIMIT 1`,
		pageID, current.ID,
	).Scan(&child.ID, &child.PageID, &parentID, &child.Label, &child.Snapshot, &child.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // tip of history
	}
	if err != nil {
		return nil, fmt.Errorf("find redo target: %w", err)
	}
	child.ParentID = parentID.String

	if _, err := tx.Exec(
		`UPDATE revision_state SET current_revision_id = ? WHERE page_id = ?`, child.ID, pageID,
	); err != nil {
		return nil, fmt.Errorf("move revision pointer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return child, nil
}

// ListRevisions returns a page's history, newest first, without snapshots.
func (s *RevisionStore) ListRevisions(pageID string) ([]Revision, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, page_id, parent_id, label, created_at FROM page_revisions
		 WHERE page_id = ? ORDER BY created_at DESC`, pageID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		var parentID sql.NullString
		if err := rows.Scan(&r.ID, &r.PageID, &parentID, &r.Label, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.ParentID = parentID.String
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// Restore moves the pointer to an arbitrary revision and returns it.
func (s *RevisionStore) Restore(pageID, revisionID string) (*Revision, error) {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rev, err := getRevision(tx, revisionID)
	if err != nil {
		return nil, err
	}
	if rev.PageID != pageID {
		return nil, fmt.Errorf("revision %s does not belong to page %s", revisionID, pageID)
	}

	_, err = tx.Exec(
		`INSERT INTO revision_state (page_id, current_revision_id) VALUES (?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET current_revision_id = excluded.current_revision_id`,
		pageID, rev.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("move revision pointer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rev, nil
}

func currentRevision(tx *sql.Tx, pageID string) (*Revision, error) {
	var currentID string
	err := tx.QueryRow(
		`SELECT current_revision_id FROM revision_state WHERE page_id = ?`, pageID,
	).Scan(&currentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read revision pointer: %w", err)
	}
	return getRevisionFrom(tx, currentID)
}

func getRevision(tx *sql.Tx, id string) (*Revision, error) {
	rev, err := getRevisionFrom(tx, id)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, fmt.Errorf("revision not found: %s", id)
	}
	return rev, nil
}

func getRevisionFrom(tx *sql.Tx, id string) (*Revision, error) {
	rev := &Revision{}
	var parentID sql.NullString
	err := tx.QueryRow(
		`SELECT id, page_id, parent_id, label, snapshot_json, created_at FROM page_revisions WHERE id = ?`, id,
	).Scan(&rev.ID, &rev.PageID, &parentID, &rev.Label, &rev.Snapshot, &rev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get revision %s: %w", id, err)
	}
	rev.ParentID = parentID.String
	return rev, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
