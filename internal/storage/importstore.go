package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/importer"
)

// ImportStore persists import job definitions and their run history.
type ImportStore struct {
	db *DB
}

func NewImportStore(db *DB) *ImportStore {
	return &ImportStore{db: db}
}

func (s *ImportStore) CreateJob(job *importer.ImportJob) error {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	sourceCfg, err := json.Marshal(job.SourceCfg)
	if err != nil {
		return fmt.Errorf("marshal source config: %w", err)
	}
	transforms, err := json.Marshal(job.Transforms)
	if err != nil {
		return fmt.Errorf("marshal transforms: %w", err)
	}

	_, err = s.db.Conn().Exec(
		`INSERT INTO import_jobs (id, name, source_type, source_config, transforms, sync_mode, dedupe_key, trigger_type, trigger_config, enabled, last_status, last_error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '', '', ?, ?)`,
		job.ID, job.Name, job.SourceType, string(sourceCfg), string(transforms),
		string(job.SyncMode), job.DedupeKey, job.TriggerType, job.TriggerConfig,
		job.Enabled, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (s *ImportStore) GetJob(id string) (*importer.ImportJob, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, name, source_type, source_config, transforms, sync_mode, dedupe_key, trigger_type, trigger_config, enabled, last_run_at, last_status, last_error, created_at, updated_at
		 FROM import_jobs WHERE id = ?`, id,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import job not found: %s", id)
	}
	return job, err
}

func (s *ImportStore) ListJobs() ([]importer.ImportJob, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, source_type, source_config, transforms, sync_mode, dedupe_key, trigger_type, trigger_config, enabled, last_run_at, last_status, last_error, created_at, updated_at
		 FROM import_jobs ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []importer.ImportJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (s *ImportStore) UpdateJob(job *importer.ImportJob) error {
	job.UpdatedAt = time.Now()

	sourceCfg, err := json.Marshal(job.SourceCfg)
	if err != nil {
		return fmt.Errorf("marshal source config: %w", err)
	}
	transforms, err := json.Marshal(job.Transforms)
	if err != nil {
		return fmt.Errorf("marshal transforms: %w", err)
	}

	_, err = s.db.Conn().Exec(
		`UPDATE import_jobs SET name = ?, source_type = ?, source_config = ?, transforms = ?, sync_mode = ?, dedupe_key = ?, trigger_type = ?, trigger_config = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		job.Name, job.SourceType, string(sourceCfg), string(transforms),
		string(job.SyncMode), job.DedupeKey, job.TriggerType, job.TriggerConfig,
		job.Enabled, job.UpdatedAt, job.ID,
	)
	return err
}

func (s *ImportStore) DeleteJob(id string) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM import_runs WHERE job_id = ?`, id); err != nil {
		return fmt.Errorf("delete runs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM import_jobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return tx.Commit()
}

// ListEnabledScheduledJobs returns enabled jobs with a schedule or
// file-watch trigger, for the watcher rebuild.
func (s *ImportStore) ListEnabledScheduledJobs() ([]importer.ImportJob, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, source_type, source_config, transforms, sync_mode, dedupe_key, trigger_type, trigger_config, enabled, last_run_at, last_status, last_error, created_at, updated_at
		 FROM import_jobs WHERE enabled = 1 AND trigger_type IN ('schedule', 'file_watch')`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []importer.ImportJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// UpdateJobStatus rolls a run outcome up onto the job row.
func (s *ImportStore) UpdateJobStatus(id, status, errMsg string) error {
	_, err := s.db.Conn().Exec(
		`UPDATE import_jobs SET last_run_at = ?, last_status = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		time.Now(), status, errMsg, time.Now(), id,
	)
	return err
}

// RecordRun appends a run log entry and rolls its outcome up onto the job.
func (s *ImportStore) RecordRun(run *importer.RunLog) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO import_runs (id, job_id, started_at, finished_at, status, rows_read, rows_written, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.JobID, run.StartedAt, run.FinishedAt, run.Status, run.RowsRead, run.RowsWritten, run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE import_jobs SET last_run_at = ?, last_status = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		run.FinishedAt, run.Status, run.Error, time.Now(), run.JobID,
	)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs for a job, newest first.
func (s *ImportStore) ListRuns(jobID string, limit int) ([]importer.RunLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Conn().Query(
		`SELECT id, job_id, started_at, finished_at, status, rows_read, rows_written, error
		 FROM import_runs WHERE job_id = ? ORDER BY started_at DESC LIMIT ?`, jobID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []importer.RunLog
	for rows.Next() {
		var r importer.RunLog
		if err := rows.Scan(&r.ID, &r.JobID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.RowsRead, &r.RowsWritten, &r.Error); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*importer.ImportJob, error) {
	var (
		job        importer.ImportJob
		sourceCfg  string
		transforms string
		syncMode   string
		lastRunAt  sql.NullTime
	)
	err := row.Scan(
		&job.ID, &job.Name, &job.SourceType, &sourceCfg, &transforms, &syncMode,
		&job.DedupeKey, &job.TriggerType, &job.TriggerConfig, &job.Enabled,
		&lastRunAt, &job.LastStatus, &job.LastError, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.SyncMode = importer.SyncMode(syncMode)
	if lastRunAt.Valid {
		job.LastRunAt = lastRunAt.Time
	}
	if err := json.Unmarshal([]byte(sourceCfg), &job.SourceCfg); err != nil {
		return nil, fmt.Errorf("unmarshal source config: %w", err)
	}
	if err := json.Unmarshal([]byte(transforms), &job.Transforms); err != nil {
		return nil, fmt.Errorf("unmarshal transforms: %w", err)
	}
	return &job, nil
}
