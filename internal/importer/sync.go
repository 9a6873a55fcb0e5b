package importer

import (
	"context"
	"fmt"
	"time"
)

// ── ImportJob ──────────────────────────────────────────────
// Orchestrates: source.Read → transform chain → catalog write.

// ImportJob holds the configuration for a single catalog import.
type ImportJob struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	SourceType    string            `json:"sourceType"`
	SourceCfg     SourceConfig      `json:"sourceConfig"`
	Transforms    []TransformConfig `json:"transforms,omitempty"`
	SyncMode      SyncMode          `json:"syncMode"`
	DedupeKey     string            `json:"dedupeKey,omitempty"`
	TriggerType   string            `json:"triggerType"`   // "manual" | "schedule" | "file_watch"
	TriggerConfig string            `json:"triggerConfig"` // cron expression or watch path
	Enabled       bool              `json:"enabled"`
	LastRunAt     time.Time         `json:"lastRunAt"`
	LastStatus    string            `json:"lastStatus"` // "success" | "error" | "running" | ""
	LastError     string            `json:"lastError"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// ImportResult is the outcome of running an import job.
type ImportResult struct {
	JobID       string        `json:"jobId"`
	Status      string        `json:"status"` // "success" | "error"
	RowsRead    int           `json:"rowsRead"`
	RowsWritten int           `json:"rowsWritten"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

// RunLog is a historical record of an import run.
type RunLog struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Status      string    `json:"status"`
	RowsRead    int       `json:"rowsRead"`
	RowsWritten int       `json:"rowsWritten"`
	Error       string    `json:"error,omitempty"`
}

// ── Engine ─────────────────────────────────────────────────

// Engine runs import jobs using the registered sources and a destination.
type Engine struct {
	Dest Destination
}

// Run executes an import job end-to-end.
func (e *Engine) Run(ctx context.Context, job *ImportJob) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{JobID: job.ID}

	fail := func(err error, stage string) (*ImportResult, error) {
		result.Status = "error"
		if stage != "" {
			result.Error = fmt.Sprintf("%s: %s", stage, err)
		} else {
			result.Error = err.Error()
		}
		result.Duration = time.Since(start)
		return result, err
	}

	// 1. Resolve source from registry.
	source, err := GetSource(job.SourceType)
	if err != nil {
		return fail(err, "")
	}

	// 2. Discover feed schema.
	schema, err := source.Discover(ctx, job.SourceCfg)
	if err != nil {
		return fail(err, "discover")
	}

	// 3. Read records from the feed.
	recCh, errCh := source.Read(ctx, job.SourceCfg)

	// 4. Build transformer chain from config.
	transformers := BuildTransformers(job.Transforms, job.DedupeKey)

	// 5. Collect + transform records.
	var records []Record
	for rec := range recCh {
		result.RowsRead++
		transformed, keep := ApplyTransformers(rec, transformers)
		if keep {
			records = append(records, transformed)
		}
	}

	// Check for source errors.
	if err := <-errCh; err != nil {
		return fail(err, "read")
	}

	// 6. Write to the catalog.
	written, err := e.Dest.Write(ctx, schema, records, job.SyncMode)
	if err != nil {
		return fail(err, "write")
	}

	result.Status = "success"
	result.RowsWritten = written
	result.Duration = time.Since(start)
	return result, nil
}

// Preview executes only the source read phase and returns up to maxRows
// records, so the import wizard can show the merchant what would land.
func (e *Engine) Preview(ctx context.Context, sourceType string, cfg SourceConfig, maxRows int) ([]Record, *Schema, error) {
	source, err := GetSource(sourceType)
	if err != nil {
		return nil, nil, err
	}

	schema, err := source.Discover(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("discover: %w", err)
	}

	recCh, errCh := source.Read(ctx, cfg)

	var records []Record
	for rec := range recCh {
		records = append(records, rec)
		if len(records) >= maxRows {
			break
		}
	}

	// Drain remaining and check for errors.
	go func() {
		for range recCh {
		}
	}()
	if err := <-errCh; err != nil {
		return records, schema, err
	}

	return records, schema, nil
}
