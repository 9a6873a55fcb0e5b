package mcpserver

import (
	"context"
	"fmt"

	"storefront/internal/importer"
	"storefront/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerImportTools() {
	// ── list_import_sources ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_import_sources",
		mcp.WithDescription("List available catalog import source types and their config fields"),
	), s.handleListImportSources)

	// ── list_import_jobs ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_import_jobs",
		mcp.WithDescription("List configured catalog import jobs"),
	), s.handleListImportJobs)

	// ── create_import_job ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_import_job",
		mcp.WithDescription("Create a catalog import job. Use list_import_sources to see source types and their config fields."),
		mcp.WithString("name", mcp.Description("Job name"), mcp.Required()),
		mcp.WithString("sourceType", mcp.Description("Source type, e.g. csv_file, json_file, http, database"), mcp.Required()),
		mcp.WithString("sourceConfig", mcp.Description("Source config as a JSON object"), mcp.Required()),
		mcp.WithString("transforms", mcp.Description("JSON array of transform configs (optional)")),
		mcp.WithString("syncMode", mcp.Description("replace (default) or append")),
		mcp.WithString("triggerType", mcp.Description("manual (default), schedule, or file_watch")),
		mcp.WithString("triggerConfig", mcp.Description("Cron expression for schedule triggers (optional)")),
	), s.handleCreateImportJob)

	// ── run_import_job (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("run_import_job",
		mcp.WithDescription("🛑 DESTRUCTIVE: Run an import job now. In replace mode this rewrites the whole product catalog. Requires user approval."),
		mcp.WithString("jobId", mcp.Description("Import job ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRunImportJob)

	// ── preview_import_source ──────────────────────────
	s.mcp.AddTool(mcp.NewTool("preview_import_source",
		mcp.WithDescription("Fetch a small sample of rows from a source config without touching the catalog"),
		mcp.WithString("sourceType", mcp.Description("Source type"), mcp.Required()),
		mcp.WithString("sourceConfig", mcp.Description("Source config as a JSON object"), mcp.Required()),
	), s.handlePreviewImportSource)

	// ── discover_source_schema ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("discover_source_schema",
		mcp.WithDescription("Infer the field names and types a source config produces"),
		mcp.WithString("sourceType", mcp.Description("Source type"), mcp.Required()),
		mcp.WithString("sourceConfig", mcp.Description("Source config as a JSON object"), mcp.Required()),
	), s.handleDiscoverSourceSchema)

	// ── list_import_runs ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_import_runs",
		mcp.WithDescription("List recent runs of an import job, newest first"),
		mcp.WithString("jobId", mcp.Description("Import job ID"), mcp.Required()),
	), s.handleListImportRuns)

	// ── delete_import_job (destructive) ────────────────
	s.mcp.AddTool(mcp.NewTool("delete_import_job",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete an import job and its run history. Requires user approval."),
		mcp.WithString("jobId", mcp.Description("Import job ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteImportJob)
}

func (s *Server) handleListImportSources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.imports.ListSources())
}

func (s *Server) handleListImportJobs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobs, err := s.imports.ListJobs()
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	return jsonResult(jobs)
}

func (s *Server) handleCreateImportJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	sourceType := req.GetString("sourceType", "")
	if name == "" || sourceType == "" {
		return nil, fmt.Errorf("name and sourceType are required")
	}

	var sourceConfig map[string]any
	if err := parseJSON(req.GetString("sourceConfig", "{}"), &sourceConfig); err != nil {
		return nil, fmt.Errorf("invalid sourceConfig JSON: %w", err)
	}

	var transforms []importer.TransformConfig
	if raw := req.GetString("transforms", ""); raw != "" {
		if err := parseJSON(raw, &transforms); err != nil {
			return nil, fmt.Errorf("invalid transforms JSON: %w", err)
		}
	}

	job, err := s.imports.CreateJob(ctx, service.ImportJobInput{
		Name:          name,
		SourceType:    sourceType,
		SourceConfig:  sourceConfig,
		Transforms:    transforms,
		SyncMode:      req.GetString("syncMode", ""),
		TriggerType:   req.GetString("triggerType", ""),
		TriggerConfig: req.GetString("triggerConfig", ""),
		Enabled:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("create import job: %w", err)
	}
	return jsonResult(job)
}

func (s *Server) handleRunImportJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := req.GetString("jobId", "")
	if jobID == "" {
		return nil, fmt.Errorf("jobId is required")
	}

	job, err := s.imports.GetJob(jobID)
	if err != nil {
		return nil, fmt.Errorf("get import job: %w", err)
	}

	approved, err := s.approval.Request("run_import_job",
		fmt.Sprintf("Run import %q (%s sync) against the product catalog", job.Name, job.SyncMode))
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	result, err := s.imports.RunJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("run import job: %w", err)
	}
	return jsonResult(result)
}

func (s *Server) handlePreviewImportSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceType := req.GetString("sourceType", "")
	if sourceType == "" {
		return nil, fmt.Errorf("sourceType is required")
	}
	preview, err := s.imports.PreviewSource(ctx, sourceType, req.GetString("sourceConfig", "{}"))
	if err != nil {
		return nil, fmt.Errorf("preview source: %w", err)
	}
	return jsonResult(preview)
}

func (s *Server) handleDiscoverSourceSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceType := req.GetString("sourceType", "")
	if sourceType == "" {
		return nil, fmt.Errorf("sourceType is required")
	}
	schema, err := s.imports.DiscoverSchema(ctx, sourceType, req.GetString("sourceConfig", "{}"))
	if err != nil {
		return nil, fmt.Errorf("discover schema: %w", err)
	}
	return jsonResult(schema)
}

func (s *Server) handleListImportRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := req.GetString("jobId", "")
	if jobID == "" {
		return nil, fmt.Errorf("jobId is required")
	}
	runs, err := s.imports.ListRunLogs(jobID)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	return jsonResult(runs)
}

func (s *Server) handleDeleteImportJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := req.GetString("jobId", "")
	if jobID == "" {
		return nil, fmt.Errorf("jobId is required")
	}

	approved, err := s.approval.Request("delete_import_job",
		fmt.Sprintf("Delete import job %s and its run history", jobID))
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.imports.DeleteJob(ctx, jobID); err != nil {
		return nil, fmt.Errorf("delete import job: %w", err)
	}
	return textResult(fmt.Sprintf("Import job %s deleted", jobID)), nil
}
