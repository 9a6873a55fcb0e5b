package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPublishTools() {
	// ── export_site ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_site",
		mcp.WithDescription("Export the storefront (pages, theme, catalog, store info) as a static site bundle on disk"),
	), s.handleExportSite)

	// ── publish_site (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("publish_site",
		mcp.WithDescription("🛑 DESTRUCTIVE: Export and deploy the storefront to a hosting provider. Requires user approval."),
		mcp.WithString("provider", mcp.Description("netlify, vercel, or rsync"), mcp.Required()),
		mcp.WithString("target", mcp.Description("Provider target: site name for netlify, destination for rsync (optional for netlify/vercel)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handlePublishSite)

	// ── publish_history ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("publish_history",
		mcp.WithDescription("List recent publishes with status and captured CLI output"),
		mcp.WithNumber("limit", mcp.Description("Max entries (default 20)")),
	), s.handlePublishHistory)
}

func (s *Server) handleExportSite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.publish.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export site: %w", err)
	}
	return textResult(fmt.Sprintf("Site exported to %s", path)), nil
}

func (s *Server) handlePublishSite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	provider := req.GetString("provider", "")
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}
	target := req.GetString("target", "")

	if s.publish.IsPublishing() {
		return nil, fmt.Errorf("a publish is already running")
	}

	desc := fmt.Sprintf("Deploy the storefront via %s", provider)
	if target != "" {
		desc = fmt.Sprintf("%s to %s", desc, target)
	}
	approved, err := s.approval.Request("publish_site", desc)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	record, err := s.publish.Publish(ctx, provider, target)
	if err != nil {
		return nil, fmt.Errorf("publish site: %w", err)
	}
	return jsonResult(record)
}

func (s *Server) handlePublishHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	limit := int(getFloat(args, "limit", 20))
	history, err := s.publish.History(limit)
	if err != nil {
		return nil, fmt.Errorf("publish history: %w", err)
	}
	return jsonResult(history)
}
