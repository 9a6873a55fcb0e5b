package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPartnerTools() {
	// ── list_partner_connections ───────────────────────
	s.mcp.AddTool(mcp.NewTool("list_partner_connections",
		mcp.WithDescription("List configured partner database connections (credentials are never returned)"),
	), s.handleListPartnerConnections)

	// ── test_partner_connection ────────────────────────
	s.mcp.AddTool(mcp.NewTool("test_partner_connection",
		mcp.WithDescription("Verify that a partner database connection is reachable"),
		mcp.WithString("connectionId", mcp.Description("Partner connection ID"), mcp.Required()),
	), s.handleTestPartnerConnection)

	// ── introspect_partner ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("introspect_partner",
		mcp.WithDescription("List the tables and columns of a partner database"),
		mcp.WithString("connectionId", mcp.Description("Partner connection ID"), mcp.Required()),
	), s.handleIntrospectPartner)

	// ── query_partner ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("query_partner",
		mcp.WithDescription("Run a read-only query against a partner database. Write statements are rejected. For MongoDB pass a JSON query document."),
		mcp.WithString("connectionId", mcp.Description("Partner connection ID"), mcp.Required()),
		mcp.WithString("query", mcp.Description("SQL SELECT (or MongoDB JSON query document)"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Max rows to return (default 50, max 500)")),
	), s.handleQueryPartner)
}

func (s *Server) handleListPartnerConnections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connections, err := s.partners.ListConnections()
	if err != nil {
		return nil, fmt.Errorf("list partner connections: %w", err)
	}
	return jsonResult(connections)
}

func (s *Server) handleTestPartnerConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connectionID := req.GetString("connectionId", "")
	if connectionID == "" {
		return nil, fmt.Errorf("connectionId is required")
	}
	if err := s.partners.TestConnection(ctx, connectionID); err != nil {
		return textResult(fmt.Sprintf("Connection failed: %v", err)), nil
	}
	return textResult("Connection OK"), nil
}

func (s *Server) handleIntrospectPartner(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connectionID := req.GetString("connectionId", "")
	if connectionID == "" {
		return nil, fmt.Errorf("connectionId is required")
	}
	schema, err := s.partners.Introspect(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("introspect partner: %w", err)
	}
	return jsonResult(schema)
}

func (s *Server) handleQueryPartner(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	connectionID := req.GetString("connectionId", "")
	query := req.GetString("query", "")
	if connectionID == "" || query == "" {
		return nil, fmt.Errorf("connectionId and query are required")
	}

	limit := int(getFloat(args, "limit", 50))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	page, err := s.partners.QueryPage(ctx, connectionID, query, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("query partner: %w", err)
	}
	return jsonResult(page)
}
