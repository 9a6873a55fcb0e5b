package mcpserver

import (
	"context"
	"fmt"

	"storefront/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerThemeTools() {
	// ── list_themes ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_themes",
		mcp.WithDescription("List all themes in the theme library"),
	), s.handleListThemes)

	// ── get_theme ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_theme",
		mcp.WithDescription("Get a theme's full definition (colors, fonts, spacing, radii)"),
		mcp.WithString("themeId", mcp.Description("Theme ID"), mcp.Required()),
	), s.handleGetTheme)

	// ── apply_theme ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_theme",
		mcp.WithDescription("Apply a theme from the library to the storefront"),
		mcp.WithString("themeId", mcp.Description("Theme ID to apply"), mcp.Required()),
	), s.handleApplyTheme)

	// ── save_theme ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_theme",
		mcp.WithDescription("Create or update a theme in the library. Pass the full theme as JSON (id, name, colors, fonts, spacing, radii). If the theme is active, the storefront re-renders with it."),
		mcp.WithString("theme", mcp.Description("Full theme definition as JSON"), mcp.Required()),
	), s.handleSaveTheme)

	// ── delete_theme (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_theme",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a theme from the library. Requires user approval. The active theme cannot be deleted."),
		mcp.WithString("themeId", mcp.Description("Theme ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTheme)
}

func (s *Server) handleListThemes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	themes, err := s.themes.ListThemes()
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}

	active := s.builder.Store().Theme().ID

	type themeSummary struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Active bool   `json:"active"`
	}
	summaries := make([]themeSummary, len(themes))
	for i, t := range themes {
		summaries[i] = themeSummary{ID: t.ID, Name: t.Name, Active: t.ID == active}
	}
	return jsonResult(summaries)
}

func (s *Server) handleGetTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	themeID := req.GetString("themeId", "")
	if themeID == "" {
		return nil, fmt.Errorf("themeId is required")
	}
	theme, err := s.themes.GetTheme(themeID)
	if err != nil {
		return nil, fmt.Errorf("get theme: %w", err)
	}
	return jsonResult(theme)
}

func (s *Server) handleApplyTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	themeID := req.GetString("themeId", "")
	if themeID == "" {
		return nil, fmt.Errorf("themeId is required")
	}
	theme, err := s.themes.ApplyTheme(ctx, themeID)
	if err != nil {
		return nil, fmt.Errorf("apply theme: %w", err)
	}
	return textResult(fmt.Sprintf("Theme %q applied", theme.Name)), nil
}

func (s *Server) handleSaveTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	themeJSON := req.GetString("theme", "")
	var theme domain.Theme
	if err := parseJSON(themeJSON, &theme); err != nil {
		return nil, fmt.Errorf("invalid theme JSON: %w", err)
	}
	if theme.ID == "" || theme.Name == "" {
		return nil, fmt.Errorf("theme id and name are required")
	}
	if err := s.themes.SaveTheme(ctx, theme); err != nil {
		return nil, fmt.Errorf("save theme: %w", err)
	}
	return textResult(fmt.Sprintf("Theme %q saved", theme.Name)), nil
}

func (s *Server) handleDeleteTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	themeID := req.GetString("themeId", "")
	if themeID == "" {
		return nil, fmt.Errorf("themeId is required")
	}

	approved, err := s.approval.Request("delete_theme",
		fmt.Sprintf("Delete theme %s from the library", themeID))
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.themes.DeleteTheme(themeID); err != nil {
		return nil, fmt.Errorf("delete theme: %w", err)
	}
	return textResult(fmt.Sprintf("Theme %s deleted", themeID)), nil
}
