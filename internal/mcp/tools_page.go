package mcpserver

import (
	"context"
	"fmt"

	"storefront/internal/builder"
	"storefront/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all pages of the storefront"),
	), s.handleListPages)

	// ── get_current_page ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_current_page",
		mcp.WithDescription("Get the page currently being edited, including its full component tree"),
	), s.handleGetCurrentPage)

	// ── create_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new storefront page and make it the current page"),
		mcp.WithString("name", mcp.Description("Page name"), mcp.Required()),
		mcp.WithString("slug", mcp.Description("URL slug (defaults to /<name> lowercased)")),
	), s.handleCreatePage)

	// ── set_current_page ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_current_page",
		mcp.WithDescription("Switch editing to another page. Subsequent component tools apply to it."),
		mcp.WithString("pageId", mcp.Description("ID of the page to edit"), mcp.Required()),
	), s.handleSetCurrentPage)

	// ── set_preview_view ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_preview_view",
		mcp.WithDescription("Navigate the storefront preview: home, products, about, contact, search, cart"),
		mcp.WithString("view", mcp.Description("Target view"), mcp.Required()),
	), s.handleSetPreviewView)

	// ── update_store_info ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_store_info",
		mcp.WithDescription("Update the store's business info. Pass a JSON object with any of: name, description, email, phone, address, instagram, twitter, facebook."),
		mcp.WithString("patch", mcp.Description("JSON object of fields to change"), mcp.Required()),
	), s.handleUpdateStoreInfo)

	// ── undo / redo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last canvas edit on the current page"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo a previously undone canvas edit on the current page"),
	), s.handleRedo)

	// ── list_revisions ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_revisions",
		mcp.WithDescription("List saved revisions of the current page, newest first"),
	), s.handleListRevisions)

	// ── restore_revision ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("restore_revision",
		mcp.WithDescription("Restore the current page to a saved revision"),
		mcp.WithString("revisionId", mcp.Description("Revision ID from list_revisions"), mcp.Required()),
	), s.handleRestoreRevision)
}

// pageSummary keeps list output small; the component tree is omitted.
type pageSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Components int    `json:"components"`
	Current    bool   `json:"current"`
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := s.builder.Store()
	current := ""
	if p := store.CurrentPage(); p != nil {
		current = p.ID
	}

	pages := store.Pages()
	summaries := make([]pageSummary, len(pages))
	for i, p := range pages {
		summaries[i] = pageSummary{
			ID:         p.ID,
			Name:       p.Name,
			Slug:       p.Slug,
			Components: len(p.Components),
			Current:    p.ID == current,
		}
	}
	return jsonResult(summaries)
}

func (s *Server) handleGetCurrentPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.currentPage()
	if err != nil {
		return nil, err
	}
	return jsonResult(page)
}

func (s *Server) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	slug := req.GetString("slug", "")
	if slug == "" {
		slug = "/" + slugify(name)
	}

	page := &domain.Page{
		ID:    builder.MintID(),
		Name:  name,
		Slug:  slug,
		Theme: s.builder.Store().Theme(),
		Meta:  domain.PageMeta{Title: name},
	}
	s.builder.SetCurrentPage(ctx, page)
	return jsonResult(page)
}

func (s *Server) handleSetCurrentPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	for _, p := range s.builder.Store().Pages() {
		if p.ID == pageID {
			s.builder.SetCurrentPage(ctx, p)
			return textResult(fmt.Sprintf("Now editing page %s (%s)", p.Name, p.ID)), nil
		}
	}
	return nil, fmt.Errorf("page not found: %s", pageID)
}

func (s *Server) handleSetPreviewView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view := domain.View(req.GetString("view", ""))
	if !domain.ValidView(view) {
		return nil, fmt.Errorf("unknown view: %s", view)
	}
	s.builder.Store().SetCurrentView(view)
	s.emitter.Emit(ctx, "builder:view-changed", map[string]string{"view": string(view)})
	return textResult(fmt.Sprintf("Preview showing %s", view)), nil
}

func (s *Server) handleUpdateStoreInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patchJSON := req.GetString("patch", "")
	var patch domain.StoreInfoPatch
	if err := parseJSON(patchJSON, &patch); err != nil {
		return nil, fmt.Errorf("invalid patch JSON: %w", err)
	}
	if err := s.builder.Store().UpdateStoreInfo(patch); err != nil {
		return nil, fmt.Errorf("update store info: %w", err)
	}
	s.emitter.Emit(ctx, "builder:store-info-changed", s.builder.Store().StoreInfo())
	return jsonResult(s.builder.Store().StoreInfo())
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.builder.Undo(ctx); err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	return textResult("Undone"), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.builder.Redo(ctx); err != nil {
		return nil, fmt.Errorf("redo: %w", err)
	}
	return textResult("Redone"), nil
}

func (s *Server) handleListRevisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	revisions, err := s.builder.History()
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return jsonResult(revisions)
}

func (s *Server) handleRestoreRevision(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	revisionID := req.GetString("revisionId", "")
	if revisionID == "" {
		return nil, fmt.Errorf("revisionId is required")
	}
	if err := s.builder.RestoreRevision(ctx, revisionID); err != nil {
		return nil, fmt.Errorf("restore revision: %w", err)
	}
	return textResult(fmt.Sprintf("Restored revision %s", revisionID)), nil
}
