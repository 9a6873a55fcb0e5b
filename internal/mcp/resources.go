package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── storefront://pages ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"storefront://pages",
		"All Pages",
		mcp.WithMIMEType("application/json"),
	), s.handlePagesResource)

	// ── storefront://catalog ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"storefront://catalog",
		"Product Catalog",
		mcp.WithMIMEType("application/json"),
	), s.handleCatalogResource)

	// ── storefront://page/{pageId}/components ──────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"storefront://page/{pageId}/components",
			"Components on a Page",
		),
		s.handlePageComponentsResource,
	)
}

func (s *Server) handlePagesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
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

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "storefront://pages",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleCatalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	products, err := s.catalog.ListProducts()
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(products, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "storefront://catalog",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePageComponentsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pageID := extractPageIDFromURI(uri)
	if pageID == "" {
		return nil, fmt.Errorf("could not extract pageId from URI: %s", uri)
	}

	for _, p := range s.builder.Store().Pages() {
		if p.ID != pageID {
			continue
		}
		summaries := make([]componentSummary, len(p.Components))
		for i, c := range p.Components {
			summaries[i] = summarizeComponent(c)
		}
		data, _ := json.MarshalIndent(summaries, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
	return nil, fmt.Errorf("page not found: %s", pageID)
}

// extractPageIDFromURI extracts the page ID from
// "storefront://page/{id}/components".
func extractPageIDFromURI(uri string) string {
	const prefix = "storefront://page/"
	const suffix = "/components"
	if strings.HasPrefix(uri, prefix) && strings.HasSuffix(uri, suffix) {
		return uri[len(prefix) : len(uri)-len(suffix)]
	}
	return ""
}
