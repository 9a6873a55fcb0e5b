package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("build_landing_page",
		mcp.WithPromptDescription("Guide through building a complete storefront landing page"),
		mcp.WithArgument("storeName",
			mcp.ArgumentDescription("Name of the store"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("vibe",
			mcp.ArgumentDescription("Look and feel, e.g. minimal, warm, bold"),
		),
	), s.handleLandingPagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("import_catalog",
		mcp.WithPromptDescription("Set up a catalog import from an external source"),
		mcp.WithArgument("sourceType",
			mcp.ArgumentDescription("Import source type (csv_file, json_file, http, database)"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("Where the product data lives"),
			mcp.RequiredArgument(),
		),
	), s.handleImportCatalogPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("seasonal_refresh",
		mcp.WithPromptDescription("Restyle the storefront for a season or campaign"),
		mcp.WithArgument("occasion",
			mcp.ArgumentDescription("Season or campaign, e.g. summer sale, holidays"),
			mcp.RequiredArgument(),
		),
	), s.handleSeasonalRefreshPrompt)
}

func (s *Server) handleLandingPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	storeName := req.Params.Arguments["storeName"]
	vibe := req.Params.Arguments["vibe"]
	if vibe == "" {
		vibe = "clean and minimal"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a landing page for %s", storeName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a landing page for the store "%s" with a %s look. Follow these steps:

1. Use update_store_info to set the store name to "%s"
2. Pick a matching theme from list_themes and apply it with apply_theme
3. Create the page structure top to bottom: a header, a hero (create_component with heading and ctaText props), a product-grid, a testimonial, a newsletter signup, and a footer
4. Check list_products first — if the catalog has categories, point the product-grid's category prop at the most interesting one

Let auto-layout place each component; only pass explicit positions when a section must sit beside another.`, storeName, vibe, storeName),
				},
			},
		},
	}, nil
}

func (s *Server) handleImportCatalogPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sourceType := req.Params.Arguments["sourceType"]
	description := req.Params.Arguments["description"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Import a product catalog from %s", sourceType),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Set up a product catalog import from a %s source: %s

1. Call list_import_sources to check the config fields the %s source needs
2. Build a source config and verify it with preview_import_source before creating anything
3. Use discover_source_schema to see the field names, then add rename transforms mapping them onto sku, name, description, category, price, image_url and in_stock
4. Create the job with create_import_job (replace sync unless told otherwise) and run it with run_import_job
5. Confirm the result with list_products`, sourceType, description, sourceType),
				},
			},
		},
	}, nil
}

func (s *Server) handleSeasonalRefreshPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	occasion := req.Params.Arguments["occasion"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Restyle the storefront for %s", occasion),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Refresh the storefront for: %s

1. Save a new theme with save_theme using colors that fit the occasion, then apply it
2. Update the hero's heading and ctaText props to match the campaign (list_components to find it)
3. If a discount or promotion applies, add a text component announcing it near the top of the page
4. Review the result with get_current_page and tidy placement with arrange_components if sections overlap

Do not delete existing components; restyle and reword them.`, occasion),
				},
			},
		},
	}, nil
}
