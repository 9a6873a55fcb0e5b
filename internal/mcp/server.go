package mcpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"storefront/internal/domain"
	"storefront/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the storefront studio.
// It exposes tools, resources, and prompts so AI agents can build pages,
// manage the catalog, and drive imports on the user's behalf.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue
	layout   *LayoutEngine

	// Services (injected from app layer)
	builder  *service.BuilderService
	catalog  *service.CatalogService
	themes   *service.ThemeService
	imports  *service.ImportService
	partners *service.PartnerService
	publish  *service.PublishService
	registry *service.ComponentRegistry
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter    EventEmitter
	Builder    *service.BuilderService
	Catalog    *service.CatalogService
	Themes     *service.ThemeService
	Imports    *service.ImportService
	Partners   *service.PartnerService
	Publish    *service.PublishService
	Registry   *service.ComponentRegistry
	ApprovalDB *sql.DB // When set, use SQLite-based approval (standalone mode)
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.ApprovalDB != nil {
		approval.SetDB(deps.ApprovalDB)
	}
	s := &Server{
		emitter:  deps.Emitter,
		approval: approval,
		layout:   NewLayoutEngine(),
		builder:  deps.Builder,
		catalog:  deps.Catalog,
		themes:   deps.Themes,
		imports:  deps.Imports,
		partners: deps.Partners,
		publish:  deps.Publish,
		registry: deps.Registry,
	}

	s.mcp = server.NewMCPServer(
		"storefront-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	// Phase 1: Canvas core
	s.registerPageTools()
	s.registerComponentTools()
	s.registerResources()

	// Phase 2: Store content
	s.registerThemeTools()
	s.registerCatalogTools()

	// Phase 3: Integrations
	s.registerImportTools()
	s.registerPartnerTools()
	s.registerPublishTools()
	s.registerPrompts()

	// Plugin-extensible tools (auto-discovered)
	s.registerPluginTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// emitCanvasChanged notifies the frontend that components changed on a page.
func (s *Server) emitCanvasChanged(ctx context.Context, pageID string) {
	s.emitter.Emit(ctx, "mcp:canvas-changed", map[string]string{"pageId": pageID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// currentPage returns the page being edited, or an error when the canvas
// is empty (use set_current_page or create_page first).
func (s *Server) currentPage() (*domain.Page, error) {
	page := s.builder.Store().CurrentPage()
	if page == nil {
		return nil, fmt.Errorf("no page is being edited (use set_current_page or create_page first)")
	}
	return page, nil
}

// getComponentForTool retrieves a component on the current page and
// validates it exists.
func (s *Server) getComponentForTool(args map[string]any) (*domain.Component, error) {
	componentID, ok := args["componentId"].(string)
	if !ok || componentID == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	c := s.builder.Store().FindComponent(componentID)
	if c == nil {
		return nil, fmt.Errorf("component not found: %s", componentID)
	}
	return c, nil
}
