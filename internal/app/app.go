package app

import (
	"context"
	"os"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	mcpserver "storefront/internal/mcp"
	"storefront/internal/builder"
	"storefront/internal/importer/sources"
	"storefront/internal/plugins"
	"storefront/internal/secret"
	"storefront/internal/service"
	"storefront/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db      *storage.DB
	builder *builder.Store

	builderSvc *service.BuilderService
	catalogSvc *service.CatalogService
	themeSvc   *service.ThemeService
	importSvc  *service.ImportService
	partnerSvc *service.PartnerService
	publishSvc *service.PublishService
	windowSvc  *service.WindowSettingsService
	registry   *service.ComponentRegistry

	mcp      *mcpserver.Server
	approvals *approvalWatcher
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter bridges service events onto the Wails event bus.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	if ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(ctx, event, data)
}

// dataDir is where the studio keeps its database, themes, and exports.
func dataDir() string {
	if dir := os.Getenv("STOREFRONT_DATA_DIR"); dir != "" {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "storefront")
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	dir := dataDir()
	db, err := storage.New(filepath.Join(dir, "storefront.db"), dir)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	emitter := wailsEmitter{}
	catalogStore := storage.NewCatalogStore(db)
	partnerStore := storage.NewPartnerStore(db)
	secrets := secret.NewKeychainStore()

	a.builder = builder.New(storage.NewKVStore(db))
	if err := a.builder.Load(); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to load builder state: %v", err)
	}

	a.registry = service.NewComponentRegistry()
	plugins.RegisterBuiltins(a.registry)

	a.builderSvc = service.NewBuilderService(a.builder, storage.NewRevisionStore(db), emitter)
	a.catalogSvc = service.NewCatalogService(catalogStore, a.builder, emitter)
	a.themeSvc = service.NewThemeService(dir, a.builder, emitter)
	a.importSvc = service.NewImportService(storage.NewImportStore(db), catalogStore, emitter)
	a.partnerSvc = service.NewPartnerService(partnerStore, secrets)
	a.publishSvc = service.NewPublishService(a.builder, catalogStore, storage.NewPublishStore(db), emitter, dir)
	a.windowSvc = service.NewWindowSettingsService(storage.NewSettingsStore(db))

	// Database import source reads partner connections through the
	// partner service.
	sources.SetDBProvider(a.partnerSvc)

	if err := a.themeSvc.EnsureDefaults(); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to seed themes: %v", err)
	}
	if err := a.themeSvc.Watch(ctx); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to watch theme dir: %v", err)
	}
	if err := a.catalogSvc.SyncToBuilder(ctx); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to load catalog: %v", err)
	}
	a.importSvc.RestartWatchers(ctx)

	// In-process MCP server; destructive tool approvals surface as
	// Wails events the frontend answers via ResolveMCPApproval.
	a.mcp = mcpserver.New(ctx, mcpserver.Deps{
		Emitter:  emitter,
		Builder:  a.builderSvc,
		Catalog:  a.catalogSvc,
		Themes:   a.themeSvc,
		Imports:  a.importSvc,
		Partners: a.partnerSvc,
		Publish:  a.publishSvc,
		Registry: a.registry,
	})

	// Watch for a standalone MCP process asking for approvals.
	a.approvals = newApprovalWatcher(ctx, db.Conn())
	a.approvals.Start()

	size := a.windowSvc.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.ctx != nil {
		w, h := wailsRuntime.WindowGetSize(a.ctx)
		a.windowSvc.SaveWindowSize(w, h)
	}
	if a.approvals != nil {
		a.approvals.Stop()
	}
	if a.importSvc != nil {
		a.importSvc.WaitRunning(ctx)
		a.importSvc.Stop()
	}
	if a.themeSvc != nil {
		a.themeSvc.Stop()
	}
	if a.publishSvc != nil {
		a.publishSvc.Stop()
	}
	if a.partnerSvc != nil {
		a.partnerSvc.Close()
	}
	if a.builder != nil {
		a.builder.Save()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// ============================================================
// MCP approvals
// ============================================================

// ApproveMCPAction approves a pending destructive MCP tool call.
func (a *App) ApproveMCPAction(actionID string) {
	a.mcp.Approve(actionID)
	a.resolveStandaloneApproval(actionID, true)
}

// RejectMCPAction rejects a pending destructive MCP tool call.
func (a *App) RejectMCPAction(actionID string) {
	a.mcp.Reject(actionID)
	a.resolveStandaloneApproval(actionID, false)
}

// resolveStandaloneApproval answers approvals raised by a standalone MCP
// process through the shared SQLite table. A no-op when the id belongs to
// the in-process queue.
func (a *App) resolveStandaloneApproval(actionID string, approved bool) {
	status := "rejected"
	if approved {
		status = "approved"
	}
	a.db.Conn().Exec(
		`UPDATE mcp_approvals SET status = ? WHERE id = ? AND status = 'pending'`,
		status, actionID,
	)
}
