package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"storefront/internal/builder"
	mcpserver "storefront/internal/mcp"
	"storefront/internal/importer/sources"
	"storefront/internal/plugins"
	"storefront/internal/secret"
	"storefront/internal/service"
	"storefront/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until interrupted.
// Destructive tool approvals go through the shared SQLite table, where the
// GUI process (if running) picks them up.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dir := dataDir()
	db, err := storage.New(filepath.Join(dir, "storefront.db"), dir)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	emitter := noopEmitter{}
	catalogStore := storage.NewCatalogStore(db)

	b := builder.New(storage.NewKVStore(db))
	if err := b.Load(); err != nil {
		log.Printf("Failed to load builder state: %v", err)
	}

	registry := service.NewComponentRegistry()
	plugins.RegisterBuiltins(registry)

	builderSvc := service.NewBuilderService(b, storage.NewRevisionStore(db), emitter)
	catalogSvc := service.NewCatalogService(catalogStore, b, emitter)
	themeSvc := service.NewThemeService(dir, b, emitter)
	importSvc := service.NewImportService(storage.NewImportStore(db), catalogStore, emitter)
	partnerSvc := service.NewPartnerService(storage.NewPartnerStore(db), secret.NewKeychainStore())
	publishSvc := service.NewPublishService(b, catalogStore, storage.NewPublishStore(db), emitter, dir)
	defer partnerSvc.Close()

	sources.SetDBProvider(partnerSvc)

	if err := themeSvc.EnsureDefaults(); err != nil {
		log.Printf("Failed to seed themes: %v", err)
	}
	if err := catalogSvc.SyncToBuilder(ctx); err != nil {
		log.Printf("Failed to load catalog: %v", err)
	}

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:    emitter,
		Builder:    builderSvc,
		Catalog:    catalogSvc,
		Themes:     themeSvc,
		Imports:    importSvc,
		Partners:   partnerSvc,
		Publish:    publishSvc,
		Registry:   registry,
		ApprovalDB: db.Conn(), // Enable SQLite-based approval IPC
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
