package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// approvalWatcher polls the shared SQLite database for activity from a
// standalone MCP process: pending approval requests and external catalog
// changes. It emits Wails events so the frontend reacts without a reload.
type approvalWatcher struct {
	ctx    context.Context
	db     *sql.DB
	mu     sync.Mutex
	stopCh chan struct{}
	// Catalog fingerprint (count + max updated_at)
	lastCatalog string
	// Track emitted approval IDs to avoid infinite re-emission
	emittedApprovals map[string]bool
}

func newApprovalWatcher(ctx context.Context, db *sql.DB) *approvalWatcher {
	return &approvalWatcher{ctx: ctx, db: db, emittedApprovals: map[string]bool{}}
}

// Start begins the polling loop. Should be called once on app startup.
func (w *approvalWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *approvalWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
	}
}

func (w *approvalWatcher) pollLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *approvalWatcher) check() {
	// ── Check catalog changes (standalone MCP imports) ──
	var productCount int
	var productsUpdated string
	err := w.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(updated_at), '') FROM products`,
	).Scan(&productCount, &productsUpdated)
	if err == nil {
		fingerprint := fmt.Sprintf("%d:%s", productCount, productsUpdated)
		w.mu.Lock()
		changed := w.lastCatalog != "" && w.lastCatalog != fingerprint
		w.lastCatalog = fingerprint
		w.mu.Unlock()
		if changed {
			wailsRuntime.EventsEmit(w.ctx, "catalog:updated", map[string]any{
				"external": true,
			})
		}
	}

	// ── Check pending MCP approvals (cross-process IPC) ─
	rows, err := w.db.Query(`SELECT id, tool, description, metadata FROM mcp_approvals WHERE status = 'pending'`)
	if err == nil {
		for rows.Next() {
			var id, tool, desc, metadata string
			if rows.Scan(&id, &tool, &desc, &metadata) == nil {
				w.mu.Lock()
				alreadySent := w.emittedApprovals[id]
				if !alreadySent {
					w.emittedApprovals[id] = true
				}
				w.mu.Unlock()
				if !alreadySent {
					wailsRuntime.EventsEmit(w.ctx, "mcp:approval-required", map[string]string{
						"id":          id,
						"tool":        tool,
						"description": desc,
						"metadata":    metadata,
					})
				}
			}
		}
		rows.Close()
	}

	// Clean up tracking for resolved/deleted approvals (the standalone
	// MCP deletes rows after reading the verdict)
	w.mu.Lock()
	for id := range w.emittedApprovals {
		var count int
		if w.db.QueryRow(`SELECT COUNT(*) FROM mcp_approvals WHERE id = ? AND status = 'pending'`, id).Scan(&count) == nil && count == 0 {
			delete(w.emittedApprovals, id)
		}
	}
	w.mu.Unlock()
}
