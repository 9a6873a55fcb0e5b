package app

import (
	"storefront/internal/storage"
)

// ============================================================
// Publishing
// ============================================================

// ExportSite writes the site bundle to disk and returns its path.
func (a *App) ExportSite() (string, error) {
	return a.publishSvc.Export(a.ctx)
}

// PublishSite exports and deploys through the given provider's CLI.
// Output streams to the frontend as publish:data events.
func (a *App) PublishSite(provider, target string) (*storage.PublishRecord, error) {
	return a.publishSvc.Publish(a.ctx, provider, target)
}

// PublishWrite forwards terminal input (e.g. a login prompt answer) to
// the running provider CLI.
func (a *App) PublishWrite(data string) error {
	return a.publishSvc.WriteInput(data)
}

// PublishResize resizes the publish terminal.
func (a *App) PublishResize(cols, rows int) error {
	return a.publishSvc.ResizeTerminal(uint16(cols), uint16(rows))
}

func (a *App) IsPublishing() bool {
	return a.publishSvc.IsPublishing()
}

func (a *App) PublishHistory(limit int) ([]storage.PublishRecord, error) {
	return a.publishSvc.History(limit)
}
