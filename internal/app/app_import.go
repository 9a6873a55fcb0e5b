package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"storefront/internal/dbclient"
	"storefront/internal/domain"
	"storefront/internal/importer"
	"storefront/internal/importer/sources"
	"storefront/internal/service"
)

// ============================================================
// Catalog imports
// ============================================================

func (a *App) ListImportSources() []importer.SourceSpec {
	return a.importSvc.ListSources()
}

func (a *App) ListImportJobs() ([]importer.ImportJob, error) {
	return a.importSvc.ListJobs()
}

func (a *App) GetImportJob(id string) (*importer.ImportJob, error) {
	return a.importSvc.GetJob(id)
}

func (a *App) CreateImportJob(input service.ImportJobInput) (*importer.ImportJob, error) {
	return a.importSvc.CreateJob(a.ctx, input)
}

func (a *App) UpdateImportJob(id string, input service.ImportJobInput) error {
	return a.importSvc.UpdateJob(a.ctx, id, input)
}

func (a *App) DeleteImportJob(id string) error {
	return a.importSvc.DeleteJob(a.ctx, id)
}

func (a *App) RunImportJob(id string) (*importer.ImportResult, error) {
	return a.importSvc.RunJob(a.ctx, id)
}

func (a *App) ListImportRuns(jobID string) ([]importer.RunLog, error) {
	return a.importSvc.ListRunLogs(jobID)
}

func (a *App) PreviewImportSource(sourceType, configJSON string) (*service.PreviewResult, error) {
	return a.importSvc.PreviewSource(a.ctx, sourceType, configJSON)
}

func (a *App) DiscoverImportSchema(sourceType, configJSON string) (*importer.Schema, error) {
	return a.importSvc.DiscoverSchema(a.ctx, sourceType, configJSON)
}

// PickImportFile opens a file dialog for feed-file import sources.
func (a *App) PickImportFile() (string, error) {
	return wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Product Feed",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Product Feeds", Pattern: "*.csv;*.json"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
}

// ============================================================
// Partner connections
// ============================================================

func (a *App) ListPartnerConnections() ([]domain.PartnerConnection, error) {
	return a.partnerSvc.ListConnections()
}

func (a *App) GetPartnerConnection(id string) (*domain.PartnerConnection, error) {
	return a.partnerSvc.GetConnection(id)
}

func (a *App) CreatePartnerConnection(input service.PartnerConnectionInput) (*domain.PartnerConnection, error) {
	return a.partnerSvc.CreateConnection(input)
}

func (a *App) UpdatePartnerConnection(id string, input service.PartnerConnectionInput) error {
	return a.partnerSvc.UpdateConnection(id, input)
}

func (a *App) DeletePartnerConnection(id string) error {
	return a.partnerSvc.DeleteConnection(id)
}

func (a *App) TestPartnerConnection(id string) error {
	return a.partnerSvc.TestConnection(a.ctx, id)
}

func (a *App) IntrospectPartner(id string) (*dbclient.SchemaInfo, error) {
	return a.partnerSvc.Introspect(a.ctx, id)
}

// QueryPartner runs a read-only query against a partner database.
// page 0 opens a fresh cursor; higher pages continue it.
func (a *App) QueryPartner(connectionID, query string, page, pageSize int) (*sources.QueryPage, error) {
	return a.partnerSvc.QueryPage(a.ctx, connectionID, query, page, pageSize)
}

// PickPartnerDatabaseFile opens a file dialog for SQLite partner files.
func (a *App) PickPartnerDatabaseFile() (string, error) {
	return wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Database File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Database Files", Pattern: "*.db;*.sqlite;*.sqlite3;*.s3db"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
}
