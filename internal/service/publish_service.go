package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/builder"
	"storefront/internal/deploy"
	"storefront/internal/domain"
	"storefront/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Publish Service — export the storefront and ship it
// ─────────────────────────────────────────────────────────────

// SiteExport is the JSON bundle the storefront runtime consumes. It is
// everything a deployed site needs to render: pages, the active theme,
// the catalog, and the merchant's store info.
type SiteExport struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	StoreInfo   domain.StoreInfo `json:"storeInfo"`
	Theme       domain.Theme     `json:"theme"`
	Pages       []*domain.Page   `json:"pages"`
	Products    []domain.Product `json:"products"`
}

// PublishService exports the site bundle and runs the provider CLI in
// a PTY, streaming its output to the studio's terminal panel.
type PublishService struct {
	builder *builder.Store
	catalog domain.ProductStore
	history *storage.PublishStore
	emitter EventEmitter
	dataDir string

	mu      sync.Mutex
	runner  *deploy.Runner
	current *storage.PublishRecord
	output  strings.Builder
}

func NewPublishService(b *builder.Store, catalog domain.ProductStore, history *storage.PublishStore, emitter EventEmitter, dataDir string) *PublishService {
	s := &PublishService{
		builder: b,
		catalog: catalog,
		history: history,
		emitter: emitter,
		dataDir: dataDir,
	}
	s.runner = deploy.New(s.onRunnerData, s.onRunnerExit)
	return s
}

// maxStoredOutput caps captured CLI output in the history table.
const maxStoredOutput = 64 * 1024

// Export writes the site bundle to <dataDir>/export/site.json and
// returns the export directory.
func (s *PublishService) Export(ctx context.Context) (string, error) {
	products, err := s.catalog.ListProducts()
	if err != nil {
		return "", fmt.Errorf("load catalog: %w", err)
	}

	export := SiteExport{
		GeneratedAt: time.Now(),
		StoreInfo:   s.builder.StoreInfo(),
		Theme:       s.builder.Theme(),
		Pages:       s.builder.Pages(),
		Products:    products,
	}

	dir := filepath.Join(s.dataDir, "export")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	raw, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal site export: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "site.json"), raw, 0644); err != nil {
		return "", fmt.Errorf("write site export: %w", err)
	}
	return dir, nil
}

// Publish exports the site and runs the provider CLI. Output streams
// to the frontend as publish:data events; completion arrives as
// publish:exit with the exit code.
func (s *PublishService) Publish(ctx context.Context, provider, target string) (*storage.PublishRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runner.IsRunning() {
		return nil, fmt.Errorf("a publish is already running")
	}

	dir, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}

	binary, args, err := providerCommand(provider, dir, target)
	if err != nil {
		return nil, err
	}

	record := &storage.PublishRecord{
		ID:        uuid.New().String(),
		Provider:  provider,
		Target:    target,
		Status:    "running",
		StartedAt: time.Now(),
	}
	if err := s.history.RecordPublish(record); err != nil {
		log.Printf("publish: record failed: %v", err)
	}

	s.current = record
	s.output.Reset()

	if err := s.runner.Run(dir, binary, args...); err != nil {
		record.Status = "error"
		record.Output = err.Error()
		record.FinishedAt = time.Now()
		s.history.RecordPublish(record)
		s.current = nil
		return nil, err
	}
	return record, nil
}

// providerCommand maps a provider name to its CLI invocation.
func providerCommand(provider, exportDir, target string) (string, []string, error) {
	switch provider {
	case "netlify":
		args := []string{"deploy", "--dir", exportDir, "--prod"}
		if target != "" {
			args = append(args, "--site", target)
		}
		return "netlify", args, nil
	case "vercel":
		args := []string{"deploy", exportDir, "--prod", "--yes"}
		return "vercel", args, nil
	case "rsync":
		if target == "" {
			return "", nil, fmt.Errorf("rsync publish requires a target like user@host:/path")
		}
		return "rsync", []string{"-avz", "--delete", exportDir + "/", target}, nil
	default:
		return "", nil, fmt.Errorf("unknown publish provider: %s", provider)
	}
}

// WriteInput forwards keystrokes to the provider CLI (login prompts).
func (s *PublishService) WriteInput(data string) error {
	return s.runner.Write(data)
}

// ResizeTerminal updates the publish terminal's PTY size.
func (s *PublishService) ResizeTerminal(cols, rows uint16) error {
	return s.runner.Resize(cols, rows)
}

// IsPublishing reports whether a publish run is active.
func (s *PublishService) IsPublishing() bool {
	return s.runner.IsRunning()
}

// History returns recent publish attempts, newest first.
func (s *PublishService) History(limit int) ([]storage.PublishRecord, error) {
	return s.history.ListPublishes(limit)
}

// Stop kills any active publish run.
func (s *PublishService) Stop() {
	s.runner.Close()
}

func (s *PublishService) onRunnerData(data []byte) {
	s.mu.Lock()
	if s.output.Len() < maxStoredOutput {
		s.output.Write(data)
	}
	s.mu.Unlock()
	s.emitter.Emit(context.Background(), "publish:data", string(data))
}

func (s *PublishService) onRunnerExit(exitCode int) {
	s.mu.Lock()
	record := s.current
	s.current = nil
	output := s.output.String()
	s.mu.Unlock()

	if record != nil {
		record.Status = "success"
		if exitCode != 0 {
			record.Status = "error"
		}
		record.Output = output
		record.FinishedAt = time.Now()
		if err := s.history.RecordPublish(record); err != nil {
			log.Printf("publish: record failed: %v", err)
		}
	}

	s.emitter.Emit(context.Background(), "publish:exit", exitCode)
}
