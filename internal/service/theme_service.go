package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"storefront/internal/builder"
	"storefront/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Theme Service — theme files on disk, hot-reloaded
// ─────────────────────────────────────────────────────────────
//
// Themes live as JSON files under <dataDir>/themes/<id>.json so
// designers can edit them in any editor. A file watcher picks up
// changes and re-applies the active theme live on the canvas.

// ThemeService manages theme files and applies themes to the builder.
type ThemeService struct {
	dir     string
	builder *builder.Store
	emitter EventEmitter

	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
}

func NewThemeService(dataDir string, b *builder.Store, emitter EventEmitter) *ThemeService {
	return &ThemeService{
		dir:     filepath.Join(dataDir, "themes"),
		builder: b,
		emitter: emitter,
	}
}

// EnsureDefaults creates the themes directory and seeds it with the
// built-in themes on first run.
func (s *ThemeService) EnsureDefaults() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create themes dir: %w", err)
	}
	for _, theme := range builtinThemes() {
		path := s.themePath(theme.ID)
		if _, err := os.Stat(path); err == nil {
			continue // never clobber an edited theme
		}
		if err := s.writeTheme(theme); err != nil {
			return err
		}
	}
	return nil
}

// ListThemes returns all themes found on disk.
func (s *ThemeService) ListThemes() ([]domain.Theme, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read themes dir: %w", err)
	}

	var themes []domain.Theme
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		theme, err := s.readTheme(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			log.Printf("theme: skipping %s: %v", entry.Name(), err)
			continue
		}
		themes = append(themes, *theme)
	}
	return themes, nil
}

// GetTheme loads a single theme by id.
func (s *ThemeService) GetTheme(id string) (*domain.Theme, error) {
	return s.readTheme(s.themePath(id))
}

// SaveTheme writes a theme to disk. If it is the active theme, the
// canvas updates immediately.
func (s *ThemeService) SaveTheme(ctx context.Context, theme domain.Theme) error {
	if theme.ID == "" {
		return fmt.Errorf("theme id is required")
	}
	if err := s.writeTheme(theme); err != nil {
		return err
	}
	if s.builder.Theme().ID == theme.ID {
		s.applyLocked(ctx, theme)
	}
	return nil
}

// DeleteTheme removes a theme file. The active theme cannot be deleted.
func (s *ThemeService) DeleteTheme(id string) error {
	if s.builder.Theme().ID == id {
		return fmt.Errorf("cannot delete the active theme")
	}
	if err := os.Remove(s.themePath(id)); err != nil {
		return fmt.Errorf("delete theme %s: %w", id, err)
	}
	return nil
}

// ApplyTheme loads a theme from disk and makes it the active theme.
func (s *ThemeService) ApplyTheme(ctx context.Context, id string) (*domain.Theme, error) {
	theme, err := s.GetTheme(id)
	if err != nil {
		return nil, err
	}
	s.applyLocked(ctx, *theme)
	return theme, nil
}

func (s *ThemeService) applyLocked(ctx context.Context, theme domain.Theme) {
	s.builder.SetTheme(theme)
	if err := s.builder.Save(); err != nil {
		log.Printf("theme: save after apply failed: %v", err)
	}
	s.emitter.Emit(ctx, "theme:changed", theme)
}

// ── File watching ──────────────────────────────────────────

// Watch starts watching the themes directory. When the active theme's
// file changes on disk it is re-applied so edits show up live.
func (s *ThemeService) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create theme watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch themes dir: %w", err)
	}
	s.watcher = watcher

	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	go func() {
		var debounce *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				id := strings.TrimSuffix(filepath.Base(event.Name), ".json")
				if id != s.builder.Theme().ID {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(300*time.Millisecond, func() {
					theme, err := s.GetTheme(id)
					if err != nil {
						log.Printf("theme watcher: reload %s: %v", id, err)
						return
					}
					log.Printf("theme watcher: %s changed on disk, re-applying", id)
					s.applyLocked(ctx, *theme)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("theme watcher: error: %v", err)
			}
		}
	}()

	return nil
}

// Stop tears down the file watcher.
func (s *ThemeService) Stop() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

func (s *ThemeService) themePath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *ThemeService) readTheme(path string) (*domain.Theme, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var theme domain.Theme
	if err := json.Unmarshal(raw, &theme); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", filepath.Base(path), err)
	}
	return &theme, nil
}

func (s *ThemeService) writeTheme(theme domain.Theme) error {
	raw, err := json.MarshalIndent(theme, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}
	if err := os.WriteFile(s.themePath(theme.ID), raw, 0644); err != nil {
		return fmt.Errorf("write theme %s: %w", theme.ID, err)
	}
	return nil
}

// builtinThemes returns the themes seeded on first run.
func builtinThemes() []domain.Theme {
	base := domain.DefaultTheme()

	dark := base
	dark.ID = "midnight"
	dark.Name = "Midnight"
	dark.Colors.Background = "#0f172a"
	dark.Colors.Text = "#e2e8f0"
	dark.Colors.Border = "#334155"
	dark.Colors.Primary = "#818cf8"
	dark.Colors.Secondary = "#34d399"
	dark.Colors.Accent = "#f472b6"

	warm := base
	warm.ID = "terracotta"
	warm.Name = "Terracotta"
	warm.Colors.Background = "#fffbf5"
	warm.Colors.Text = "#431407"
	warm.Colors.Border = "#fed7aa"
	warm.Colors.Primary = "#ea580c"
	warm.Colors.Secondary = "#65a30d"
	warm.Colors.Accent = "#0d9488"

	return []domain.Theme{base, dark, warm}
}
