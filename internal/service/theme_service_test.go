package service_test

import (
	"context"
	"testing"

	"storefront/internal/builder"
	"storefront/internal/domain"
	"storefront/internal/service"
)

func newThemeService(t *testing.T) (*service.ThemeService, *builder.Store, *service.MockEmitter) {
	t.Helper()
	b := builder.New(builder.NewMemKV())
	emitter := &service.MockEmitter{}
	svc := service.NewThemeService(t.TempDir(), b, emitter)
	if err := svc.EnsureDefaults(); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}
	return svc, b, emitter
}

func TestThemeService_EnsureDefaults_SeedsBuiltins(t *testing.T) {
	svc, _, _ := newThemeService(t)

	themes, err := svc.ListThemes()
	if err != nil {
		t.Fatalf("list themes: %v", err)
	}
	if len(themes) != 3 {
		t.Fatalf("expected 3 builtin themes, got %d", len(themes))
	}

	ids := map[string]bool{}
	for _, theme := range themes {
		ids[theme.ID] = true
	}
	for _, want := range []string{"default", "midnight", "terracotta"} {
		if !ids[want] {
			t.Errorf("missing builtin theme %q", want)
		}
	}
}

func TestThemeService_EnsureDefaults_NeverClobbers(t *testing.T) {
	svc, _, _ := newThemeService(t)
	ctx := context.Background()

	edited, err := svc.GetTheme("midnight")
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	edited.Colors.Primary = "#ff0000"
	if err := svc.SaveTheme(ctx, *edited); err != nil {
		t.Fatalf("save theme: %v", err)
	}

	if err := svc.EnsureDefaults(); err != nil {
		t.Fatalf("ensure defaults again: %v", err)
	}
	got, err := svc.GetTheme("midnight")
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if got.Colors.Primary != "#ff0000" {
		t.Errorf("edited theme was clobbered: primary = %s", got.Colors.Primary)
	}
}

func TestThemeService_ApplyTheme(t *testing.T) {
	svc, b, emitter := newThemeService(t)

	theme, err := svc.ApplyTheme(context.Background(), "midnight")
	if err != nil {
		t.Fatalf("apply theme: %v", err)
	}
	if theme.Name != "Midnight" {
		t.Errorf("expected Midnight, got %s", theme.Name)
	}
	if b.Theme().ID != "midnight" {
		t.Errorf("builder theme not updated: %s", b.Theme().ID)
	}

	found := false
	for _, e := range emitter.Events {
		if e.Event == "theme:changed" {
			found = true
		}
	}
	if !found {
		t.Error("expected a theme:changed event")
	}
}

func TestThemeService_SaveTheme_ReappliesWhenActive(t *testing.T) {
	svc, b, _ := newThemeService(t)
	ctx := context.Background()

	if _, err := svc.ApplyTheme(ctx, "terracotta"); err != nil {
		t.Fatalf("apply theme: %v", err)
	}

	theme, err := svc.GetTheme("terracotta")
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	theme.Colors.Accent = "#123456"
	if err := svc.SaveTheme(ctx, *theme); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if b.Theme().Colors.Accent != "#123456" {
		t.Errorf("active theme not reapplied: accent = %s", b.Theme().Colors.Accent)
	}
}

func TestThemeService_SaveTheme_RequiresID(t *testing.T) {
	svc, _, _ := newThemeService(t)
	if err := svc.SaveTheme(context.Background(), domain.Theme{Name: "No ID"}); err == nil {
		t.Fatal("expected error for theme without an id")
	}
}

func TestThemeService_DeleteTheme_RefusesActive(t *testing.T) {
	svc, _, _ := newThemeService(t)
	ctx := context.Background()

	if _, err := svc.ApplyTheme(ctx, "midnight"); err != nil {
		t.Fatalf("apply theme: %v", err)
	}
	if err := svc.DeleteTheme("midnight"); err == nil {
		t.Fatal("expected error deleting the active theme")
	}

	if err := svc.DeleteTheme("terracotta"); err != nil {
		t.Fatalf("delete inactive theme: %v", err)
	}
	themes, err := svc.ListThemes()
	if err != nil {
		t.Fatalf("list themes: %v", err)
	}
	if len(themes) != 2 {
		t.Fatalf("expected 2 themes after delete, got %d", len(themes))
	}
}
