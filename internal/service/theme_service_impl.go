package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/repository"
)

// BuiltinCatalog is written by InitCatalog when no catalog file exists.
func BuiltinCatalog() []domain.NamedTheme {
	return []domain.NamedTheme{
		{Name: "dark", Theme: domain.Theme{
			Background: "#121212", Foreground: "#FFFFFF",
			UserBackground: "#1e88e5", UserForeground: "#ffffff",
			BotBackground: "#263238", BotForeground: "#eceff1",
		}},
		{Name: "light", Theme: domain.Theme{
			Background: "#e0f7fa", Foreground: "#212121",
			UserBackground: "#66bb6a", UserForeground: "#ffffff",
			BotBackground: "#ffffff", BotForeground: "#263238",
			ClearBackground: "#ef5350", ClearForeground: "#ffffff",
		}},
		{Name: "forest", Theme: domain.Theme{
			Background: "#1b2d1b", Foreground: "#e8f5e9",
			UserBackground: "#388e3c", UserForeground: "#ffffff",
			BotBackground: "#2e4a2e", BotForeground: "#c8e6c9",
			ThemeBackground: "#81c784", ThemeForeground: "#1b2d1b",
		}},
		{Name: "harvest", Theme: domain.Theme{
			Background: "#3e2723", Foreground: "#fff8e1",
			UserBackground: "#ffa000", UserForeground: "#3e2723",
			BotBackground: "#5d4037", BotForeground: "#ffecb3",
			ClearBackground: "#d84315", ClearForeground: "#fff8e1",
			ThemeBackground: "#fbc02d", ThemeForeground: "#3e2723",
		}},
	}
}

type themeService struct {
	catalog  repository.CatalogRepo
	themes   repository.UserThemeRepo
	warner   Warner
	observer UseCaseObserver
}

func NewThemeService(catalog repository.CatalogRepo, themes repository.UserThemeRepo, warner Warner, observers ...UseCaseObserver) ThemeService {
	return &themeService{
		catalog:  catalog,
		themes:   themes,
		warner:   warnerOrNoop(warner),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Catalog re-reads the catalog on each call so edits to the file show up
// the next time the picker opens.
func (s *themeService) Catalog(ctx context.Context) []domain.NamedTheme {
	themes, err := s.catalog.Load(ctx)
	if err != nil {
		s.warner.Warn(ctx, "failed to load themes", err)
		return nil
	}
	return themes
}

func (s *themeService) Lookup(ctx context.Context, name string) (domain.Theme, bool) {
	for _, nt := range s.Catalog(ctx) {
		if nt.Name == name {
			return nt.Theme, true
		}
	}
	return domain.Theme{}, false
}

func (s *themeService) UserTheme(ctx context.Context, username string) domain.Theme {
	t, err := s.themes.Load(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.warner.Warn(ctx, fmt.Sprintf("theme for %s unreadable, using default", username), err)
		}
		return domain.DefaultTheme()
	}
	return *t
}

func (s *themeService) SaveUserTheme(ctx context.Context, username string, theme domain.Theme) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"username": username}
	defer func() { observe(ctx, s.observer, "save-theme", startedAt, fields, err) }()

	if err := s.themes.Save(ctx, username, theme); err != nil {
		return fmt.Errorf("saving theme for %s: %w", username, err)
	}
	return nil
}

// InitCatalog writes the built-in catalog unless a catalog already exists.
// An existing but unreadable catalog is left in place.
func (s *themeService) InitCatalog(ctx context.Context) (created bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		fields["created"] = created
		observe(ctx, s.observer, "init-catalog", startedAt, fields, err)
	}()

	_, err = s.catalog.Load(ctx)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
	default:
		return false, fmt.Errorf("checking theme catalog: %w", err)
	}

	if err = s.catalog.Save(ctx, BuiltinCatalog()); err != nil {
		return false, fmt.Errorf("writing theme catalog: %w", err)
	}
	return true, nil
}
