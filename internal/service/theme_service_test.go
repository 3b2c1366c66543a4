package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThemeService(t *testing.T) (ThemeService, string, *WarningLog) {
	t.Helper()
	store := newJSONStore(t)
	catalogPath := filepath.Join(store.Dir(), "theme.json")
	warnings := &WarningLog{}
	svc := NewThemeService(
		repository.NewJSONCatalogRepo(catalogPath),
		repository.NewJSONUserThemeRepo(store),
		warnings,
	)
	return svc, catalogPath, warnings
}

func TestThemeService_UserThemeDefaultsWhenAbsent(t *testing.T) {
	svc, _, warnings := newThemeService(t)

	got := svc.UserTheme(context.Background(), "alice")
	assert.Equal(t, domain.Theme{Background: "#121212", Foreground: "#FFFFFF"}, got)
	assert.Empty(t, warnings.Drain())
}

func TestThemeService_SaveAndReload(t *testing.T) {
	svc, _, _ := newThemeService(t)
	ctx := context.Background()
	forest := BuiltinCatalog()[2].Theme

	require.NoError(t, svc.SaveUserTheme(ctx, "alice", forest))
	assert.Equal(t, forest, svc.UserTheme(ctx, "alice"))
	assert.Equal(t, domain.DefaultTheme(), svc.UserTheme(ctx, "bob"))
}

func TestThemeService_MalformedUserThemeWarns(t *testing.T) {
	svc, catalogPath, warnings := newThemeService(t)
	dir := filepath.Dir(catalogPath)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "theme_alice.json"), []byte("{"), 0o644))

	assert.Equal(t, domain.DefaultTheme(), svc.UserTheme(context.Background(), "alice"))
	assert.Len(t, warnings.Drain(), 1)
}

func TestThemeService_CatalogMissingIsEmptyWithWarning(t *testing.T) {
	svc, _, warnings := newThemeService(t)

	assert.Empty(t, svc.Catalog(context.Background()))
	assert.Len(t, warnings.Drain(), 1)
}

func TestThemeService_InitCatalog(t *testing.T) {
	svc, catalogPath, _ := newThemeService(t)
	ctx := context.Background()

	created, err := svc.InitCatalog(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	names := []string{}
	for _, nt := range svc.Catalog(ctx) {
		names = append(names, nt.Name)
	}
	assert.Equal(t, []string{"dark", "light", "forest", "harvest"}, names)

	created, err = svc.InitCatalog(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	// An unreadable catalog is not overwritten.
	require.NoError(t, os.WriteFile(catalogPath, []byte("nope"), 0o644))
	_, err = svc.InitCatalog(ctx)
	assert.ErrorIs(t, err, repository.ErrMalformed)
	data, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, "nope", string(data))
}

func TestThemeService_Lookup(t *testing.T) {
	svc, _, _ := newThemeService(t)
	ctx := context.Background()
	_, err := svc.InitCatalog(ctx)
	require.NoError(t, err)

	harvest, ok := svc.Lookup(ctx, "harvest")
	require.True(t, ok)
	assert.Equal(t, "#ffa000", harvest.UserBackground)

	_, ok = svc.Lookup(ctx, "neon")
	assert.False(t, ok)
}
