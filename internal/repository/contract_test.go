package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name        string
	credentials CredentialRepo
	history     HistoryRepo
	themes      UserThemeRepo
}

func backends(t *testing.T) []backend {
	t.Helper()
	store, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)
	database := testutil.NewTestDB(t)

	return []backend{
		{
			name:        "json",
			credentials: NewJSONCredentialRepo(store),
			history:     NewJSONHistoryRepo(store),
			themes:      NewJSONUserThemeRepo(store),
		},
		{
			name:        "sqlite",
			credentials: NewSQLiteCredentialRepo(database),
			history:     NewSQLiteHistoryRepo(database),
			themes:      NewSQLiteUserThemeRepo(database),
		},
	}
}

func TestCredentialRepo_Contract(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()

			users, err := b.credentials.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, users)

			users["alice"] = testutil.HashOf("secret1")
			require.NoError(t, b.credentials.Save(ctx, users))

			users["bob"] = testutil.HashOf("hunter22")
			require.NoError(t, b.credentials.Save(ctx, users))

			got, err := b.credentials.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{
				"alice": testutil.HashOf("secret1"),
				"bob":   testutil.HashOf("hunter22"),
			}, got)
		})
	}
}

func TestHistoryRepo_Contract(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()

			turns, err := b.history.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, turns)

			transcript := []domain.Turn{
				domain.UserTurn("hello"),
				domain.BotTurn("Hi there! How can I help?"),
				domain.UserTurn("weather in paris"),
				domain.BotTurn("Weather in Paris: Clear Sky, 21.5°C"),
			}
			require.NoError(t, b.history.Save(ctx, "alice", transcript))

			got, err := b.history.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, transcript, got)

			// Save replaces rather than appends.
			require.NoError(t, b.history.Save(ctx, "alice", transcript[:2]))
			got, err = b.history.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, transcript[:2], got)

			require.NoError(t, b.history.Save(ctx, "alice", nil))
			got, err = b.history.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestHistoryRepo_PerUserIsolation(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, b.history.Save(ctx, "alice", []domain.Turn{domain.UserTurn("from alice")}))
			require.NoError(t, b.history.Save(ctx, "bob", []domain.Turn{domain.UserTurn("from bob")}))
			require.NoError(t, b.history.Save(ctx, "alice", nil))

			got, err := b.history.Load(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, []domain.Turn{domain.UserTurn("from bob")}, got)
		})
	}
}

func TestUserThemeRepo_Contract(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()

			_, err := b.themes.Load(ctx, "alice")
			assert.ErrorIs(t, err, ErrNotFound)

			forest := domain.Theme{Background: "#1b2d1b", Foreground: "#e8f5e9", UserBackground: "#2e7d32"}
			require.NoError(t, b.themes.Save(ctx, "alice", forest))

			got, err := b.themes.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, forest, *got)

			light := domain.Theme{Background: "#fafafa", Foreground: "#212121"}
			require.NoError(t, b.themes.Save(ctx, "alice", light))
			got, err = b.themes.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, light, *got)

			_, err = b.themes.Load(ctx, "bob")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
