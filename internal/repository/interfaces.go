package repository

import (
	"context"

	"github.com/alexanderramin/agrobot/internal/domain"
)

// CredentialRepo persists the username -> password hash table. Save always
// receives the complete table.
type CredentialRepo interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, users map[string]string) error
}

// HistoryRepo persists one ordered transcript per user. Save replaces the
// stored transcript with turns.
type HistoryRepo interface {
	Load(ctx context.Context, username string) ([]domain.Turn, error)
	Save(ctx context.Context, username string, turns []domain.Turn) error
}

// UserThemeRepo persists the theme each user selected. Load returns
// ErrNotFound when the user never picked one.
type UserThemeRepo interface {
	Load(ctx context.Context, username string) (*domain.Theme, error)
	Save(ctx context.Context, username string, theme domain.Theme) error
}

// CatalogRepo reads and writes the shared theme catalog. Entry order is
// preserved in both directions.
type CatalogRepo interface {
	Load(ctx context.Context) ([]domain.NamedTheme, error)
	Save(ctx context.Context, themes []domain.NamedTheme) error
}
