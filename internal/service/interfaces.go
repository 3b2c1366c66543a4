package service

import (
	"context"

	"github.com/alexanderramin/agrobot/internal/domain"
)

type CredentialService interface {
	Register(ctx context.Context, username, password, confirm string) error
	Authenticate(ctx context.Context, username, password string) (*domain.Session, error)
}

// HistoryService keeps each user's transcript in memory and flushes every
// mutation to storage before returning.
type HistoryService interface {
	Load(ctx context.Context, username string) []domain.Turn
	Append(ctx context.Context, username string, turn domain.Turn) error
	Clear(ctx context.Context, username string) error
}

type ThemeService interface {
	Catalog(ctx context.Context) []domain.NamedTheme
	Lookup(ctx context.Context, name string) (domain.Theme, bool)
	UserTheme(ctx context.Context, username string) domain.Theme
	SaveUserTheme(ctx context.Context, username string, theme domain.Theme) error
	InitCatalog(ctx context.Context) (created bool, err error)
}
