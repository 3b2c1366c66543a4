package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/agrobot/internal/db"
	"github.com/alexanderramin/agrobot/internal/domain"
)

// SQLiteUserThemeRepo implements UserThemeRepo on the user_themes table. The
// theme is stored as the same JSON object the file backend writes.
type SQLiteUserThemeRepo struct {
	db db.DBTX
}

// NewSQLiteUserThemeRepo creates a new SQLiteUserThemeRepo.
func NewSQLiteUserThemeRepo(conn db.DBTX) *SQLiteUserThemeRepo {
	return &SQLiteUserThemeRepo{db: conn}
}

func (r *SQLiteUserThemeRepo) Load(ctx context.Context, username string) (*domain.Theme, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT theme_json FROM user_themes WHERE username = ?`, username).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("theme for %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning theme for %s: %w", username, err)
	}

	var t domain.Theme
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, fmt.Errorf("decoding theme for %s: %w: %v", username, ErrMalformed, err)
	}
	return &t, nil
}

func (r *SQLiteUserThemeRepo) Save(ctx context.Context, username string, theme domain.Theme) error {
	data, err := json.Marshal(theme)
	if err != nil {
		return fmt.Errorf("encoding theme for %s: %w", username, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_themes (username, theme_json, updated_at) VALUES (?, ?, ?)`,
		username, string(data), nowUTC())
	if err != nil {
		return fmt.Errorf("upserting theme for %s: %w", username, err)
	}
	return nil
}
