package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/agrobot/internal/domain"
)

// JSONHistoryRepo implements HistoryRepo with one chat_history_<username>.json
// file per user holding an array of single-key turn objects.
type JSONHistoryRepo struct {
	store *JSONStore
}

func NewJSONHistoryRepo(store *JSONStore) *JSONHistoryRepo {
	return &JSONHistoryRepo{store: store}
}

func historyFile(username string) string {
	return "chat_history_" + username + ".json"
}

func (r *JSONHistoryRepo) Load(ctx context.Context, username string) ([]domain.Turn, error) {
	var turns []domain.Turn
	if _, err := readJSON(r.store.path(historyFile(username)), &turns); err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", username, err)
	}
	return turns, nil
}

func (r *JSONHistoryRepo) Save(ctx context.Context, username string, turns []domain.Turn) error {
	if turns == nil {
		turns = []domain.Turn{}
	}
	if err := writeJSON(r.store.path(historyFile(username)), turns); err != nil {
		return fmt.Errorf("saving history for %s: %w", username, err)
	}
	return nil
}
