package repository

import (
	"context"
	"fmt"
)

const usersFile = "users.json"

// JSONCredentialRepo implements CredentialRepo on users.json, a flat
// {"username": "sha256hex"} object.
type JSONCredentialRepo struct {
	store *JSONStore
}

func NewJSONCredentialRepo(store *JSONStore) *JSONCredentialRepo {
	return &JSONCredentialRepo{store: store}
}

func (r *JSONCredentialRepo) Load(ctx context.Context) (map[string]string, error) {
	users := map[string]string{}
	if _, err := readJSON(r.store.path(usersFile), &users); err != nil {
		return map[string]string{}, fmt.Errorf("loading users: %w", err)
	}
	if users == nil {
		users = map[string]string{}
	}
	return users, nil
}

func (r *JSONCredentialRepo) Save(ctx context.Context, users map[string]string) error {
	if users == nil {
		users = map[string]string{}
	}
	if err := writeJSON(r.store.path(usersFile), users); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	return nil
}
