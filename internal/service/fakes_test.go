package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/repository"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

func newJSONStore(t *testing.T) *repository.JSONStore {
	t.Helper()
	store, err := repository.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return store
}

// failingCredentialRepo serves an in-memory table and fails every Save.
type failingCredentialRepo struct {
	users map[string]string
	saves int
}

func (r *failingCredentialRepo) Load(context.Context) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range r.users {
		out[k] = v
	}
	return out, nil
}

func (r *failingCredentialRepo) Save(context.Context, map[string]string) error {
	r.saves++
	return errDiskFull
}

// brokenCredentialRepo fails Load, as a corrupt users file would.
type brokenCredentialRepo struct {
	saved map[string]string
}

func (r *brokenCredentialRepo) Load(context.Context) (map[string]string, error) {
	return map[string]string{}, repository.ErrMalformed
}

func (r *brokenCredentialRepo) Save(_ context.Context, users map[string]string) error {
	r.saved = users
	return nil
}

// flakyHistoryRepo fails Save while failSaves is set.
type flakyHistoryRepo struct {
	stored    map[string][]domain.Turn
	loadErr   error
	failSaves bool
	loads     int
}

func newFlakyHistoryRepo() *flakyHistoryRepo {
	return &flakyHistoryRepo{stored: map[string][]domain.Turn{}}
}

func (r *flakyHistoryRepo) Load(_ context.Context, username string) ([]domain.Turn, error) {
	r.loads++
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return append([]domain.Turn(nil), r.stored[username]...), nil
}

func (r *flakyHistoryRepo) Save(_ context.Context, username string, turns []domain.Turn) error {
	if r.failSaves {
		return errDiskFull
	}
	r.stored[username] = append([]domain.Turn(nil), turns...)
	return nil
}

// recordingObserver keeps every observed event.
type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}
