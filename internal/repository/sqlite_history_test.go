package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteHistoryRepo_FailedRewriteKeepsPreviousTranscript(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	original := []domain.Turn{domain.UserTurn("hello"), domain.BotTurn("Hi there! How can I help?")}
	require.NoError(t, NewSQLiteHistoryRepo(database).Save(ctx, "alice", original))

	injected := errors.New("disk full")
	// Exec #1 is the DELETE, #2 the first INSERT.
	failing := NewSQLiteHistoryRepoWithUoW(database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: injected})
	err := failing.Save(ctx, "alice", append(original, domain.UserTurn("bye")))
	require.ErrorIs(t, err, injected)

	got, err := NewSQLiteHistoryRepo(database).Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestSQLiteHistoryRepo_RejectsUnknownSpeaker(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHistoryRepo(database)

	err := repo.Save(context.Background(), "alice", []domain.Turn{{Speaker: "admin", Text: "x"}})
	assert.Error(t, err)
}

func TestSQLiteUserThemeRepo_MalformedRow(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	_, err := database.ExecContext(ctx,
		`INSERT INTO user_themes (username, theme_json, updated_at) VALUES ('alice', '{oops', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = NewSQLiteUserThemeRepo(database).Load(ctx, "alice")
	assert.ErrorIs(t, err, ErrMalformed)
}
