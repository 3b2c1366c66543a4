package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/repository"
	"github.com/alexanderramin/agrobot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_AppendFlushesEveryTurn(t *testing.T) {
	store := newJSONStore(t)
	svc := NewHistoryService(repository.NewJSONHistoryRepo(store), nil)
	ctx := context.Background()

	assert.Empty(t, svc.Load(ctx, "alice"))

	require.NoError(t, svc.Append(ctx, "alice", domain.UserTurn("hello")))
	require.NoError(t, svc.Append(ctx, "alice", domain.BotTurn("Hi there! How can I help?")))

	// A fresh service reading the same directory sees the same transcript.
	reread := NewHistoryService(repository.NewJSONHistoryRepo(store), nil)
	assert.Equal(t, testutil.Transcript("hello", "Hi there! How can I help?"), reread.Load(ctx, "alice"))
}

func TestHistoryService_LoadReturnsCopy(t *testing.T) {
	svc := NewHistoryService(newFlakyHistoryRepo(), nil)
	ctx := context.Background()
	require.NoError(t, svc.Append(ctx, "alice", domain.UserTurn("hi")))

	turns := svc.Load(ctx, "alice")
	turns[0].Text = "mutated"
	assert.Equal(t, "hi", svc.Load(ctx, "alice")[0].Text)
}

func TestHistoryService_Clear(t *testing.T) {
	store := newJSONStore(t)
	svc := NewHistoryService(repository.NewJSONHistoryRepo(store), nil)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, "alice", domain.UserTurn("hi")))
	require.NoError(t, svc.Append(ctx, "bob", domain.UserTurn("hey")))
	require.NoError(t, svc.Clear(ctx, "alice"))

	assert.Empty(t, svc.Load(ctx, "alice"))
	assert.Len(t, svc.Load(ctx, "bob"), 1)

	data, err := os.ReadFile(filepath.Join(store.Dir(), "chat_history_alice.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestHistoryService_FailedSaveKeepsMemoryEqualToDisk(t *testing.T) {
	repo := newFlakyHistoryRepo()
	svc := NewHistoryService(repo, nil)
	ctx := context.Background()
	require.NoError(t, svc.Append(ctx, "alice", domain.UserTurn("hi")))

	repo.failSaves = true
	require.ErrorIs(t, svc.Append(ctx, "alice", domain.BotTurn("Hello!")), errDiskFull)
	require.ErrorIs(t, svc.Clear(ctx, "alice"), errDiskFull)

	assert.Equal(t, repo.stored["alice"], svc.Load(ctx, "alice"))
}

func TestHistoryService_CorruptTranscriptWarnsAndStartsEmpty(t *testing.T) {
	store := newJSONStore(t)
	path := filepath.Join(store.Dir(), "chat_history_alice.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	warnings := &WarningLog{}
	svc := NewHistoryService(repository.NewJSONHistoryRepo(store), warnings)
	ctx := context.Background()

	assert.Empty(t, svc.Load(ctx, "alice"))
	msgs := warnings.Drain()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "alice")

	// Loading again does not re-read or re-warn.
	assert.Empty(t, svc.Load(ctx, "alice"))
	assert.Empty(t, warnings.Drain())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(data))
}

func TestHistoryService_ReadsStorageOncePerUser(t *testing.T) {
	repo := newFlakyHistoryRepo()
	repo.stored["alice"] = testutil.Transcript("hi", "Hello!")
	svc := NewHistoryService(repo, nil)
	ctx := context.Background()

	svc.Load(ctx, "alice")
	svc.Load(ctx, "alice")
	require.NoError(t, svc.Append(ctx, "alice", domain.UserTurn("bye")))
	assert.Equal(t, 1, repo.loads)
}

func TestHistoryService_RejectsUnknownSpeaker(t *testing.T) {
	svc := NewHistoryService(newFlakyHistoryRepo(), nil)
	err := svc.Append(context.Background(), "alice", domain.Turn{Speaker: "system", Text: "x"})
	assert.Error(t, err)
}
