package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/repository"
)

type historyService struct {
	repo     repository.HistoryRepo
	warner   Warner
	observer UseCaseObserver

	mu    sync.Mutex
	turns map[string][]domain.Turn
}

func NewHistoryService(repo repository.HistoryRepo, warner Warner, observers ...UseCaseObserver) HistoryService {
	return &historyService{
		repo:     repo,
		warner:   warnerOrNoop(warner),
		observer: useCaseObserverOrNoop(observers),
		turns:    map[string][]domain.Turn{},
	}
}

// cached returns the user's transcript, reading storage on first access. A
// corrupt transcript is reported and treated as empty; the stored data is
// not touched until the next mutation. Callers hold s.mu.
func (s *historyService) cached(ctx context.Context, username string) []domain.Turn {
	if turns, ok := s.turns[username]; ok {
		return turns
	}
	turns, err := s.repo.Load(ctx, username)
	if err != nil {
		s.warner.Warn(ctx, fmt.Sprintf("chat history for %s unreadable, starting empty", username), err)
		turns = nil
	}
	s.turns[username] = turns
	return turns
}

func (s *historyService) Load(ctx context.Context, username string) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.cached(ctx, username)
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

func (s *historyService) Append(ctx context.Context, username string, turn domain.Turn) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"username": username, "speaker": string(turn.Speaker)}
	defer func() { observe(ctx, s.observer, "append-turn", startedAt, fields, err) }()

	if !turn.Speaker.Valid() {
		return fmt.Errorf("appending turn: unknown speaker %q", turn.Speaker)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cached(ctx, username)
	next := make([]domain.Turn, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, turn)

	if err := s.repo.Save(ctx, username, next); err != nil {
		return fmt.Errorf("appending turn for %s: %w", username, err)
	}
	s.turns[username] = next
	fields["turns"] = len(next)
	return nil
}

func (s *historyService) Clear(ctx context.Context, username string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"username": username}
	defer func() { observe(ctx, s.observer, "clear-history", startedAt, fields, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, username, []domain.Turn{}); err != nil {
		return fmt.Errorf("clearing history for %s: %w", username, err)
	}
	s.turns[username] = []domain.Turn{}
	return nil
}
