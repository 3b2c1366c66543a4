package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/google/uuid"
)

// HashOf returns the stored form of a password: lowercase hex SHA-256.
func HashOf(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Session options
type SessionOption func(*domain.Session)

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.StartedAt = t
	}
}

func NewTestSession(username string, opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:        uuid.New().String(),
		Username:  username,
		StartedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transcript builds alternating user/bot turns starting with the user.
func Transcript(texts ...string) []domain.Turn {
	turns := make([]domain.Turn, 0, len(texts))
	for i, text := range texts {
		if i%2 == 0 {
			turns = append(turns, domain.UserTurn(text))
		} else {
			turns = append(turns, domain.BotTurn(text))
		}
	}
	return turns
}
