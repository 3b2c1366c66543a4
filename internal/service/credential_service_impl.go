package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/repository"
	"github.com/google/uuid"
)

const minPasswordLen = 6

type credentialService struct {
	repo     repository.CredentialRepo
	warner   Warner
	observer UseCaseObserver

	mu     sync.Mutex
	loaded bool
	users  map[string]string
}

func NewCredentialService(repo repository.CredentialRepo, warner Warner, observers ...UseCaseObserver) CredentialService {
	return &credentialService{
		repo:     repo,
		warner:   warnerOrNoop(warner),
		observer: useCaseObserverOrNoop(observers),
	}
}

// hashPassword returns the lowercase hex SHA-256 digest stored for a password.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// strongPassword requires at least six characters including an ASCII letter
// and a decimal digit from any script.
func strongPassword(pw string) bool {
	if utf8.RuneCountInString(pw) < minPasswordLen {
		return false
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// ensureLoaded reads the credential table once. A missing or unreadable
// table starts empty. Callers hold s.mu.
func (s *credentialService) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	users, err := s.repo.Load(ctx)
	if err != nil {
		s.warner.Warn(ctx, "credential table unreadable, starting empty", err)
		users = map[string]string{}
	}
	if users == nil {
		users = map[string]string{}
	}
	s.users = users
	s.loaded = true
}

func (s *credentialService) Register(ctx context.Context, username, password, confirm string) (err error) {
	startedAt := time.Now().UTC()
	username = strings.TrimSpace(username)
	fields := map[string]any{"username": username}
	defer func() { observe(ctx, s.observer, "register", startedAt, fields, err) }()

	switch {
	case password != confirm:
		return newSignupError(ErrPasswordMismatch)
	case !domain.ValidUsername(username):
		return newSignupError(ErrSignupInvalidName)
	case password == "" || confirm == "":
		return newSignupError(ErrSignupMissingField)
	case !strongPassword(password):
		return newSignupError(ErrWeakPassword)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if _, taken := s.users[username]; taken {
		return newSignupError(ErrUsernameTaken)
	}

	s.users[username] = hashPassword(password)
	if err := s.repo.Save(ctx, s.users); err != nil {
		delete(s.users, username)
		return fmt.Errorf("registering %s: %w", username, err)
	}
	return nil
}

func (s *credentialService) Authenticate(ctx context.Context, username, password string) (session *domain.Session, err error) {
	startedAt := time.Now().UTC()
	username = strings.TrimSpace(username)
	fields := map[string]any{"username": username}
	defer func() { observe(ctx, s.observer, "authenticate", startedAt, fields, err) }()

	if !domain.ValidUsername(username) {
		return nil, newAuthError(ErrAuthInvalidName)
	}
	if password == "" {
		return nil, newAuthError(ErrAuthMissingField)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	stored, ok := s.users[username]
	candidate := hashPassword(password)
	if !ok {
		// Unknown users still go through one comparison.
		stored = strings.Repeat("0", len(candidate))
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) != 1 || !ok {
		return nil, newAuthError(ErrInvalidCredentials)
	}

	session = &domain.Session{
		ID:        uuid.New().String(),
		Username:  username,
		StartedAt: startedAt,
	}
	fields["session_id"] = session.ID
	return session, nil
}
