package cli

import (
	"context"

	"github.com/alexanderramin/agrobot/internal/chat"
	"github.com/alexanderramin/agrobot/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Signed-in session; nil on the auth screen.
	Session *domain.Session
	Conv    *chat.Conversation

	// Active chat colors, resolved from the user's theme.
	Theme   domain.Theme
	Palette domain.Palette

	// Light or dark look of the auth screen.
	AuthDark bool

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(app *App) *SharedState {
	s := &SharedState{App: app, AuthDark: true}
	s.ApplyTheme(domain.DefaultTheme())
	return s
}

// SignIn opens a conversation for sess and loads the user's theme.
func (s *SharedState) SignIn(ctx context.Context, sess *domain.Session) {
	s.Session = sess
	s.Conv = s.App.newConversation(sess)
	s.ApplyTheme(s.App.Themes.UserTheme(ctx, sess.Username))
}

// SignOut drops the session and restores the default colors.
func (s *SharedState) SignOut() {
	s.Session = nil
	s.Conv = nil
	s.ApplyTheme(domain.DefaultTheme())
}

func (s *SharedState) ApplyTheme(t domain.Theme) {
	s.Theme = t
	s.Palette = t.Resolve()
}

// Username returns the signed-in user, or "".
func (s *SharedState) Username() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.Username
}

// ContentHeight returns the height left for view content after the
// header (title + separator) and status bar (separator + status + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}
