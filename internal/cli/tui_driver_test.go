package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/agrobot/internal/repository"
	"github.com/alexanderramin/agrobot/internal/resolver"
	"github.com/alexanderramin/agrobot/internal/service"
	"github.com/alexanderramin/agrobot/internal/teatest"
	"github.com/alexanderramin/agrobot/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testPassword = "abc123"

// echoResponder answers every message with "echo: <text>".
type echoResponder struct{}

func (echoResponder) Resolve(_ context.Context, text string) resolver.Result {
	return resolver.Result{Route: resolver.RouteIntent, Reply: "echo: " + text}
}

// testApp wires a full App over an in-memory database and a temp-dir
// theme catalog. The catalog file does not exist until InitCatalog runs.
func testApp(t *testing.T) *App {
	t.Helper()
	conn := testutil.NewTestDB(t)
	warnings := &service.WarningLog{}

	catalog := repository.NewJSONCatalogRepo(filepath.Join(t.TempDir(), "theme.json"))
	return &App{
		Credentials: service.NewCredentialService(repository.NewSQLiteCredentialRepo(conn), warnings),
		History:     service.NewHistoryService(repository.NewSQLiteHistoryRepo(conn), warnings),
		Themes:      service.NewThemeService(catalog, repository.NewSQLiteUserThemeRepo(conn), warnings),
		Responder:   echoResponder{},
		Warnings:    warnings,
	}
}

// registerUser creates an account with testPassword.
func registerUser(t *testing.T, app *App, username string) {
	t.Helper()
	require.NoError(t, app.Credentials.Register(context.Background(), username, testPassword, testPassword))
}

// TestDriver wraps teatest.Driver with AgroBot-specific inspection methods.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel on the login screen, sets the
// terminal size, and drains Init().
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	d := teatest.New(t, newAppModel(app), teatest.WithSize(100, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

// NewSignedInDriver registers username and signs in through the same
// message the login form produces.
func NewSignedInDriver(t *testing.T, app *App, username string) *TestDriver {
	t.Helper()
	registerUser(t, app, username)
	d := NewTestDriver(t, app)
	d.Send(applyLogin(context.Background(), app, username, testPassword))
	require.Equal(t, ViewChat, d.ActiveViewID())
	return d
}

// Say types text into the chat input and presses Enter.
func (d *TestDriver) Say(text string) {
	d.T.Helper()
	d.Type(text)
	d.PressEnter()
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	if v := m.activeView(); v != nil {
		return v.Title()
	}
	return ""
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Status returns the raw status line text.
func (d *TestDriver) Status() (string, bool) {
	m := d.appModel()
	return m.status, m.statusIsErr
}

// Chat returns the chat view if it is on top of the stack.
func (d *TestDriver) Chat() *chatView {
	d.T.Helper()
	m := d.appModel()
	v, ok := m.activeView().(*chatView)
	require.True(d.T, ok, "active view is %T, not chat", m.activeView())
	return v
}

// IsQuitting reports whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// ViewContains reports whether the rendered screen contains s, ignoring
// styling.
func (d *TestDriver) ViewContains(s string) bool {
	return strings.Contains(d.View(), s)
}
