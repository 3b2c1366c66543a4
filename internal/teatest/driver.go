// Package teatest drives a tea.Model synchronously in tests.
//
// Update is called directly and every returned Cmd is run to completion
// before the next input is sent, so assertions see a settled model.
// Cmds that block on timers (cursor blink, spinner tick) are abandoned
// after a short wait.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds the number of messages one input may produce.
const MaxDrainDepth = 100

// cmdTimeout is how long a Cmd may run before it is dropped. Storage calls
// and message factories return well inside it.
const cmdTimeout = 10 * time.Millisecond

// chords maps the names accepted by Press to key messages.
var chords = map[string]tea.KeyMsg{
	"enter":     {Type: tea.KeyEnter},
	"alt+enter": {Type: tea.KeyEnter, Alt: true},
	"esc":       {Type: tea.KeyEsc},
	"tab":       {Type: tea.KeyTab},
	"left":      {Type: tea.KeyLeft},
	"right":     {Type: tea.KeyRight},
	"up":        {Type: tea.KeyUp},
	"down":      {Type: tea.KeyDown},
	"pgup":      {Type: tea.KeyPgUp},
	"pgdown":    {Type: tea.KeyPgDown},
	"ctrl+c":    {Type: tea.KeyCtrlC},
	"ctrl+j":    {Type: tea.KeyCtrlJ},
	"ctrl+l":    {Type: tea.KeyCtrlL},
	"ctrl+n":    {Type: tea.KeyCtrlN},
	"ctrl+o":    {Type: tea.KeyCtrlO},
	"ctrl+t":    {Type: tea.KeyCtrlT},
}

// Driver feeds input to a model and settles it.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.Quit has fired. The runtime normally
	// swallows QuitMsg, so models rarely record it themselves.
	Quitting bool

	seen []string
}

// Option configures a Driver at construction.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model. Call DrainInit to run its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init command and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.settle(d.Model.Init())
}

// Send delivers msg and settles the model. Nothing is delivered after quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.settle(cmd)
}

// Press sends a named key chord such as "ctrl+l" or "alt+enter".
func (d *Driver) Press(chord string) {
	d.T.Helper()
	km, ok := chords[chord]
	if !ok {
		d.T.Fatalf("teatest: unknown chord %q", chord)
	}
	d.Send(km)
}

func (d *Driver) SendKey(msg tea.KeyMsg) { d.T.Helper(); d.Send(msg) }

func (d *Driver) PressEnter()    { d.T.Helper(); d.Press("enter") }
func (d *Driver) PressEsc()      { d.T.Helper(); d.Press("esc") }
func (d *Driver) PressCtrlC()    { d.T.Helper(); d.Press("ctrl+c") }
func (d *Driver) PressAltEnter() { d.T.Helper(); d.Press("alt+enter") }
func (d *Driver) PressLeft()     { d.T.Helper(); d.Press("left") }

// PressCtrl sends a control key such as tea.KeyCtrlL.
func (d *Driver) PressCtrl(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// Seen reports whether a message of the named type (as printed by %T,
// e.g. "cli.replyMsg") has been delivered since the driver was created.
func (d *Driver) Seen(typeName string) bool {
	for _, s := range d.seen {
		if s == typeName {
			return true
		}
	}
	return false
}

// settle runs cmd and every command it produces, depth first, so that a
// batch's members complete in order before later work.
func (d *Driver) settle(cmd tea.Cmd) {
	d.T.Helper()
	stack := []tea.Cmd{cmd}
	for steps := 0; len(stack) > 0; steps++ {
		if steps >= MaxDrainDepth {
			d.T.Logf("teatest: stopped after %d messages", MaxDrainDepth)
			return
		}
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next == nil {
			continue
		}

		msg := runWithTimeout(next)
		switch m := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			for i := len(m) - 1; i >= 0; i-- {
				stack = append(stack, m[i])
			}
			continue
		case tea.QuitMsg:
			d.Quitting = true
			d.Model, _ = d.Model.Update(m)
			return
		}
		if isBlink(msg) {
			continue
		}

		d.seen = append(d.seen, fmt.Sprintf("%T", msg))
		var follow tea.Cmd
		d.Model, follow = d.Model.Update(msg)
		stack = append(stack, follow)
	}
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink matches the unexported cursor blink messages, which re-arm
// their own timers and would otherwise loop.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
