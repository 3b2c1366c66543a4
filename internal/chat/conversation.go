// Package chat runs one authenticated user's conversation with the bot.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/resolver"
	"github.com/alexanderramin/agrobot/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Welcome is shown above an empty transcript. It is never stored.
const Welcome = "Welcome to AgroBot! Type your question below."

// DefaultThinkingDelay is the minimum time between a message and its reply.
const DefaultThinkingDelay = 400 * time.Millisecond

// ErrEmptyMessage is returned for messages that are blank after trimming.
var ErrEmptyMessage = errors.New("message is empty")

// Responder produces the bot's reply to a message.
type Responder interface {
	Resolve(ctx context.Context, text string) resolver.Result
}

// Conversation ties a session to its transcript and the responder.
type Conversation struct {
	session   *domain.Session
	history   service.HistoryService
	responder Responder
	delay     time.Duration
	logger    *zap.Logger
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithThinkingDelay sets the reply floor. Zero disables it.
func WithThinkingDelay(d time.Duration) Option {
	return func(c *Conversation) {
		if d >= 0 {
			c.delay = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Conversation) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(session *domain.Session, history service.HistoryService, responder Responder, opts ...Option) *Conversation {
	c := &Conversation{
		session:   session,
		history:   history,
		responder: responder,
		delay:     DefaultThinkingDelay,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("user", session.Username), zap.String("session", session.ID))
	return c
}

// Session returns the session this conversation belongs to.
func (c *Conversation) Session() *domain.Session { return c.session }

// Open loads the stored transcript.
func (c *Conversation) Open(ctx context.Context) []domain.Turn {
	turns := c.history.Load(ctx, c.session.Username)
	c.logger.Info("conversation opened", zap.Int("turns", len(turns)))
	return turns
}

// Turns returns the current transcript.
func (c *Conversation) Turns(ctx context.Context) []domain.Turn {
	return c.history.Load(ctx, c.session.Username)
}

// Record trims text and stores it as a user turn, returning the stored text.
func (c *Conversation) Record(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if err := c.history.Append(ctx, c.session.Username, domain.UserTurn(text)); err != nil {
		return text, fmt.Errorf("recording message: %w", err)
	}
	return text, nil
}

// Respond resolves text on a worker while the thinking delay runs, waits for
// both, then stores the reply as a bot turn. When storing fails the reply
// is still returned alongside the error.
func (c *Conversation) Respond(ctx context.Context, text string) (resolver.Result, error) {
	start := time.Now()
	var result resolver.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if c.delay <= 0 {
			return nil
		}
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	g.Go(func() error {
		result = c.responder.Resolve(gctx, text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return resolver.Result{}, fmt.Errorf("responding: %w", err)
	}

	c.logger.Info("reply resolved",
		zap.String("route", string(result.Route)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := c.history.Append(ctx, c.session.Username, domain.BotTurn(result.Reply)); err != nil {
		return result, fmt.Errorf("recording reply: %w", err)
	}
	return result, nil
}

// Send records text and responds to it.
func (c *Conversation) Send(ctx context.Context, text string) (resolver.Result, error) {
	stored, err := c.Record(ctx, text)
	if err != nil {
		return resolver.Result{}, err
	}
	return c.Respond(ctx, stored)
}

// Clear empties the stored transcript.
func (c *Conversation) Clear(ctx context.Context) error {
	if err := c.history.Clear(ctx, c.session.Username); err != nil {
		return err
	}
	c.logger.Info("history cleared")
	return nil
}
