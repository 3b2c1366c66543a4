package chat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/repository"
	"github.com/alexanderramin/agrobot/internal/resolver"
	"github.com/alexanderramin/agrobot/internal/service"
	"github.com/alexanderramin/agrobot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type echoResponder struct {
	calls atomic.Int32
	delay time.Duration
}

func (e *echoResponder) Resolve(ctx context.Context, text string) resolver.Result {
	e.calls.Add(1)
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
		}
	}
	return resolver.Result{Route: resolver.RouteIntent, Reply: "echo: " + text}
}

// brokenHistory fails every write.
type brokenHistory struct{ service.HistoryService }

func (brokenHistory) Append(context.Context, string, domain.Turn) error { return errors.New("disk full") }

func newTestConversation(t *testing.T, r Responder, opts ...Option) (*Conversation, service.HistoryService) {
	t.Helper()
	store, err := repository.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	history := service.NewHistoryService(repository.NewJSONHistoryRepo(store), nil)
	opts = append([]Option{WithThinkingDelay(0)}, opts...)
	return New(testutil.NewTestSession("alice"), history, r, opts...), history
}

func TestSend_RecordsBothTurns(t *testing.T) {
	conv, history := newTestConversation(t, &echoResponder{})
	ctx := context.Background()

	assert.Empty(t, conv.Open(ctx))

	res, err := conv.Send(ctx, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", res.Reply)
	assert.Equal(t, resolver.RouteIntent, res.Route)

	want := testutil.Transcript("hello", "echo: hello")
	assert.Equal(t, want, conv.Turns(ctx))
	assert.Equal(t, want, history.Load(ctx, "alice"))
}

func TestSend_RejectsBlankMessages(t *testing.T) {
	r := &echoResponder{}
	conv, _ := newTestConversation(t, r)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := conv.Send(ctx, text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Zero(t, r.calls.Load())
	assert.Empty(t, conv.Turns(ctx))
}

func TestRespond_WaitsForThinkingDelay(t *testing.T) {
	conv, _ := newTestConversation(t, &echoResponder{}, WithThinkingDelay(60*time.Millisecond))
	ctx := context.Background()

	start := time.Now()
	_, err := conv.Send(ctx, "hi")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestRespond_SlowResolverIsNotCutShort(t *testing.T) {
	conv, _ := newTestConversation(t, &echoResponder{delay: 80 * time.Millisecond}, WithThinkingDelay(10*time.Millisecond))

	start := time.Now()
	res, err := conv.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", res.Reply)
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRespond_CancelledContextStoresNoReply(t *testing.T) {
	conv, _ := newTestConversation(t, &echoResponder{delay: time.Second}, WithThinkingDelay(time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	_, err := conv.Record(ctx, "hi")
	require.NoError(t, err)

	time.AfterFunc(20*time.Millisecond, cancel)
	_, err = conv.Respond(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, testutil.Transcript("hi"), conv.Turns(context.Background()))
}

func TestRespond_ReplyReturnedWhenStoringFails(t *testing.T) {
	_, history := newTestConversation(t, nil)
	conv := New(testutil.NewTestSession("alice"), brokenHistory{history}, &echoResponder{}, WithThinkingDelay(0))

	res, err := conv.Respond(context.Background(), "hi")
	assert.Error(t, err)
	assert.Equal(t, "echo: hi", res.Reply)
}

func TestClear(t *testing.T) {
	conv, _ := newTestConversation(t, &echoResponder{})
	ctx := context.Background()

	_, err := conv.Send(ctx, "hello")
	require.NoError(t, err)
	require.NoError(t, conv.Clear(ctx))
	assert.Empty(t, conv.Turns(ctx))
}

func TestWithThinkingDelay_IgnoresNegative(t *testing.T) {
	conv := New(testutil.NewTestSession("alice"), nil, nil, WithThinkingDelay(-time.Second))
	assert.Equal(t, DefaultThinkingDelay, conv.delay)
}
