package intent

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

// Matcher classifies messages by substring and picks canned replies.
type Matcher struct {
	intents   []Intent
	responses map[string]Reply

	mu  sync.Mutex
	rng Chooser
}

// New builds a Matcher from validated tables. A nil chooser uses a
// time-seeded generator.
func New(t Tables, rng Chooser) (*Matcher, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Matcher{intents: t.Intents, responses: t.Responses, rng: rng}, nil
}

// NewSeeded returns a Matcher whose reply choices repeat for the same seed.
func NewSeeded(t Tables, seed uint64) (*Matcher, error) {
	return New(t, rand.New(rand.NewPCG(seed, seed)))
}

// Classify returns the first intent, in table order, with a pattern that
// occurs in lowered. It expects text already lowercased.
func (m *Matcher) Classify(lowered string) string {
	for _, in := range m.intents {
		for _, p := range in.Patterns {
			if strings.Contains(lowered, p) {
				return in.Name
			}
		}
	}
	return DefaultIntent
}

// Reply picks one of the intent's replies uniformly at random, using the
// default entry for unknown intents.
func (m *Matcher) Reply(intent string) string {
	options, ok := m.responses[intent]
	if !ok || len(options) == 0 {
		options = m.responses[DefaultIntent]
	}
	switch len(options) {
	case 0:
		return FallbackReply
	case 1:
		return options[0]
	}

	m.mu.Lock()
	i := m.rng.IntN(len(options))
	m.mu.Unlock()
	return options[i]
}

// Intents returns the intent names in match order.
func (m *Matcher) Intents() []string {
	names := make([]string, len(m.intents))
	for i, in := range m.intents {
		names[i] = in.Name
	}
	return names
}
