package domain

import (
	"encoding/json"
	"fmt"
)

// Speaker tags who produced a chat turn.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

func (s Speaker) Valid() bool {
	return s == SpeakerUser || s == SpeakerBot
}

// Turn is one message in a conversation. It encodes as a single-key JSON
// object keyed by speaker: {"user": "hello"} or {"bot": "Hi there!"}.
type Turn struct {
	Speaker Speaker
	Text    string
}

// UserTurn returns a turn spoken by the user.
func UserTurn(text string) Turn { return Turn{Speaker: SpeakerUser, Text: text} }

// BotTurn returns a turn spoken by the bot.
func BotTurn(text string) Turn { return Turn{Speaker: SpeakerBot, Text: text} }

func (t Turn) MarshalJSON() ([]byte, error) {
	if !t.Speaker.Valid() {
		return nil, fmt.Errorf("marshaling turn: unknown speaker %q", t.Speaker)
	}
	return json.Marshal(map[string]string{string(t.Speaker): t.Text})
}

func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding turn: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("decoding turn: want exactly one speaker key, got %d", len(raw))
	}
	for k, v := range raw {
		sp := Speaker(k)
		if !sp.Valid() {
			return fmt.Errorf("decoding turn: unknown speaker %q", k)
		}
		t.Speaker = sp
		t.Text = v
	}
	return nil
}
