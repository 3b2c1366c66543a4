package intent

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultTables []byte

// DefaultIntent names the fallback intent and its reply entry.
const DefaultIntent = "default"

// FallbackReply is used when even the default entry cannot produce a reply.
const FallbackReply = "Sorry, I didn't quite understand that. Could you rephrase?"

var (
	ErrMissingDefault = errors.New("response table has no default entry")
	ErrEmptyReply     = errors.New("reply list is empty")
	ErrDuplicate      = errors.New("duplicate intent")
	ErrEmptyPattern   = errors.New("empty pattern")
)

// Intent is a named set of trigger phrases.
type Intent struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Reply holds the candidate replies for one intent. In YAML it may be a
// single string or a list of strings.
type Reply []string

func (r *Reply) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*r = Reply{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*r = list
		return nil
	default:
		return fmt.Errorf("line %d: reply must be a string or a list of strings", node.Line)
	}
}

// Tables is the ordered intent table plus the response table.
type Tables struct {
	Intents   []Intent         `yaml:"intents"`
	Responses map[string]Reply `yaml:"responses"`
}

// Validate checks the tables and lowercases every pattern in place.
func (t *Tables) Validate() error {
	if _, ok := t.Responses[DefaultIntent]; !ok {
		return ErrMissingDefault
	}
	for name, reply := range t.Responses {
		if len(reply) == 0 {
			return fmt.Errorf("responses %q: %w", name, ErrEmptyReply)
		}
	}
	seen := make(map[string]bool, len(t.Intents))
	for i := range t.Intents {
		in := &t.Intents[i]
		if in.Name == "" {
			return fmt.Errorf("intent %d: name is required", i)
		}
		if seen[in.Name] {
			return fmt.Errorf("intent %q: %w", in.Name, ErrDuplicate)
		}
		seen[in.Name] = true
		for j, p := range in.Patterns {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				return fmt.Errorf("intent %q pattern %d: %w", in.Name, j, ErrEmptyPattern)
			}
			in.Patterns[j] = p
		}
	}
	return nil
}

// Parse decodes and validates YAML tables.
func Parse(data []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parsing intent tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tables{}, fmt.Errorf("validating intent tables: %w", err)
	}
	return t, nil
}

// Defaults returns the built-in tables.
func Defaults() Tables {
	t, err := Parse(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("built-in intent tables: %v", err))
	}
	return t
}

// Load reads tables from path, or returns the built-in tables when path is
// empty.
func Load(path string) (Tables, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading intent tables: %w", err)
	}
	return Parse(data)
}
