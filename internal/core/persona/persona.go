// Package persona holds the immutable phrase pools and the system
// instruction that give replies their voice.
package persona

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// Pool is a fixed list of canned strings.
type Pool []string

// Pick selects an element using intn, which must return a value in [0, n).
// An empty pool yields "".
func (p Pool) Pick(intn func(n int) int) string {
	if len(p) == 0 {
		return ""
	}
	return p[intn(len(p))]
}

// Random picks uniformly at random.
func (p Pool) Random() string {
	return p.Pick(rand.IntN)
}

// Persona bundles everything the chat service says without the model.
type Persona struct {
	SystemPrompt    string `yaml:"system_prompt"`
	Greetings       Pool   `yaml:"greetings"`
	Fallback        string `yaml:"fallback"`
	MockReplies     Pool   `yaml:"mock_replies"`
	Acknowledgments Pool   `yaml:"acknowledgments"`
}

// Load reads a YAML persona file. Fields absent from the file keep their
// defaults. An empty path returns Default().
func Load(path string) (Persona, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read persona file: %w", err)
	}
	var override Persona
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return p, fmt.Errorf("parse persona file: %w", err)
	}
	if override.SystemPrompt != "" {
		p.SystemPrompt = override.SystemPrompt
	}
	if len(override.Greetings) > 0 {
		p.Greetings = override.Greetings
	}
	if override.Fallback != "" {
		p.Fallback = override.Fallback
	}
	if len(override.MockReplies) > 0 {
		p.MockReplies = override.MockReplies
	}
	if len(override.Acknowledgments) > 0 {
		p.Acknowledgments = override.Acknowledgments
	}
	return p, nil
}

func Default() Persona {
	return Persona{
		SystemPrompt:    defaultSystemPrompt,
		Greetings:       append(Pool(nil), defaultGreetings...),
		Fallback:        defaultFallback,
		MockReplies:     append(Pool(nil), defaultMockReplies...),
		Acknowledgments: append(Pool(nil), defaultAcknowledgments...),
	}
}
