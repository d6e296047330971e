package llm

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/core/persona"
)

// CannedLLM answers without calling a model: a random acknowledgment of
// the user's words followed by a random mock reply. Used when AI is
// disabled.
type CannedLLM struct {
	persona persona.Persona
	intn    func(n int) int
}

func NewCannedLLM(p persona.Persona) *CannedLLM {
	return &CannedLLM{persona: p, intn: rand.IntN}
}

func (c *CannedLLM) Generate(_ context.Context, _ string, userPrompt string) (string, error) {
	ack := Acknowledge(c.persona.Acknowledgments.Pick(c.intn), userPrompt)
	return ack + c.persona.MockReplies.Pick(c.intn), nil
}

// Acknowledge fills an acknowledgment template. {{excerpt}} becomes the
// first 30 characters of msg (with "..." when cut) and {{lead}} its first
// three words.
func Acknowledge(template, msg string) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	excerpt := msg
	if r := []rune(msg); len(r) > 30 {
		excerpt = string(r[:30]) + "..."
	}
	words := strings.Fields(msg)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.NewReplacer(
		"{{excerpt}}", excerpt,
		"{{lead}}", strings.Join(words, " "),
	).Replace(template)
}

var _ core.LLMProvider = (*CannedLLM)(nil)
