package core

import "context"

// LLMProvider is the Completion Service: given a persona instruction and
// the user's message it returns generated text.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
