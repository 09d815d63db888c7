package usecase

import (
	"context"
	"errors"
	"time"

	"travel-agent/internal/domain"
)

// ResponseGenerator produces the assistant reply for a turn.
type ResponseGenerator struct {
	llm LLMClient
	now func() time.Time
}

func NewResponseGenerator(llm LLMClient, now func() time.Time) (*ResponseGenerator, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if now == nil {
		now = time.Now
	}
	return &ResponseGenerator{llm: llm, now: now}, nil
}

// Generate sends the formatted system prompt followed by history to the
// model. Model errors are returned unchanged.
func (g *ResponseGenerator) Generate(ctx context.Context, model domain.ModelConfig, prefs domain.StoredPreferences, history []domain.ChatMessage) (domain.ChatMessage, error) {
	system := FormatSystemPrompt(prefs, g.now())
	reply, err := g.llm.Chat(ctx, model, buildGenerateMessages(system, history))
	if err != nil {
		return domain.ChatMessage{}, err
	}
	reply.Role = domain.RoleAssistant
	return reply, nil
}
