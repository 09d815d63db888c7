package usecase

import (
	"context"
	"errors"

	"travel-agent/internal/domain"
)

const (
	// summaryThreshold is the history length above which a turn summarizes.
	summaryThreshold = 25
	// summaryWindow is how many trailing messages the summary is built from.
	summaryWindow = 25
	// keepAfterSummary is how many original messages follow the summary.
	keepAfterSummary = 2
)

// NeedsSummary reports whether messages is long enough to be condensed.
func NeedsSummary(messages []domain.ChatMessage) bool {
	return len(messages) > summaryThreshold
}

// Summarizer condenses long conversations into a trip summary.
type Summarizer struct {
	llm LLMClient
}

func NewSummarizer(llm LLMClient) (*Summarizer, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	return &Summarizer{llm: llm}, nil
}

// Summarize returns [summary, second-to-last, last] when messages exceeds the
// threshold. Below it, it returns (nil, false, nil) and the caller keeps its
// state unchanged.
func (s *Summarizer) Summarize(ctx context.Context, model domain.ModelConfig, messages []domain.ChatMessage) ([]domain.ChatMessage, bool, error) {
	if !NeedsSummary(messages) {
		return nil, false, nil
	}

	window := messages[len(messages)-summaryWindow:]
	request := make([]domain.ChatMessage, 0, len(window)+1)
	request = append(request, domain.ChatMessage{Role: domain.RoleSystem, Content: summaryInstruction})
	request = append(request, window...)

	summary, err := s.llm.Chat(ctx, model, request)
	if err != nil {
		return nil, false, err
	}

	out := make([]domain.ChatMessage, 0, keepAfterSummary+1)
	out = append(out, domain.ChatMessage{Role: domain.RoleSystem, Content: summaryPrefix + summary.Content})
	out = append(out, messages[len(messages)-keepAfterSummary:]...)
	return out, true, nil
}
