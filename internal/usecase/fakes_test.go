package usecase

import (
	"context"
	"errors"
	"fmt"

	"travel-agent/internal/domain"
)

type mockParams struct {
	vals  map[string]string
	err   error
	calls int
}

func (m *mockParams) GetParameters(_ context.Context, names ...string) (map[string]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]string{}
	for _, n := range names {
		if v, ok := m.vals[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

func defaultParams() *mockParams {
	return &mockParams{vals: map[string]string{
		"/prefix/config/openai_model": "gpt-3.5-turbo",
	}}
}

type chatResponse struct {
	content string
	err     error
}

// scriptedLLM replays responses in order and records every request.
type scriptedLLM struct {
	responses []chatResponse
	requests  [][]domain.ChatMessage
	models    []domain.ModelConfig
}

func (m *scriptedLLM) Chat(_ context.Context, model domain.ModelConfig, msgs []domain.ChatMessage) (domain.ChatMessage, error) {
	m.requests = append(m.requests, append([]domain.ChatMessage(nil), msgs...))
	m.models = append(m.models, model)
	if len(m.responses) == 0 {
		return domain.ChatMessage{}, errors.New("no llm response configured")
	}
	idx := len(m.requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	r := m.responses[idx]
	return domain.ChatMessage{Role: "assistant", Content: r.content}, r.err
}

type mockExtractor struct {
	out      domain.TravelPreferences
	err      error
	calls    int
	history  []domain.ChatMessage
	existing domain.StoredPreferences
}

func (m *mockExtractor) Extract(_ context.Context, _ domain.ModelConfig, history []domain.ChatMessage, existing domain.StoredPreferences) (domain.TravelPreferences, error) {
	m.calls++
	m.history = history
	m.existing = existing
	return m.out, m.err
}

// memoryStore is a map-backed preference store.
type memoryStore struct {
	records map[string]domain.TravelPreferences
	getErr  error
	putErr  error
	puts    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]domain.TravelPreferences{}}
}

func storeKey(ns domain.Namespace, key string) string {
	return fmt.Sprintf("%s/%s/%s", ns.Category, ns.UserID, key)
}

func (m *memoryStore) Get(_ context.Context, ns domain.Namespace, key string) (domain.StoredPreferences, error) {
	if m.getErr != nil {
		return domain.NoPreferences(), m.getErr
	}
	p, ok := m.records[storeKey(ns, key)]
	if !ok {
		return domain.NoPreferences(), nil
	}
	return domain.SomePreferences(p), nil
}

func (m *memoryStore) Put(_ context.Context, ns domain.Namespace, key string, prefs domain.TravelPreferences) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.records[storeKey(ns, key)] = prefs
	return nil
}

type statusErr struct{ code int }

func (e *statusErr) Error() string       { return fmt.Sprintf("status %d", e.code) }
func (e *statusErr) HTTPStatusCode() int { return e.code }

func conversation(n int) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		out = append(out, domain.ChatMessage{Role: role, Content: fmt.Sprintf("message %d", i)})
	}
	return out
}
