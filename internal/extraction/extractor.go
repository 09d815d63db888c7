// Package extraction derives a TravelPreferences record from a conversation
// through a forced tool call, validating the model's candidates against the
// record's JSON schema.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"travel-agent/internal/domain"
)

// Instruction is the system message that opens every extraction request.
const Instruction = "Extract or update travel preferences from this conversation:"

// ErrNoCandidate is returned when the model produced no candidate record.
var ErrNoCandidate = errors.New("extraction: no candidate returned")

// MalformedCandidateError reports a candidate that is not a valid record.
type MalformedCandidateError struct {
	Err error
}

func (e *MalformedCandidateError) Error() string {
	return fmt.Sprintf("extraction: malformed candidate: %v", e.Err)
}

func (e *MalformedCandidateError) Unwrap() error { return e.Err }

// ToolCaller is the structured-output capability of the model client.
type ToolCaller interface {
	CallTool(ctx context.Context, model domain.ModelConfig, messages []domain.ChatMessage, spec domain.ToolSpec) ([]json.RawMessage, error)
}

type Extractor struct {
	caller ToolCaller
	schema *jsonschema.Schema
}

func New(caller ToolCaller) (*Extractor, error) {
	if caller == nil {
		return nil, errors.New("extraction: tool caller must not be nil")
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &Extractor{caller: caller, schema: schema}, nil
}

// Extract returns the first candidate record for history. The previous
// record, when present, is passed to the model as context so it updates
// rather than replaces.
//
// Errors: ErrNoCandidate and *MalformedCandidateError are recoverable; any
// other error comes from the model call.
func (e *Extractor) Extract(ctx context.Context, model domain.ModelConfig, history []domain.ChatMessage, existing domain.StoredPreferences) (domain.TravelPreferences, error) {
	messages, err := buildMessages(history, existing)
	if err != nil {
		return domain.TravelPreferences{}, err
	}

	candidates, err := e.caller.CallTool(ctx, model, messages, Tool())
	if err != nil {
		return domain.TravelPreferences{}, fmt.Errorf("extraction: call tool: %w", err)
	}
	if len(candidates) == 0 {
		return domain.TravelPreferences{}, ErrNoCandidate
	}

	prefs, err := decodeCandidate(e.schema, candidates[0])
	if err != nil {
		return domain.TravelPreferences{}, &MalformedCandidateError{Err: err}
	}
	return prefs, nil
}

func buildMessages(history []domain.ChatMessage, existing domain.StoredPreferences) ([]domain.ChatMessage, error) {
	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: Instruction})

	if prev, ok := existing.Value(); ok {
		raw, err := json.Marshal(map[string]domain.TravelPreferences{toolName: prev.Normalized()})
		if err != nil {
			return nil, fmt.Errorf("extraction: marshal existing record: %w", err)
		}
		messages = append(messages, domain.ChatMessage{
			Role:    domain.RoleSystem,
			Content: "Existing " + toolName + " to update (keep values that are still true):\n" + string(raw),
		})
	}
	return append(messages, history...), nil
}
