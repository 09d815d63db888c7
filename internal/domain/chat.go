package domain

// Chat roles accepted in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is the provider-agnostic chat message shape used by the handler
// and LLM integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidRole reports whether role is one of the known chat roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ToolSpec describes a function the model is forced to call for structured
// extraction. Parameters holds the JSON schema of the call arguments.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  []byte
}

// ModelConfig selects the hosted model and sampling temperature for a call.
type ModelConfig struct {
	Name        string
	Temperature float64
}
