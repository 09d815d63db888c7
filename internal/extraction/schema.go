package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"travel-agent/internal/domain"
)

const (
	toolName        = "TravelPreferences"
	toolDescription = "Stores user's travel-related preferences"
	schemaURL       = "travel_preferences.schema.json"
)

// preferencesSchema is both the extraction tool's parameter schema and the
// validation schema for candidates returned by the model.
const preferencesSchema = `{
	"type": "object",
	"properties": {
		"preferred_accommodation_types": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Preferred hotel/housing types (e.g., boutique, hostel, luxury)"
		},
		"dietary_restrictions": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Dietary needs (e.g., vegetarian, gluten-free)"
		},
		"budget_range": {
			"type": "string",
			"description": "Typical daily budget range (e.g., $100-200)"
		},
		"visited_destinations": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Previously visited locations"
		},
		"travel_style": {
			"type": "string",
			"description": "Travel style (e.g., backpacking, luxury, family)"
		}
	},
	"required": [
		"preferred_accommodation_types",
		"dietary_restrictions",
		"budget_range",
		"visited_destinations",
		"travel_style"
	]
}`

func compileSchema() (*jsonschema.Schema, error) {
	s, err := jsonschema.CompileString(schemaURL, preferencesSchema)
	if err != nil {
		return nil, fmt.Errorf("extraction: compile schema: %w", err)
	}
	return s, nil
}

// Tool returns the forced-call tool definition for preference extraction.
func Tool() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        toolName,
		Description: toolDescription,
		Parameters:  []byte(preferencesSchema),
	}
}

// decodeCandidate validates raw against the schema and decodes it.
func decodeCandidate(schema *jsonschema.Schema, raw []byte) (domain.TravelPreferences, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return domain.TravelPreferences{}, fmt.Errorf("parse candidate: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return domain.TravelPreferences{}, fmt.Errorf("validate candidate: %w", err)
	}
	var prefs domain.TravelPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return domain.TravelPreferences{}, fmt.Errorf("decode candidate: %w", err)
	}
	return prefs.Normalized(), nil
}
