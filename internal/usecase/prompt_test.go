package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"travel-agent/internal/domain"
)

var fixedNow = time.Date(2026, 10, 15, 13, 45, 0, 0, time.UTC)

func TestFormatSystemPrompt_WithPreferences(t *testing.T) {
	prompt := FormatSystemPrompt(domain.SomePreferences(domain.TravelPreferences{
		DietaryRestrictions: []string{"vegetarian", "gluten-free"},
		BudgetRange:         "$100-200",
		VisitedDestinations: []string{"Paris", "Tokyo"},
		TravelStyle:         "backpacking",
	}), fixedNow)

	require.Contains(t, prompt, "You are a Travel Assistant AI")
	require.Contains(t, prompt, "Travel Style: backpacking\n")
	require.Contains(t, prompt, "Budget: $100-200\n")
	require.Contains(t, prompt, "Dietary Needs: vegetarian, gluten-free\n")
	require.Contains(t, prompt, "Visited Locations: Paris, Tokyo\n")
	require.Contains(t, prompt, "Current Date: 2026-10-15\n")
	require.Contains(t, prompt, "- Consider budget range when making suggestions")
}

func TestFormatSystemPrompt_NoPreferences(t *testing.T) {
	prompt := FormatSystemPrompt(domain.NoPreferences(), fixedNow)

	require.Contains(t, prompt, "Travel Style: Not specified\n")
	require.Contains(t, prompt, "Budget: Not specified\n")
	require.Contains(t, prompt, "Dietary Needs: \n")
	require.Contains(t, prompt, "Visited Locations: \n")
}

func TestFormatSystemPrompt_BlankFieldsAreNotSpecified(t *testing.T) {
	prompt := FormatSystemPrompt(domain.SomePreferences(domain.TravelPreferences{TravelStyle: "  "}), fixedNow)
	require.Contains(t, prompt, "Travel Style: Not specified\n")
}
