package usecase

import (
	"fmt"
	"strings"
	"time"

	"travel-agent/internal/domain"
)

const notSpecified = "Not specified"

const travelSystemTemplate = `You are a Travel Assistant AI that helps plan trips, book accommodations,
and remember travel preferences. Use the following traveler profile when making recommendations:

%s

Current Date: %s
Always:
- Ask clarifying questions about destinations/dates/budget
- Suggest activities based on user preferences
- Mention any dietary restrictions when recommending restaurants
- Consider budget range when making suggestions`

const summaryInstruction = `Summarize the key travel planning details including destinations, dates,
bookings made, and preferences discussed. Preserve all critical trip information:`

const bookingClarification = "Please confirm:\n1. Travel dates\n2. Guest details\n3. Payment method"

const summaryPrefix = "TRIP SUMMARY:\n"

// FormatSystemPrompt renders the traveler profile and date into the
// assistant's system message. An absent record renders every field as
// unspecified.
func FormatSystemPrompt(prefs domain.StoredPreferences, now time.Time) string {
	return fmt.Sprintf(travelSystemTemplate, formatProfile(prefs), now.Format("2006-01-02"))
}

func formatProfile(prefs domain.StoredPreferences) string {
	return strings.Join([]string{
		"Travel Style: " + orNotSpecified(prefs.TravelStyle()),
		"Budget: " + orNotSpecified(prefs.BudgetRange()),
		"Dietary Needs: " + strings.Join(prefs.DietaryRestrictions(), ", "),
		"Visited Locations: " + strings.Join(prefs.VisitedDestinations(), ", "),
	}, "\n")
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

func buildGenerateMessages(system string, history []domain.ChatMessage) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: system})
	return append(messages, history...)
}
