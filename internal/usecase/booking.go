package usecase

import (
	"strings"

	"travel-agent/internal/domain"
)

var bookingKeywords = []string{"book", "reserve"}

// HasBookingIntent reports whether content mentions booking. The match is a
// plain case-insensitive substring test, so "bookshelf" matches too.
func HasBookingIntent(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range bookingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CheckBooking appends the booking clarification request when the latest
// message shows booking intent. Otherwise messages is returned as is.
func CheckBooking(messages []domain.ChatMessage) ([]domain.ChatMessage, bool) {
	if len(messages) == 0 || !HasBookingIntent(messages[len(messages)-1].Content) {
		return messages, false
	}
	out := make([]domain.ChatMessage, 0, len(messages)+1)
	out = append(out, messages...)
	return append(out, domain.ChatMessage{Role: domain.RoleSystem, Content: bookingClarification}), true
}
