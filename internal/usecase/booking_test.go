package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"travel-agent/internal/domain"
)

func TestHasBookingIntent(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"I want to book a flight", true},
		{"Shall I RESERVE a table?", true},
		{"Booking.com has deals", true},
		{"There's a bookshelf in the lobby", true},
		{"What's the weather?", false},
		{"", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, HasBookingIntent(tc.content), "content=%q", tc.content)
	}
}

func TestCheckBooking_AppendsClarification(t *testing.T) {
	in := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "Find me a hotel in Rome"},
		{Role: domain.RoleAssistant, Content: "I want to book a flight"},
	}
	out, matched := CheckBooking(in)
	require.True(t, matched)
	require.Len(t, out, 3)
	require.Equal(t, in, out[:2])
	require.Equal(t, domain.ChatMessage{
		Role:    domain.RoleSystem,
		Content: "Please confirm:\n1. Travel dates\n2. Guest details\n3. Payment method",
	}, out[2])
	require.Len(t, in, 2)
}

func TestCheckBooking_OnlyLatestMessageCounts(t *testing.T) {
	in := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "book something"},
		{Role: domain.RoleAssistant, Content: "What's the weather?"},
	}
	out, matched := CheckBooking(in)
	require.False(t, matched)
	require.Equal(t, in, out)
}

func TestCheckBooking_Empty(t *testing.T) {
	out, matched := CheckBooking(nil)
	require.False(t, matched)
	require.Empty(t, out)
}
