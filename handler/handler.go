package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"travel-agent/internal/domain"
	"travel-agent/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"
	userHeader        = "X-User-Id"
)

// TurnRunner is the use case invoked for every chat request.
type TurnRunner interface {
	Turn(ctx context.Context, in usecase.TurnInput) (usecase.TurnOutput, error)
}

type chatRequest struct {
	UserID   string               `json:"userId"`
	Message  string               `json:"message"`
	Messages []domain.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Reply              domain.ChatMessage        `json:"reply"`
	Messages           []domain.ChatMessage      `json:"messages"`
	Summarized         bool                      `json:"summarized"`
	BookingRequested   bool                      `json:"bookingRequested"`
	PreferencesUpdated bool                      `json:"preferencesUpdated"`
	Preferences        *domain.TravelPreferences `json:"preferences,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Handler struct {
	turns  TurnRunner
	logger *slog.Logger
}

func NewHandler(turns TurnRunner) (*Handler, error) {
	if turns == nil {
		return nil, errors.New("handler: turn runner must not be nil")
	}
	return &Handler{turns: turns, logger: slog.Default()}, nil
}

// Handle serves POST /chat. Failures are reported in the response body with
// a mapped status code; the returned error is always nil so API Gateway never
// sees a Lambda error.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(event.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	var req chatRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return h.fail(correlationID, http.StatusBadRequest, usecase.ErrorInvalidInput, "invalid_body"), nil
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = headerValue(event.Headers, userHeader)
	}

	out, err := h.turns.Turn(ctx, usecase.TurnInput{
		UserID:  req.UserID,
		Message: req.Message,
		History: req.Messages,
	})
	if err != nil {
		status, code, reason := mapError(err)
		h.logger.Error("turn failed",
			"correlation_id", correlationID,
			"user_id", req.UserID,
			"code", code,
			"reason", reason,
			"err", err,
		)
		return h.fail(correlationID, status, code, reason), nil
	}

	resp := chatResponse{
		Reply:              out.Reply,
		Messages:           out.Messages,
		Summarized:         out.Summarized,
		BookingRequested:   out.BookingRequested,
		PreferencesUpdated: out.PreferencesUpdated,
	}
	if prefs, ok := out.Preferences.Value(); ok {
		normalized := prefs.Normalized()
		resp.Preferences = &normalized
	}
	return jsonResponse(correlationID, http.StatusOK, resp), nil
}

func (h *Handler) fail(correlationID string, status int, code usecase.ErrorCode, reason string) events.APIGatewayProxyResponse {
	return jsonResponse(correlationID, status, errorResponse{Error: string(code), Message: reason})
}

func mapError(err error) (int, usecase.ErrorCode, string) {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		return http.StatusInternalServerError, usecase.ErrorInternal, "unexpected_error"
	}
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest, ucErr.Code, ucErr.Reason
	case usecase.ErrorRateLimited:
		return http.StatusTooManyRequests, ucErr.Code, ucErr.Reason
	case usecase.ErrorUpstream:
		return http.StatusBadGateway, ucErr.Code, ucErr.Reason
	default:
		return http.StatusInternalServerError, usecase.ErrorInternal, ucErr.Reason
	}
}

func jsonResponse(correlationID string, status int, body any) events.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		raw = []byte(`{"error":"INTERNAL_ERROR","message":"encode_response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: correlationID,
		},
		Body: string(raw),
	}
}

// headerValue looks a header up case-insensitively.
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
