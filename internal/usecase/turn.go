package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"travel-agent/internal/domain"
	"travel-agent/internal/extraction"
)

const (
	defaultMaxMessage  = 2000
	defaultMaxHistory  = 200
	defaultTemperature = 0.2
)

type ParamGetter interface {
	GetParameters(ctx context.Context, names ...string) (map[string]string, error)
}

type LLMClient interface {
	Chat(ctx context.Context, model domain.ModelConfig, messages []domain.ChatMessage) (domain.ChatMessage, error)
}

type PreferenceExtractor interface {
	Extract(ctx context.Context, model domain.ModelConfig, history []domain.ChatMessage, existing domain.StoredPreferences) (domain.TravelPreferences, error)
}

type PreferenceStore interface {
	Get(ctx context.Context, ns domain.Namespace, key string) (domain.StoredPreferences, error)
	Put(ctx context.Context, ns domain.Namespace, key string, prefs domain.TravelPreferences) error
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// step is a node of the per-turn workflow.
type step int

const (
	stepGenerate step = iota
	stepCheckBooking
	stepSummarize
	stepExtract
	stepEnd
)

func (s step) String() string {
	switch s {
	case stepGenerate:
		return "generate_response"
	case stepCheckBooking:
		return "check_booking"
	case stepSummarize:
		return "summarize"
	case stepExtract:
		return "extract_preferences"
	case stepEnd:
		return "end"
	}
	return "step(" + strconv.Itoa(int(s)) + ")"
}

// next is the transition function of the turn. The only branch is after the
// booking check: long conversations are summarized before extraction.
func next(current step, messages []domain.ChatMessage) step {
	switch current {
	case stepGenerate:
		return stepCheckBooking
	case stepCheckBooking:
		if NeedsSummary(messages) {
			return stepSummarize
		}
		return stepExtract
	case stepSummarize:
		return stepExtract
	default:
		return stepEnd
	}
}

type TurnService struct {
	params     ParamGetter
	generator  *ResponseGenerator
	summarizer *Summarizer
	extractor  PreferenceExtractor
	store      PreferenceStore
	logger     *slog.Logger

	paramPrefix   string
	maxMessageLen int
	maxHistory    int

	cacheMu     sync.RWMutex
	cacheLoaded bool
	model       domain.ModelConfig
}

type TurnInput struct {
	UserID  string
	Message string
	History []domain.ChatMessage
}

type TurnOutput struct {
	Reply              domain.ChatMessage
	Messages           []domain.ChatMessage
	Summarized         bool
	BookingRequested   bool
	PreferencesUpdated bool
	Preferences        domain.StoredPreferences
}

// turnState is the conversation state threaded through the steps.
type turnState struct {
	turnID    string
	userID    string
	namespace domain.Namespace
	prefs     domain.StoredPreferences
	messages  []domain.ChatMessage
	out       TurnOutput
}

func NewTurnService(p ParamGetter, llm LLMClient, ex PreferenceExtractor, store PreferenceStore, paramPrefix string, maxMessageLen, maxHistory int, logger *slog.Logger) (*TurnService, error) {
	if p == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	if ex == nil {
		return nil, errors.New("usecase: preference extractor must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: preference store must not be nil")
	}
	generator, err := NewResponseGenerator(llm, time.Now)
	if err != nil {
		return nil, err
	}
	summarizer, err := NewSummarizer(llm)
	if err != nil {
		return nil, err
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	if maxMessageLen <= 0 {
		maxMessageLen = defaultMaxMessage
	}
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TurnService{
		params:        p,
		generator:     generator,
		summarizer:    summarizer,
		extractor:     ex,
		store:         store,
		logger:        logger,
		paramPrefix:   paramPrefix,
		maxMessageLen: maxMessageLen,
		maxHistory:    maxHistory,
	}, nil
}

// Turn runs one conversational turn: generate a reply, check for booking
// intent, summarize long conversations and update the stored preferences.
// A failure in any model call or store access aborts the turn with no
// preference write.
func (s *TurnService) Turn(ctx context.Context, in TurnInput) (TurnOutput, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return TurnOutput{}, newError(ErrorInvalidInput, "empty_user_id", nil)
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return TurnOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}
	if len(message) > s.maxMessageLen {
		return TurnOutput{}, newError(ErrorInvalidInput, "message_too_long", nil)
	}
	if len(in.History) > s.maxHistory {
		return TurnOutput{}, newError(ErrorInvalidInput, "history_too_long", nil)
	}
	for _, m := range in.History {
		if !domain.ValidRole(m.Role) {
			return TurnOutput{}, newError(ErrorInvalidInput, "invalid_role", fmt.Errorf("role %q", m.Role))
		}
	}
	if err := s.ensureConfig(ctx); err != nil {
		return TurnOutput{}, newError(ErrorInternal, "ssm_load_error", err)
	}

	ns := domain.PreferencesNamespace(userID)
	prefs, err := s.store.Get(ctx, ns, domain.PreferencesKey)
	if err != nil {
		return TurnOutput{}, newError(ErrorInternal, "store_read_error", err)
	}

	messages := make([]domain.ChatMessage, 0, len(in.History)+3)
	messages = append(messages, in.History...)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: message})

	st := &turnState{
		turnID:    newTurnID(),
		userID:    userID,
		namespace: ns,
		prefs:     prefs,
		messages:  messages,
	}
	st.out.Preferences = prefs

	for cur := stepGenerate; cur != stepEnd; cur = next(cur, st.messages) {
		if err := s.run(ctx, cur, st); err != nil {
			s.logger.Error("turn step failed", "turn_id", st.turnID, "user_id", userID, "step", cur.String(), "err", err)
			return TurnOutput{}, err
		}
	}

	st.out.Messages = st.messages
	s.logger.Info("turn complete",
		"turn_id", st.turnID,
		"user_id", userID,
		"messages", len(st.messages),
		"summarized", st.out.Summarized,
		"booking_requested", st.out.BookingRequested,
		"preferences_updated", st.out.PreferencesUpdated,
	)
	return st.out, nil
}

func (s *TurnService) run(ctx context.Context, cur step, st *turnState) error {
	switch cur {
	case stepGenerate:
		return s.generate(ctx, st)
	case stepCheckBooking:
		st.messages, st.out.BookingRequested = CheckBooking(st.messages)
		return nil
	case stepSummarize:
		return s.summarize(ctx, st)
	case stepExtract:
		return s.extractPreferences(ctx, st)
	}
	return fmt.Errorf("usecase: unknown step %s", cur)
}

func (s *TurnService) generate(ctx context.Context, st *turnState) error {
	reply, err := s.generator.Generate(ctx, s.model, st.prefs, st.messages)
	if err != nil {
		return upstreamError("openai", err)
	}
	st.messages = append(st.messages, reply)
	st.out.Reply = reply
	return nil
}

func (s *TurnService) summarize(ctx context.Context, st *turnState) error {
	condensed, ok, err := s.summarizer.Summarize(ctx, s.model, st.messages)
	if err != nil {
		return upstreamError("summarize", err)
	}
	if ok {
		st.messages = condensed
		st.out.Summarized = true
	}
	return nil
}

// extractPreferences writes the merged record back to the store. An empty or
// malformed extraction leaves the stored record untouched.
func (s *TurnService) extractPreferences(ctx context.Context, st *turnState) error {
	extracted, err := s.extractor.Extract(ctx, s.model, st.messages, st.prefs)
	var malformed *extraction.MalformedCandidateError
	switch {
	case errors.Is(err, extraction.ErrNoCandidate):
		s.logger.Info("preferences unchanged", "turn_id", st.turnID, "user_id", st.userID, "reason", "empty")
		return nil
	case errors.As(err, &malformed):
		s.logger.Warn("memory update error", "turn_id", st.turnID, "user_id", st.userID, "reason", "malformed", "err", err)
		return nil
	case err != nil:
		return upstreamError("extraction", err)
	}

	merged := MergePreferences(st.prefs, extracted)
	if err := s.store.Put(ctx, st.namespace, domain.PreferencesKey, merged); err != nil {
		return newError(ErrorInternal, "store_write_error", err)
	}
	st.out.PreferencesUpdated = true
	st.out.Preferences = domain.SomePreferences(merged)
	return nil
}

func (s *TurnService) ensureConfig(ctx context.Context) error {
	s.cacheMu.RLock()
	if s.cacheLoaded {
		s.cacheMu.RUnlock()
		return nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheLoaded {
		return nil
	}

	model, err := s.loadModelConfig(ctx)
	if err != nil {
		return err
	}
	s.model = model
	s.cacheLoaded = true
	return nil
}

func (s *TurnService) loadModelConfig(ctx context.Context) (domain.ModelConfig, error) {
	modelParam := s.paramPrefix + "/config/openai_model"
	tempParam := s.paramPrefix + "/config/temperature"

	vals, err := s.params.GetParameters(ctx, modelParam, tempParam)
	if err != nil {
		return domain.ModelConfig{}, fmt.Errorf("usecase: load model config: %w", err)
	}
	name := strings.TrimSpace(vals[modelParam])
	if name == "" {
		return domain.ModelConfig{}, fmt.Errorf("usecase: parameter %s is missing", modelParam)
	}
	cfg := domain.ModelConfig{Name: name, Temperature: defaultTemperature}
	if raw, ok := vals[tempParam]; ok {
		t, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || t < 0 || t > 2 {
			return domain.ModelConfig{}, fmt.Errorf("usecase: parameter %s: invalid temperature %q", tempParam, raw)
		}
		cfg.Temperature = t
	}
	return cfg, nil
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}

var newTurnID = func() string {
	return uuid.NewString()
}
