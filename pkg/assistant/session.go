package assistant

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jsyssauw/flightai/internal/log"
	"github.com/jsyssauw/flightai/pkg/inference"
)

// SystemPrompt is the persona installed as the first turn of every
// conversation.
const SystemPrompt = "You are a helpful assistant for an Airline called FlightAI. " +
	"Give short, courteous answers, no more than 1 sentence. " +
	"Always be accurate. If you don't know the answer, say so. " +
	"Only book a flight after the customer has been quoted a price and confirms the booking."

// FallbackReply is returned when the model violates the tool protocol
// and the round ends without a continuation call.
const FallbackReply = "I'm sorry, I wasn't able to complete that request. Could you rephrase it?"

// RoundResult is what one conversation round hands back to the caller.
type RoundResult struct {
	// Reply is the final assistant text for the round.
	Reply string

	// Image is a rendered vacation scene, set only after a confirmed
	// booking whose image synthesis succeeded.
	Image []byte

	// History is a snapshot of the conversation after the round.
	History []inference.Message
}

// Session owns one conversation and drives its rounds. Rounds on the
// same session are serialized; a failed or cancelled round commits
// nothing to history.
type Session struct {
	id       string
	provider inference.Provider
	catalog  *Catalog
	executor *Executor
	effects  *SideEffects
	logger   *slog.Logger

	mu      sync.Mutex
	history []inference.Message
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithID sets the session identifier.
func WithID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// WithSystemPrompt replaces the default persona.
func WithSystemPrompt(prompt string) SessionOption {
	return func(s *Session) {
		s.history = []inference.Message{inference.NewSystemMessage(prompt)}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a conversation session with the default persona.
func NewSession(provider inference.Provider, catalog *Catalog, executor *Executor, effects *SideEffects, opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.NewString(),
		provider: provider,
		catalog:  catalog,
		executor: executor,
		effects:  effects,
		history:  []inference.Message{inference.NewSystemMessage(SystemPrompt)},
		logger:   log.L().With("component", "assistant.session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Round runs one full conversation round for a user message: model
// call, at most one tool dispatch, continuation call, side effects.
// History is committed all-or-nothing: if the round fails or the
// context is cancelled mid-flight, no partial turns are kept.
func (s *Session) Round(ctx context.Context, userText string) (*RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make([]inference.Message, len(s.history), len(s.history)+4)
	copy(staged, s.history)
	staged = append(staged, inference.NewUserMessage(userText))

	resp, err := s.provider.Chat(ctx, &inference.ChatRequest{
		Messages: staged,
		Tools:    s.catalog.Definitions(),
	})
	if err != nil {
		return nil, err
	}

	var (
		reply  string
		booked bool
		city   string
	)

	if len(resp.Message.ToolCalls) == 0 {
		reply = resp.Message.Content
		staged = append(staged, resp.Message)
	} else {
		// Only the first tool call is honored. The assistant turn is
		// recorded with that single call so every request in history
		// has exactly one matching tool turn.
		call := resp.Message.ToolCalls[0]
		request := resp.Message
		request.ToolCalls = request.ToolCalls[:1]
		staged = append(staged, request)

		s.logger.Debug("tool requested",
			"tool", call.Name,
			"call_id", call.ID,
		)

		outcome, err := s.executor.Execute(ctx, call)
		if errors.Is(err, ErrUnknownTool) {
			// Protocol violation: record the error tool turn and end
			// the round without asking the model again.
			staged = append(staged, inference.NewToolMessage(call.ID,
				errorPayload("unknown tool", call.Name)))
			reply = FallbackReply
			staged = append(staged, inference.NewAssistantMessage(reply))
			s.history = staged

			s.effects.Speak(ctx, reply)
			return &RoundResult{Reply: reply, History: s.snapshot()}, nil
		}
		if err != nil {
			return nil, err
		}

		staged = append(staged, inference.NewToolMessage(call.ID, outcome.Content))
		booked = outcome.Booked
		city = outcome.City

		continuation, err := s.provider.Chat(ctx, &inference.ChatRequest{
			Messages: staged,
			Tools:    s.catalog.Definitions(),
		})
		if err != nil {
			return nil, err
		}
		reply = continuation.Message.Content
		staged = append(staged, inference.NewAssistantMessage(reply))
	}

	s.history = staged

	result := &RoundResult{Reply: reply}
	if booked {
		image, err := s.effects.RenderScene(ctx, city)
		if err != nil {
			s.logger.Warn("image rendering failed", "error", err)
		} else {
			result.Image = image
		}
	}
	s.effects.Speak(ctx, reply)

	result.History = s.snapshot()
	return result, nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []inference.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Clear resets the conversation to its system turn.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.history[:1]
}

// snapshot copies history. Callers must hold s.mu.
func (s *Session) snapshot() []inference.Message {
	result := make([]inference.Message, len(s.history))
	copy(result, s.history)
	return result
}
