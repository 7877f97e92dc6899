package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jsyssauw/flightai/pkg/calendar"
	"github.com/jsyssauw/flightai/pkg/fares"
	"github.com/jsyssauw/flightai/pkg/inference"
	"github.com/jsyssauw/flightai/pkg/tts"
)

// recordingPlayer captures played clips without touching the system.
type recordingPlayer struct {
	played []*tts.AudioResult
	err    error
}

func (p *recordingPlayer) Play(ctx context.Context, result *tts.AudioResult) error {
	p.played = append(p.played, result)
	return p.err
}

func toolCallResponse(id, name, arguments string) *inference.ChatResponse {
	return &inference.ChatResponse{
		Message: inference.Message{
			Role: inference.RoleAssistant,
			ToolCalls: []inference.ToolCall{{
				ID:        id,
				Name:      name,
				Arguments: arguments,
			}},
		},
		FinishReason: inference.FinishReasonToolCalls,
	}
}

func textResponse(text string) *inference.ChatResponse {
	return &inference.ChatResponse{
		Message:      inference.NewAssistantMessage(text),
		FinishReason: "stop",
	}
}

func newTestSession(provider *inference.Mock, scheduler calendar.Scheduler, images inference.ImageGenerator) (*Session, *recordingPlayer) {
	book := fares.New(map[string]string{"Paris": "450"})
	if scheduler == nil {
		scheduler = calendar.NewMock()
	}
	catalog := NewCatalog()
	executor := NewExecutor(catalog, book, scheduler, nil)
	player := &recordingPlayer{}
	effects := NewSideEffects(tts.NewMock(), player, images)
	return NewSession(provider, catalog, executor, effects), player
}

func TestRoundDirectReply(t *testing.T) {
	provider := inference.ScriptedMock(textResponse("Hello! How can I help?"))
	session, player := newTestSession(provider, nil, nil)

	result, err := session.Round(context.Background(), "Hi there")
	if err != nil {
		t.Fatalf("Round failed: %v", err)
	}
	if result.Reply != "Hello! How can I help?" {
		t.Errorf("Unexpected reply: %q", result.Reply)
	}
	if result.Image != nil {
		t.Error("No booking, no image")
	}
	if provider.CallCount("Chat") != 1 {
		t.Errorf("Expected 1 model call, got %d", provider.CallCount("Chat"))
	}

	// system, user, assistant
	if len(result.History) != 3 {
		t.Fatalf("Expected 3 turns, got %d", len(result.History))
	}
	if result.History[0].Role != inference.RoleSystem {
		t.Error("Conversation must begin with the system turn")
	}

	// Reply is always spoken.
	if len(player.played) != 1 {
		t.Errorf("Expected 1 played clip, got %d", len(player.played))
	}
}

func TestRoundPriceLookup(t *testing.T) {
	provider := inference.ScriptedMock(
		toolCallResponse("call_1", "get_ticket_price", `{"destination_city":"Paris"}`),
		textResponse("A return ticket to Paris costs 450."),
	)
	session, _ := newTestSession(provider, nil, nil)

	result, err := session.Round(context.Background(), "How much is a ticket to Paris?")
	if err != nil {
		t.Fatalf("Round failed: %v", err)
	}
	if result.Reply != "A return ticket to Paris costs 450." {
		t.Errorf("Unexpected reply: %q", result.Reply)
	}
	if provider.CallCount("Chat") != 2 {
		t.Errorf("Expected 2 model calls, got %d", provider.CallCount("Chat"))
	}

	// system, user, assistant(tool request), tool, assistant
	history := result.History
	if len(history) != 5 {
		t.Fatalf("Expected 5 turns, got %d", len(history))
	}

	request := history[2]
	toolTurn := history[3]
	if len(request.ToolCalls) != 1 {
		t.Fatalf("Expected exactly 1 honored tool call, got %d", len(request.ToolCalls))
	}
	if toolTurn.Role != inference.RoleTool {
		t.Errorf("Expected tool turn after the request, got %s", toolTurn.Role)
	}
	if toolTurn.ToolCallID != request.ToolCalls[0].ID {
		t.Errorf("Tool turn call id %q does not match request %q",
			toolTurn.ToolCallID, request.ToolCalls[0].ID)
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(toolTurn.Content), &payload); err != nil {
		t.Fatalf("Tool payload is not JSON: %v", err)
	}
	if payload["destination_city"] != "paris" || payload["price"] != "450" {
		t.Errorf("Unexpected tool payload: %v", payload)
	}
}

func TestRoundHonorsOnlyFirstToolCall(t *testing.T) {
	multi := toolCallResponse("call_1", "get_ticket_price", `{"destination_city":"Paris"}`)
	multi.Message.ToolCalls = append(multi.Message.ToolCalls, inference.ToolCall{
		ID:        "call_2",
		Name:      "get_ticket_price",
		Arguments: `{"destination_city":"Tokyo"}`,
	})

	provider := inference.ScriptedMock(multi, textResponse("Done."))
	session, _ := newTestSession(provider, nil, nil)

	result, err := session.Round(context.Background(), "Prices for Paris and Tokyo?")
	if err != nil {
		t.Fatalf("Round failed: %v", err)
	}

	toolTurns := 0
	for _, turn := range result.History {
		if turn.Role == inference.RoleTool {
			toolTurns++
			if turn.ToolCallID != "call_1" {
				t.Errorf("Expected first call honored, got %s", turn.ToolCallID)
			}
		}
		if turn.Role == inference.RoleAssistant && len(turn.ToolCalls) > 1 {
			t.Error("History must record only the honored tool call")
		}
	}
	if toolTurns != 1 {
		t.Errorf("Expected exactly 1 tool turn, got %d", toolTurns)
	}
}

func TestRoundBookingRendersImage(t *testing.T) {
	provider := inference.ScriptedMock(
		toolCallResponse("call_1", "book_flight", `{"destination_city":"Paris","travel_date":"2026-09-15"}`),
		textResponse("Your flight to Paris is booked!"),
	)
	images := inference.NewMock()
	session, _ := newTestSession(provider, nil, images)

	result, err := session.Round(context.Background(), "Book it for September 15th 2026")
	if err != nil {
		t.Fatalf("Round failed: %v", err)
	}
	if len(result.Image) == 0 {
		t.Error("Expected rendered image after confirmed booking")
	}
	if images.CallCount("GenerateImage") != 1 {
		t.Errorf("Expected 1 image render, got %d", images.CallCount("GenerateImage"))
	}
}

func TestRoundBookingFailureSkipsImage(t *testing.T) {
	provider := inference.ScriptedMock(
		toolCallResponse("call_1", "book_flight", `{"destination_city":"Paris","travel_date":"2026-09-15"}`),
		textResponse("Sorry, the booking did not go through."),
	)
	images := inference.NewMock()
	scheduler := calendar.WithError(errors.New("network error"))
	session, _ := newTestSession(provider, scheduler, images)

	result, err := session.Round(context.Background(), "Book it")
	if err != nil {
		t.Fatalf("Round must complete despite booking failure: %v", err)
	}
	if result.Image != nil {
		t.Error("Image must only follow a successful booking")
	}
	if images.CallCount("GenerateImage") != 0 {
		t.Errorf("Image render invoked %d times on failed booking", images.CallCount("GenerateImage"))
	}

	found := false
	for _, turn := range result.History {
		if turn.Role == inference.RoleTool && strings.Contains(turn.Content, "booking_failed") {
			found = true
		}
	}
	if !found {
		t.Error("Expected booking_failed tool turn in history")
	}
}

func TestRoundMalformedArgumentsContinues(t *testing.T) {
	provider := inference.ScriptedMock(
		toolCallResponse("call_1", "get_ticket_price", `{not json`),
		textResponse("Sorry, which city did you mean?"),
	)
	session, _ := newTestSession(provider, nil, nil)

	result, err := session.Round(context.Background(), "Price please")
	if err != nil {
		t.Fatalf("Round must recover from malformed arguments: %v", err)
	}
	if provider.CallCount("Chat") != 2 {
		t.Errorf("Continuation call must still happen, got %d calls", provider.CallCount("Chat"))
	}

	toolTurn := result.History[3]
	if toolTurn.Role != inference.RoleTool || !strings.Contains(toolTurn.Content, "malformed") {
		t.Errorf("Expected malformed-arguments tool turn, got %+v", toolTurn)
	}
}

func TestRoundUnknownToolEndsWithoutContinuation(t *testing.T) {
	provider := inference.ScriptedMock(
		toolCallResponse("call_1", "launch_rocket", `{}`),
		textResponse("should never be requested"),
	)
	session, _ := newTestSession(provider, nil, nil)

	result, err := session.Round(context.Background(), "Do something odd")
	if err != nil {
		t.Fatalf("Round failed: %v", err)
	}
	if provider.CallCount("Chat") != 1 {
		t.Errorf("Protocol violation must skip the continuation call, got %d", provider.CallCount("Chat"))
	}
	if result.Reply != FallbackReply {
		t.Errorf("Expected fallback reply, got %q", result.Reply)
	}

	toolTurn := result.History[3]
	if toolTurn.Role != inference.RoleTool || !strings.Contains(toolTurn.Content, "unknown tool") {
		t.Errorf("Expected unknown-tool error turn, got %+v", toolTurn)
	}
}

func TestRoundModelFailureCommitsNothing(t *testing.T) {
	provider := inference.WithError(errors.New("model unavailable"))
	session, _ := newTestSession(provider, nil, nil)

	before := len(session.History())
	if _, err := session.Round(context.Background(), "Hello"); err == nil {
		t.Fatal("Expected model error")
	}
	if after := len(session.History()); after != before {
		t.Errorf("Failed round must commit nothing: %d turns before, %d after", before, after)
	}
}

func TestRoundContinuationFailureCommitsNothing(t *testing.T) {
	calls := 0
	provider := inference.NewMock()
	provider.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		calls++
		if calls == 1 {
			return toolCallResponse("call_1", "get_ticket_price", `{"destination_city":"Paris"}`), nil
		}
		return nil, errors.New("model unavailable")
	}
	session, _ := newTestSession(provider, nil, nil)

	before := len(session.History())
	if _, err := session.Round(context.Background(), "Price to Paris?"); err == nil {
		t.Fatal("Expected continuation error")
	}
	if after := len(session.History()); after != before {
		t.Errorf("Partial turns leaked into history: %d before, %d after", before, after)
	}
}

func TestRoundSpeechFailureDoesNotAbort(t *testing.T) {
	provider := inference.ScriptedMock(textResponse("All good."))

	book := fares.New(nil)
	catalog := NewCatalog()
	executor := NewExecutor(catalog, book, calendar.NewMock(), nil)
	player := &recordingPlayer{err: errors.New("no audio device")}
	effects := NewSideEffects(tts.NewMock(), player, nil)
	session := NewSession(provider, catalog, executor, effects)

	result, err := session.Round(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Playback failure must not abort the round: %v", err)
	}
	if result.Reply != "All good." {
		t.Errorf("Unexpected reply: %q", result.Reply)
	}
}

func TestClearKeepsSystemTurn(t *testing.T) {
	provider := inference.ScriptedMock(textResponse("Hi!"))
	session, _ := newTestSession(provider, nil, nil)

	if _, err := session.Round(context.Background(), "Hello"); err != nil {
		t.Fatalf("Round failed: %v", err)
	}
	session.Clear()

	history := session.History()
	if len(history) != 1 || history[0].Role != inference.RoleSystem {
		t.Errorf("Expected only the system turn after clear, got %d turns", len(history))
	}
}
