package web

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/jsyssauw/flightai/pkg/hub"
	"github.com/jsyssauw/flightai/pkg/inference"
)

// ChatRequest is the request body for one conversation round.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the round result returned to the browser.
type ChatResponse struct {
	Reply     string `json:"reply"`
	Image     string `json:"image,omitempty"` // base64 PNG
	SessionID string `json:"session_id"`
}

// handleChat runs one conversation round.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message must not be empty",
		})
	}

	s.addTranscript("user", req.Message)

	result, err := s.session.Round(c.Context(), req.Message)
	if err != nil {
		s.logger.Error("round failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "the assistant is unavailable, please try again",
		})
	}

	s.addTranscript("assistant", result.Reply)

	resp := ChatResponse{
		Reply:     result.Reply,
		SessionID: s.session.ID(),
	}
	if len(result.Image) > 0 {
		resp.Image = base64.StdEncoding.EncodeToString(result.Image)
		s.imageHub.BroadcastBinary(result.Image)
	}

	return c.JSON(resp)
}

// HistoryEntry is one conversation turn in the history response.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// handleHistory returns the conversation so far, without the system turn.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	history := s.session.History()

	entries := make([]HistoryEntry, 0, len(history))
	for _, turn := range history {
		if turn.Role == inference.RoleSystem {
			continue
		}
		entries = append(entries, HistoryEntry{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	return c.JSON(entries)
}

// handleClear resets the conversation.
func (s *Server) handleClear(c *fiber.Ctx) error {
	s.session.Clear()

	s.transcriptMu.Lock()
	s.transcript = s.transcript[:0]
	s.transcriptMu.Unlock()

	return c.JSON(fiber.Map{"cleared": true})
}

// handleHealth reports server and model provider health.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	providerOK := true
	if err := s.provider.Health(ctx); err != nil {
		providerOK = false
		s.logger.Warn("provider health check failed", "error", err)
	}

	status := fiber.StatusOK
	text := "ok"
	if !providerOK {
		status = fiber.StatusServiceUnavailable
		text = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   text,
		"provider": providerOK,
		"clients":  s.transcriptHub.ClientCount(),
	})
}

// handleTranscriptWS streams transcript entries to the browser.
func (s *Server) handleTranscriptWS(c *websocket.Conn) {
	// Send recent transcript before joining the live feed.
	s.transcriptMu.RLock()
	for _, entry := range s.transcript {
		c.WriteJSON(entry)
	}
	s.transcriptMu.RUnlock()

	client := hub.NewClient(s.transcriptHub, c)
	client.Run()
}

// handleImagesWS streams rendered images to the browser.
func (s *Server) handleImagesWS(c *websocket.Conn) {
	client := hub.NewClient(s.imageHub, c)
	client.Run()
}

// handleIndex serves the chat page.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(indexHTML)
}
