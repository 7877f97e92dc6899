// Package web serves the FlightAI chat interface: a JSON API for
// conversation rounds plus a websocket transcript feed.
package web

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/jsyssauw/flightai/internal/log"
	"github.com/jsyssauw/flightai/pkg/assistant"
	"github.com/jsyssauw/flightai/pkg/calendar"
	"github.com/jsyssauw/flightai/pkg/hub"
	"github.com/jsyssauw/flightai/pkg/inference"
)

// TranscriptEntry is one message in the live transcript feed.
type TranscriptEntry struct {
	Time    string `json:"time"`
	Role    string `json:"role"` // user, assistant, tool
	Message string `json:"message"`
}

// Server is the chat web server.
type Server struct {
	app  *fiber.App
	port string

	session  *assistant.Session
	provider inference.Provider

	// Transcript buffer (last 100 entries)
	transcript   []TranscriptEntry
	transcriptMu sync.RWMutex

	// Hubs for websocket broadcast
	transcriptHub *hub.Hub
	imageHub      *hub.Hub

	logger *slog.Logger
}

// NewServer creates the chat server around one conversation session.
func NewServer(port string, session *assistant.Session, provider inference.Provider) *Server {
	s := &Server{
		port:          port,
		session:       session,
		provider:      provider,
		transcript:    make([]TranscriptEntry, 0, 100),
		transcriptHub: hub.New("transcript"),
		imageHub:      hub.New("images"),
		logger:        log.L().With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "FlightAI",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Post("/chat", s.handleChat)
	api.Get("/history", s.handleHistory)
	api.Post("/clear", s.handleClear)
	api.Get("/health", s.handleHealth)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/transcript", websocket.New(s.handleTranscriptWS))
	app.Get("/ws/images", websocket.New(s.handleImagesWS))

	s.app = app
	return s
}

// RegisterGoogleAuth wires the Google Calendar OAuth flow into the
// server: /api/google/connect redirects to the consent screen and
// /api/google/callback completes the token exchange.
func (s *Server) RegisterGoogleAuth(client *calendar.GoogleClient) {
	s.app.Get("/api/google/connect", func(c *fiber.Ctx) error {
		return c.Redirect(client.GetAuthURL(), fiber.StatusTemporaryRedirect)
	})
	s.app.Get("/api/google/callback", func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing authorization code",
			})
		}
		if err := client.HandleCallback(code); err != nil {
			s.logger.Error("google auth failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "authentication failed",
			})
		}
		return c.JSON(fiber.Map{"connected": true})
	})
	s.app.Get("/api/google/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"connected": client.IsAuthenticated()})
	})
}

// Start starts the web server and its broadcast hubs.
func (s *Server) Start() error {
	s.logger.Info("chat server listening", "port", s.port)

	go s.transcriptHub.Run()
	go s.imageHub.Run()

	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// addTranscript records an entry and broadcasts it to connected clients.
func (s *Server) addTranscript(role, message string) {
	entry := TranscriptEntry{
		Time:    time.Now().Format("15:04:05"),
		Role:    role,
		Message: message,
	}

	s.transcriptMu.Lock()
	s.transcript = append(s.transcript, entry)
	if len(s.transcript) > 100 {
		s.transcript = s.transcript[1:]
	}
	s.transcriptMu.Unlock()

	s.transcriptHub.BroadcastJSON(entry)
}
