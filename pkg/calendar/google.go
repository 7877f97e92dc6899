package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/jsyssauw/flightai/internal/log"
)

// GoogleClient handles OAuth2 authentication and Google Calendar operations.
type GoogleClient struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenPath string
	service   *gcal.Service
	logger    *slog.Logger

	mu sync.RWMutex
}

// GoogleConfig configures the Google Calendar client.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8080/api/google/callback"
	TokenPath    string // Path to store token (default: ~/.flightai/google_token.json)
}

// NewGoogleClient creates a new Google Calendar client. If a token is
// already stored on disk it is loaded and the service initialized.
func NewGoogleClient(cfg GoogleConfig) (*GoogleClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "http://localhost:8080/api/google/callback"
	}

	if cfg.TokenPath == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.TokenPath = filepath.Join(homeDir, ".flightai", "google_token.json")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			gcal.CalendarEventsScope,
		},
		Endpoint: google.Endpoint,
	}

	client := &GoogleClient{
		config:    oauthConfig,
		tokenPath: cfg.TokenPath,
		logger:    log.L().With("component", "calendar.google"),
	}

	if err := client.loadToken(); err == nil {
		if err := client.initService(); err != nil {
			client.token = nil
		}
	}

	return client, nil
}

// IsAuthenticated returns true if the client has a valid token.
func (g *GoogleClient) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token != nil && g.token.Valid()
}

// GetAuthURL returns the OAuth2 authorization URL for user consent.
func (g *GoogleClient) GetAuthURL() string {
	return g.config.AuthCodeURL("flightai-state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// HandleCallback processes the OAuth2 callback with the authorization code.
func (g *GoogleClient) HandleCallback(code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}

	g.mu.Lock()
	g.token = token
	g.mu.Unlock()

	if err := g.saveToken(); err != nil {
		g.logger.Warn("failed to save token", "error", err)
	}

	if err := g.initService(); err != nil {
		return fmt.Errorf("failed to initialize calendar service: %w", err)
	}

	return nil
}

// Disconnect clears the authentication and removes the stored token.
func (g *GoogleClient) Disconnect() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.token = nil
	g.service = nil

	if err := os.Remove(g.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}

	return nil
}

// CreateEvent inserts the event into the user's primary calendar.
func (g *GoogleClient) CreateEvent(ctx context.Context, event *Event) (*CreatedEvent, error) {
	g.mu.RLock()
	service := g.service
	g.mu.RUnlock()

	if service == nil {
		return nil, fmt.Errorf("not authenticated - please connect to Google first")
	}

	attendees := make([]*gcal.EventAttendee, len(event.Attendees))
	for i, email := range event.Attendees {
		attendees[i] = &gcal.EventAttendee{Email: email}
	}

	entry := &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		Attendees: attendees,
	}

	created, err := service.Events.Insert("primary", entry).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	g.logger.Info("calendar event created",
		"summary", event.Summary,
		"start", event.Start,
		"event_id", created.Id,
	)

	return &CreatedEvent{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
	}, nil
}

// initService initializes the Calendar service with the current token.
func (g *GoogleClient) initService() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token == nil {
		return fmt.Errorf("no token available")
	}

	ctx := context.Background()
	client := g.config.Client(ctx, g.token)

	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("failed to create calendar service: %w", err)
	}

	g.service = service
	return nil
}

// loadToken loads the OAuth token from disk.
func (g *GoogleClient) loadToken() error {
	data, err := os.ReadFile(g.tokenPath)
	if err != nil {
		return err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}

	g.mu.Lock()
	g.token = &token
	g.mu.Unlock()

	return nil
}

// saveToken saves the OAuth token to disk.
func (g *GoogleClient) saveToken() error {
	g.mu.RLock()
	token := g.token
	g.mu.RUnlock()

	if token == nil {
		return fmt.Errorf("no token to save")
	}

	dir := filepath.Dir(g.tokenPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(g.tokenPath, data, 0600)
}

// Verify GoogleClient implements Scheduler at compile time.
var _ Scheduler = (*GoogleClient)(nil)
