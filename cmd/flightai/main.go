// FlightAI is a tool-augmented airline assistant: it answers flight
// questions, looks up ticket prices, books trips into Google Calendar,
// speaks its replies, and renders a destination image after a booking.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jsyssauw/flightai/internal/config"
	"github.com/jsyssauw/flightai/internal/log"
	"github.com/jsyssauw/flightai/pkg/assistant"
	"github.com/jsyssauw/flightai/pkg/audio"
	"github.com/jsyssauw/flightai/pkg/calendar"
	"github.com/jsyssauw/flightai/pkg/fares"
	"github.com/jsyssauw/flightai/pkg/inference"
	"github.com/jsyssauw/flightai/pkg/tts"
	"github.com/jsyssauw/flightai/pkg/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "flightai: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Init(cfg.LogLevel)
	logger := log.L().With("component", "main")

	// Model gateway: chat completions and image generation.
	provider, err := inference.NewClient(
		inference.WithBaseURL(cfg.OpenAIBaseURL),
		inference.WithAPIKey(cfg.OpenAIAPIKey),
		inference.WithModel(cfg.ChatModel),
		inference.WithImageModel(cfg.ImageModel),
	)
	if err != nil {
		return fmt.Errorf("create inference client: %w", err)
	}
	defer provider.Close()

	// Price book, degrading to empty on load failure.
	book := fares.LoadFileOrEmpty(cfg.FlightsFile, cfg.FlightsSheet)

	// Booking collaborator.
	var scheduler calendar.Scheduler = calendar.Unavailable{}
	var googleClient *calendar.GoogleClient
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		googleClient, err = calendar.NewGoogleClient(calendar.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  fmt.Sprintf("http://localhost:%s/api/google/callback", cfg.Port),
			TokenPath:    cfg.GoogleTokenPath,
		})
		if err != nil {
			return fmt.Errorf("create calendar client: %w", err)
		}
		scheduler = googleClient
		if !googleClient.IsAuthenticated() {
			logger.Info("google calendar not connected",
				"connect_url", fmt.Sprintf("http://localhost:%s/api/google/connect", cfg.Port),
			)
		}
	} else {
		logger.Warn("google calendar not configured, bookings will fail")
	}

	// Speech synthesis and playback.
	var speech tts.Provider
	var player assistant.AudioPlayer
	if cfg.SpeechEnabled {
		speech, err = tts.NewOpenAI(
			tts.WithBaseURL(cfg.OpenAIBaseURL),
			tts.WithAPIKey(cfg.OpenAIAPIKey),
			tts.WithModel(cfg.TTSModel),
			tts.WithVoice(cfg.TTSVoice),
		)
		if err != nil {
			return fmt.Errorf("create tts provider: %w", err)
		}
		defer speech.Close()

		localPlayer := audio.NewPlayer()
		if !localPlayer.Available() {
			logger.Warn("playback binary not found, speech disabled", "command", audio.DefaultCommand)
			speech = nil
		} else {
			player = localPlayer
		}
	}

	var attendees []string
	for _, email := range strings.Split(cfg.BookingAttendees, ",") {
		if email = strings.TrimSpace(email); email != "" {
			attendees = append(attendees, email)
		}
	}

	catalog := assistant.NewCatalog()
	executor := assistant.NewExecutor(catalog, book, scheduler, attendees)
	effects := assistant.NewSideEffects(speech, player, provider)
	session := assistant.NewSession(provider, catalog, executor, effects)

	server := web.NewServer(cfg.Port, session, provider)
	if googleClient != nil {
		server.RegisterGoogleAuth(googleClient)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("flightai started",
		"port", cfg.Port,
		"model", cfg.ChatModel,
		"destinations", book.Len(),
		"speech", speech != nil,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		return server.Shutdown()
	case err := <-errCh:
		return err
	}
}
