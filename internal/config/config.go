// Package config loads flightai configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the flightai assistant.
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// OpenAI-compatible inference endpoint
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	ChatModel     string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	ImageModel    string `envconfig:"IMAGE_MODEL" default:"dall-e-3"`

	// Speech synthesis
	TTSModel string `envconfig:"TTS_MODEL" default:"tts-1"`
	TTSVoice string `envconfig:"TTS_VOICE" default:"onyx"`
	// SpeechEnabled disables playback entirely when false (e.g. headless deploys).
	SpeechEnabled bool `envconfig:"SPEECH_ENABLED" default:"true"`

	// Fares data
	FlightsFile  string `envconfig:"FLIGHTS_FILE" default:"flights.xlsx"`
	FlightsSheet string `envconfig:"FLIGHTS_SHEET" default:"flights"`

	// Google Calendar booking collaborator
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID" default:""`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET" default:""`
	GoogleTokenPath    string `envconfig:"GOOGLE_TOKEN_PATH" default:""`
	BookingAttendees   string `envconfig:"BOOKING_ATTENDEES" default:""`

	// Observability
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from environment variables.
// It first attempts to load from a .env file if one exists, then from the
// environment.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is fine
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
