package tts

import (
	"log/slog"
	"time"

	"github.com/jsyssauw/flightai/internal/log"
)

// Config holds TTS provider configuration.
type Config struct {
	// BaseURL is the API base URL.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Model is the synthesis model.
	Model string

	// Voice is the voice preset.
	Voice string

	// Format is the requested audio encoding.
	Format AudioFormat

	// Speed is the playback speed multiplier.
	Speed float64

	// Timeout bounds a single synthesis request.
	Timeout time.Duration

	// MaxRetries is the number of retries on transient failures.
	MaxRetries int

	// RetryDelay is the base delay between retries.
	RetryDelay time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures a TTS provider.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithModel sets the synthesis model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithVoice sets the voice preset.
func WithVoice(voice string) Option {
	return func(c *Config) { c.Voice = voice }
}

// WithFormat sets the audio encoding.
func WithFormat(format AudioFormat) Option {
	return func(c *Config) { c.Format = format }
}

// WithSpeed sets the playback speed multiplier.
func WithSpeed(speed float64) Option {
	return func(c *Config) { c.Speed = speed }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRetry sets retry behavior.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		Model:      "tts-1",
		Voice:      "onyx",
		Format:     FormatMP3,
		Speed:      1.0,
		Timeout:    60 * time.Second,
		MaxRetries: 2,
		RetryDelay: 100 * time.Millisecond,
		Logger:     log.L(),
	}
}

// Apply applies options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
