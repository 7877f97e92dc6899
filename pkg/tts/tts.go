// Package tts converts assistant replies to speech audio.
//
// Providers speak the OpenAI-compatible /audio/speech endpoint so the
// synthesis backend can be swapped without touching callers.
package tts

import "context"

// Provider synthesizes speech from text.
type Provider interface {
	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Health checks whether the provider is reachable.
	Health(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// AudioFormat identifies the encoding of synthesized audio.
type AudioFormat string

const (
	FormatMP3 AudioFormat = "mp3"
	FormatWAV AudioFormat = "wav"
	FormatPCM AudioFormat = "pcm"
)

// AudioResult is the outcome of a synthesis request.
type AudioResult struct {
	// Audio is the encoded audio payload.
	Audio []byte

	// Format is the encoding of Audio.
	Format AudioFormat

	// Voice is the voice that produced the audio.
	Voice string

	// LatencyMs is the synthesis latency in milliseconds.
	LatencyMs int64
}
