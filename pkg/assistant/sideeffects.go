package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsyssauw/flightai/internal/log"
	"github.com/jsyssauw/flightai/pkg/inference"
	"github.com/jsyssauw/flightai/pkg/tts"
)

// AudioPlayer plays a synthesized clip to completion.
type AudioPlayer interface {
	Play(ctx context.Context, result *tts.AudioResult) error
}

// SideEffects runs the non-conversational actions that follow a round:
// speaking the final reply and rendering a vacation image after a
// confirmed booking. All failures here are logged and contained; they
// never abort the round.
type SideEffects struct {
	speech tts.Provider
	player AudioPlayer
	images inference.ImageGenerator
	logger *slog.Logger
}

// NewSideEffects creates the side effect pipeline. Any collaborator
// may be nil, which disables the corresponding effect.
func NewSideEffects(speech tts.Provider, player AudioPlayer, images inference.ImageGenerator) *SideEffects {
	return &SideEffects{
		speech: speech,
		player: player,
		images: images,
		logger: log.L().With("component", "assistant.sideeffects"),
	}
}

// Speak synthesizes and plays the reply text. Best-effort: every
// failure is swallowed after logging.
func (s *SideEffects) Speak(ctx context.Context, text string) {
	if s.speech == nil || s.player == nil || text == "" {
		return
	}

	result, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		s.logger.Warn("speech synthesis failed", "error", err)
		return
	}

	if err := s.player.Play(ctx, result); err != nil {
		s.logger.Warn("speech playback failed", "error", err)
	}
}

// RenderScene generates a vacation image for a destination city.
func (s *SideEffects) RenderScene(ctx context.Context, city string) ([]byte, error) {
	if s.images == nil {
		return nil, nil
	}

	prompt := fmt.Sprintf(
		"An image representing a vacation in %s, showing tourist spots and everything unique about %s, in a vibrant pop-art style",
		city, city,
	)

	resp, err := s.images.GenerateImage(ctx, &inference.ImageRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("render scene for %s: %w", city, err)
	}
	return resp.Image, nil
}
