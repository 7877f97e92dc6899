// Package audio plays synthesized speech on the local machine.
//
// Playback shells out to ffplay so no audio bindings are linked in. The
// audio bytes are written to a temp file that is removed on every exit
// path, including playback failure and context cancellation.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/jsyssauw/flightai/internal/log"
	"github.com/jsyssauw/flightai/pkg/tts"
)

// DefaultCommand is the playback binary.
const DefaultCommand = "ffplay"

// Player plays audio clips through an external command.
type Player struct {
	command string
	logger  *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithCommand overrides the playback binary. Used in tests.
func WithCommand(command string) Option {
	return func(p *Player) { p.command = command }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) { p.logger = logger }
}

// NewPlayer creates a local audio player.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		command: DefaultCommand,
		logger:  log.L().With("component", "audio.player"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play writes the clip to a temp file and plays it, blocking until
// playback completes. The temp file is always removed before return.
func (p *Player) Play(ctx context.Context, result *tts.AudioResult) error {
	if result == nil || len(result.Audio) == 0 {
		return fmt.Errorf("audio: nothing to play")
	}

	f, err := os.CreateTemp("", "flightai-speech-*."+string(result.Format))
	if err != nil {
		return fmt.Errorf("audio: create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(result.Audio); err != nil {
		f.Close()
		return fmt.Errorf("audio: write clip: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("audio: close clip: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.command, "-nodisp", "-autoexit", "-hide_banner", path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("audio: playback: %w", err)
	}

	p.logger.Debug("played clip",
		"format", result.Format,
		"bytes", len(result.Audio),
	)
	return nil
}

// Available reports whether the playback binary is on PATH.
func (p *Player) Available() bool {
	_, err := exec.LookPath(p.command)
	return err == nil
}
