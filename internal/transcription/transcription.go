package transcription

import (
	"context"
	"strings"

	"voice-memo-go/internal/delegate"
	"voice-memo-go/internal/logger"
)

// MockTranscript is returned when the gateway runs in mock mode.
const MockTranscript = "MOCK TRANSCRIPT: Research OAuth patterns for mobile apps"

type Gateway struct {
	Command delegate.Command
	Runner  delegate.Runner
	// Mock skips the external process; enabled by USE_MOCK_TRANSCRIBE=true.
	Mock bool
	Log  *logger.Logger
}

func New(cmd delegate.Command, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Discard()
	}
	return &Gateway{Command: cmd, Runner: delegate.ExecRunner{}, Log: log.WithComponent("transcription")}
}

// Transcribe runs the external transcriber on audioPath. It never returns an
// error: a failed run, a non-zero exit and blank output all yield "".
func (g *Gateway) Transcribe(ctx context.Context, audioPath string) string {
	if g.Mock {
		g.Log.Info("mock transcription mode ON")
		return MockTranscript
	}
	log := g.Log.WithField("audio_path", audioPath)
	res, err := g.Runner.Run(ctx, g.Command, audioPath)
	if err != nil {
		log.WithField("exit_code", res.ExitCode).
			WithField("stderr", strings.TrimSpace(res.Stderr)).
			WithField("error", err.Error()).
			Warn("transcription failed")
		return ""
	}
	if s := strings.TrimSpace(res.Stderr); s != "" {
		log.WithField("stderr", s).Debug("transcriber diagnostics")
	}
	text := strings.TrimSpace(res.Stdout)
	if text == "" {
		log.Warn("transcriber produced no text")
		return ""
	}
	log.WithField("chars", len(text)).Info("transcription complete")
	return text
}
