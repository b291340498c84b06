// Package title turns a transcript into a directory-safe memo name by asking
// an external generator, falling back to a timestamp name when it fails.
package title

import (
	"context"
	"regexp"
	"strings"
	"time"

	"voice-memo-go/internal/delegate"
	"voice-memo-go/internal/logger"
)

const (
	FallbackPrefix = "memo"
	fallbackLayout = "20060102-150405"
	maxLen         = 80
)

var unsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Fallback is the deterministic name used when no generated title is usable,
// e.g. memo-20261019-142501.
func Fallback(now time.Time) string {
	return FallbackPrefix + "-" + now.Format(fallbackLayout)
}

// IsFallback reports whether name has the shape produced by Fallback.
func IsFallback(name string) bool {
	return fallbackPattern.MatchString(name)
}

var fallbackPattern = regexp.MustCompile(`^memo-\d{8}-\d{6}$`)

// Sanitize reduces generator output to kebab-case: first non-empty line,
// lower case, runs of anything outside [a-z0-9] collapsed to "-". It returns
// "" when nothing usable is left.
func Sanitize(raw string) string {
	line := ""
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	s := unsafe.ReplaceAllString(strings.ToLower(line), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	return s
}

type Gateway struct {
	Command delegate.Command
	Runner  delegate.Runner
	Now     func() time.Time
	Log     *logger.Logger
}

func New(cmd delegate.Command, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Discard()
	}
	return &Gateway{Command: cmd, Runner: delegate.ExecRunner{}, Now: time.Now, Log: log.WithComponent("title")}
}

// TitleFor never fails: on a non-zero exit or unusable output it returns
// Fallback of the current local time. There is no retry.
func (g *Gateway) TitleFor(ctx context.Context, transcript string) string {
	res, err := g.Runner.Run(ctx, g.Command, transcript)
	if err != nil {
		name := g.fallback()
		g.Log.WithField("exit_code", res.ExitCode).
			WithField("stderr", strings.TrimSpace(res.Stderr)).
			WithField("error", err.Error()).
			WithField("title", name).
			Warn("title generation failed, using timestamp")
		return name
	}
	name := Sanitize(res.Stdout)
	if name == "" {
		name = g.fallback()
		g.Log.WithField("title", name).Warn("title generator returned nothing usable, using timestamp")
		return name
	}
	g.Log.WithField("title", name).Info("title generated")
	return name
}

func (g *Gateway) fallback() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return Fallback(now())
}
