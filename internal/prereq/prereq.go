// Package prereq checks that the external tools and credentials a recording
// session depends on are present before anything is touched.
package prereq

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

// ErrMissing is matched by every *MissingError.
var ErrMissing = errors.New("prerequisites missing")

type Kind string

const (
	KindTool Kind = "tool"
	KindEnv  Kind = "env"
)

// Check is the result for one tool or environment variable.
type Check struct {
	Name string
	Kind Kind
	OK   bool
	Hint string
}

var hints = map[string]string{
	"rec":            "SoX not installed. Install with: brew install sox (macOS) or apt install sox",
	"sox":            "SoX not installed. Install with: brew install sox (macOS) or apt install sox",
	"ffmpeg":         "ffmpeg not installed. Install with: brew install ffmpeg (macOS) or apt install ffmpeg",
	"python3":        "python3 not found on PATH",
	"OPENAI_API_KEY": "OPENAI_API_KEY not set. Add it to .aura/.env or export it",
}

func hintFor(name string, kind Kind) string {
	if h, ok := hints[name]; ok {
		return h
	}
	if kind == KindEnv {
		return name + " not set"
	}
	return name + " not found on PATH"
}

// MissingError lists every failed check, not just the first.
type MissingError struct {
	Missing []Check
}

func (e *MissingError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, c := range e.Missing {
		parts = append(parts, c.Hint)
	}
	return "prerequisites check failed: " + strings.Join(parts, "; ")
}

func (e *MissingError) Unwrap() error { return ErrMissing }

type Checker struct {
	Tools []string
	Env   []string

	LookPath func(string) (string, error)
	Getenv   func(string) string
}

func New(tools, env []string) *Checker {
	return &Checker{Tools: tools, Env: env, LookPath: exec.LookPath, Getenv: os.Getenv}
}

// Run evaluates every configured check in order, tools first.
func (c *Checker) Run() []Check {
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	out := make([]Check, 0, len(c.Tools)+len(c.Env))
	for _, t := range c.Tools {
		_, err := lookPath(t)
		out = append(out, Check{Name: t, Kind: KindTool, OK: err == nil, Hint: hintFor(t, KindTool)})
	}
	for _, k := range c.Env {
		out = append(out, Check{Name: k, Kind: KindEnv, OK: strings.TrimSpace(getenv(k)) != "", Hint: hintFor(k, KindEnv)})
	}
	return out
}

// Validate returns a *MissingError when any check fails.
func (c *Checker) Validate() error {
	var missing []Check
	for _, ch := range c.Run() {
		if !ch.OK {
			missing = append(missing, ch)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Missing: missing}
	}
	return nil
}
