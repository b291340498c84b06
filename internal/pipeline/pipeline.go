// Package pipeline drives one memo session from validation through filing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"voice-memo-go/internal/capture"
	"voice-memo-go/internal/correction"
	"voice-memo-go/internal/intent"
	"voice-memo-go/internal/logger"
	"voice-memo-go/internal/title"
	"voice-memo-go/internal/types"
)

type Validator interface {
	Validate() error
}

type Recorder interface {
	Capture(ctx context.Context, force <-chan struct{}, dest string, limit time.Duration) capture.Outcome
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) string
}

type Titler interface {
	TitleFor(ctx context.Context, transcript string) string
}

type Filer interface {
	File(title, audioPath, transcript string) (string, error)
}

// Progress receives the human-readable status lines.
type Progress interface {
	Info(msg string, a ...any)
	Warn(msg string, a ...any)
	OK(msg string, a ...any)
	Fail(msg string, a ...any)
}

type Request struct {
	// Duration caps the recording; zero records until interrupted.
	Duration time.Duration
}

type Orchestrator struct {
	Validator   Validator
	Recorder    Recorder
	Transcriber Transcriber
	Titler      Titler
	Filer       Filer
	Progress    Progress
	Log         *logger.Logger

	QueueDir string
	// TempDir holds the in-progress recording; empty means os.TempDir().
	TempDir string
	NewID   func() string
	Now     func() time.Time
}

// Run executes one session. The returned session is never nil and carries
// the stage reached and the terminal status. Errors wrap one of the package
// sentinels; an interrupted recording that still produced audio is filed and
// returns no error.
func (o *Orchestrator) Run(ctx context.Context, force <-chan struct{}, req Request) (*types.Session, error) {
	s := &types.Session{
		ID:        o.newID(),
		Duration:  req.Duration,
		QueueDir:  o.QueueDir,
		StartedAt: o.now(),
		Stage:     types.StageIdle,
	}
	log := o.log().WithSession(s.ID)
	log.WithField("duration", req.Duration.String()).Debug("session started")

	s.Stage = types.StageValidating
	if o.Validator != nil {
		if err := o.Validator.Validate(); err != nil {
			return o.fail(s, log, fmt.Errorf("%w: %w", ErrPrerequisiteMissing, err))
		}
	}

	tmp, err := os.CreateTemp(o.TempDir, "memo-*.wav")
	if err != nil {
		return o.fail(s, log, fmt.Errorf("%w: allocate temp audio: %w", ErrCaptureFailure, err))
	}
	tmp.Close()
	s.AudioPath = tmp.Name()
	defer func() {
		// no-op once the filer has moved the audio
		if err := os.Remove(s.AudioPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithField("error", err.Error()).Warn("remove temp audio")
		}
	}()

	if err := o.record(ctx, force, s, log); err != nil {
		return s, err
	}

	// cancellation only applies to recording; later stages run to completion
	work := context.WithoutCancel(ctx)

	s.Stage = types.StageTranscribing
	o.progress().Info("Transcribing audio...")
	s.Transcript = strings.TrimSpace(o.Transcriber.Transcribe(work, s.AudioPath))

	if s.Transcript == "" {
		s.TranscriptEmpty = true
		s.Transcript = types.PlaceholderTranscript
		s.Intent = types.IntentDefault
		s.Title = title.Fallback(o.now())
		o.progress().Warn("Transcription failed or empty.")
		log.WithField("title", s.Title).Warn("no transcript, filing audio under timestamp title")
	} else {
		s.Stage = types.StageResolving
		s.Corrected = correction.Resolve(s.Transcript)
		s.Intent = intent.Classify(s.Corrected)
		log.WithField("intent", s.Intent).WithField("corrected", s.Corrected != s.Transcript).Debug("transcript resolved")

		s.Stage = types.StageTitling
		if s.Corrected == "" {
			// everything was retracted; nothing left to name it after
			s.Title = title.Fallback(o.now())
		} else {
			o.progress().Info("Generating title...")
			s.Title = o.Titler.TitleFor(work, s.Corrected)
		}
	}

	s.Stage = types.StageFiling
	dir, err := o.file(s)
	if err != nil {
		return o.fail(s, log, fmt.Errorf("%w: %w", ErrFilingFailure, err))
	}
	s.Dir = dir
	s.Stage = types.StageDone
	s.Status = types.StatusFiled
	log.WithField("dir", dir).WithField("intent", s.Intent).Info("memo filed")
	return s, nil
}

func (o *Orchestrator) record(ctx context.Context, force <-chan struct{}, s *types.Session, log *logrus.Entry) error {
	s.Stage = types.StageRecording
	if s.Duration > 0 {
		o.progress().Info("Recording for %s... (Press Ctrl+C to stop early)", s.Duration)
	} else {
		o.progress().Info("Recording... (Press Ctrl+C to stop)")
	}

	out := o.Recorder.Capture(ctx, force, s.AudioPath, s.Duration)
	log.WithField("outcome", out.String()).Debug("recorder finished")
	switch out {
	case capture.OutcomeAborted:
		return o.abort(s, log)
	case capture.OutcomeFailed:
		o.progress().Fail("Recording failed.")
		_, err := o.fail(s, log, fmt.Errorf("%w: recorder %s", ErrCaptureFailure, out))
		return err
	case capture.OutcomeStopped:
		s.Interrupted = true
		o.progress().Info("Recording stopped.")
	}

	fi, err := os.Stat(s.AudioPath)
	if err != nil || fi.Size() == 0 {
		if s.Interrupted {
			return o.abort(s, log)
		}
		o.progress().Fail("No audio recorded.")
		_, err := o.fail(s, log, fmt.Errorf("%w: no audio recorded", ErrCaptureFailure))
		return err
	}
	log.WithField("bytes", fi.Size()).Debug("audio captured")
	return nil
}

// file runs the filer and converts a panic into an error so the temp audio
// is still cleaned up by Run.
func (o *Orchestrator) file(s *types.Session) (dir string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return o.Filer.File(s.Title, s.AudioPath, s.Transcript)
}

func (o *Orchestrator) abort(s *types.Session, log *logrus.Entry) error {
	s.Status = types.StatusAborted
	s.Interrupted = true
	o.progress().Warn("Interrupted.")
	log.WithField("stage", s.Stage.String()).Warn("session aborted by user")
	return ErrInterrupted
}

func (o *Orchestrator) fail(s *types.Session, log *logrus.Entry, err error) (*types.Session, error) {
	s.Status = types.StatusFailed
	log.WithField("stage", s.Stage.String()).WithField("error", err.Error()).Error("session failed")
	return s, err
}

func (o *Orchestrator) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) log() *logger.Logger {
	if o.Log == nil {
		return logger.Discard()
	}
	return o.Log
}

type nopProgress struct{}

func (nopProgress) Info(string, ...any) {}
func (nopProgress) Warn(string, ...any) {}
func (nopProgress) OK(string, ...any)   {}
func (nopProgress) Fail(string, ...any) {}

func (o *Orchestrator) progress() Progress {
	if o.Progress == nil {
		return nopProgress{}
	}
	return o.Progress
}
