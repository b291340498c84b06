package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"voice-memo-go/internal/capture"
	"voice-memo-go/internal/pipeline"
	"voice-memo-go/internal/prereq"
	"voice-memo-go/internal/queue"
	"voice-memo-go/internal/title"
	"voice-memo-go/internal/transcription"
)

func newRecordCmd(a *app) *cobra.Command {
	var seconds int

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a memo and file it in the queue",
		Long:  longRecord,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("duration") {
				if seconds <= 0 {
					return fmt.Errorf("--duration must be a positive number of seconds, got %d", seconds)
				}
				a.cfg.Duration = time.Duration(seconds) * time.Second
			}
			return a.record(cmd)
		},
	}
	cmd.Flags().IntVarP(&seconds, "duration", "d", 0, "stop recording after this many seconds (default: until Ctrl+C)")
	return cmd
}

func (a *app) orchestrator() *pipeline.Orchestrator {
	cfg := a.cfg

	rec := capture.New(cfg.Record.Command, cfg.StopTimeout, a.log)
	if cfg.Record.SampleRate > 0 {
		rec.SampleRate = cfg.Record.SampleRate
	}
	if cfg.Record.Channels > 0 {
		rec.Channels = cfg.Record.Channels
	}

	tr := transcription.New(cfg.Transcribe.Cmd(), a.log)
	tr.Mock = cfg.MockTranscribe

	return &pipeline.Orchestrator{
		Validator:   prereq.New(cfg.PrereqTools, cfg.PrereqEnv),
		Recorder:    rec,
		Transcriber: tr,
		Titler:      title.New(cfg.Title.Cmd(), a.log),
		Filer:       queue.NewFiler(cfg.QueueDir, a.log),
		Progress:    a.ui,
		Log:         a.log,
		QueueDir:    cfg.QueueDir,
	}
}

func (a *app) record(cmd *cobra.Command) error {
	sigs, release := notifySignals()
	defer release()
	ctx, force, stop := interruptible(cmd.Context(), sigs)
	defer stop()

	s, err := a.orchestrator().Run(ctx, force, pipeline.Request{Duration: a.cfg.Duration})
	if err != nil {
		var missing *prereq.MissingError
		if errors.As(err, &missing) {
			a.ui.Fail("Prerequisites check failed:")
			for _, c := range missing.Missing {
				a.ui.Row("- %s", c.Hint)
			}
			return errors.Join(err, errReported)
		}
		return err
	}

	a.ui.OK("Memo saved to: %s", s.Dir)
	a.ui.Row("Audio: %s", filepath.Join(s.Dir, queue.AudioFile))
	a.ui.Row("Transcript: %s", filepath.Join(s.Dir, queue.TranscriptFile))
	a.ui.Row("Intent: %s", s.Intent)
	if s.Interrupted {
		a.log.WithSession(s.ID).Debug("recording was stopped by the user before filing")
	}
	fmt.Fprintln(a.stdout, s.Dir)
	return nil
}

var longRecord = `
Record from the default microphone with SoX (16 kHz mono WAV) until Ctrl+C
or until --duration seconds have passed. A second Ctrl+C while the recorder
is shutting down aborts the memo with exit code 130.

The audio is then transcribed, corrected for retracted speech, given a short
kebab-case title and filed under the queue directory. If transcription fails
the audio is still filed, under a memo-YYYYMMDD-HHMMSS title.
`
