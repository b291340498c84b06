package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-memo-go/internal/capture"
	"voice-memo-go/internal/delegate"
	"voice-memo-go/internal/delegate/delegatetest"
	"voice-memo-go/internal/intent"
	"voice-memo-go/internal/logger"
	"voice-memo-go/internal/queue"
	"voice-memo-go/internal/title"
	"voice-memo-go/internal/transcription"
	"voice-memo-go/internal/types"
)

type fakeValidator struct{ err error }

func (v fakeValidator) Validate() error { return v.err }

type fakeRecorder struct {
	outcome capture.Outcome
	audio   string
	called  bool
	dest    string
	limit   time.Duration
}

func (r *fakeRecorder) Capture(_ context.Context, _ <-chan struct{}, dest string, limit time.Duration) capture.Outcome {
	r.called = true
	r.dest = dest
	r.limit = limit
	if r.audio != "" {
		_ = os.WriteFile(dest, []byte(r.audio), 0o644)
	}
	return r.outcome
}

type ctxTranscriber struct {
	text   string
	ctxErr error
}

func (c *ctxTranscriber) Transcribe(ctx context.Context, _ string) string {
	c.ctxErr = ctx.Err()
	return c.text
}

type brokenFiler struct{}

func (brokenFiler) File(string, string, string) (string, error) {
	return "", errors.New("disk full")
}

type panicFiler struct{}

func (panicFiler) File(string, string, string) (string, error) { panic("boom") }

var fixed = time.Date(2026, 10, 19, 14, 25, 1, 0, time.Local)

type harness struct {
	o          *Orchestrator
	rec        *fakeRecorder
	transcribe *delegatetest.FakeRunner
	titles     *delegatetest.FakeRunner
	queueDir   string
	tempDir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		rec:        &fakeRecorder{outcome: capture.OutcomeCompleted, audio: "RIFF....WAVE"},
		transcribe: &delegatetest.FakeRunner{Result: delegate.Result{Stdout: "Research OAuth patterns for mobile apps\n"}},
		titles:     &delegatetest.FakeRunner{Result: delegate.Result{Stdout: "oauth-research-notes\n"}},
		queueDir:   filepath.Join(t.TempDir(), "queue"),
		tempDir:    t.TempDir(),
	}

	tr := transcription.New(delegate.Command{Name: "transcribe"}, logger.Discard())
	tr.Runner = h.transcribe
	tg := title.New(delegate.Command{Name: "generate-title"}, logger.Discard())
	tg.Runner = h.titles
	tg.Now = func() time.Time { return fixed }

	h.o = &Orchestrator{
		Validator:   fakeValidator{},
		Recorder:    h.rec,
		Transcriber: tr,
		Titler:      tg,
		Filer:       queue.NewFiler(h.queueDir, logger.Discard()),
		Log:         logger.Discard(),
		QueueDir:    h.queueDir,
		TempDir:     h.tempDir,
		NewID:       func() string { return "session-1" },
		Now:         func() time.Time { return fixed },
	}
	return h
}

func (h *harness) queueNames(t *testing.T) []string {
	t.Helper()
	ents, err := os.ReadDir(h.queueDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range ents {
		names = append(names, e.Name())
	}
	return names
}

func (h *harness) tempFiles(t *testing.T) []os.DirEntry {
	t.Helper()
	ents, err := os.ReadDir(h.tempDir)
	require.NoError(t, err)
	return ents
}

func TestRunFilesMemo(t *testing.T) {
	h := newHarness(t)

	s, err := h.o.Run(context.Background(), nil, Request{Duration: 5 * time.Second})
	require.NoError(t, err)

	dir := filepath.Join(h.queueDir, "oauth-research-notes")
	assert.Equal(t, dir, s.Dir)
	assert.Equal(t, types.StatusFiled, s.Status)
	assert.Equal(t, types.StageDone, s.Stage)
	assert.Equal(t, "session-1", s.ID)
	assert.Equal(t, types.IntentResearch, s.Intent)
	assert.False(t, s.Interrupted)
	assert.Equal(t, 5*time.Second, h.rec.limit)

	audio, err := os.ReadFile(filepath.Join(dir, queue.AudioFile))
	require.NoError(t, err)
	assert.Equal(t, "RIFF....WAVE", string(audio))
	transcript, err := os.ReadFile(filepath.Join(dir, queue.TranscriptFile))
	require.NoError(t, err)
	assert.Equal(t, "Research OAuth patterns for mobile apps", string(transcript))
	assert.Equal(t, types.IntentResearch, intent.Classify(string(transcript)))

	assert.Empty(t, h.tempFiles(t), "temp audio must not outlive the session")
}

func TestRunSendsCorrectedTranscriptToTitler(t *testing.T) {
	h := newHarness(t)
	h.transcribe.Result.Stdout = "The function should return true... actually, return false"

	s, err := h.o.Run(context.Background(), nil, Request{})
	require.NoError(t, err)

	assert.Equal(t, "return false", s.Corrected)
	assert.Equal(t, []string{"return false"}, h.titles.Inputs)
	transcript, err := os.ReadFile(filepath.Join(s.Dir, queue.TranscriptFile))
	require.NoError(t, err)
	assert.Equal(t, "The function should return true... actually, return false", string(transcript))
}

func TestRunPrerequisiteMissing(t *testing.T) {
	h := newHarness(t)
	h.o.Validator = fakeValidator{err: errors.New("rec not found")}

	s, err := h.o.Run(context.Background(), nil, Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrerequisiteMissing)
	assert.Equal(t, types.StatusFailed, s.Status)
	assert.Equal(t, types.StageValidating, s.Stage)
	assert.False(t, h.rec.called)
	assert.Empty(t, h.tempFiles(t))
	assert.Empty(t, h.queueNames(t))
}

func TestRunCaptureFailureFilesNothing(t *testing.T) {
	h := newHarness(t)
	h.rec.outcome = capture.OutcomeFailed

	s, err := h.o.Run(context.Background(), nil, Request{})
	assert.ErrorIs(t, err, ErrCaptureFailure)
	assert.Equal(t, types.StatusFailed, s.Status)
	assert.Equal(t, types.StageRecording, s.Stage)
	assert.Equal(t, 0, h.transcribe.Calls())
	assert.Empty(t, h.queueNames(t))
	assert.Empty(t, h.tempFiles(t))
}

func TestRunEmptyAudioIsCaptureFailure(t *testing.T) {
	h := newHarness(t)
	h.rec.audio = ""

	_, err := h.o.Run(context.Background(), nil, Request{})
	assert.ErrorIs(t, err, ErrCaptureFailure)
	assert.Empty(t, h.queueNames(t))
}

func TestRunAbortedRecording(t *testing.T) {
	h := newHarness(t)
	h.rec.outcome = capture.OutcomeAborted

	s, err := h.o.Run(context.Background(), nil, Request{})
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, types.StatusAborted, s.Status)
	assert.True(t, s.Interrupted)
	assert.Empty(t, h.queueNames(t))
	assert.Empty(t, h.tempFiles(t))
}

func TestRunStoppedWithoutAudioIsInterrupt(t *testing.T) {
	h := newHarness(t)
	h.rec.outcome = capture.OutcomeStopped
	h.rec.audio = ""

	_, err := h.o.Run(context.Background(), nil, Request{})
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Empty(t, h.queueNames(t))
}

func TestRunInterruptedRecordingStillFiles(t *testing.T) {
	h := newHarness(t)
	h.rec.outcome = capture.OutcomeStopped
	tr := &ctxTranscriber{text: "summarize the standup"}
	h.o.Transcriber = tr

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := h.o.Run(ctx, nil, Request{})
	require.NoError(t, err)
	assert.True(t, s.Interrupted)
	assert.Equal(t, types.StatusFiled, s.Status)
	assert.NoError(t, tr.ctxErr, "stages after recording must not see the cancellation")
	assert.Equal(t, types.IntentSummary, s.Intent)
}

func TestRunEmptyTranscriptFallsBack(t *testing.T) {
	h := newHarness(t)
	h.transcribe.Result = delegate.Result{Stderr: "api down", ExitCode: 1}
	h.transcribe.Err = errors.New("transcribe exited with code 1")

	s, err := h.o.Run(context.Background(), nil, Request{})
	require.NoError(t, err)

	assert.Equal(t, types.StatusFiled, s.Status)
	assert.True(t, s.TranscriptEmpty)
	assert.Regexp(t, `^memo-\d{8}-\d{6}$`, filepath.Base(s.Dir))
	assert.Equal(t, 0, h.titles.Calls(), "title generation is skipped")
	assert.FileExists(t, filepath.Join(s.Dir, queue.AudioFile))
	transcript, err := os.ReadFile(filepath.Join(s.Dir, queue.TranscriptFile))
	require.NoError(t, err)
	assert.Equal(t, types.PlaceholderTranscript, string(transcript))
}

func TestRunTitleFailureUsesTimestamp(t *testing.T) {
	h := newHarness(t)
	h.titles.Result = delegate.Result{ExitCode: 2}
	h.titles.Err = errors.New("generate-title exited with code 2")

	s, err := h.o.Run(context.Background(), nil, Request{})
	require.NoError(t, err)
	assert.Equal(t, "memo-20261019-142501", filepath.Base(s.Dir))
}

func TestRunFullyRetractedTranscriptSkipsTitler(t *testing.T) {
	h := newHarness(t)
	h.transcribe.Result.Stdout = "buy milk and eggs, never mind"

	s, err := h.o.Run(context.Background(), nil, Request{})
	require.NoError(t, err)
	assert.Empty(t, s.Corrected)
	assert.Equal(t, 0, h.titles.Calls())
	assert.Equal(t, "memo-20261019-142501", s.Title)
	assert.Equal(t, types.IntentDefault, s.Intent)
}

func TestRunSameTitleTwice(t *testing.T) {
	h := newHarness(t)

	first, err := h.o.Run(context.Background(), nil, Request{})
	require.NoError(t, err)
	second, err := h.o.Run(context.Background(), nil, Request{})
	require.NoError(t, err)

	assert.Equal(t, "oauth-research-notes", filepath.Base(first.Dir))
	assert.Equal(t, "oauth-research-notes-1", filepath.Base(second.Dir))
}

func TestRunFilingFailure(t *testing.T) {
	h := newHarness(t)
	h.o.Filer = brokenFiler{}

	s, err := h.o.Run(context.Background(), nil, Request{})
	assert.ErrorIs(t, err, ErrFilingFailure)
	assert.Equal(t, types.StatusFailed, s.Status)
	assert.Equal(t, types.StageFiling, s.Stage)
	assert.Empty(t, h.tempFiles(t), "temp audio is cleaned up even when filing fails")
}

func TestRunFilerPanicIsFilingFailure(t *testing.T) {
	h := newHarness(t)
	h.o.Filer = panicFiler{}

	_, err := h.o.Run(context.Background(), nil, Request{})
	assert.ErrorIs(t, err, ErrFilingFailure)
	assert.Empty(t, h.tempFiles(t))
}
