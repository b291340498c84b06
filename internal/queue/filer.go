// Package queue files finished memos as directories under a queue root and
// reads them back for listing.
package queue

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"voice-memo-go/internal/logger"
)

const (
	AudioFile      = "audio.wav"
	TranscriptFile = "transcript.txt"
	DefaultRoot    = ".aura/queue"
)

var writeFile = os.WriteFile

type Filer struct {
	Root string
	Log  *logger.Logger
	// NewBackOff builds the retry policy for moving the audio artifact.
	NewBackOff func() backoff.BackOff
}

func NewFiler(root string, log *logger.Logger) *Filer {
	if root == "" {
		root = DefaultRoot
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Filer{
		Root: root,
		Log:  log.WithComponent("queue"),
		NewBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), 3)
		},
	}
}

// File creates Root/<title> (or the first free <title>-N), moves audioPath
// into it as audio.wav and writes transcript.txt. It returns the directory.
// A directory that already exists is never written to. On failure the claimed
// directory is removed and audioPath is left where it was.
func (f *Filer) File(title, audioPath, transcript string) (string, error) {
	if title == "" {
		return "", errors.New("queue: empty title")
	}
	if err := os.MkdirAll(f.Root, 0o755); err != nil {
		return "", fmt.Errorf("create queue root: %w", err)
	}

	dir, err := f.claim(title)
	if err != nil {
		return "", err
	}
	log := f.Log.WithField("dir", dir)
	audio := filepath.Join(dir, AudioFile)

	if err := f.moveWithRetry(audioPath, audio); err != nil {
		log.WithField("error", err.Error()).Error("move audio failed")
		f.release(dir)
		return "", fmt.Errorf("move audio: %w", err)
	}
	if err := writeFile(filepath.Join(dir, TranscriptFile), []byte(transcript), 0o644); err != nil {
		log.WithField("error", err.Error()).Error("write transcript failed")
		if rerr := move(audio, audioPath); rerr != nil {
			log.WithField("error", rerr.Error()).Error("restore audio failed, leaving memo dir in place")
			return dir, fmt.Errorf("write transcript: %w (audio kept in %s)", err, dir)
		}
		_ = os.Remove(filepath.Join(dir, TranscriptFile))
		f.release(dir)
		return "", fmt.Errorf("write transcript: %w", err)
	}
	log.Info("memo filed")
	return dir, nil
}

// release drops a claimed directory that never received a complete memo.
func (f *Filer) release(dir string) {
	if err := os.Remove(dir); err != nil {
		f.Log.WithField("dir", dir).WithField("error", err.Error()).Warn("remove unfilled memo dir failed")
	}
}

// claim probes title, title-1, title-2, ... and creates the first name that
// does not exist yet. Mkdir is the existence check, so a name is never reused.
func (f *Filer) claim(title string) (string, error) {
	for n := 0; ; n++ {
		name := title
		if n > 0 {
			name = title + "-" + strconv.Itoa(n)
		}
		dir := filepath.Join(f.Root, name)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			if n > 0 {
				f.Log.WithField("title", title).WithField("name", name).Info("title taken, using suffix")
			}
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create memo dir: %w", err)
		}
	}
}

func (f *Filer) moveWithRetry(src, dst string) error {
	op := func() error {
		err := move(src, dst)
		if err == nil || transient(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	var b backoff.BackOff = &backoff.StopBackOff{}
	if f.NewBackOff != nil {
		b = f.NewBackOff()
	}
	notify := func(err error, wait time.Duration) {
		f.Log.WithField("error", err.Error()).WithField("wait", wait.String()).Warn("move failed, retrying")
	}
	return backoff.RetryNotify(op, b, notify)
}

func transient(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR)
}

// move renames src to dst, copying across filesystems when rename cannot.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
