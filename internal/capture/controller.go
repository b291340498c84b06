// Package capture owns the external audio recorder: starting it, capping its
// duration and stopping it gracefully when the user interrupts.
package capture

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"voice-memo-go/internal/logger"
)

const (
	DefaultCommand     = "rec"
	DefaultSampleRate  = 16000
	DefaultChannels    = 1
	DefaultStopTimeout = 5 * time.Second
)

// State is the recorder lifecycle: NotStarted -> Running -> Stopping -> Exited.
// Stopping is skipped when the recorder exits on its own.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateStopping   State = "stopping"
	StateExited     State = "exited"
)

// Outcome is how a capture ended.
type Outcome int

const (
	// OutcomeCompleted: the recorder exited 0 (duration cap reached).
	OutcomeCompleted Outcome = iota
	// OutcomeStopped: the user interrupted and the recorder shut down.
	OutcomeStopped
	// OutcomeAborted: interrupted again while stopping, or before start.
	OutcomeAborted
	// OutcomeFailed: the recorder could not start or exited non-zero on its own.
	OutcomeFailed
)

// Succeeded reports whether audio on disk should be kept. A user stop is a
// normal end of recording.
func (o Outcome) Succeeded() bool {
	return o == OutcomeCompleted || o == OutcomeStopped
}

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeStopped:
		return "stopped"
	case OutcomeAborted:
		return "aborted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Controller struct {
	Command     string
	SampleRate  int
	Channels    int
	StopTimeout time.Duration
	Start       Starter
	Log         *logger.Logger

	mu    sync.Mutex
	state State
}

func New(command string, stopTimeout time.Duration, log *logger.Logger) *Controller {
	if command == "" {
		command = DefaultCommand
	}
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{
		Command:     command,
		SampleRate:  DefaultSampleRate,
		Channels:    DefaultChannels,
		StopTimeout: stopTimeout,
		Start:       ExecStarter,
		Log:         log.WithComponent("capture"),
		state:       StateNotStarted,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == "" {
		return StateNotStarted
	}
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()
	c.Log.WithField("from", prev).WithField("to", s).Debug("recorder state")
}

// Args builds the SoX `rec` argument list: quiet, mono, 16 kHz, and
// `trim 0 <seconds>` when a limit is set.
func (c *Controller) Args(dest string, limit time.Duration) []string {
	args := []string{"-q", "-r", strconv.Itoa(c.SampleRate), "-c", strconv.Itoa(c.Channels), dest}
	if limit > 0 {
		args = append(args, "trim", "0", strconv.FormatFloat(limit.Seconds(), 'f', -1, 64))
	}
	return args
}

// Capture records into dest until the recorder exits, the limit elapses, or
// ctx is cancelled. Cancelling ctx is a graceful stop request; a signal on
// force while stopping kills the recorder. The recorder has always exited by
// the time Capture returns.
func (c *Controller) Capture(ctx context.Context, force <-chan struct{}, dest string, limit time.Duration) (out Outcome) {
	var (
		proc Process
		done chan error
	)
	defer func() {
		if r := recover(); r != nil {
			c.Log.WithField("panic", fmt.Sprint(r)).Error("recorder control failed")
			if proc != nil && c.State() != StateExited {
				c.reap(proc, done)
			}
			out = OutcomeFailed
		}
	}()

	if ctx.Err() != nil {
		return OutcomeAborted
	}

	log := c.Log.WithField("dest", dest).WithField("limit", limit.String())
	start := c.Start
	if start == nil {
		start = ExecStarter
	}
	p, err := start(c.Command, c.Args(dest, limit))
	if err != nil {
		log.WithField("error", err.Error()).Error("recorder failed to start")
		return OutcomeFailed
	}
	proc = p
	done = make(chan error, 1)
	go func() { done <- p.Wait() }()
	c.setState(StateRunning)
	log.Info("recording started")

	select {
	case err := <-done:
		c.setState(StateExited)
		if err != nil {
			// the terminal's Ctrl+C reaches the recorder too; it may exit
			// before we observe ctx
			if ctx.Err() != nil {
				log.Info("recording stopped by user")
				return OutcomeStopped
			}
			log.WithField("error", err.Error()).Error("recorder exited with error")
			return OutcomeFailed
		}
		log.Info("recording completed")
		return OutcomeCompleted
	case <-ctx.Done():
		return c.stop(proc, done, force)
	}
}

func (c *Controller) stop(proc Process, done <-chan error, force <-chan struct{}) Outcome {
	c.setState(StateStopping)
	if err := proc.Interrupt(); err != nil {
		c.Log.WithField("error", err.Error()).Warn("graceful stop request failed")
	}

	timer := time.NewTimer(c.StopTimeout)
	defer timer.Stop()

	select {
	case <-done:
		c.setState(StateExited)
		c.Log.Info("recording stopped by user")
		return OutcomeStopped
	case <-force:
		c.kill(proc, done)
		c.Log.Warn("second interrupt, recorder killed")
		return OutcomeAborted
	case <-timer.C:
		c.kill(proc, done)
		c.Log.WithField("timeout", c.StopTimeout.String()).Warn("recorder ignored stop request, killed")
		return OutcomeStopped
	}
}

func (c *Controller) kill(proc Process, done <-chan error) {
	if err := proc.Kill(); err != nil {
		c.Log.WithField("error", err.Error()).Warn("kill recorder")
	}
	<-done
	c.setState(StateExited)
}

// reap kills and waits for a recorder whose control flow panicked. A second
// panic from the process is logged rather than propagated.
func (c *Controller) reap(proc Process, done <-chan error) {
	defer func() {
		if r := recover(); r != nil {
			c.Log.WithField("panic", fmt.Sprint(r)).Error("kill recorder failed")
		}
	}()
	c.kill(proc, done)
}
