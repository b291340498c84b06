package capture

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

// Process is a running recorder. The controller only needs to wait on it and
// to ask it to stop; tests supply a fake.
type Process interface {
	Wait() error
	// Interrupt asks the recorder to finish writing and exit.
	Interrupt() error
	Kill() error
}

// Starter launches the recorder binary.
type Starter func(name string, args []string) (Process, error)

type execProcess struct {
	cmd    *exec.Cmd
	stderr *tailBuffer
}

// ExecStarter starts name with os/exec. stdout is discarded and the last few
// KB of stderr are kept for the failure log.
func ExecStarter(name string, args []string) (Process, error) {
	cmd := exec.Command(name, args...)
	buf := &tailBuffer{max: 4096}
	cmd.Stdout = nil
	cmd.Stderr = buf
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	return &execProcess{cmd: cmd, stderr: buf}, nil
}

func (p *execProcess) Wait() error {
	err := p.cmd.Wait()
	if err != nil {
		if tail := strings.TrimSpace(p.stderr.String()); tail != "" {
			return fmt.Errorf("%w: %s", err, tail)
		}
	}
	return err
}

// Interrupt sends SIGTERM, which SoX handles by closing the file cleanly.
// Platforms that cannot deliver it get a kill instead.
func (p *execProcess) Interrupt() error {
	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return p.Kill()
	}
	return nil
}

func (p *execProcess) Kill() error {
	err := p.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// tailBuffer keeps only the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
