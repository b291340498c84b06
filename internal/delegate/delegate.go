// Package delegate runs an out-of-process capability (transcriber, title
// generator) and hands back what it wrote to stdout and stderr.
package delegate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Placeholder in a configured argument list is replaced with the call input.
const Placeholder = "{}"

// Command is a configured external capability.
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// Result is what the process produced. ExitCode is -1 when it never ran.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a Command with the given input substituted into its args.
type Runner interface {
	Run(ctx context.Context, cmd Command, input string) (Result, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// Expand substitutes input for every Placeholder argument, or appends it when
// no argument is a placeholder.
func Expand(args []string, input string) []string {
	out := make([]string, 0, len(args)+1)
	replaced := false
	for _, a := range args {
		if strings.Contains(a, Placeholder) {
			out = append(out, strings.ReplaceAll(a, Placeholder, input))
			replaced = true
			continue
		}
		out = append(out, a)
	}
	if !replaced {
		out = append(out, input)
	}
	return out
}

func (ExecRunner) Run(ctx context.Context, c Command, input string) (Result, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Result{ExitCode: -1}, errors.New("delegate: empty command")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, Expand(c.Args, input)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// helper scripts may leave grandchildren holding the pipes open
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		res.ExitCode = ee.ExitCode()
		if ctx.Err() != nil {
			return res, fmt.Errorf("%s: %w", c.Name, ctx.Err())
		}
		return res, fmt.Errorf("%s exited with code %d", c.Name, res.ExitCode)
	}
	res.ExitCode = -1
	return res, fmt.Errorf("run %s: %w", c.Name, err)
}
