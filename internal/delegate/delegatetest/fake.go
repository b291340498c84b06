// Package delegatetest provides a delegate.Runner for tests that must not
// spawn processes.
package delegatetest

import (
	"context"
	"sync"

	"voice-memo-go/internal/delegate"
)

var _ delegate.Runner = (*FakeRunner)(nil)

// FakeRunner records calls and replays a canned Result.
type FakeRunner struct {
	Result delegate.Result
	Err    error

	mu     sync.Mutex
	Inputs []string
}

func (f *FakeRunner) Run(_ context.Context, _ delegate.Command, input string) (delegate.Result, error) {
	f.mu.Lock()
	f.Inputs = append(f.Inputs, input)
	f.mu.Unlock()
	return f.Result, f.Err
}

// Calls returns how many times Run was invoked.
func (f *FakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Inputs)
}
