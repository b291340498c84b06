package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// interruptible cancels the returned context on the first signal and closes
// force on the second. Later signals are ignored until stop releases the
// watcher.
func interruptible(parent context.Context, sigs <-chan os.Signal) (ctx context.Context, force <-chan struct{}, stop func()) {
	ctx, cancel := context.WithCancel(parent)
	forceCh := make(chan struct{})
	done := make(chan struct{})

	go func() {
		select {
		case <-sigs:
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigs:
			close(forceCh)
		case <-done:
		}
	}()

	var stopped bool
	return ctx, forceCh, func() {
		if stopped {
			return
		}
		stopped = true
		close(done)
		cancel()
	}
}

// notifySignals subscribes to SIGINT and SIGTERM. The returned func restores
// default handling.
func notifySignals() (<-chan os.Signal, func()) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	return sigs, func() { signal.Stop(sigs) }
}
