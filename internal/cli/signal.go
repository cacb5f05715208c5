package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalContext is a context cancelled on SIGINT or SIGTERM that remembers the signal.
type SignalContext struct {
	context.Context
	cancel context.CancelFunc
	sigCh  chan os.Signal
	stop   sync.Once
	mu     sync.Mutex
	sigVal os.Signal
}

// NewSignalContext behaves like signal.NotifyContext but allows retrieving the signal,
// so the caller can pick the exit code.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.cancel()
		case <-ctx.Done():
		}
		sc.Stop()
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// Stop releases the signal handler and cancels the context.
func (sc *SignalContext) Stop() {
	sc.stop.Do(func() {
		signal.Stop(sc.sigCh)
		sc.cancel()
	})
}
