// Package shutdown handles interrupt signals for the command-line tools.
//
// The watcher never cancels work on its own. What the first interrupt does
// is up to the command through WatchOptions.OnFirst; a second interrupt
// exits immediately with the conventional signal exit code.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mediaskills/core"
	"mediaskills/logging"

	"go.uber.org/zap"
)

// SignalCounter tracks repeated shutdown signals and triggers forced shutdown.
//
// Usage:
//
//	counter := NewSignalCounter(2, func(sig os.Signal) {
//	    os.Exit(ExitCodeFor(sig))
//	})
//
//	for sig := range sigChan {
//	    if counter.Increment(sig) == 1 {
//	        logger.Warn("interrupt received")
//	    }
//	}
type SignalCounter struct {
	mu         sync.Mutex
	count      int
	forceAfter int
	onForce    func(os.Signal)
}

// NewSignalCounter creates a new SignalCounter.
//
// Parameters:
//   - forceAfter: the count at which onForce will be called (typically 2)
//   - onForce: callback invoked with the triggering signal (may be nil)
func NewSignalCounter(forceAfter int, onForce func(os.Signal)) *SignalCounter {
	return &SignalCounter{
		forceAfter: forceAfter,
		onForce:    onForce,
	}
}

// Increment records sig and returns the new count.
// If the count reaches or exceeds forceAfter, the onForce callback is invoked.
//
// The callback is invoked while holding the lock, so it should be fast or
// should exit the process.
func (s *SignalCounter) Increment(sig os.Signal) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if s.count >= s.forceAfter && s.onForce != nil {
		s.onForce(sig)
	}
	return s.count
}

// ExitCodeFor maps a signal to its exit code: 143 for SIGTERM, 130 otherwise.
func ExitCodeFor(sig os.Signal) int {
	if sig == syscall.SIGTERM {
		return core.ExitCodeSIGTERM
	}
	return core.ExitCodeSIGINT
}

// WatchOptions configures WatchInterrupts.
type WatchOptions struct {
	Logger *logging.Logger

	// Exit terminates the process. Defaults to os.Exit.
	Exit func(code int)

	// OnFirst runs after the first signal, e.g. to print a notice or to
	// cancel a wait. Optional.
	OnFirst func(os.Signal)
}

// WatchInterrupts listens for SIGINT and SIGTERM until stop is called.
// The first signal is logged and handed to OnFirst; the second calls Exit
// with ExitCodeFor(sig).
func WatchInterrupts(opts WatchOptions) (stop func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go watch(ch, done, opts)

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}

func watch(ch <-chan os.Signal, done <-chan struct{}, opts WatchOptions) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	exit := opts.Exit
	if exit == nil {
		exit = os.Exit
	}

	counter := NewSignalCounter(2, func(sig os.Signal) {
		code := ExitCodeFor(sig)
		logger.Warn("Second interrupt received, exiting",
			zap.String("signal", sig.String()),
			zap.Int("exit_code", code),
			zap.String("exit", core.ExitCodeName(code)))
		_ = logger.Sync()
		exit(code)
	})

	for {
		select {
		case <-done:
			return
		case sig := <-ch:
			if counter.Increment(sig) == 1 {
				logger.Warn("Interrupt received. Interrupt again to exit now.",
					zap.String("signal", sig.String()))
				if opts.OnFirst != nil {
					opts.OnFirst(sig)
				}
			}
		}
	}
}
