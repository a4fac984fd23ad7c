// Package interrupt turns operator interrupt requests (Ctrl+C) into a flag
// that the process poller checks between bounded waits.
//
// A Source is created once at startup and injected where it is needed. While
// installed it also captures the platform's other console control signals so
// their default action (terminating this process and orphaning the child's
// console) is suppressed; those are logged and otherwise ignored.
package interrupt

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
)

// ErrAlreadyInstalled is returned by Install when the Source is already
// receiving signals.
var ErrAlreadyInstalled = errors.New("interrupt handler already installed")

// Source owns the process-wide interrupt flag. The flag starts false, is set
// by the first interrupt request and is never reset.
type Source struct {
	requested atomic.Bool
	once      sync.Once
	done      chan struct{}

	notify  func()
	log     *slog.Logger
	signals []os.Signal

	mu      sync.Mutex
	sigCh   chan os.Signal
	quit    chan struct{}
	stopped chan struct{}
}

// Option configures a Source.
type Option func(*Source)

// WithNotifier sets a function called once, before the flag is set, when the
// first interrupt request arrives. It runs on the signal goroutine.
func WithNotifier(fn func()) Option {
	return func(s *Source) {
		s.notify = fn
	}
}

// WithLogger sets the logger for signal diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.log = logger
		}
	}
}

// New creates an uninstalled Source.
func New(opts ...Option) *Source {
	s := &Source{
		done:    make(chan struct{}),
		log:     slog.Default(),
		signals: consoleSignals(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Install starts delivering OS signals to the Source.
func (s *Source) Install() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sigCh != nil {
		return ErrAlreadyInstalled
	}

	sigCh := make(chan os.Signal, 1)
	quit := make(chan struct{})
	stopped := make(chan struct{})

	signal.Notify(sigCh, s.signals...)

	go func() {
		defer close(stopped)

		for {
			select {
			case sig := <-sigCh:
				s.dispatch(sig)
			case <-quit:
				return
			}
		}
	}()

	s.sigCh = sigCh
	s.quit = quit
	s.stopped = stopped

	return nil
}

// Stop deregisters the Source from OS signal delivery and waits for its
// goroutine to exit. The flag keeps its value. Safe to call more than once
// and on a Source that was never installed.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sigCh == nil {
		return
	}

	signal.Stop(s.sigCh)
	close(s.quit)
	<-s.stopped

	s.sigCh = nil
	s.quit = nil
	s.stopped = nil
}

// Requested reports whether an interrupt has been requested.
func (s *Source) Requested() bool {
	return s.requested.Load()
}

// Done returns a channel closed when the flag becomes true.
func (s *Source) Done() <-chan struct{} {
	return s.done
}

// Trigger requests an interrupt exactly as an OS Ctrl+C would. Repeated calls
// have no further effect.
func (s *Source) Trigger() {
	s.once.Do(func() {
		if s.notify != nil {
			s.notify()
		}

		s.requested.Store(true)
		close(s.done)
	})
}

func (s *Source) dispatch(sig os.Signal) {
	if sig != os.Interrupt {
		s.log.Debug("ignoring console signal", slog.String("signal", sig.String()))
		return
	}

	s.log.Info("interrupt requested", slog.String("signal", sig.String()))
	s.Trigger()
}
