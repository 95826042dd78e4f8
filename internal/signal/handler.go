// Package signal keeps the wrapper alive while a child command runs.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Relay intercepts terminal and termination signals for the lifetime of a
// child process. SIGINT is swallowed because the terminal already delivers
// it to the child's process group. SIGTERM and SIGHUP are handed to forward
// so the child can be told to stop while the wrapper lives on to record its
// exit status.
type Relay struct {
	forward  func(os.Signal)
	sigChan  chan os.Signal
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewRelay starts relaying signals to forward. Always call Stop.
//
// Usage:
//
//	r := signal.NewRelay(func(s os.Signal) { _ = cmd.Process.Signal(s) })
//	defer r.Stop()
//	err := cmd.Wait()
func NewRelay(forward func(os.Signal)) *Relay {
	r := &Relay{
		forward: forward,
		// Buffered so signal.Notify never drops a signal while one is being forwarded.
		sigChan: make(chan os.Signal, 4),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	signal.Notify(r.sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go r.listen()

	return r
}

// Stop restores default signal handling and waits for the relay goroutine.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		signal.Stop(r.sigChan)
		close(r.done)
		<-r.stopped
	})
}

// handleSignal processes one received signal.
func (r *Relay) handleSignal(sig os.Signal) {
	if sig == syscall.SIGINT || r.forward == nil {
		return
	}
	r.forward(sig)
}

func (r *Relay) listen() {
	defer close(r.stopped)
	for {
		select {
		case <-r.done:
			return
		case sig := <-r.sigChan:
			r.handleSignal(sig)
		}
	}
}
