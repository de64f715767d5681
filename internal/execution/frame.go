package execution

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"coreshell/pkg/shelltypes"
)

// worker runs one command body. The first worker pushed on a frame is its
// primary worker; workers pushed while it runs are alternates.
type worker struct {
	id      string
	command string
	cancel  context.CancelFunc
	done    chan struct{}
}

// Frame is one entry of the shell stack. It owns a LIFO stack of workers and
// the cancellation state of the shell it represents.
type Frame struct {
	id        string
	shellType shelltypes.ShellType

	mu        sync.Mutex
	workers   []*worker
	requested atomic.Bool
}

func newFrame(shellType shelltypes.ShellType) *Frame {
	return &Frame{
		id:        uuid.NewString(),
		shellType: shellType,
	}
}

// ShellType returns the shell type of the frame.
func (f *Frame) ShellType() shelltypes.ShellType {
	return f.shellType
}

// Token returns the frame's lock token.
func (f *Frame) Token() string {
	return f.id
}

// Busy reports whether a worker is running.
func (f *Frame) Busy() bool {
	return f.Depth() > 0
}

// Depth returns the number of running workers, primary included.
func (f *Frame) Depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.workers)
}

// push adds w and reports whether it is the primary worker.
func (f *Frame) push(w *worker) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workers = append(f.workers, w)
	return len(f.workers) == 1
}

// pop removes w. Workers finish in LIFO order, so w is normally on top.
func (f *Frame) pop(w *worker) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.workers) - 1; i >= 0; i-- {
		if f.workers[i] == w {
			f.workers = append(f.workers[:i], f.workers[i+1:]...)
			return
		}
	}
}

// Interrupt cancels every running worker, innermost first.
func (f *Frame) Interrupt() {
	f.mu.Lock()
	workers := append([]*worker(nil), f.workers...)
	f.mu.Unlock()
	for i := len(workers) - 1; i >= 0; i-- {
		workers[i].cancel()
	}
}

// Wait blocks until the primary worker exits or timeout elapses.
func (f *Frame) Wait(timeout time.Duration) bool {
	f.mu.Lock()
	if len(f.workers) == 0 {
		f.mu.Unlock()
		return true
	}
	done := f.workers[0].done
	f.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// Requested reports whether an interrupt is unwinding this frame.
func (f *Frame) Requested() bool {
	return f.requested.Load()
}

// SetRequested marks the start or end of an interrupt.
func (f *Frame) SetRequested(requested bool) {
	f.requested.Store(requested)
}
