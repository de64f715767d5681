// Package cancellation turns the process interrupt signal into cooperative
// cancellation of the active command worker.
//
// A running command body opens and closes the window in which interruption is
// allowed. Outside that window, or when no frame has a running worker, an
// interrupt is vetoed and absorbed.
package cancellation

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"coreshell/internal/logger"
	"coreshell/internal/output"
	"coreshell/pkg/shelltypes"
)

// DefaultGrace bounds how long Cancel waits for a worker to unwind.
const DefaultGrace = 2 * time.Second

// Target is a shell frame as seen by the coordinator.
type Target interface {
	ShellType() shelltypes.ShellType
	// Token identifies the frame that owns the workers.
	Token() string
	Busy() bool
	// Interrupt cancels every worker of the frame, innermost first.
	Interrupt()
	// Wait blocks until the primary worker exits or timeout elapses.
	Wait(timeout time.Duration) bool
	SetRequested(requested bool)
}

// Coordinator owns the process-wide allowed flag and the per-shell-type locks.
type Coordinator struct {
	allowed atomic.Bool

	mu     sync.Mutex
	locks  map[shelltypes.ShellType]*sync.Mutex
	active func() Target

	sink   *output.Switch
	grace  time.Duration
	logger *log.Logger
}

// NewCoordinator creates a coordinator that silences sink while a worker
// unwinds. A non-positive grace selects DefaultGrace.
func NewCoordinator(sink *output.Switch, grace time.Duration) *Coordinator {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Coordinator{
		locks:  make(map[shelltypes.ShellType]*sync.Mutex),
		active: func() Target { return nil },
		sink:   sink,
		grace:  grace,
		logger: logger.NewStyledLogger("Cancel"),
	}
}

// Attach sets the function reporting the active frame. It must return a nil
// interface when there is none.
func (c *Coordinator) Attach(active func() Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = active
}

// AllowCancel opens the interruption window.
func (c *Coordinator) AllowCancel() {
	c.allowed.Store(true)
}

// InhibitCancel closes the interruption window.
func (c *Coordinator) InhibitCancel() {
	c.allowed.Store(false)
}

// SetAllowed restores a previously observed window state.
func (c *Coordinator) SetAllowed(allowed bool) {
	c.allowed.Store(allowed)
}

// Allowed reports whether interruption is currently allowed.
func (c *Coordinator) Allowed() bool {
	return c.allowed.Load()
}

func (c *Coordinator) lockFor(shellType shelltypes.ShellType) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[shellType]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[shellType] = lock
	}
	return lock
}

func (c *Coordinator) target() Target {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	return active()
}

// Cancel interrupts the active worker. It returns false when the request was
// vetoed: no busy frame, interruption not allowed, or a cancellation of the
// same shell type already in progress.
func (c *Coordinator) Cancel() bool {
	target := c.target()
	if target == nil || !target.Busy() {
		c.logger.Debug("Interrupt vetoed", "reason", "no active worker")
		return false
	}
	if !c.allowed.Load() {
		c.logger.Debug("Interrupt vetoed", "reason", "not allowed", "shell", target.ShellType())
		return false
	}

	lock := c.lockFor(target.ShellType())
	if !lock.TryLock() {
		c.logger.Debug("Interrupt vetoed", "reason", "already cancelling", "shell", target.ShellType())
		return false
	}
	defer lock.Unlock()

	target.SetRequested(true)
	defer target.SetRequested(false)

	if c.sink != nil {
		restore := c.sink.Swap(output.Discard())
		defer restore()
	}

	c.logger.Debug("Interrupting worker", "shell", target.ShellType(), "frame", target.Token())
	target.Interrupt()
	if !target.Wait(c.grace) {
		c.logger.Warn("Worker did not unwind in time", "shell", target.ShellType(), "frame", target.Token(), "grace", c.grace)
	}
	return true
}

// Listen calls Cancel on every os.Interrupt until ctx is done.
func (c *Coordinator) Listen(ctx context.Context) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	go func() {
		defer signal.Stop(signals)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				c.Cancel()
			}
		}
	}()
}
