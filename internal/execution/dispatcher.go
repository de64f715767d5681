// Package execution runs parsed invocations on cancellable workers.
//
// The Dispatcher keeps a stack of shell frames. Every submitted line is
// parsed, resolved against the frame's shell type, checked for privilege and
// maintenance restrictions, validated, and then executed on a worker
// goroutine while the submitter blocks. A command body may dispatch further
// lines; those run on alternate workers of the same frame and finish before
// control returns to it.
//
// Every failure is rendered to the invocation's sink before it is returned,
// so callers only inspect the error to decide whether to continue.
package execution

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"coreshell/internal/cancellation"
	"coreshell/internal/help"
	"coreshell/internal/i18n"
	"coreshell/internal/logger"
	"coreshell/internal/output"
	"coreshell/internal/parser"
	"coreshell/internal/validation"
	"coreshell/pkg/shelltypes"
)

// ErrNoShell is returned when a line is submitted after the last frame exited.
var ErrNoShell = errors.New("no active shell")

// Options configures a Dispatcher.
type Options struct {
	Lookup      shelltypes.CommandLookup
	Environment shelltypes.Environment
	Texter      i18n.Texter
	// Output is the process-wide sink. Nil writes to stdout.
	Output *output.Switch
	// Coordinator is attached to the dispatcher. Nil creates one.
	Coordinator *cancellation.Coordinator
	// Initial is the shell type of the first frame. Empty selects ShellTypeMain.
	Initial shelltypes.ShellType
}

// Dispatcher executes command lines. It is safe for concurrent use, though
// lines submitted to one frame are serialized by their callers.
type Dispatcher struct {
	lookup      shelltypes.CommandLookup
	env         shelltypes.Environment
	texter      i18n.Texter
	out         *output.Switch
	coordinator *cancellation.Coordinator
	logger      *log.Logger

	mu     sync.RWMutex
	frames []*Frame
}

// NewDispatcher creates a dispatcher with one frame of opts.Initial.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.Output == nil {
		opts.Output = output.NewSwitch(output.NewPrinter())
	}
	if opts.Coordinator == nil {
		opts.Coordinator = cancellation.NewCoordinator(opts.Output, cancellation.DefaultGrace)
	}
	if opts.Initial == "" {
		opts.Initial = shelltypes.ShellTypeMain
	}

	d := &Dispatcher{
		lookup:      opts.Lookup,
		env:         opts.Environment,
		texter:      opts.Texter,
		out:         opts.Output,
		coordinator: opts.Coordinator,
		logger:      logger.NewStyledLogger("Dispatcher"),
		frames:      []*Frame{newFrame(opts.Initial)},
	}
	d.coordinator.Attach(d.activeTarget)
	return d
}

// Coordinator returns the attached cancellation coordinator.
func (d *Dispatcher) Coordinator() *cancellation.Coordinator {
	return d.coordinator
}

// Output returns the process-wide sink.
func (d *Dispatcher) Output() *output.Switch {
	return d.out
}

// Active returns the top frame, or nil once every frame has exited.
func (d *Dispatcher) Active() *Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

func (d *Dispatcher) activeTarget() cancellation.Target {
	if frame := d.Active(); frame != nil {
		return frame
	}
	return nil
}

// ShellType returns the shell type of the top frame.
func (d *Dispatcher) ShellType() shelltypes.ShellType {
	if frame := d.Active(); frame != nil {
		return frame.ShellType()
	}
	return ""
}

// Depth returns the number of frames on the shell stack.
func (d *Dispatcher) Depth() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.frames)
}

// Closed reports whether the last frame has exited.
func (d *Dispatcher) Closed() bool {
	return d.Depth() == 0
}

// EnterShell pushes a frame of shellType.
func (d *Dispatcher) EnterShell(shellType shelltypes.ShellType) error {
	if shellType == "" {
		return fmt.Errorf("shell type cannot be empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, newFrame(shellType))
	d.logger.Debug("Entered shell", "shell", shellType, "depth", len(d.frames))
	return nil
}

// ExitShell pops the top frame.
func (d *Dispatcher) ExitShell() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return ErrNoShell
	}
	top := d.frames[len(d.frames)-1]
	d.frames = d.frames[:len(d.frames)-1]
	d.logger.Debug("Exited shell", "shell", top.ShellType(), "depth", len(d.frames))
	return nil
}

// Submit runs line on the top frame and writes to the process-wide sink.
// Cancelled invocations return shelltypes.ErrCancelled without any output.
func (d *Dispatcher) Submit(ctx context.Context, line string) error {
	frame := d.Active()
	if frame == nil {
		return ErrNoShell
	}
	return d.run(ctx, frame, line, d.out)
}

func (d *Dispatcher) run(ctx context.Context, frame *Frame, line string, out shelltypes.Sink) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	inv := parser.Parse(line)
	contract, err := d.lookup.Resolve(inv.Command, frame.ShellType())
	if err != nil {
		d.reportUnknown(out, inv.Command, frame.ShellType())
		return reported(fmt.Errorf("%w: %s", shelltypes.ErrUnknownCommand, inv.Command))
	}

	if err := d.permitted(out, contract); err != nil {
		return err
	}
	if contract.Flags.Has(shelltypes.FlagObsolete) {
		output.WriteSemantic(out, output.SemanticWarning, d.texter.Text("engine.obsolete", contract.Name))
	}

	inv.Verdicts = validation.Validate(inv, contract)
	if !inv.Verdicts.OK() {
		for _, problem := range validation.Problems(inv.Verdicts) {
			output.WriteSemantic(out, output.SemanticError, problem)
		}
		help.WriteUsage(out, contract, d.texter)
		return reported(fmt.Errorf("%s: %w", contract.Name, errors.Join(validation.Errors(inv.Verdicts)...)))
	}

	return d.execute(ctx, frame, inv, contract, out)
}

// permitted refuses strict commands for non-administrators and no-maintenance
// commands while maintenance mode is on.
func (d *Dispatcher) permitted(out shelltypes.Sink, contract *shelltypes.CommandContract) error {
	var key string
	switch {
	case contract.Flags.Has(shelltypes.FlagStrict) && !d.env.IsAdmin():
		key = "engine.not_permitted.strict"
	case contract.Flags.Has(shelltypes.FlagNoMaintenance) && d.env.MaintenanceMode():
		key = "engine.not_permitted.maintenance"
	default:
		return nil
	}
	message := d.texter.Text(key, contract.Name)
	output.WriteSemantic(out, output.SemanticError, message)
	return reported(fmt.Errorf("%w: %s", shelltypes.ErrNotPermitted, message))
}

func (d *Dispatcher) reportUnknown(out shelltypes.Sink, name string, shellType shelltypes.ShellType) {
	output.WriteSemantic(out, output.SemanticError, d.texter.Text("engine.unknown_command", name))
	if suggestions := Suggest(name, d.lookup.Names(shellType)); len(suggestions) > 0 {
		out.Println(d.texter.Text("engine.did_you_mean", strings.Join(suggestions, ", ")))
	}
}

func (d *Dispatcher) execute(ctx context.Context, frame *Frame, inv *shelltypes.ParsedInvocation, contract *shelltypes.CommandContract, out shelltypes.Sink) error {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := &worker{
		id:      uuid.NewString(),
		command: contract.Name,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	primary := frame.push(w)
	defer frame.pop(w)
	if primary {
		d.coordinator.InhibitCancel()
		defer d.coordinator.InhibitCancel()
	} else {
		// An alternate worker hands the window back as its pusher left it.
		allowed := d.coordinator.Allowed()
		defer d.coordinator.SetAllowed(allowed)
	}

	call := &shelltypes.Call{
		Invocation: inv,
		Contract:   contract,
		Out:        out,
		Cancel:     &cancelToken{coordinator: d.coordinator, frame: frame},
		Host:       &callHost{dispatcher: d, frame: frame, out: out},
	}

	logger.CommandExecution(contract.Name, inv.Arguments)
	d.logger.Debug("Worker started", "command", contract.Name, "shell", frame.ShellType(), "depth", frame.Depth(), "worker", w.id)

	result := make(chan error, 1)
	go func() {
		defer close(w.done)
		defer func() {
			if r := recover(); r != nil {
				result <- &shelltypes.PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		result <- d.invoke(workerCtx, call)
	}()

	err := <-result
	interrupted := workerCtx.Err() != nil
	return d.classify(contract.Name, err, interrupted, out)
}

// invoke selects ExecuteDumb on reduced-capability terminals when available.
func (d *Dispatcher) invoke(ctx context.Context, call *shelltypes.Call) error {
	if d.env.DumbTerminal() {
		if dumb, ok := call.Contract.Command.(shelltypes.DumbExecutor); ok {
			return dumb.ExecuteDumb(ctx, call)
		}
	}
	return call.Contract.Command.Execute(ctx, call)
}

// classify maps a worker result to the value returned to the submitter.
// Errors raised while the worker was being interrupted are expected teardown.
func (d *Dispatcher) classify(name string, err error, interrupted bool, out shelltypes.Sink) error {
	if err == nil {
		return nil
	}

	var panicErr *shelltypes.PanicError
	isPanic := errors.As(err, &panicErr)
	if !isPanic && (interrupted || errors.Is(err, shelltypes.ErrCancelled)) {
		d.logger.Debug("Command cancelled", "command", name, "error", err)
		return shelltypes.ErrCancelled
	}

	if alreadyReported(err) {
		return &shelltypes.ExecutionError{Command: name, Err: err}
	}

	execErr := &shelltypes.ExecutionError{Command: name, Err: err}
	if isPanic {
		d.logger.Error("Command panicked", "command", name, "type", execErr.Category(), "error", err, "stack", string(panicErr.Stack))
	} else {
		d.logger.Error("Command failed", "command", name, "type", execErr.Category(), "error", err)
	}
	output.WriteSemantic(out, output.SemanticError, d.texter.Text("engine.error_type", execErr.Category()))
	output.WriteSemantic(out, output.SemanticError, d.texter.Text("engine.error_message", err.Error()))
	return execErr
}

// reportedError marks a failure already rendered by run. A body that returns
// one from a nested dispatch must not have it rendered a second time.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

func reported(err error) error {
	return &reportedError{err: err}
}

func alreadyReported(err error) bool {
	var inner *shelltypes.ExecutionError
	var rendered *reportedError
	return errors.As(err, &inner) || errors.As(err, &rendered)
}
