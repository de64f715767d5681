package execution

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreshell/internal/cancellation"
	"coreshell/internal/commands"
	"coreshell/internal/i18n"
	"coreshell/internal/output"
	"coreshell/pkg/shelltypes"
)

type fakeEnv struct {
	admin       bool
	maintenance bool
	dumb        bool
}

func (e *fakeEnv) IsAdmin() bool         { return e.admin }
func (e *fakeEnv) MaintenanceMode() bool { return e.maintenance }
func (e *fakeEnv) DumbTerminal() bool    { return e.dumb }

type dumbCommand struct{}

func (dumbCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	call.Out.Println("rich")
	return nil
}

func (dumbCommand) ExecuteDumb(_ context.Context, call *shelltypes.Call) error {
	call.Out.Println("plain")
	return nil
}

type harness struct {
	registry   *commands.Registry
	env        *fakeEnv
	dispatcher *Dispatcher
	buffer     *output.CaptureBuffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bundle, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	printer, buffer := output.NewCapturePrinter()
	sw := output.NewSwitch(printer)
	h := &harness{
		registry: commands.NewRegistry(),
		env:      &fakeEnv{},
		buffer:   buffer,
	}
	h.dispatcher = NewDispatcher(Options{
		Lookup:      h.registry,
		Environment: h.env,
		Texter:      bundle.NewLocalizer(""),
		Output:      sw,
		Coordinator: cancellation.NewCoordinator(sw, time.Second),
	})
	return h
}

func (h *harness) register(t *testing.T, shellType shelltypes.ShellType, contract *shelltypes.CommandContract) {
	t.Helper()
	if contract.HelpKey == "" {
		contract.HelpKey = "cmd.echo"
	}
	require.NoError(t, h.registry.Register(shelltypes.LayerBuiltin, shellType, contract))
}

func printArgs(_ context.Context, call *shelltypes.Call) error {
	for _, arg := range call.Invocation.Arguments {
		call.Out.Println(arg)
	}
	return nil
}

func TestDispatcher_SubmitRunsCommand(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{Name: "say", Command: shelltypes.CommandFunc(printArgs)})

	require.NoError(t, h.dispatcher.Submit(context.Background(), `say "a b" c`))
	assert.Equal(t, []string{"a b", "c"}, h.buffer.Lines())
	assert.False(t, h.dispatcher.Active().Busy())
}

func TestDispatcher_SubmitEmptyLine(t *testing.T) {
	h := newHarness(t)
	assert.NoError(t, h.dispatcher.Submit(context.Background(), "   "))
	assert.Empty(t, h.buffer.String())
}

func TestDispatcher_UnknownCommandSuggestsNames(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{Name: "hello", Command: shelltypes.CommandFunc(printArgs)})
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{Name: "help", Command: shelltypes.CommandFunc(printArgs)})

	err := h.dispatcher.Submit(context.Background(), "helo")

	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)
	assert.Equal(t, []string{"Unknown command: helo", "Did you mean: hello, help?"}, h.buffer.Lines())
}

func TestDispatcher_StrictAndMaintenanceRestrictions(t *testing.T) {
	h := newHarness(t)
	ran := 0
	body := shelltypes.CommandFunc(func(context.Context, *shelltypes.Call) error { ran++; return nil })
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{Name: "reboot", Flags: shelltypes.FlagStrict, Command: body})
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{Name: "deploy", Flags: shelltypes.FlagNoMaintenance, Command: body})

	err := h.dispatcher.Submit(context.Background(), "reboot")
	assert.ErrorIs(t, err, shelltypes.ErrNotPermitted)
	assert.Contains(t, h.buffer.String(), "reboot requires administrator privileges.")

	h.env.admin = true
	require.NoError(t, h.dispatcher.Submit(context.Background(), "reboot"))

	h.env.maintenance = true
	err = h.dispatcher.Submit(context.Background(), "deploy")
	assert.ErrorIs(t, err, shelltypes.ErrNotPermitted)
	assert.Contains(t, h.buffer.String(), "deploy is unavailable while maintenance mode is on.")

	assert.Equal(t, 1, ran)
}

func TestDispatcher_ObsoleteCommandStillRuns(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{Name: "old", Flags: shelltypes.FlagObsolete, Command: shelltypes.CommandFunc(printArgs)})

	require.NoError(t, h.dispatcher.Submit(context.Background(), "old x"))
	lines := h.buffer.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "old is obsolete")
	assert.Equal(t, "x", lines[1])
}

func TestDispatcher_ValidationFailureRendersUsage(t *testing.T) {
	h := newHarness(t)
	ran := false
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "copy",
		Arguments: []shelltypes.ArgumentContract{{
			Slots:    []shelltypes.ArgumentSlot{{Expression: "src", Required: true}},
			Switches: []shelltypes.SwitchDeclaration{{Name: "force"}},
		}},
		Command: shelltypes.CommandFunc(func(context.Context, *shelltypes.Call) error { ran = true; return nil }),
	})

	err := h.dispatcher.Submit(context.Background(), "copy -bogus")

	assert.False(t, ran)
	assert.ErrorIs(t, err, shelltypes.ErrMissingRequiredArguments)
	assert.ErrorIs(t, err, shelltypes.ErrUnknownSwitch)
	assert.Equal(t, []string{
		"Required arguments are not provided (need at least 1).",
		"Unknown switches: -bogus",
		"Usage:",
		"  copy [-force] <src>",
	}, h.buffer.Lines())
}

func TestDispatcher_ExecutionErrorIsReported(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name:    "fail",
		Command: shelltypes.CommandFunc(func(context.Context, *shelltypes.Call) error { return errors.New("boom") }),
	})

	err := h.dispatcher.Submit(context.Background(), "fail")

	var execErr *shelltypes.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "fail", execErr.Command)
	assert.Equal(t, []string{"Error type: *errors.errorString", "Error message: boom"}, h.buffer.Lines())
}

func TestDispatcher_PanicIsRecovered(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name:    "crash",
		Command: shelltypes.CommandFunc(func(context.Context, *shelltypes.Call) error { panic("kaboom") }),
	})

	err := h.dispatcher.Submit(context.Background(), "crash")

	var panicErr *shelltypes.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, []string{"Error type: panic", "Error message: kaboom"}, h.buffer.Lines())
	assert.False(t, h.dispatcher.Active().Busy())
}

func TestDispatcher_NestedDispatchUsesAlternateWorkers(t *testing.T) {
	h := newHarness(t)
	var depths []int
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "inner",
		Command: shelltypes.CommandFunc(func(_ context.Context, call *shelltypes.Call) error {
			depths = append(depths, h.dispatcher.Active().Depth())
			call.Out.Println("inner")
			return nil
		}),
	})
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "outer",
		Command: shelltypes.CommandFunc(func(ctx context.Context, call *shelltypes.Call) error {
			depths = append(depths, h.dispatcher.Active().Depth())
			if err := call.Host.Dispatch(ctx, "inner", nil); err != nil {
				return err
			}
			capture, buffer := output.NewCapturePrinter()
			if err := call.Host.Dispatch(ctx, "inner", capture); err != nil {
				return err
			}
			call.Out.Println("captured " + buffer.String())
			return nil
		}),
	})

	require.NoError(t, h.dispatcher.Submit(context.Background(), "outer"))
	assert.Equal(t, []int{1, 2, 2}, depths)
	assert.Equal(t, []string{"inner", "captured inner"}, h.buffer.Lines())
}

func TestDispatcher_NestedFailureIsReportedOnce(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "outer",
		Command: shelltypes.CommandFunc(func(ctx context.Context, call *shelltypes.Call) error {
			return call.Host.Dispatch(ctx, "missing", nil)
		}),
	})

	err := h.dispatcher.Submit(context.Background(), "outer")

	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)
	assert.Equal(t, []string{"Unknown command: missing"}, h.buffer.Lines())
}

func TestDispatcher_CancellationIsSwallowed(t *testing.T) {
	h := newHarness(t)
	started := make(chan struct{})
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "wait",
		Command: shelltypes.CommandFunc(func(ctx context.Context, call *shelltypes.Call) error {
			call.Cancel.AllowCancel()
			close(started)
			<-ctx.Done()
			call.Out.Println("unwinding")
			return ctx.Err()
		}),
	})

	result := make(chan error, 1)
	go func() { result <- h.dispatcher.Submit(context.Background(), "wait") }()
	<-started

	assert.True(t, h.dispatcher.Coordinator().Cancel())
	assert.ErrorIs(t, <-result, shelltypes.ErrCancelled)
	assert.Empty(t, h.buffer.String())
	assert.False(t, h.dispatcher.Coordinator().Allowed())
	assert.False(t, h.dispatcher.Active().Requested())
}

func TestDispatcher_NestedInhibitKeepsOuterWindow(t *testing.T) {
	h := newHarness(t)
	started := make(chan struct{})
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "nap",
		Command: shelltypes.CommandFunc(func(_ context.Context, call *shelltypes.Call) error {
			call.Cancel.AllowCancel()
			defer call.Cancel.InhibitCancel()
			return nil
		}),
	})
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "loop",
		Command: shelltypes.CommandFunc(func(ctx context.Context, call *shelltypes.Call) error {
			call.Cancel.AllowCancel()
			if err := call.Host.Dispatch(ctx, "nap", nil); err != nil {
				return err
			}
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}),
	})

	result := make(chan error, 1)
	go func() { result <- h.dispatcher.Submit(context.Background(), "loop") }()
	<-started

	assert.True(t, h.dispatcher.Coordinator().Allowed())
	assert.True(t, h.dispatcher.Coordinator().Cancel())
	assert.ErrorIs(t, <-result, shelltypes.ErrCancelled)
	assert.False(t, h.dispatcher.Coordinator().Allowed())
}

func TestDispatcher_NestedBodyInheritsClosedWindow(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "open",
		Command: shelltypes.CommandFunc(func(_ context.Context, call *shelltypes.Call) error {
			call.Cancel.AllowCancel()
			return nil
		}),
	})
	var after bool
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "guarded",
		Command: shelltypes.CommandFunc(func(ctx context.Context, call *shelltypes.Call) error {
			if err := call.Host.Dispatch(ctx, "open", nil); err != nil {
				return err
			}
			after = h.dispatcher.Coordinator().Allowed()
			return nil
		}),
	})

	require.NoError(t, h.dispatcher.Submit(context.Background(), "guarded"))
	assert.False(t, after)
}

func TestDispatcher_CancelWhileInhibitedIsNoop(t *testing.T) {
	h := newHarness(t)
	started := make(chan struct{})
	release := make(chan struct{})
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "busy",
		Command: shelltypes.CommandFunc(func(ctx context.Context, call *shelltypes.Call) error {
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
			call.Out.Println("finished")
			return nil
		}),
	})

	result := make(chan error, 1)
	go func() { result <- h.dispatcher.Submit(context.Background(), "busy") }()
	<-started

	frame := h.dispatcher.Active()
	assert.False(t, h.dispatcher.Coordinator().Cancel())
	assert.False(t, frame.Requested())
	assert.True(t, frame.Busy())

	close(release)
	assert.NoError(t, <-result)
	assert.Equal(t, []string{"finished"}, h.buffer.Lines())
}

func TestDispatcher_DumbTerminalUsesExecuteDumb(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{Name: "show", Command: dumbCommand{}})

	require.NoError(t, h.dispatcher.Submit(context.Background(), "show"))
	h.env.dumb = true
	require.NoError(t, h.dispatcher.Submit(context.Background(), "show"))

	assert.Equal(t, []string{"rich", "plain"}, h.buffer.Lines())
}

func TestDispatcher_ShellStack(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeAdmin, &shelltypes.CommandContract{Name: "audit", Command: shelltypes.CommandFunc(printArgs)})
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "admin",
		Command: shelltypes.CommandFunc(func(_ context.Context, call *shelltypes.Call) error {
			return call.Host.EnterShell(shelltypes.ShellTypeAdmin)
		}),
	})

	assert.ErrorIs(t, h.dispatcher.Submit(context.Background(), "audit"), shelltypes.ErrUnknownCommand)

	require.NoError(t, h.dispatcher.Submit(context.Background(), "admin"))
	assert.Equal(t, shelltypes.ShellTypeAdmin, h.dispatcher.ShellType())
	assert.Equal(t, 2, h.dispatcher.Depth())
	assert.NoError(t, h.dispatcher.Submit(context.Background(), "audit ok"))

	require.NoError(t, h.dispatcher.ExitShell())
	require.NoError(t, h.dispatcher.ExitShell())
	assert.True(t, h.dispatcher.Closed())
	assert.ErrorIs(t, h.dispatcher.Submit(context.Background(), "admin"), ErrNoShell)
	assert.ErrorIs(t, h.dispatcher.ExitShell(), ErrNoShell)
}

func TestSuggest_ClosestNames(t *testing.T) {
	names := []string{"help", "hello", "echo", "exit", "alias"}

	assert.Equal(t, []string{"hello", "help"}, Suggest("helo", names))
	assert.Equal(t, []string{"exit"}, Suggest("exti", names))
	assert.Nil(t, Suggest("zzzzzz", names))
	assert.Nil(t, Suggest("help", []string{"help"}))
}

func TestDispatcher_BodySentinelErrorIsRendered(t *testing.T) {
	h := newHarness(t)
	h.register(t, shelltypes.ShellTypeMain, &shelltypes.CommandContract{
		Name: "drop",
		Command: shelltypes.CommandFunc(func(context.Context, *shelltypes.Call) error {
			return fmt.Errorf("%w: alias x", shelltypes.ErrUnknownCommand)
		}),
	})

	err := h.dispatcher.Submit(context.Background(), "drop")

	assert.ErrorIs(t, err, shelltypes.ErrUnknownCommand)
	assert.Equal(t, []string{"Error type: *fmt.wrapError", "Error message: unknown command: alias x"}, h.buffer.Lines())
}
