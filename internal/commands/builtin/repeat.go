package builtin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coreshell/internal/parser"
	"coreshell/pkg/shelltypes"
)

// RepeatCommand runs a command line several times through nested dispatch.
type RepeatCommand struct{}

// Name returns the command name "repeat" for registration and lookup.
func (c *RepeatCommand) Name() string {
	return "repeat"
}

// Contract returns the command's registration contract.
func (c *RepeatCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.repeat",
		Arguments: []shelltypes.ArgumentContract{{
			Slots: []shelltypes.ArgumentSlot{
				{Expression: "times", Required: true, HelpKey: "cmd.repeat.arg.times"},
				{Expression: "command", Required: true, HelpKey: "cmd.repeat.arg.command"},
			},
			Switches: []shelltypes.SwitchDeclaration{{Name: "delay", ValueRequired: true, HelpKey: "cmd.repeat.sw.delay"}},
		}},
		Flags:   shelltypes.FlagWrappable,
		Command: c,
	}
}

// Execute dispatches the command line times times, stopping at the first error.
// Quote the command line when it has switches of its own.
func (c *RepeatCommand) Execute(ctx context.Context, call *shelltypes.Call) error {
	times, err := strconv.Atoi(call.Invocation.Argument(0))
	if err != nil || times < 1 {
		return fmt.Errorf("times must be a positive integer, got %q", call.Invocation.Argument(0))
	}
	var delay time.Duration
	if value, ok := call.Invocation.SwitchValue("delay"); ok {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil || seconds < 0 {
			return fmt.Errorf("delay must be a non-negative number of seconds, got %q", value)
		}
		delay = time.Duration(seconds * float64(time.Second))
	}
	line := parser.JoinCommand(call.Invocation.Argument(1), call.Invocation.Arguments[2:])

	call.Cancel.AllowCancel()
	for i := 0; i < times; i++ {
		if i > 0 && delay > 0 {
			if err := wait(ctx, delay); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := call.Host.Dispatch(ctx, line, nil); err != nil {
			return err
		}
	}
	return nil
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
