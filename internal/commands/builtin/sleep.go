package builtin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coreshell/pkg/shelltypes"
)

// SleepCommand waits in an interruptible window.
type SleepCommand struct{}

// Name returns the command name "sleep" for registration and lookup.
func (c *SleepCommand) Name() string {
	return "sleep"
}

// Contract returns the command's registration contract.
func (c *SleepCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.sleep",
		Arguments: []shelltypes.ArgumentContract{{
			Slots: []shelltypes.ArgumentSlot{{Expression: "seconds", Required: true, HelpKey: "cmd.sleep.arg.seconds"}},
		}},
		Flags:   shelltypes.FlagWrappable,
		Command: c,
	}
}

// Execute sleeps for the given number of seconds.
func (c *SleepCommand) Execute(ctx context.Context, call *shelltypes.Call) error {
	seconds, err := strconv.ParseFloat(call.Invocation.Argument(0), 64)
	if err != nil || seconds < 0 {
		return fmt.Errorf("seconds must be a non-negative number, got %q", call.Invocation.Argument(0))
	}
	call.Cancel.AllowCancel()
	defer call.Cancel.InhibitCancel()
	return wait(ctx, time.Duration(seconds*float64(time.Second)))
}
