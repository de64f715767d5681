// Package addons holds optional command sets registered in the addon layer.
package addons

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coreshell/internal/commands"
	"coreshell/internal/testutils"
	"coreshell/pkg/shelltypes"
)

// MaxUUIDs caps uuidgen -count.
const MaxUUIDs = 100

// Toolbox returns the contracts of the toolbox addon. In test mode uuidgen
// prints a deterministic sequence.
func Toolbox(testMode bool) []*shelltypes.CommandContract {
	return []*shelltypes.CommandContract{
		(&UUIDGenCommand{TestMode: testMode}).Contract(),
		(&CountdownCommand{Tick: time.Second}).Contract(),
	}
}

// Register adds the toolbox addon to the main shell.
func Register(registry *commands.Registry, testMode bool) error {
	return registry.RegisterMany(shelltypes.LayerAddon, shelltypes.ShellTypeMain, Toolbox(testMode))
}

// UUIDGenCommand prints random version 4 UUIDs.
type UUIDGenCommand struct {
	TestMode bool
}

// Name returns the command name "uuidgen" for registration and lookup.
func (c *UUIDGenCommand) Name() string {
	return "uuidgen"
}

// Contract returns the command's registration contract.
func (c *UUIDGenCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.uuidgen",
		Arguments: []shelltypes.ArgumentContract{{
			Switches: []shelltypes.SwitchDeclaration{{Name: "count", ValueRequired: true, HelpKey: "cmd.uuidgen.sw.count"}},
		}},
		Flags:   shelltypes.FlagWrappable | shelltypes.FlagRedirectionSupported,
		Command: c,
	}
}

// Execute prints one UUID, or -count of them.
func (c *UUIDGenCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	count := 1
	if value, ok := call.Invocation.SwitchValue("count"); ok {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > MaxUUIDs {
			return fmt.Errorf("count must be between 1 and %d, got %q", MaxUUIDs, value)
		}
		count = n
	}
	for i := 0; i < count; i++ {
		call.Out.Println(testutils.GenerateUUID(c.TestMode))
	}
	return nil
}

// CountdownCommand prints a decreasing counter, one line per tick.
type CountdownCommand struct {
	Tick time.Duration
}

// Name returns the command name "countdown" for registration and lookup.
func (c *CountdownCommand) Name() string {
	return "countdown"
}

// Contract returns the command's registration contract.
func (c *CountdownCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.countdown",
		Arguments: []shelltypes.ArgumentContract{{
			Slots: []shelltypes.ArgumentSlot{{Expression: "seconds", Required: true, HelpKey: "cmd.countdown.arg.seconds"}},
		}},
		Flags:   shelltypes.FlagWrappable,
		Command: c,
	}
}

// Execute counts from the argument down to zero. Interruptible between ticks.
func (c *CountdownCommand) Execute(ctx context.Context, call *shelltypes.Call) error {
	from, err := strconv.Atoi(call.Invocation.Argument(0))
	if err != nil || from < 0 {
		return fmt.Errorf("seconds must be a non-negative integer, got %q", call.Invocation.Argument(0))
	}

	call.Cancel.AllowCancel()
	defer call.Cancel.InhibitCancel()

	ticker := time.NewTicker(c.Tick)
	defer ticker.Stop()
	for n := from; n > 0; n-- {
		call.Out.Println(strconv.Itoa(n))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	call.Out.Println("0")
	return nil
}
