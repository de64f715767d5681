package builtin

import (
	"context"

	"coreshell/pkg/shelltypes"
)

// ExitCommand leaves the current shell. Leaving the last shell ends the session.
type ExitCommand struct{}

// Name returns the command name "exit" for registration and lookup.
func (c *ExitCommand) Name() string {
	return "exit"
}

// Contract returns the command's registration contract.
func (c *ExitCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.exit",
		Command: c,
	}
}

// Execute pops the current shell frame.
func (c *ExitCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	return call.Host.ExitShell()
}
