package builtin

import (
	"context"
	"strings"

	"coreshell/pkg/shelltypes"
)

// EchoCommand prints its arguments separated by single spaces.
type EchoCommand struct{}

// Name returns the command name "echo" for registration and lookup.
func (c *EchoCommand) Name() string {
	return "echo"
}

// Contract returns the command's registration contract.
func (c *EchoCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.echo",
		Arguments: []shelltypes.ArgumentContract{{
			Slots:    []shelltypes.ArgumentSlot{{Expression: "text", HelpKey: "cmd.echo.arg.text"}},
			Switches: []shelltypes.SwitchDeclaration{{Name: "n", HelpKey: "cmd.echo.sw.n"}},
		}},
		Flags:   shelltypes.FlagWrappable | shelltypes.FlagRedirectionSupported,
		Command: c,
	}
}

// Execute prints the arguments; -n omits the trailing newline.
func (c *EchoCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	text := strings.Join(call.Invocation.Arguments, " ")
	if call.Invocation.HasSwitch("n") {
		call.Out.Print(text)
		return nil
	}
	call.Out.Println(text)
	return nil
}
