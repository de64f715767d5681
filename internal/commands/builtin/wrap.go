package builtin

import (
	"context"
	"fmt"

	"coreshell/internal/output"
	"coreshell/internal/parser"
	"coreshell/pkg/shelltypes"
)

// WrapCommand runs a wrappable command and prints its captured output under
// a header.
type WrapCommand struct{}

// Name returns the command name "wrap" for registration and lookup.
func (c *WrapCommand) Name() string {
	return "wrap"
}

// Contract returns the command's registration contract.
func (c *WrapCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.wrap",
		Arguments: []shelltypes.ArgumentContract{{
			Slots:    []shelltypes.ArgumentSlot{{Expression: "command", Required: true, HelpKey: "cmd.wrap.arg.command"}},
			Switches: []shelltypes.SwitchDeclaration{{Name: "title", ValueRequired: true, HelpKey: "cmd.wrap.sw.title"}},
		}},
		Command: c,
	}
}

// Execute refuses commands without the wrappable flag.
func (c *WrapCommand) Execute(ctx context.Context, call *shelltypes.Call) error {
	line := parser.JoinCommand(call.Invocation.Argument(0), call.Invocation.Arguments[1:])
	name, _ := parser.SplitCommand(line)
	target, err := call.Host.Lookup().Resolve(name, call.Host.ShellType())
	if err != nil {
		return err
	}
	if !target.Flags.Has(shelltypes.FlagWrappable) {
		return fmt.Errorf("%s cannot be wrapped", target.Name)
	}

	capture, buffer := output.NewCapturePrinter()
	call.Cancel.AllowCancel()
	dispatchErr := call.Host.Dispatch(ctx, line, capture)

	title, ok := call.Invocation.SwitchValue("title")
	if !ok || title == "" {
		title = line
	}
	call.Out.Println("== " + title + " ==")
	for _, captured := range buffer.Lines() {
		call.Out.Println("| " + captured)
	}
	return dispatchErr
}
