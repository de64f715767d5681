package builtin

import (
	"context"
	"strings"

	"coreshell/internal/help"
	"coreshell/pkg/shelltypes"
)

// HelpCommand implements help for the current shell type.
type HelpCommand struct {
	deps Deps
}

// Name returns the command name "help" for registration and lookup.
func (c *HelpCommand) Name() string {
	return "help"
}

// Contract returns the command's registration contract.
func (c *HelpCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.help",
		Arguments: []shelltypes.ArgumentContract{{
			Slots:    []shelltypes.ArgumentSlot{{Expression: "command", HelpKey: "cmd.help.arg.command"}},
			Switches: []shelltypes.SwitchDeclaration{{Name: "markdown", HelpKey: "cmd.help.sw.markdown"}},
		}},
		Flags:   shelltypes.FlagWrappable | shelltypes.FlagRedirectionSupported,
		Command: c,
	}
}

// Execute lists the commands, or describes the one named by the first argument.
func (c *HelpCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	return c.run(call, call.Invocation.HasSwitch("markdown"))
}

// ExecuteDumb ignores -markdown.
func (c *HelpCommand) ExecuteDumb(_ context.Context, call *shelltypes.Call) error {
	return c.run(call, false)
}

func (c *HelpCommand) run(call *shelltypes.Call, markdown bool) error {
	texter := c.deps.Texter
	name := call.Invocation.Argument(0)
	if name == "" {
		for _, contract := range call.Host.Lookup().List(call.Host.ShellType()) {
			call.Out.Println(help.Summary(contract, "", texter))
		}
		call.Out.Println(texter.Text("help.hint"))
		return nil
	}

	contract, err := call.Host.Lookup().Resolve(name, call.Host.ShellType())
	if err != nil {
		call.Out.Println(texter.Text("help.no_command", name))
		return nil
	}

	if markdown {
		theme := ""
		if c.deps.Session != nil {
			theme = c.deps.Session.Theme()
		}
		call.Out.Print(help.NewRenderer(theme, 80).Render(contract, texter))
		return nil
	}
	help.Write(call.Out, contract, texter)
	return nil
}

// HelpHelper lists the themes usable with -markdown.
func (c *HelpCommand) HelpHelper(out shelltypes.Sink) {
	if c.deps.Session == nil {
		return
	}
	out.Println("Themes: " + strings.Join(c.deps.Session.Themes(), ", "))
}
