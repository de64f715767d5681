package builtin

import (
	"context"

	"coreshell/pkg/shelltypes"
)

// AliasCommand creates aliases or lists them.
type AliasCommand struct {
	deps Deps
}

// Name returns the command name "alias" for registration and lookup.
func (c *AliasCommand) Name() string {
	return "alias"
}

// Contract returns the command's registration contract.
func (c *AliasCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.alias",
		Arguments: []shelltypes.ArgumentContract{
			{Slots: []shelltypes.ArgumentSlot{
				{Expression: "name", Required: true, HelpKey: "cmd.alias.arg.name"},
				{Expression: "command", Required: true, HelpKey: "cmd.alias.arg.target"},
			}},
			{Switches: []shelltypes.SwitchDeclaration{{Name: "list", Required: true, HelpKey: "cmd.alias.sw.list"}}},
		},
		Command: c,
	}
}

// Execute adds name -> target, or prints the alias table with -list.
func (c *AliasCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	shellType := call.Host.ShellType()
	if call.Invocation.HasSwitch("list") {
		if c.deps.Registry == nil {
			return nil
		}
		aliases := c.deps.Registry.Aliases(shellType)
		for _, alias := range sortedKeys(aliases) {
			call.Out.Printf("%s -> %s\n", alias, aliases[alias])
		}
		return nil
	}
	return call.Host.Lookup().AddAlias(shellType, call.Invocation.Argument(0), call.Invocation.Argument(1))
}

// UnaliasCommand removes an alias.
type UnaliasCommand struct{}

// Name returns the command name "unalias" for registration and lookup.
func (c *UnaliasCommand) Name() string {
	return "unalias"
}

// Contract returns the command's registration contract.
func (c *UnaliasCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.unalias",
		Arguments: []shelltypes.ArgumentContract{{
			Slots: []shelltypes.ArgumentSlot{{Expression: "alias", Required: true, HelpKey: "cmd.unalias.arg.name"}},
		}},
		Command: c,
	}
}

// Execute removes the alias named by the first argument.
func (c *UnaliasCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	return call.Host.Lookup().RemoveAlias(call.Host.ShellType(), call.Invocation.Argument(0))
}
