package builtin

import (
	"context"

	"coreshell/pkg/shelltypes"
)

// ModsCommand lists or reloads mods.
type ModsCommand struct {
	deps Deps
}

// Name returns the command name "mods" for registration and lookup.
func (c *ModsCommand) Name() string {
	return "mods"
}

// Contract returns the command's registration contract.
func (c *ModsCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.mods",
		Arguments: []shelltypes.ArgumentContract{{
			Switches: []shelltypes.SwitchDeclaration{{Name: "reload", HelpKey: "cmd.mods.sw.reload"}},
		}},
		Flags:   shelltypes.FlagStrict,
		Command: c,
	}
}

// Execute reloads when asked, then prints one loaded mod per line.
// A partial reload still lists the mods that loaded.
func (c *ModsCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	var err error
	if call.Invocation.HasSwitch("reload") {
		err = c.deps.Mods.Reload()
	}
	for _, name := range c.deps.Mods.Names() {
		call.Out.Println(name)
	}
	return err
}
