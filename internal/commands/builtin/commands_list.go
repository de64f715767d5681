package builtin

import (
	"context"

	"coreshell/internal/help"
	"coreshell/pkg/shelltypes"
)

// CommandsCommand lists the commands of the current shell type.
type CommandsCommand struct {
	deps Deps
}

// Name returns the command name "commands" for registration and lookup.
func (c *CommandsCommand) Name() string {
	return "commands"
}

// Contract returns the command's registration contract.
func (c *CommandsCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.commands",
		Arguments: []shelltypes.ArgumentContract{{
			Switches: []shelltypes.SwitchDeclaration{{Name: "layers", HelpKey: "cmd.commands.sw.layers"}},
		}},
		Flags:   shelltypes.FlagWrappable | shelltypes.FlagRedirectionSupported,
		Command: c,
	}
}

// Execute prints one line per command. With -layers each line names the
// registry layer and aliases are listed last.
func (c *CommandsCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	shellType := call.Host.ShellType()
	if !call.Invocation.HasSwitch("layers") || c.deps.Registry == nil {
		for _, contract := range call.Host.Lookup().List(shellType) {
			call.Out.Println(help.Summary(contract, "", c.deps.Texter))
		}
		return nil
	}

	reg := c.deps.Registry
	for _, layer := range shelltypes.Layers {
		for _, name := range reg.ListLayer(layer, shellType) {
			contract, err := reg.Resolve(name, shellType)
			if err != nil {
				continue
			}
			call.Out.Println(help.Summary(contract, layer.String(), c.deps.Texter))
		}
	}
	aliases := reg.Aliases(shellType)
	for _, alias := range sortedKeys(aliases) {
		call.Out.Printf("%s -> %s\n", alias, aliases[alias])
	}
	return nil
}
