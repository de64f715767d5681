package builtin

import (
	"context"

	"coreshell/internal/version"
	"coreshell/pkg/shelltypes"
)

// VersionCommand prints the engine version.
type VersionCommand struct{}

// Name returns the command name "version" for registration and lookup.
func (c *VersionCommand) Name() string {
	return "version"
}

// Contract returns the command's registration contract.
func (c *VersionCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.version",
		Arguments: []shelltypes.ArgumentContract{{
			Switches: []shelltypes.SwitchDeclaration{{Name: "detailed", HelpKey: "cmd.version.sw.detailed"}},
		}},
		Flags:   shelltypes.FlagWrappable | shelltypes.FlagRedirectionSupported,
		Command: c,
	}
}

// Execute prints the one-line version, or every build attribute with -detailed.
func (c *VersionCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	if !call.Invocation.HasSwitch("detailed") {
		call.Out.Println(version.GetFormattedVersion())
		return nil
	}
	for _, line := range version.GetDetailedVersion() {
		call.Out.Println(line)
	}
	return nil
}
