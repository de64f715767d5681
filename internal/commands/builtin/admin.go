package builtin

import (
	"context"

	"coreshell/pkg/shelltypes"
)

// AdminCommand enters the admin shell.
type AdminCommand struct{}

// Name returns the command name "admin" for registration and lookup.
func (c *AdminCommand) Name() string {
	return "admin"
}

// Contract returns the command's registration contract.
func (c *AdminCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.admin",
		Command: c,
	}
}

// Execute pushes an admin frame.
func (c *AdminCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	return call.Host.EnterShell(shelltypes.ShellTypeAdmin)
}

// MaintenanceCommand shows or toggles maintenance mode.
type MaintenanceCommand struct {
	deps Deps
}

// Name returns the command name "maintenance" for registration and lookup.
func (c *MaintenanceCommand) Name() string {
	return "maintenance"
}

// Contract returns the command's registration contract.
func (c *MaintenanceCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.maintenance",
		Arguments: []shelltypes.ArgumentContract{{
			Switches: []shelltypes.SwitchDeclaration{
				{Name: "on", Conflicts: []string{"off"}, HelpKey: "cmd.maintenance.sw.on"},
				{Name: "off", Conflicts: []string{"on"}, HelpKey: "cmd.maintenance.sw.off"},
			},
		}},
		Flags:   shelltypes.FlagStrict,
		Command: c,
	}
}

// Execute applies -on or -off, then prints the resulting state.
func (c *MaintenanceCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	switch {
	case call.Invocation.HasSwitch("on"):
		c.deps.Session.SetMaintenance(true)
	case call.Invocation.HasSwitch("off"):
		c.deps.Session.SetMaintenance(false)
	}
	if c.deps.Session.MaintenanceMode() {
		call.Out.Println("maintenance: on")
	} else {
		call.Out.Println("maintenance: off")
	}
	return nil
}
