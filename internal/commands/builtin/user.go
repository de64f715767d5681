package builtin

import (
	"context"
	"strings"

	"coreshell/pkg/shelltypes"
)

// SuCommand switches the current user.
type SuCommand struct {
	deps Deps
}

// Name returns the command name "su" for registration and lookup.
func (c *SuCommand) Name() string {
	return "su"
}

// Contract returns the command's registration contract.
func (c *SuCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.su",
		Arguments: []shelltypes.ArgumentContract{{
			Slots: []shelltypes.ArgumentSlot{{Expression: "user", Required: true, HelpKey: "cmd.su.arg.user"}},
		}},
		Flags:   shelltypes.FlagNoMaintenance,
		Command: c,
	}
}

// Execute makes the named user current.
func (c *SuCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	return c.deps.Session.SetUser(call.Invocation.Argument(0))
}

// GroupsCommand prints the groups of a user.
type GroupsCommand struct {
	deps Deps
}

// Name returns the command name "groups" for registration and lookup.
func (c *GroupsCommand) Name() string {
	return "groups"
}

// Contract returns the command's registration contract.
func (c *GroupsCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.groups",
		Arguments: []shelltypes.ArgumentContract{{
			Slots: []shelltypes.ArgumentSlot{{Expression: "user", HelpKey: "cmd.groups.arg.user"}},
		}},
		Flags:   shelltypes.FlagWrappable | shelltypes.FlagRedirectionSupported,
		Command: c,
	}
}

// Execute prints the groups of the named user, or of the current user.
func (c *GroupsCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	user := call.Invocation.Argument(0)
	if user == "" {
		user = c.deps.Session.User()
	}
	groups, err := c.deps.Session.Groups(user)
	if err != nil {
		return err
	}
	call.Out.Println(user + ": " + strings.Join(groups, " "))
	return nil
}

// MembersCommand prints the users in a group.
type MembersCommand struct {
	deps Deps
}

// Name returns the command name "members" for registration and lookup.
func (c *MembersCommand) Name() string {
	return "members"
}

// Contract returns the command's registration contract.
func (c *MembersCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.members",
		Arguments: []shelltypes.ArgumentContract{{
			Slots: []shelltypes.ArgumentSlot{{Expression: "group", Required: true, HelpKey: "cmd.members.arg.group"}},
		}},
		Flags:   shelltypes.FlagWrappable | shelltypes.FlagRedirectionSupported,
		Command: c,
	}
}

// Execute prints one member per line.
func (c *MembersCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	for _, member := range c.deps.Session.Members(call.Invocation.Argument(0)) {
		call.Out.Println(member)
	}
	return nil
}
