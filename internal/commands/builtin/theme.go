package builtin

import (
	"context"

	"coreshell/pkg/shelltypes"
)

// ThemeCommand shows or selects the theme used by help -markdown.
type ThemeCommand struct {
	deps Deps
}

// Name returns the command name "theme" for registration and lookup.
func (c *ThemeCommand) Name() string {
	return "theme"
}

// Contract returns the command's registration contract.
func (c *ThemeCommand) Contract() *shelltypes.CommandContract {
	return &shelltypes.CommandContract{
		Name:    c.Name(),
		HelpKey: "cmd.theme",
		Arguments: []shelltypes.ArgumentContract{{
			Slots: []shelltypes.ArgumentSlot{{Expression: "theme", HelpKey: "cmd.theme.arg.name"}},
		}},
		Flags:   shelltypes.FlagWrappable,
		Command: c,
	}
}

// Execute selects the named theme, or lists the themes marking the active one.
func (c *ThemeCommand) Execute(_ context.Context, call *shelltypes.Call) error {
	if name := call.Invocation.Argument(0); name != "" {
		return c.deps.Session.SetTheme(name)
	}
	active := c.deps.Session.Theme()
	for _, theme := range c.deps.Session.Themes() {
		marker := "  "
		if theme == active {
			marker = "* "
		}
		call.Out.Println(marker + theme)
	}
	return nil
}
