// Package builtin provides the commands shipped with every coreshell build.
//
// Unified commands are shared by every shell type. The main shell adds user,
// alias and meta commands; the admin shell adds privileged commands. Nothing
// registers itself: the shell assembly calls Register with its registry.
package builtin

import (
	"errors"
	"sort"

	"coreshell/internal/commands"
	"coreshell/internal/i18n"
	"coreshell/internal/session"
	"coreshell/pkg/shelltypes"
)

// ModManager is the mod loader surface used by the mods command.
type ModManager interface {
	Names() []string
	Reload() error
}

// Deps are the collaborators built-in commands need.
type Deps struct {
	Registry *commands.Registry
	Session  *session.Session
	Texter   i18n.Texter
	// Mods is optional. Without it the mods command is not registered.
	Mods ModManager
}

// Unified returns the contracts registered in the unified layer.
func Unified(deps Deps) []*shelltypes.CommandContract {
	return []*shelltypes.CommandContract{
		(&HelpCommand{deps: deps}).Contract(),
		(&CommandsCommand{deps: deps}).Contract(),
		(&VersionCommand{}).Contract(),
		(&EchoCommand{}).Contract(),
		(&ExitCommand{}).Contract(),
	}
}

// Main returns the built-in contracts of the main shell.
func Main(deps Deps) []*shelltypes.CommandContract {
	return []*shelltypes.CommandContract{
		(&AliasCommand{deps: deps}).Contract(),
		(&UnaliasCommand{}).Contract(),
		(&RepeatCommand{}).Contract(),
		(&WrapCommand{}).Contract(),
		(&SleepCommand{}).Contract(),
		(&SuCommand{deps: deps}).Contract(),
		(&GroupsCommand{deps: deps}).Contract(),
		(&ThemeCommand{deps: deps}).Contract(),
		(&AdminCommand{}).Contract(),
	}
}

// Admin returns the built-in contracts of the admin shell.
func Admin(deps Deps) []*shelltypes.CommandContract {
	contracts := []*shelltypes.CommandContract{
		(&MaintenanceCommand{deps: deps}).Contract(),
		(&MembersCommand{deps: deps}).Contract(),
		(&SuCommand{deps: deps}).Contract(),
		(&GroupsCommand{deps: deps}).Contract(),
	}
	if deps.Mods != nil {
		contracts = append(contracts, (&ModsCommand{deps: deps}).Contract())
	}
	return contracts
}

// Register adds every built-in command to deps.Registry. Failures are
// collected; successfully registered commands stay registered.
func Register(deps Deps) error {
	reg := deps.Registry
	return errors.Join(
		reg.RegisterMany(shelltypes.LayerUnified, shelltypes.ShellTypeMain, Unified(deps)),
		reg.RegisterMany(shelltypes.LayerBuiltin, shelltypes.ShellTypeMain, Main(deps)),
		reg.RegisterMany(shelltypes.LayerBuiltin, shelltypes.ShellTypeAdmin, Admin(deps)),
	)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
