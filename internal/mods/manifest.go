// Package mods loads script commands declared in YAML manifests and registers
// them in the mod layer.
//
// A manifest names the mod, its version and the engine versions it supports,
// then declares commands. Each command body is a list of shell lines run
// through nested dispatch after argument substitution.
package mods

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"coreshell/internal/version"
	"coreshell/pkg/shelltypes"
)

var (
	// ErrInvalidManifest is returned for manifests that fail validation.
	ErrInvalidManifest = errors.New("invalid mod manifest")
	// ErrIncompatible is returned when the engine version fails the manifest constraint.
	ErrIncompatible = errors.New("mod is incompatible with this engine version")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Manifest is the top-level document of a mod file.
type Manifest struct {
	Name        string        `yaml:"name"`
	Version     string        `yaml:"version"`
	Engine      string        `yaml:"engine"`
	Description string        `yaml:"description"`
	Commands    []CommandSpec `yaml:"commands"`
}

// CommandSpec declares one script command.
type CommandSpec struct {
	Name string `yaml:"name"`
	// Shell is the shell type the command registers in. Empty means the main shell.
	Shell     string      `yaml:"shell"`
	Help      string      `yaml:"help"`
	Flags     []string    `yaml:"flags"`
	Arguments []EntrySpec `yaml:"arguments"`
	Run       []string    `yaml:"run"`
}

// EntrySpec is one accepted argument form.
type EntrySpec struct {
	Slots    []SlotSpec   `yaml:"slots"`
	Switches []SwitchSpec `yaml:"switches"`
}

// SlotSpec declares a positional argument.
type SlotSpec struct {
	Name     string `yaml:"name"`
	Required bool   `yaml:"required"`
	Help     string `yaml:"help"`
}

// SwitchSpec declares a switch. Value is "", "required" or "optional".
type SwitchSpec struct {
	Name      string   `yaml:"name"`
	Required  bool     `yaml:"required"`
	Value     string   `yaml:"value"`
	Conflicts []string `yaml:"conflicts"`
	Offset    int      `yaml:"offset"`
	Help      string   `yaml:"help"`
}

var flagNames = map[string]shelltypes.CommandFlags{
	"strict":         shelltypes.FlagStrict,
	"no-maintenance": shelltypes.FlagNoMaintenance,
	"obsolete":       shelltypes.FlagObsolete,
	"redirection":    shelltypes.FlagRedirectionSupported,
	"wrappable":      shelltypes.FlagWrappable,
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks names, versions and command declarations.
func (m *Manifest) Validate() error {
	if !identifier.MatchString(m.Name) {
		return fmt.Errorf("%w: bad mod name %q", ErrInvalidManifest, m.Name)
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("%w: %s: bad version %q: %v", ErrInvalidManifest, m.Name, m.Version, err)
	}
	if len(m.Commands) == 0 {
		return fmt.Errorf("%w: %s declares no commands", ErrInvalidManifest, m.Name)
	}

	seen := make(map[string]bool)
	for _, cmd := range m.Commands {
		if !identifier.MatchString(cmd.Name) {
			return fmt.Errorf("%w: %s: bad command name %q", ErrInvalidManifest, m.Name, cmd.Name)
		}
		key := string(cmd.shellType()) + "/" + cmd.Name
		if seen[key] {
			return fmt.Errorf("%w: %s: command %s declared twice", ErrInvalidManifest, m.Name, cmd.Name)
		}
		seen[key] = true
		if len(cmd.Run) == 0 {
			return fmt.Errorf("%w: %s: command %s has an empty run script", ErrInvalidManifest, m.Name, cmd.Name)
		}
		if _, err := cmd.flags(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidManifest, m.Name, err)
		}
		for _, entry := range cmd.Arguments {
			for _, sw := range entry.Switches {
				if !identifier.MatchString(sw.Name) {
					return fmt.Errorf("%w: %s: %s: bad switch name %q", ErrInvalidManifest, m.Name, cmd.Name, sw.Name)
				}
				if sw.Value != "" && sw.Value != "required" && sw.Value != "optional" {
					return fmt.Errorf("%w: %s: %s: switch -%s has unknown value mode %q", ErrInvalidManifest, m.Name, cmd.Name, sw.Name, sw.Value)
				}
			}
		}
	}
	return nil
}

// CheckEngine reports whether the running engine satisfies the manifest's constraint.
func (m *Manifest) CheckEngine() error {
	ok, err := version.Satisfies(m.Engine)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidManifest, m.Name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s requires %s, running %s", ErrIncompatible, m.Name, m.Engine, version.GetBaseVersion())
	}
	return nil
}

func (c CommandSpec) shellType() shelltypes.ShellType {
	if c.Shell == "" {
		return shelltypes.ShellTypeMain
	}
	return shelltypes.ShellType(c.Shell)
}

func (c CommandSpec) flags() (shelltypes.CommandFlags, error) {
	var flags shelltypes.CommandFlags
	for _, name := range c.Flags {
		flag, ok := flagNames[name]
		if !ok {
			return 0, fmt.Errorf("%s: unknown flag %q", c.Name, name)
		}
		flags |= flag
	}
	return flags, nil
}

// helpKey returns the message key of a command, or of one of its parts.
func helpKey(mod, command string, parts ...string) string {
	key := "mod." + mod + "." + command
	for _, part := range parts {
		key += "." + part
	}
	return key
}

// contract builds the registration contract. Help keys are derived from the
// mod and command names.
func (c CommandSpec) contract(mod string) *shelltypes.CommandContract {
	flags, _ := c.flags()
	contract := &shelltypes.CommandContract{
		Name:    c.Name,
		HelpKey: helpKey(mod, c.Name),
		Flags:   flags,
	}
	for _, entry := range c.Arguments {
		var arg shelltypes.ArgumentContract
		for _, slot := range entry.Slots {
			arg.Slots = append(arg.Slots, shelltypes.ArgumentSlot{
				Expression: slot.Name,
				Required:   slot.Required,
				HelpKey:    helpKey(mod, c.Name, "arg", slot.Name),
			})
		}
		for _, sw := range entry.Switches {
			arg.Switches = append(arg.Switches, shelltypes.SwitchDeclaration{
				Name:           sw.Name,
				Required:       sw.Required,
				ValueRequired:  sw.Value == "required",
				ValueOptional:  sw.Value == "optional",
				Conflicts:      sw.Conflicts,
				ArgumentOffset: sw.Offset,
				HelpKey:        helpKey(mod, c.Name, "sw", sw.Name),
			})
		}
		contract.Arguments = append(contract.Arguments, arg)
	}
	contract.Command = &scriptCommand{mod: mod, lines: c.Run}
	return contract
}

// messages returns the help strings of the command keyed like its contract.
func (c CommandSpec) messages(mod string) map[string]string {
	out := make(map[string]string)
	if c.Help != "" {
		out[helpKey(mod, c.Name)] = c.Help
	}
	for _, entry := range c.Arguments {
		for _, slot := range entry.Slots {
			if slot.Help != "" {
				out[helpKey(mod, c.Name, "arg", slot.Name)] = slot.Help
			}
		}
		for _, sw := range entry.Switches {
			if sw.Help != "" {
				out[helpKey(mod, c.Name, "sw", sw.Name)] = sw.Help
			}
		}
	}
	return out
}
