package shelltypes

import "slices"

// ShellType names an execution context with its own command namespace.
type ShellType string

const (
	// ShellTypeMain is the default interactive shell.
	ShellTypeMain ShellType = "Shell"
	// ShellTypeAdmin is the administrative shell entered with the admin command.
	ShellTypeAdmin ShellType = "Admin"
)

// CommandFlags is a bit set of behavioral flags declared by a command contract.
type CommandFlags uint8

const (
	// FlagStrict restricts the command to administrators.
	FlagStrict CommandFlags = 1 << iota
	// FlagNoMaintenance refuses the command while maintenance mode is on.
	FlagNoMaintenance
	// FlagObsolete marks a command scheduled for removal. It still runs.
	FlagObsolete
	// FlagRedirectionSupported marks commands whose output may be redirected.
	FlagRedirectionSupported
	// FlagWrappable allows the command to run under the wrap command.
	FlagWrappable
)

// Has reports whether every bit of flag is set.
func (f CommandFlags) Has(flag CommandFlags) bool {
	return f&flag == flag
}

// Completer returns completion candidates for a partially typed argument.
type Completer func(partial string) []string

// ArgumentSlot declares one positional argument position.
type ArgumentSlot struct {
	// Expression is the display name, also used to look up dynamic completion tables.
	Expression string
	Required   bool
	HelpKey    string
	// Completer overrides table lookup for this slot when set.
	Completer Completer
}

// SwitchDeclaration declares one switch a command accepts.
type SwitchDeclaration struct {
	// Name is the switch name without the leading dash.
	Name          string
	Required      bool
	ValueRequired bool
	ValueOptional bool
	// Conflicts lists switch names that may not be typed next to this one.
	Conflicts []string
	// ArgumentOffset is subtracted from the minimum argument count when the switch is present.
	ArgumentOffset int
	HelpKey        string
}

// ConflictsWith reports whether name is in the declared conflict set.
func (s SwitchDeclaration) ConflictsWith(name string) bool {
	return slices.Contains(s.Conflicts, name)
}

// AcceptsValue reports whether the switch takes a value at all.
func (s SwitchDeclaration) AcceptsValue() bool {
	return s.ValueRequired || s.ValueOptional
}

// ArgumentContract is one accepted argument form of a command.
// A contract may declare several, checked in order.
type ArgumentContract struct {
	Slots    []ArgumentSlot
	Switches []SwitchDeclaration
}

// MinimumArguments is the number of required slots.
func (a ArgumentContract) MinimumArguments() int {
	n := 0
	for _, slot := range a.Slots {
		if slot.Required {
			n++
		}
	}
	return n
}

// ArgumentsRequired reports whether any slot is required.
func (a ArgumentContract) ArgumentsRequired() bool {
	return a.MinimumArguments() > 0
}

// Switch returns the declaration for name.
func (a ArgumentContract) Switch(name string) (SwitchDeclaration, bool) {
	for _, sw := range a.Switches {
		if sw.Name == name {
			return sw, true
		}
	}
	return SwitchDeclaration{}, false
}

// CommandContract is the static metadata and implementation of one command.
type CommandContract struct {
	// Name is unique within a shell type across all registry layers.
	Name      string
	HelpKey   string
	Arguments []ArgumentContract
	Flags     CommandFlags
	Command   Command
}

// Entry returns the argument contract at index i, or an empty one.
func (c *CommandContract) Entry(i int) ArgumentContract {
	if i < 0 || i >= len(c.Arguments) {
		return ArgumentContract{}
	}
	return c.Arguments[i]
}

// Switches returns every switch declared by any argument entry, deduplicated by name.
func (c *CommandContract) Switches() []SwitchDeclaration {
	var out []SwitchDeclaration
	seen := make(map[string]bool)
	for _, entry := range c.Arguments {
		for _, sw := range entry.Switches {
			if seen[sw.Name] {
				continue
			}
			seen[sw.Name] = true
			out = append(out, sw)
		}
	}
	return out
}
