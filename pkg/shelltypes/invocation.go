package shelltypes

// SwitchOccurrence is one switch as typed by the user.
type SwitchOccurrence struct {
	Name string
	// Value is the unquoted value, empty when none was typed.
	Value string
	// HasValue is true when the token contained '='.
	HasValue bool
}

// ConflictPair records a switch typed next to one it conflicts with.
type ConflictPair struct {
	Current  string
	Previous string
}

// Verdicts is the validator's report for one invocation.
type Verdicts struct {
	// Entry is the index of the argument contract the verdicts refer to.
	Entry                           int
	RequiredArgumentsProvided       bool
	RequiredSwitchesProvided        bool
	RequiredSwitchArgumentsProvided bool
	UnknownSwitches                 []string
	ConflictingSwitches             []ConflictPair
	// EffectiveMinimum is the minimum argument count after switch offsets.
	EffectiveMinimum int
}

// OK reports whether the invocation satisfies its contract.
func (v Verdicts) OK() bool {
	return v.RequiredArgumentsProvided &&
		v.RequiredSwitchesProvided &&
		v.RequiredSwitchArgumentsProvided &&
		len(v.UnknownSwitches) == 0 &&
		len(v.ConflictingSwitches) == 0
}

// ParsedInvocation is one submitted line after tokenizing and switch extraction.
type ParsedInvocation struct {
	Raw     string
	Command string
	// RawArguments is the argument text with every switch removed.
	RawArguments string
	Arguments    []string
	// Switches are in typed order, duplicates included.
	Switches []SwitchOccurrence
	Verdicts Verdicts
}

// HasSwitch reports whether name was typed at least once.
func (p *ParsedInvocation) HasSwitch(name string) bool {
	for _, sw := range p.Switches {
		if sw.Name == name {
			return true
		}
	}
	return false
}

// SwitchValue returns the value of the last occurrence of name.
func (p *ParsedInvocation) SwitchValue(name string) (string, bool) {
	value, found := "", false
	for _, sw := range p.Switches {
		if sw.Name == name {
			value, found = sw.Value, true
		}
	}
	return value, found
}

// SwitchNames returns the distinct switch names in order of first appearance.
func (p *ParsedInvocation) SwitchNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, sw := range p.Switches {
		if !seen[sw.Name] {
			seen[sw.Name] = true
			names = append(names, sw.Name)
		}
	}
	return names
}

// Argument returns the positional argument at i, or the empty string.
func (p *ParsedInvocation) Argument(i int) string {
	if i < 0 || i >= len(p.Arguments) {
		return ""
	}
	return p.Arguments[i]
}
