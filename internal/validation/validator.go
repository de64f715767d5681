// Package validation checks a ParsedInvocation against a command contract.
// It never fails: problems are reported as verdicts and descriptive lines.
package validation

import (
	"fmt"
	"strings"

	"coreshell/pkg/shelltypes"
)

// Validate returns verdicts for inv against contract. When the contract has
// several argument entries the first fully satisfied one is reported;
// otherwise the verdicts of the first entry are returned.
func Validate(inv *shelltypes.ParsedInvocation, contract *shelltypes.CommandContract) shelltypes.Verdicts {
	if len(contract.Arguments) == 0 {
		return ValidateEntry(inv, shelltypes.ArgumentContract{}, 0)
	}

	first := ValidateEntry(inv, contract.Arguments[0], 0)
	if first.OK() {
		return first
	}
	for i := 1; i < len(contract.Arguments); i++ {
		if v := ValidateEntry(inv, contract.Arguments[i], i); v.OK() {
			return v
		}
	}
	return first
}

// ValidateEntry computes verdicts for one argument entry.
func ValidateEntry(inv *shelltypes.ParsedInvocation, entry shelltypes.ArgumentContract, index int) shelltypes.Verdicts {
	present := inv.SwitchNames()
	v := shelltypes.Verdicts{Entry: index}

	v.EffectiveMinimum = EffectiveMinimum(entry, present)
	v.RequiredArgumentsProvided = !entry.ArgumentsRequired() || len(inv.Arguments) >= v.EffectiveMinimum
	v.RequiredSwitchesProvided = requiredSwitchesProvided(entry, present)
	v.RequiredSwitchArgumentsProvided = requiredSwitchValuesProvided(entry, inv)
	v.UnknownSwitches = unknownSwitches(entry, present)
	v.ConflictingSwitches = ConflictingPairs(entry, inv.Switches)
	return v
}

// EffectiveMinimum is the entry's minimum argument count minus the offsets of
// every present switch, floored at zero.
func EffectiveMinimum(entry shelltypes.ArgumentContract, present []string) int {
	minimum := entry.MinimumArguments()
	for _, name := range present {
		if decl, ok := entry.Switch(name); ok {
			minimum -= decl.ArgumentOffset
		}
	}
	return max(minimum, 0)
}

func requiredSwitchesProvided(entry shelltypes.ArgumentContract, present []string) bool {
	required := 0
	for _, decl := range entry.Switches {
		if decl.Required {
			required++
		}
	}
	if required == 0 {
		return true
	}

	provided := 0
	for _, name := range present {
		if decl, ok := entry.Switch(name); ok && decl.Required {
			provided++
		}
	}
	return provided >= required
}

// requiredSwitchValuesProvided checks that every present value-required
// switch carries a non-empty value.
func requiredSwitchValuesProvided(entry shelltypes.ArgumentContract, inv *shelltypes.ParsedInvocation) bool {
	needed, valued := 0, 0
	for _, decl := range entry.Switches {
		if !decl.ValueRequired || !inv.HasSwitch(decl.Name) {
			continue
		}
		needed++
		if value, _ := inv.SwitchValue(decl.Name); value != "" {
			valued++
		}
	}
	return valued >= needed
}

func unknownSwitches(entry shelltypes.ArgumentContract, present []string) []string {
	var unknown []string
	for _, name := range present {
		if _, ok := entry.Switch(name); !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ConflictingPairs walks switches in typed order and compares each known
// switch only with the closest preceding known switch of a different name.
// A conflict declared on either side counts. Each unordered pair is reported
// once, as (current, previous).
func ConflictingPairs(entry shelltypes.ArgumentContract, switches []shelltypes.SwitchOccurrence) []shelltypes.ConflictPair {
	var pairs []shelltypes.ConflictPair
	reported := make(map[[2]string]bool)
	previous := ""

	for _, sw := range switches {
		decl, ok := entry.Switch(sw.Name)
		if !ok || sw.Name == previous {
			continue
		}
		if previous != "" {
			prevDecl, _ := entry.Switch(previous)
			if decl.ConflictsWith(previous) || prevDecl.ConflictsWith(sw.Name) {
				key := [2]string{min(sw.Name, previous), max(sw.Name, previous)}
				if !reported[key] {
					reported[key] = true
					pairs = append(pairs, shelltypes.ConflictPair{Current: sw.Name, Previous: previous})
				}
			}
		}
		previous = sw.Name
	}
	return pairs
}

// Problems describes every failed verdict as one line, in a stable order.
func Problems(v shelltypes.Verdicts) []string {
	var lines []string
	if !v.RequiredArgumentsProvided {
		lines = append(lines, fmt.Sprintf("Required arguments are not provided (need at least %d).", v.EffectiveMinimum))
	}
	if !v.RequiredSwitchesProvided {
		lines = append(lines, "Required switches are not provided.")
	}
	if !v.RequiredSwitchArgumentsProvided {
		lines = append(lines, "Required switch values are not provided.")
	}
	if len(v.UnknownSwitches) > 0 {
		lines = append(lines, "Unknown switches: -"+strings.Join(v.UnknownSwitches, ", -"))
	}
	for _, pair := range v.ConflictingSwitches {
		lines = append(lines, fmt.Sprintf("Switch -%s conflicts with -%s.", pair.Current, pair.Previous))
	}
	return lines
}

// Errors maps failed verdicts to the error taxonomy sentinels.
func Errors(v shelltypes.Verdicts) []error {
	var errs []error
	if !v.RequiredArgumentsProvided {
		errs = append(errs, shelltypes.ErrMissingRequiredArguments)
	}
	if !v.RequiredSwitchesProvided {
		errs = append(errs, shelltypes.ErrMissingRequiredSwitches)
	}
	if !v.RequiredSwitchArgumentsProvided {
		errs = append(errs, shelltypes.ErrMissingRequiredSwitchValues)
	}
	if len(v.UnknownSwitches) > 0 {
		errs = append(errs, shelltypes.ErrUnknownSwitch)
	}
	if len(v.ConflictingSwitches) > 0 {
		errs = append(errs, shelltypes.ErrConflictingSwitches)
	}
	return errs
}
