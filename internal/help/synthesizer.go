// Package help renders usage and descriptions from command contracts.
//
// Everything here reads the contract and never mutates it. Synthesize
// produces plain-text lines; Markdown and the Renderer produce the rich form
// shown by help -markdown.
package help

import (
	"fmt"
	"strings"

	"coreshell/internal/i18n"
	"coreshell/pkg/shelltypes"
)

const descriptionColumn = 18

// FormatSwitch renders one switch declaration for a usage line.
//
//	required:  <-name=value>  <-name[=value]>  <-name>
//	optional:  [-name=value]  [-name[=value]]  [-name]
func FormatSwitch(sw shelltypes.SwitchDeclaration) string {
	body := "-" + sw.Name
	switch {
	case sw.ValueRequired:
		body += "=value"
	case sw.ValueOptional:
		body += "[=value]"
	}
	if sw.Required {
		return "<" + body + ">"
	}
	return "[" + body + "]"
}

// UsageLine renders the usage of one argument entry: switches first, then
// slots. The first MinimumArguments slots are <required>, the rest [optional].
func UsageLine(name string, entry shelltypes.ArgumentContract) string {
	parts := []string{name}
	for _, sw := range entry.Switches {
		parts = append(parts, FormatSwitch(sw))
	}
	minimum := entry.MinimumArguments()
	for i, slot := range entry.Slots {
		if i < minimum {
			parts = append(parts, "<"+slot.Expression+">")
		} else {
			parts = append(parts, "["+slot.Expression+"]")
		}
	}
	return strings.Join(parts, " ")
}

// Usage returns one usage line per argument entry.
func Usage(contract *shelltypes.CommandContract) []string {
	if len(contract.Arguments) == 0 {
		return []string{contract.Name}
	}
	lines := make([]string, 0, len(contract.Arguments))
	for _, entry := range contract.Arguments {
		lines = append(lines, UsageLine(contract.Name, entry))
	}
	return lines
}

// describe resolves a help key, falling back to the placeholder text.
func describe(texter i18n.Texter, key string) string {
	if key != "" && texter.Has(key) {
		return texter.Text(key)
	}
	return texter.Text("help.missing")
}

// Synthesize renders the full plain-text help of a contract: usage lines,
// switch and argument descriptions, then the command description.
func Synthesize(contract *shelltypes.CommandContract, texter i18n.Texter) []string {
	lines := []string{texter.Text("help.usage")}
	for _, usage := range Usage(contract) {
		lines = append(lines, "  "+usage)
	}

	if switches := contract.Switches(); len(switches) > 0 {
		lines = append(lines, texter.Text("help.switches"))
		for _, sw := range switches {
			lines = append(lines, column(FormatSwitch(sw), describe(texter, sw.HelpKey)))
		}
	}

	if slots := distinctSlots(contract); len(slots) > 0 {
		lines = append(lines, texter.Text("help.arguments"))
		for _, slot := range slots {
			lines = append(lines, column(slot.Expression, describe(texter, slot.HelpKey)))
		}
	}

	return append(lines, describe(texter, contract.HelpKey))
}

// Write prints the help of contract to out, followed by any lines the
// command's HelpHelper adds.
func Write(out shelltypes.Sink, contract *shelltypes.CommandContract, texter i18n.Texter) {
	for _, line := range Synthesize(contract, texter) {
		out.Println(line)
	}
	if helper, ok := contract.Command.(shelltypes.HelpHelper); ok {
		helper.HelpHelper(out)
	}
}

// WriteUsage prints only the usage lines, as shown after a failed validation.
func WriteUsage(out shelltypes.Sink, contract *shelltypes.CommandContract, texter i18n.Texter) {
	out.Println(texter.Text("help.usage"))
	for _, usage := range Usage(contract) {
		out.Println("  " + usage)
	}
}

func column(left, right string) string {
	if len(left) >= descriptionColumn-2 {
		return fmt.Sprintf("  %s  %s", left, right)
	}
	return fmt.Sprintf("  %-*s%s", descriptionColumn-2, left, right)
}

func distinctSlots(contract *shelltypes.CommandContract) []shelltypes.ArgumentSlot {
	var slots []shelltypes.ArgumentSlot
	seen := make(map[string]bool)
	for _, entry := range contract.Arguments {
		for _, slot := range entry.Slots {
			if seen[slot.Expression] {
				continue
			}
			seen[slot.Expression] = true
			slots = append(slots, slot)
		}
	}
	return slots
}
