// Package autocomplete provides tab completion for the interactive shell.
//
// The Resolver implements the readline AutoCompleter interface. Candidates
// come from registry names, declared switch names, a filesystem listing,
// per-slot completers or named dynamic tables, and are always returned as the
// suffix beyond what was already typed.
package autocomplete

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"coreshell/internal/parser"
	"coreshell/pkg/shelltypes"
)

// DefaultDelimiters separate completion tokens.
const DefaultDelimiters = " \t"

// Table returns the current entries of a named dynamic table.
type Table func() []string

// Resolver computes completions against a command registry.
type Resolver struct {
	lookup    shelltypes.CommandLookup
	shellType func() shelltypes.ShellType
	fs        afero.Fs

	mu     sync.RWMutex
	tables map[string]Table
}

// NewResolver creates a resolver. current reports the shell type whose
// namespace is completed. A nil fs disables filesystem completion.
func NewResolver(lookup shelltypes.CommandLookup, current func() shelltypes.ShellType, fs afero.Fs) *Resolver {
	return &Resolver{
		lookup:    lookup,
		shellType: current,
		fs:        fs,
		tables:    make(map[string]Table),
	}
}

// RegisterTable makes table available to slots whose expression equals name.
func (r *Resolver) RegisterTable(name string, table Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[name] = table
}

func (r *Resolver) table(name string) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, ok := r.tables[name]
	return table, ok
}

// Do implements readline.AutoCompleter.
func (r *Resolver) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if pos > len(line) {
		pos = len(line)
	}
	partial, suffixes := r.complete(string(line[:pos]), DefaultDelimiters)
	for _, suffix := range suffixes {
		newLine = append(newLine, []rune(suffix))
	}
	return newLine, len([]rune(partial))
}

// Complete returns completion suffixes for text with the cursor at byte
// offset cursor. Empty delimiters select DefaultDelimiters.
func (r *Resolver) Complete(text string, cursor int, delimiters string) []string {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	if delimiters == "" {
		delimiters = DefaultDelimiters
	}
	_, suffixes := r.complete(text[:cursor], delimiters)
	return suffixes
}

func (r *Resolver) complete(text, delimiters string) (string, []string) {
	start := lastTokenStart(text, delimiters)
	head, partial := text[:start], text[start:]
	shellType := r.shellType()

	if strings.TrimSpace(head) == "" {
		return partial, suffixes(r.lookup.Names(shellType), partial)
	}

	inv := parser.Parse(head)
	contract, err := r.lookup.Resolve(inv.Command, shellType)
	if err != nil {
		return partial, nil
	}

	if strings.HasPrefix(partial, "-") {
		var names []string
		for _, sw := range contract.Switches() {
			names = append(names, "-"+sw.Name)
		}
		return partial, suffixes(names, partial)
	}

	match := strings.TrimPrefix(partial, `"`)
	if r.fs != nil && looksLikePath(match) {
		return partial, suffixes(listFiles(r.fs, match), match)
	}

	slot, ok := slotAt(contract, len(inv.Arguments))
	if !ok {
		return partial, nil
	}
	if slot.Completer != nil {
		return partial, suffixes(slot.Completer(match), match)
	}
	if table, ok := r.table(slot.Expression); ok {
		return partial, suffixes(table(), match)
	}
	return partial, nil
}

// slotAt returns the slot at index from the first argument entry that has one.
func slotAt(contract *shelltypes.CommandContract, index int) (shelltypes.ArgumentSlot, bool) {
	for _, entry := range contract.Arguments {
		if index < len(entry.Slots) {
			return entry.Slots[index], true
		}
	}
	return shelltypes.ArgumentSlot{}, false
}

// lastTokenStart returns the offset where the final token begins. Delimiters
// inside double quotes do not split.
func lastTokenStart(text, delimiters string) int {
	start, inQuote, escaped := 0, false, false
	for i, c := range text {
		switch {
		case escaped:
			escaped = false
		case inQuote && c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case !inQuote && strings.ContainsRune(delimiters, c):
			start = i + len(string(c))
		}
	}
	return start
}

func looksLikePath(partial string) bool {
	return strings.ContainsRune(partial, '/') || partial == "." || partial == ".."
}

// listFiles lists the entries of the directory partial points into.
// Directories get a trailing slash.
func listFiles(fsys afero.Fs, partial string) []string {
	dir, _ := filepath.Split(partial)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	infos, err := afero.ReadDir(fsys, readDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		name := dir + info.Name()
		if info.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names
}

// suffixes filters candidates by prefix and strips the prefix.
// The result is sorted and has no duplicates or empty entries.
func suffixes(candidates []string, prefix string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, candidate := range candidates {
		if !strings.HasPrefix(candidate, prefix) || candidate == prefix {
			continue
		}
		suffix := candidate[len(prefix):]
		if seen[suffix] {
			continue
		}
		seen[suffix] = true
		out = append(out, suffix)
	}
	sort.Strings(out)
	return out
}
