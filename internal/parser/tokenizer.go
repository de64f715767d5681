// Package parser turns a submitted line into a ParsedInvocation.
//
// Tokenize splits on whitespace and keeps double-quoted spans together.
// ExtractSwitches pulls -name and -name=value tokens out of the argument text,
// leaving only positional arguments behind. Neither ever fails: malformed
// quoting is absorbed rather than reported.
package parser

import (
	"strings"
	"unicode"

	"coreshell/pkg/shelltypes"
)

// Tokenize splits line into tokens. A double-quoted span is one token with the
// quotes removed and \" unescaped. An unterminated quote runs to end of line.
func Tokenize(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuote, hasToken := false, false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuote && r == '\\' && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			i++
		case r == '"':
			inQuote = !inQuote
			hasToken = true
		case !inQuote && unicode.IsSpace(r):
			if hasToken {
				tokens = append(tokens, current.String())
				current.Reset()
				hasToken = false
			}
		default:
			current.WriteRune(r)
			hasToken = true
		}
	}
	if hasToken {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Quote returns arg in a form Parse reads back as the same single positional
// argument. Arguments starting with '-' are quoted so they are not taken for
// switches. Empty arguments are returned unchanged.
func Quote(arg string) string {
	if !strings.HasPrefix(arg, "-") && !strings.ContainsFunc(arg, func(r rune) bool { return r == '"' || unicode.IsSpace(r) }) {
		return arg
	}
	return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
}

// JoinCommand rebuilds a command line from a command text and its arguments.
// The command text is kept verbatim so a quoted line with its own switches
// still parses; every following argument goes through Quote.
func JoinCommand(command string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, command)
	for _, arg := range args {
		parts = append(parts, Quote(arg))
	}
	return strings.Join(parts, " ")
}

// escapedQuote reports whether text[i] is a backslash escaping a double quote.
// It is the only escape Tokenize honors.
func escapedQuote(text string, i int) bool {
	return text[i] == '\\' && i+1 < len(text) && text[i+1] == '"'
}

// SplitCommand returns the command word and the untouched remainder text.
func SplitCommand(line string) (name string, remainder string) {
	line = strings.TrimSpace(line)
	end := firstTokenEnd(line)
	if words := Tokenize(line[:end]); len(words) > 0 {
		name = words[0]
	}
	return name, strings.TrimSpace(line[end:])
}

// firstTokenEnd returns the byte offset just past the first token.
func firstTokenEnd(line string) int {
	inQuote, skip := false, false
	for i, r := range line {
		switch {
		case skip:
			skip = false
		case inQuote && escapedQuote(line, i):
			skip = true
		case r == '"':
			inQuote = !inQuote
		case !inQuote && unicode.IsSpace(r):
			return i
		}
	}
	return len(line)
}

// quotedSpans marks every byte of text that sits inside a double-quoted span.
func quotedSpans(text string) []bool {
	inside := make([]bool, len(text))
	inQuote := false
	for i := 0; i < len(text); i++ {
		switch {
		case inQuote && escapedQuote(text, i):
			inside[i], inside[i+1] = true, true
			i++
			continue
		case text[i] == '"':
			inQuote = !inQuote
		}
		inside[i] = inQuote
	}
	return inside
}

// Parse tokenizes line and extracts its switches. Verdicts are left empty.
func Parse(line string) *shelltypes.ParsedInvocation {
	name, remainder := SplitCommand(line)
	extraction := ExtractSwitches(remainder)
	return &shelltypes.ParsedInvocation{
		Raw:          line,
		Command:      name,
		RawArguments: extraction.Positional,
		Arguments:    Tokenize(extraction.Positional),
		Switches:     extraction.Switches,
	}
}
