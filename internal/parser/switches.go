package parser

import (
	"regexp"
	"strings"

	"coreshell/pkg/shelltypes"
)

// switchPattern matches -name or -name=value preceded by start of text or whitespace.
// The value may be double, single or backtick quoted, each with backslash escapes.
var switchPattern = regexp.MustCompile(
	`(?:^|\s)(-([A-Za-z_][\w.\-]*)(?:=("(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'|` +
		"`(?:\\\\.|[^`\\\\])*`" + `|\S*))?)`)

// Extraction is the result of removing switches from argument text.
type Extraction struct {
	// Positional is the text left once every switch token is removed.
	Positional string
	// Switches are in typed order, duplicates included.
	Switches []shelltypes.SwitchOccurrence
}

// ExtractSwitches removes every switch token from text in one pass.
// Dash-prefixed words inside double-quoted arguments are left alone.
func ExtractSwitches(text string) Extraction {
	var result Extraction
	inside := quotedSpans(text)

	var leftover strings.Builder
	last := 0
	for _, m := range switchPattern.FindAllStringSubmatchIndex(text, -1) {
		tokenStart, tokenEnd := m[2], m[3]
		if inside[tokenStart] {
			continue
		}
		if tokenEnd < len(text) && !isSpace(text[tokenEnd]) {
			continue
		}

		occurrence := shelltypes.SwitchOccurrence{Name: text[m[4]:m[5]]}
		if m[6] >= 0 {
			occurrence.HasValue = true
			occurrence.Value = unquote(text[m[6]:m[7]])
		}
		result.Switches = append(result.Switches, occurrence)

		leftover.WriteString(text[last:m[0]])
		last = tokenEnd
	}
	leftover.WriteString(text[last:])
	result.Positional = strings.TrimSpace(leftover.String())
	return result
}

// Valued returns the switches used for value checks. Switches typed without '='
// are included with an empty value only when includeValueless is set.
func (e Extraction) Valued(includeValueless bool) []shelltypes.SwitchOccurrence {
	var out []shelltypes.SwitchOccurrence
	for _, sw := range e.Switches {
		if !sw.HasValue && !includeValueless {
			continue
		}
		out = append(out, sw)
	}
	return out
}

// Rejoin serializes positional text and switches back into argument text.
func Rejoin(positional string, switches []shelltypes.SwitchOccurrence) string {
	parts := make([]string, 0, len(switches)+1)
	if positional != "" {
		parts = append(parts, positional)
	}
	for _, sw := range switches {
		parts = append(parts, FormatSwitch(sw))
	}
	return strings.Join(parts, " ")
}

// FormatSwitch renders one switch occurrence, quoting the value when needed.
func FormatSwitch(sw shelltypes.SwitchOccurrence) string {
	if !sw.HasValue {
		return "-" + sw.Name
	}
	if sw.Value != "" && !strings.ContainsAny(sw.Value, " \t\n\"'`\\") {
		return "-" + sw.Name + "=" + sw.Value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(sw.Value)
	return "-" + sw.Name + `="` + escaped + `"`
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	q := value[0]
	if (q != '"' && q != '\'' && q != '`') || value[len(value)-1] != q {
		return value
	}
	inner := value[1 : len(value)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) && (inner[i+1] == q || inner[i+1] == '\\') {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
