package mods

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"coreshell/internal/logger"
	"coreshell/internal/parser"
	"coreshell/pkg/shelltypes"
)

var placeholder = regexp.MustCompile(`\$(\$|@|[0-9]+|\{[A-Za-z_][A-Za-z0-9_]*\})`)

// scriptCommand runs a mod's lines through nested dispatch.
type scriptCommand struct {
	mod   string
	lines []string
}

// Execute stops at the first failing line. The script is interruptible
// between lines.
func (s *scriptCommand) Execute(ctx context.Context, call *shelltypes.Call) error {
	call.Cancel.AllowCancel()
	for _, line := range s.lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		expanded := Expand(line, call.Invocation)
		logger.Debug("Mod script line", "mod", s.mod, "line", expanded)
		if err := call.Host.Dispatch(ctx, expanded, nil); err != nil {
			return err
		}
	}
	return nil
}

// Expand substitutes placeholders in line:
//
//	$1..$n   positional arguments, empty when absent
//	$@       every argument
//	${name}  value of switch -name, empty when absent
//	$$       a literal dollar sign
//
// Arguments containing whitespace are re-quoted so they stay one token.
func Expand(line string, inv *shelltypes.ParsedInvocation) string {
	return placeholder.ReplaceAllStringFunc(line, func(match string) string {
		token := match[1:]
		switch {
		case token == "$":
			return "$"
		case token == "@":
			quoted := make([]string, len(inv.Arguments))
			for i, arg := range inv.Arguments {
				quoted[i] = parser.Quote(arg)
			}
			return strings.Join(quoted, " ")
		case strings.HasPrefix(token, "{"):
			value, _ := inv.SwitchValue(strings.Trim(token, "{}"))
			return parser.Quote(value)
		default:
			n, err := strconv.Atoi(token)
			if err != nil || n < 1 {
				return ""
			}
			return parser.Quote(inv.Argument(n - 1))
		}
	})
}
