package shell

import (
	"context"
	"errors"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"

	"coreshell/internal/parser"
	"coreshell/internal/version"
	"coreshell/pkg/shelltypes"
)

// NewInteractive wires an ishell instance to the engine: every line goes to
// the dispatcher, tab completion uses the resolver, and Ctrl-C is routed to
// the cancellation coordinator.
func (e *Engine) NewInteractive(ctx context.Context) *ishell.Shell {
	sh := ishell.NewWithConfig(&readline.Config{Prompt: e.Prompt()})
	sh.CustomCompleter(e.Completer)

	// every line goes to the dispatcher
	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")
	sh.DeleteCmd("clear")

	sh.NotFound(func(c *ishell.Context) {
		e.ProcessInput(ctx, c.RawArgs)
		if e.Dispatcher.Closed() {
			c.Stop()
			return
		}
		c.SetPrompt(e.Prompt())
	})
	sh.Interrupt(func(c *ishell.Context, count int, input string) {
		if e.Dispatcher.Coordinator().Cancel() {
			return
		}
		if count >= 2 && input == "" {
			c.Println("Type exit to leave the shell.")
		}
	})
	sh.EOF(func(c *ishell.Context) {
		c.Stop()
	})
	return sh
}

// ProcessInput submits one line typed at the prompt. rawArgs arrive with
// their quotes removed and are quoted again before dispatch. Failures were
// already rendered by the dispatcher.
func (e *Engine) ProcessInput(ctx context.Context, rawArgs []string) {
	line := JoinArgs(rawArgs)
	if line == "" {
		return
	}
	err := e.Dispatcher.Submit(ctx, line)
	if err != nil && !errors.Is(err, shelltypes.ErrCancelled) {
		e.logger.Debug("Line failed", "line", line, "error", err)
	}
}

// JoinArgs rebuilds a command line from split arguments. Dash-prefixed words
// stay switches; switch values are quoted after the '='.
func JoinArgs(args []string) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if name, value, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(name, "-") && !strings.ContainsAny(name, " \t\"") {
			parts = append(parts, name+"="+parser.Quote(value))
			continue
		}
		if strings.HasPrefix(arg, "-") && !strings.ContainsAny(arg, " \t\"") {
			parts = append(parts, arg)
			continue
		}
		parts = append(parts, parser.Quote(arg))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// RunInteractive runs the read-eval loop until the last shell exits.
func (e *Engine) RunInteractive(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.Dispatcher.Coordinator().Listen(ctx)

	sh := e.NewInteractive(ctx)
	e.Output.Println(version.GetFormattedVersion())
	e.Output.Println(e.Texter.Text("help.hint"))
	sh.Run()
	sh.Close()
}
