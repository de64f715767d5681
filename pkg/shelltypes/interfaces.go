package shelltypes

import "context"

// Command is the capability every command implementation provides.
// Implementations must return promptly once ctx is done.
type Command interface {
	Execute(ctx context.Context, call *Call) error
}

// DumbExecutor is implemented by commands with a fallback for reduced capability terminals.
type DumbExecutor interface {
	ExecuteDumb(ctx context.Context, call *Call) error
}

// HelpHelper is implemented by commands that append extra lines to their help.
type HelpHelper interface {
	HelpHelper(out Sink)
}

// CommandFunc adapts a plain function to the Command interface.
type CommandFunc func(ctx context.Context, call *Call) error

// Execute calls f.
func (f CommandFunc) Execute(ctx context.Context, call *Call) error {
	return f(ctx, call)
}

// Sink receives plain-text output lines.
type Sink interface {
	Print(text string)
	Println(text string)
	Printf(format string, args ...any)
}

// CancelToken lets a running command body mark windows where interruption is safe.
type CancelToken interface {
	AllowCancel()
	InhibitCancel()
	// Requested reports whether an interrupt is currently unwinding this frame.
	Requested() bool
}

// CommandLookup is the read and alias surface of the command registry.
type CommandLookup interface {
	Resolve(name string, shellType ShellType) (*CommandContract, error)
	List(shellType ShellType) []*CommandContract
	Names(shellType ShellType) []string
	AddAlias(shellType ShellType, alias, target string) error
	RemoveAlias(shellType ShellType, alias string) error
}

// Host is the shell surface available to a running command.
type Host interface {
	ShellType() ShellType
	// Dispatch runs line on an alternate worker of the current frame and
	// blocks until it finishes. A nil out inherits the caller's sink.
	Dispatch(ctx context.Context, line string, out Sink) error
	EnterShell(shellType ShellType) error
	ExitShell() error
	Lookup() CommandLookup
}

// Environment answers privilege and terminal capability questions.
type Environment interface {
	IsAdmin() bool
	MaintenanceMode() bool
	DumbTerminal() bool
}

// Call bundles everything a command body receives for one invocation.
type Call struct {
	Invocation *ParsedInvocation
	Contract   *CommandContract
	Out        Sink
	Cancel     CancelToken
	Host       Host
}
