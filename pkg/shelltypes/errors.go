package shelltypes

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is returned when a name resolves in no layer.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDuplicateRegistration is returned when a name already exists for a shell type.
	ErrDuplicateRegistration = errors.New("command already registered")
	// ErrMissingRequiredArguments reports too few positional arguments.
	ErrMissingRequiredArguments = errors.New("missing required arguments")
	// ErrMissingRequiredSwitches reports an absent required switch.
	ErrMissingRequiredSwitches = errors.New("missing required switches")
	// ErrMissingRequiredSwitchValues reports a value-required switch typed without a value.
	ErrMissingRequiredSwitchValues = errors.New("missing required switch values")
	// ErrUnknownSwitch reports a switch the contract does not declare.
	ErrUnknownSwitch = errors.New("unknown switch")
	// ErrConflictingSwitches reports conflicting switches typed next to each other.
	ErrConflictingSwitches = errors.New("conflicting switches")
	// ErrNotPermitted is returned when privilege or maintenance mode forbids a command.
	ErrNotPermitted = errors.New("command not permitted")
	// ErrCancelled marks expected teardown after an interrupt. It is never shown to the user.
	ErrCancelled = errors.New("command cancelled")
)

// ExecutionError wraps any failure raised by a command body.
type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Category returns the error's concrete type name, used in user-facing messages.
func (e *ExecutionError) Category() string {
	if e.Err == nil {
		return "error"
	}
	var panicErr *PanicError
	if errors.As(e.Err, &panicErr) {
		return "panic"
	}
	return fmt.Sprintf("%T", e.Err)
}

// PanicError carries a value recovered from a panicking command body.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v", e.Value)
}
