package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coreshell/internal/cancellation"
	"coreshell/internal/commands"
	"coreshell/internal/execution"
	"coreshell/internal/i18n"
	"coreshell/internal/output"
	"coreshell/internal/session"
)

// HarnessOptions seeds a Harness. Zero values select a guest user with the
// default user table.
type HarnessOptions struct {
	User   string
	Users  map[string][]string
	Themes []string
	Grace  time.Duration
}

// Harness is a dispatcher wired to an empty registry and a capturing sink.
type Harness struct {
	Bundle     *i18n.Bundle
	Texter     *i18n.Localizer
	Registry   *commands.Registry
	Session    *session.Session
	Dispatcher *execution.Dispatcher
	Buffer     *output.CaptureBuffer
}

// DefaultUsers is the user table used when HarnessOptions.Users is nil.
func DefaultUsers() map[string][]string {
	return map[string][]string{
		"guest": {"users"},
		"root":  {"admin", "users"},
	}
}

// NewHarness builds a harness. Register commands on h.Registry before submitting.
func NewHarness(t *testing.T, opts HarnessOptions) *Harness {
	t.Helper()
	if opts.User == "" {
		opts.User = "guest"
	}
	if opts.Users == nil {
		opts.Users = DefaultUsers()
	}
	if opts.Grace == 0 {
		opts.Grace = time.Second
	}

	bundle, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	h := &Harness{
		Bundle:   bundle,
		Texter:   bundle.NewLocalizer(""),
		Registry: commands.NewRegistry(),
		Session: session.New(session.Options{
			User:   opts.User,
			Users:  opts.Users,
			Themes: opts.Themes,
		}),
	}

	printer, buffer := output.NewCapturePrinter()
	sw := output.NewSwitch(printer)
	h.Buffer = buffer
	h.Dispatcher = execution.NewDispatcher(execution.Options{
		Lookup:      h.Registry,
		Environment: h.Session,
		Texter:      h.Texter,
		Output:      sw,
		Coordinator: cancellation.NewCoordinator(sw, opts.Grace),
	})
	return h
}

// Submit runs line on the active frame.
func (h *Harness) Submit(line string) error {
	return h.Dispatcher.Submit(context.Background(), line)
}

// SubmitAsync runs line on its own goroutine and returns the result channel.
func (h *Harness) SubmitAsync(line string) <-chan error {
	done := make(chan error, 1)
	go func() { done <- h.Submit(line) }()
	return done
}
