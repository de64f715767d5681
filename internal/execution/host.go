package execution

import (
	"context"

	"coreshell/internal/cancellation"
	"coreshell/pkg/shelltypes"
)

// callHost is the Host handed to one running command.
type callHost struct {
	dispatcher *Dispatcher
	frame      *Frame
	out        shelltypes.Sink
}

func (h *callHost) ShellType() shelltypes.ShellType {
	return h.frame.ShellType()
}

// Dispatch runs line on an alternate worker of the caller's frame.
func (h *callHost) Dispatch(ctx context.Context, line string, out shelltypes.Sink) error {
	if out == nil {
		out = h.out
	}
	return h.dispatcher.run(ctx, h.frame, line, out)
}

func (h *callHost) EnterShell(shellType shelltypes.ShellType) error {
	return h.dispatcher.EnterShell(shellType)
}

func (h *callHost) ExitShell() error {
	return h.dispatcher.ExitShell()
}

func (h *callHost) Lookup() shelltypes.CommandLookup {
	return h.dispatcher.lookup
}

// cancelToken binds the process-wide allowed flag to the caller's frame.
type cancelToken struct {
	coordinator *cancellation.Coordinator
	frame       *Frame
}

func (t *cancelToken) AllowCancel() {
	t.coordinator.AllowCancel()
}

func (t *cancelToken) InhibitCancel() {
	t.coordinator.InhibitCancel()
}

func (t *cancelToken) Requested() bool {
	return t.frame.Requested()
}
