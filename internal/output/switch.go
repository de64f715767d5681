package output

import (
	"sync"

	"coreshell/pkg/shelltypes"
)

// Switch is the active output sink shared by the engine. Writes go to the
// current target; Swap replaces it and returns a function restoring the
// previous one.
type Switch struct {
	mu     sync.RWMutex
	target shelltypes.Sink
}

// NewSwitch creates a Switch writing to target.
func NewSwitch(target shelltypes.Sink) *Switch {
	return &Switch{target: target}
}

// Discard returns a sink that drops everything.
func Discard() shelltypes.Sink {
	return NewPrinter(Silent())
}

// Swap installs target and returns a restore function. Restore is idempotent.
func (s *Switch) Swap(target shelltypes.Sink) (restore func()) {
	s.mu.Lock()
	previous := s.target
	s.target = target
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.target = previous
			s.mu.Unlock()
		})
	}
}

// Current returns the active target.
func (s *Switch) Current() shelltypes.Sink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// Print writes to the active target.
func (s *Switch) Print(text string) {
	s.Current().Print(text)
}

// Println writes a line to the active target.
func (s *Switch) Println(text string) {
	s.Current().Println(text)
}

// Printf writes formatted text to the active target.
func (s *Switch) Printf(format string, args ...any) {
	s.Current().Printf(format, args...)
}

// Semantic writes a tagged line when the target is a Printer, a plain line otherwise.
func (s *Switch) Semantic(semantic SemanticType, text string) {
	WriteSemantic(s.Current(), semantic, text)
}

// WriteSemantic writes a tagged line to sink when it supports tagging.
func WriteSemantic(sink shelltypes.Sink, semantic SemanticType, text string) {
	switch target := sink.(type) {
	case *Printer:
		target.Semantic(semantic, text)
	case *Switch:
		target.Semantic(semantic, text)
	default:
		sink.Println(text)
	}
}
