// Package output provides the plain-text sinks the shell engine writes to.
//
// Printer is the concrete sink. Switch holds the process-wide active sink and
// lets the cancellation coordinator swap it for a silent one while a worker
// unwinds.
package output

// StyleProvider supplies styles per semantic type. The output package depends
// only on this interface; lipgloss styles satisfy TextStyle directly.
type StyleProvider interface {
	GetStyle(semantic SemanticType) TextStyle
	IsAvailable() bool
}

// TextStyle renders text with styling.
type TextStyle interface {
	Render(strs ...string) string
}

// Mode selects how a Printer renders.
type Mode int

const (
	// ModePlain writes text without styling; ANSI sequences are stripped.
	ModePlain Mode = iota
	// ModeStyled applies the style provider when one is available.
	ModeStyled
)

// SemanticType tags output for styling.
type SemanticType string

const (
	// SemanticPlain is untagged text.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo is informational text.
	SemanticInfo SemanticType = "info"
	// SemanticWarning is warning text.
	SemanticWarning SemanticType = "warning"
	// SemanticError is error text.
	SemanticError SemanticType = "error"
	// SemanticUsage is a usage line.
	SemanticUsage SemanticType = "usage"
	// SemanticHeading is a section heading.
	SemanticHeading SemanticType = "heading"
)
