package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Printer writes text lines to an io.Writer. It implements shelltypes.Sink.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	mode          Mode
	silent        bool
	prefix        string

	mu sync.Mutex
}

// NewPrinter creates a Printer writing to os.Stdout in plain mode.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModePlain,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Print outputs text without a trailing newline.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without a trailing newline.
func (p *Printer) Printf(format string, args ...any) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text followed by a newline.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs an informational line.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Warning outputs a warning line.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs an error line.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Semantic outputs a line tagged with semantic.
func (p *Printer) Semantic(semantic SemanticType, text string) {
	p.output(semantic, text, true)
}

func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var rendered string
	if p.mode == ModeStyled && p.styleProvider != nil && p.styleProvider.IsAvailable() && semantic != SemanticPlain {
		rendered = p.styleProvider.GetStyle(semantic).Render(text)
	} else if p.mode == ModePlain {
		rendered = ansi.Strip(text)
	} else {
		rendered = text
	}

	if addNewline && !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	if p.prefix != "" {
		rendered = p.prefix + rendered
	}

	_, _ = fmt.Fprint(p.writer, rendered)
}

// SetWriter changes the output writer.
func (p *Printer) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = writer
}

// SetMode changes the output mode.
func (p *Printer) SetMode(mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

// IsStylable reports whether the printer applies styles.
func (p *Printer) IsStylable() bool {
	return p.mode == ModeStyled && p.styleProvider != nil && p.styleProvider.IsAvailable()
}
