package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type bracketStyles struct{}

func (bracketStyles) GetStyle(semantic SemanticType) TextStyle {
	return bracketStyle(semantic)
}

func (bracketStyles) IsAvailable() bool { return true }

type bracketStyle SemanticType

func (b bracketStyle) Render(strs ...string) string {
	text := ""
	for _, s := range strs {
		text += s
	}
	return "[" + string(b) + "]" + text + "[/" + string(b) + "]"
}

func TestPrinterBasicOutput(t *testing.T) {
	printer, buffer := NewCapturePrinter()

	printer.Print("hello ")
	printer.Println("world")
	printer.Printf("number: %d", 42)

	assert.Equal(t, "hello world\nnumber: 42", buffer.String())
}

func TestPrinterPlainStripsANSI(t *testing.T) {
	printer, buffer := NewCapturePrinter()

	printer.Println("\x1b[31mred\x1b[0m text")

	assert.Equal(t, []string{"red text"}, buffer.Lines())
}

func TestPrinterStyledUsesProvider(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), WithStyles(bracketStyles{}))

	printer.Error("boom")
	printer.Println("plain")

	assert.Equal(t, []string{"[error]boom[/error]", "plain"}, buffer.Lines())
	assert.True(t, printer.IsStylable())
}

func TestPrinterSilentAndPrefix(t *testing.T) {
	buffer := NewCaptureBuffer()
	NewPrinter(WithWriter(buffer), Silent()).Println("dropped")
	assert.Empty(t, buffer.String())

	NewPrinter(WithWriter(buffer), WithPrefix("> ")).Println("kept")
	assert.Equal(t, "> kept\n", buffer.String())
}

func TestSwitchSwapAndRestore(t *testing.T) {
	primary, primaryBuf := NewCapturePrinter()
	sw := NewSwitch(primary)

	sw.Println("before")
	restore := sw.Swap(Discard())
	sw.Println("during")
	restore()
	restore()
	sw.Println("after")

	assert.Equal(t, []string{"before", "after"}, primaryBuf.Lines())
	assert.Same(t, primary, sw.Current())
}

func TestWriteSemanticFallsBackToPlainLine(t *testing.T) {
	printer, buffer := NewCapturePrinter()
	sw := NewSwitch(printer)

	WriteSemantic(sw, SemanticError, "bad")
	assert.Equal(t, []string{"bad"}, buffer.Lines())
}
