package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"coreshell/internal/i18n"
	"coreshell/internal/logger"
	"coreshell/pkg/shelltypes"
)

// Markdown renders the help of a contract as a markdown document.
func Markdown(contract *shelltypes.CommandContract, texter i18n.Texter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", contract.Name, describe(texter, contract.HelpKey))

	fmt.Fprintf(&b, "## %s\n\n```\n", strings.TrimSuffix(texter.Text("help.usage"), ":"))
	for _, usage := range Usage(contract) {
		b.WriteString(usage + "\n")
	}
	b.WriteString("```\n")

	if switches := contract.Switches(); len(switches) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", strings.TrimSuffix(texter.Text("help.switches"), ":"))
		for _, sw := range switches {
			fmt.Fprintf(&b, "- `%s` %s\n", FormatSwitch(sw), describe(texter, sw.HelpKey))
		}
	}
	if slots := distinctSlots(contract); len(slots) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", strings.TrimSuffix(texter.Text("help.arguments"), ":"))
		for _, slot := range slots {
			fmt.Fprintf(&b, "- `%s` %s\n", slot.Expression, describe(texter, slot.HelpKey))
		}
	}
	return b.String()
}

// Renderer turns help markdown into terminal output.
type Renderer struct {
	style string
	width int
}

// NewRenderer creates a renderer for a glamour style ("dark", "light",
// "notty", "ascii" or a style file path). Empty selects "notty".
func NewRenderer(style string, width int) *Renderer {
	if style == "" {
		style = "notty"
	}
	if width <= 0 {
		width = 80
	}
	return &Renderer{style: style, width: width}
}

// Render renders contract help. Renderer failures fall back to the plain form.
func (r *Renderer) Render(contract *shelltypes.CommandContract, texter i18n.Texter) string {
	term, err := glamour.NewTermRenderer(
		glamour.WithStylePath(r.style),
		glamour.WithWordWrap(r.width),
	)
	if err == nil {
		var rendered string
		rendered, err = term.Render(Markdown(contract, texter))
		if err == nil {
			return rendered
		}
	}
	logger.Debug("Markdown help rendering failed, using plain help", "style", r.style, "error", err)
	return strings.Join(Synthesize(contract, texter), "\n") + "\n"
}

var (
	nameStyle  = lipgloss.NewStyle().Bold(true)
	layerStyle = lipgloss.NewStyle().Faint(true)
)

// Summary renders a one-line command listing entry: name, layer and description.
func Summary(contract *shelltypes.CommandContract, layer string, texter i18n.Texter) string {
	name := nameStyle.Render(fmt.Sprintf("%-14s", contract.Name))
	if layer == "" {
		return name + " " + describe(texter, contract.HelpKey)
	}
	return name + " " + layerStyle.Render(fmt.Sprintf("%-8s", layer)) + " " + describe(texter, contract.HelpKey)
}
