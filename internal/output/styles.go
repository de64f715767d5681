package output

import "github.com/charmbracelet/lipgloss"

// LipglossStyles is the default StyleProvider for capable terminals.
type LipglossStyles struct {
	styles map[SemanticType]lipgloss.Style
}

// NewLipglossStyles returns the default palette.
func NewLipglossStyles() *LipglossStyles {
	return &LipglossStyles{
		styles: map[SemanticType]lipgloss.Style{
			SemanticInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			SemanticWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			SemanticError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			SemanticUsage:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
			SemanticHeading: lipgloss.NewStyle().Bold(true).Underline(true),
		},
	}
}

// GetStyle returns the style for semantic, or an empty style.
func (l *LipglossStyles) GetStyle(semantic SemanticType) TextStyle {
	if style, ok := l.styles[semantic]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// IsAvailable always reports true.
func (l *LipglossStyles) IsAvailable() bool {
	return true
}
