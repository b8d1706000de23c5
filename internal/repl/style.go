package repl

import "github.com/charmbracelet/lipgloss"

// Style renders the shell's own chrome: banner, section headers, notices.
// Build tool output always passes through unstyled and untouched.
type Style struct {
	enabled bool
	banner  lipgloss.Style
	header  lipgloss.Style
	index   lipgloss.Style
	notice  lipgloss.Style
}

// NewStyle creates the REPL styling. Disabled, every helper returns its
// input unchanged.
func NewStyle(enabled bool) *Style {
	return &Style{
		enabled: enabled,
		banner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		index:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// Banner styles the greeting line.
func (s *Style) Banner(text string) string {
	if !s.enabled {
		return text
	}
	return s.banner.Render(text)
}

// Header styles a section header.
func (s *Style) Header(text string) string {
	if !s.enabled {
		return text
	}
	return s.header.Render(text)
}

// Index styles a buffer line number.
func (s *Style) Index(text string) string {
	if !s.enabled {
		return text
	}
	return s.index.Render(text)
}

// Notice styles a short informational message.
func (s *Style) Notice(text string) string {
	if !s.enabled {
		return text
	}
	return s.notice.Render(text)
}
