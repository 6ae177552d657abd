package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Palette
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#00E5FF") // Cyan
	Accent    = lipgloss.Color("#FFD600") // Gold
	Success   = lipgloss.Color("#39FF14") // Green
	Warning   = lipgloss.Color("#FFAD00") // Orange
	ErrorCol  = lipgloss.Color("#FF3131") // Red
	Text      = lipgloss.Color("#FFFFFF") // White
	Muted     = lipgloss.Color("#888888") // Gray

	HeaderStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(1, 1).
			MarginLeft(1)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(2).
			MarginBottom(1)

	CardStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Muted).
			MarginLeft(2).
			MarginBottom(1).
			Width(84)

	ActiveCardStyle = CardStyle.
			BorderForeground(Primary)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(Secondary).
				Bold(true).
				MarginBottom(1)

	InfoKeyStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(16)

	InfoValueStyle = lipgloss.NewStyle().
			Foreground(Text)

	InputStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorCol).
			PaddingLeft(2)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1).
			PaddingLeft(4).
			Faint(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(Secondary).
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Padding(0, 2)

	buttonFocusedStyle = buttonStyle.
				Background(Secondary).
				Foreground(lipgloss.Color("#000000")).
				Bold(true)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Background(lipgloss.Color("#333333")).
				Padding(0, 2)
)

func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Success)
}
