package tui

import (
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/lipgloss/v2"
)

// palette shared by the picker and the CLI tables
var (
	RGBBlue       = lipgloss.Color("45")
	RGBPink       = lipgloss.Color("201")
	RGBRed        = lipgloss.Color("196")
	RGBYellow     = lipgloss.Color("220")
	RGBGreen      = lipgloss.Color("46")
	RGBGrey       = lipgloss.Color("246")
	RGBSubtlePink = lipgloss.Color("#2a1a2a")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBPink)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(RGBGrey)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBBlue)

	SelectedStyle = lipgloss.NewStyle().
			Background(RGBSubtlePink).
			Foreground(RGBPink)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(RGBGreen)

	StatusWarningStyle = lipgloss.NewStyle().
				Foreground(RGBYellow)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(RGBRed)

	HelpStyle = lipgloss.NewStyle().
			Foreground(RGBGrey)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(RGBPink)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(RGBRed).
			Bold(true)
)

// option list styles
var (
	// focused row, the active descendant
	FocusedOptionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(RGBPink).
				Background(RGBSubtlePink)

	// committed country, when it is not also focused
	CommittedOptionStyle = lipgloss.NewStyle().
				Foreground(RGBGreen)

	PrefixStyle = lipgloss.NewStyle().
			Foreground(RGBBlue)

	FaintStyle = lipgloss.NewStyle().Faint(true)
)

// trigger styles
var (
	TriggerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TriggerActiveStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(RGBPink)

	TriggerPlaceholderStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(RGBGrey).
				Italic(true)
)

// ApplyTableStyles gives static tables the picker palette. No row is
// highlighted.
func ApplyTableStyles(t table.Model) table.Model {
	s := table.DefaultStyles()

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		BorderBottom(true).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		Foreground(RGBPink).
		Bold(true).
		Padding(0, 1)

	s.Selected = lipgloss.NewStyle()

	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)

	t.SetStyles(s)
	return t
}
