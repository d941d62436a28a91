package cmd

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/pb33f/dialpick/tui"
)

var dialpickASCII = []string{
	"     _ _       _       _      _    ",
	"  __| (_) __ _| |_ __ (_) ___| | __",
	" / _` | |/ _` | | '_ \\| |/ __| |/ /",
	"| (_| | | (_| | | |_) | | (__|   < ",
	" \\__,_|_|\\__,_|_| .__/|_|\\___|_|\\_\\",
	"                |_|                ",
}

// RenderBanner returns the styled dialpick banner printed by version.
func RenderBanner() string {
	bannerStyle := lipgloss.NewStyle().
		Foreground(tui.RGBPink).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(tui.RGBBlue).
		Italic(true)

	containerStyle := lipgloss.NewStyle().
		Align(lipgloss.Left).
		MarginBottom(1)

	banner := bannerStyle.Render(strings.Join(dialpickASCII, "\n"))
	subtitle := subtitleStyle.Render("pick a country, get its dialing code")

	return containerStyle.Render(banner + "\n" + subtitle)
}

// RenderColorfulBanner shades the banner from pink to blue, line by line.
func RenderColorfulBanner() string {
	colors := []color.Color{
		tui.RGBPink,
		tui.RGBPink,
		tui.RGBPink,
		tui.RGBBlue,
		tui.RGBBlue,
		tui.RGBBlue,
	}

	var result strings.Builder
	for i, line := range dialpickASCII {
		style := lipgloss.NewStyle().
			Foreground(colors[i%len(colors)]).
			Bold(true)
		result.WriteString(style.Render(line) + "\n")
	}

	subtitleStyle := lipgloss.NewStyle().
		Foreground(tui.RGBGrey).
		Italic(true)

	containerStyle := lipgloss.NewStyle().
		Align(lipgloss.Left).
		MarginBottom(1)

	return containerStyle.Render(result.String() + subtitleStyle.Render("https://pb33f.io/dialpick/"))
}
