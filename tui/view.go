package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/pb33f/dialpick/motor"
)

// optionRow is one rendered option.
type optionRow struct {
	Flag      string
	Prefix    string
	Name      string
	Focused   bool
	Committed bool
}

// optionsView is what renderOptions projects.
type optionsView struct {
	Rows []optionRow
}

func (m *PickerModel) render() string {
	var builder strings.Builder

	builder.WriteString(m.renderTitle())
	builder.WriteString("\n")

	switch m.loadState {
	case LoadStateLoading:
		builder.WriteString(m.renderLoadingTrigger())
	case LoadStateError:
		builder.WriteString(m.renderErrorTrigger())
		return builder.String()
	default:
		builder.WriteString(m.renderTrigger())
		if m.combo.IsOpen() {
			builder.WriteString("\n")
			builder.WriteString(m.renderFilter())
			builder.WriteString("\n")
			builder.WriteString(renderOptions(m.optionsView(), m.offset, m.listHeight(), m.contentWidth()))
		}
	}

	builder.WriteString("\n")
	builder.WriteString(m.renderStatusBar())
	return builder.String()
}

func (m *PickerModel) contentWidth() int {
	if m.width <= 0 {
		return 60
	}
	return m.width
}

func (m *PickerModel) renderTitle() string {
	titleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		Padding(0, 1).
		Width(m.contentWidth()).
		BorderForeground(RGBBlue).
		BorderTop(false).BorderLeft(false).BorderRight(false).BorderBottom(true)

	title := TitleStyle.Render("dialpick") + " " + SubtitleStyle.Render("country & dialing code")

	var info string
	if m.loadState == LoadStateLoaded {
		info = fmt.Sprintf(" (%d countries", m.combo.Len())
		if m.loadTime > 0 {
			info += fmt.Sprintf(", loaded in %v", m.loadTime.Round(time.Millisecond))
		}
		info += ")"
	}

	// one line, so the rows below stay where the mouse handling expects them
	line := ansi.Truncate(title+FaintStyle.Render(info), max(m.contentWidth()-2, 1), "…")
	return titleStyle.Render(line)
}

// renderTrigger is the collapsed display: flag, prefix and code of the
// committed country, or a neutral prompt.
func (m *PickerModel) renderTrigger() string {
	arrow := "▾"
	if m.combo.IsOpen() {
		arrow = "▴"
	}

	selected, ok := m.combo.Selected()
	if !ok {
		text := "select a country"
		if hl, ok := m.combo.Highlighted(); ok {
			text += fmt.Sprintf(" (suggested %s %s %s)", hl.Flag(), hl.PhonePrefix, hl.ISO2)
		}
		return TriggerPlaceholderStyle.Render(arrow + " " + text)
	}

	text := fmt.Sprintf("%s %s %s %s", arrow, selected.Flag(), selected.PhonePrefix, selected.ISO2)
	if m.combo.IsOpen() {
		return TriggerActiveStyle.Render(text)
	}
	return TriggerStyle.Render(text)
}

func (m *PickerModel) renderFilter() string {
	line := m.filter.View()
	if m.combo.Mode() == motor.Regex {
		line += " " + StatusWarningStyle.Render("[regex]")
	}
	return TriggerStyle.Render(line)
}

func (m *PickerModel) optionsView() optionsView {
	filtered := m.combo.Filtered()
	focus := m.combo.FocusPosition()
	selected := m.combo.selected

	rows := make([]optionRow, len(filtered))
	for pos, idx := range filtered {
		c := m.combo.Country(idx)
		rows[pos] = optionRow{
			Flag:      c.Flag(),
			Prefix:    c.PhonePrefix,
			Name:      c.CommonName,
			Focused:   pos == focus,
			Committed: idx == selected,
		}
	}
	return optionsView{Rows: rows}
}

// renderOptions draws rows [offset, offset+height) of view, each cut to
// width cells. It depends on nothing but its arguments.
func renderOptions(view optionsView, offset, height, width int) string {
	if len(view.Rows) == 0 {
		return FaintStyle.Render("  no matching countries")
	}
	if offset < 0 {
		offset = 0
	}
	end := min(offset+height, len(view.Rows))
	if offset >= end {
		return ""
	}

	nameWidth := max(width-markerColumnWidth-flagColumnWidth-prefixColumnWidth-2, 1)

	lines := make([]string, 0, end-offset)
	for _, row := range view.Rows[offset:end] {
		marker := "  "
		if row.Committed {
			marker = "✓ "
		}
		name := runewidth.Truncate(row.Name, nameWidth, "…")
		prefix := runewidth.FillRight(row.Prefix, prefixColumnWidth)

		switch {
		case row.Focused:
			lines = append(lines, FocusedOptionStyle.Render(fmt.Sprintf("%s%s %s %s", marker, row.Flag, prefix, name)))
		case row.Committed:
			lines = append(lines, CommittedOptionStyle.Render(fmt.Sprintf("%s%s %s %s", marker, row.Flag, prefix, name)))
		default:
			lines = append(lines, fmt.Sprintf("%s%s %s %s", marker, row.Flag, PrefixStyle.Render(prefix), name))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *PickerModel) renderStatusBar() string {
	var parts []string

	switch {
	case m.loadState != LoadStateLoaded:
		parts = append(parts, "q: Quit")
	case !m.combo.IsOpen():
		parts = append(parts, "Enter/Space: Open")
		parts = append(parts, "ctrl+r: Reload")
		parts = append(parts, "q: Quit")
	case m.zone == zoneList:
		parts = append(parts, "↑/↓: Navigate")
		parts = append(parts, "a-z: Jump")
		parts = append(parts, "Enter/Space: Select")
		parts = append(parts, "Tab: Filter")
		parts = append(parts, "Esc: Close")
	default:
		parts = append(parts, "↑/↓: Navigate")
		parts = append(parts, "Enter: Select")
		parts = append(parts, "Tab: List")
		parts = append(parts, "ctrl+x: Regex")
		parts = append(parts, "Esc: Close")
	}

	help := HelpStyle.Render(strings.Join(parts, " • "))

	var state []string
	if m.loadState == LoadStateLoaded {
		a := m.combo.Accessibility()
		aria := fmt.Sprintf("role=%s expanded=%t", a.Role, a.Expanded)
		if a.ActiveDescendant != "" {
			aria += " activedescendant=" + a.ActiveDescendant
		}
		state = append(state, FaintStyle.Render(aria))

		if m.combo.IsOpen() && m.combo.Filtering() {
			state = append(state, FaintStyle.Render(fmt.Sprintf("%d/%d", len(m.combo.Filtered()), m.combo.Len())))
		}
		if err := m.combo.QueryErr(); err != nil {
			state = append(state, StatusWarningStyle.Render(err.Error()))
		}
		if m.located {
			state = append(state, FaintStyle.Render(fmt.Sprintf("located %s via %s", m.location.CountryCode, m.location.Source)))
		}
	}

	if len(state) == 0 {
		return help
	}
	return help + "\n" + strings.Join(state, "  ")
}
