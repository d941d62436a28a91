package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/mattn/go-runewidth"

	"github.com/pb33f/dialpick/motor"
)

const (
	maxColumnWidth = 48
	tableHeader    = 2 // title line and its bottom border
	cellPadding    = 2
)

// CountryRows formats countries for a table: flag, codes, prefix, name and
// first timezone.
func CountryRows(countries []motor.Country) []table.Row {
	rows := make([]table.Row, 0, len(countries))
	for i := range countries {
		c := &countries[i]
		tz := ""
		if len(c.Timezones) > 0 {
			tz = c.Timezones[0]
		}
		prefix := c.PhonePrefix
		if prefix == "" {
			prefix = "---"
		}
		rows = append(rows, table.Row{c.Flag(), c.ISO2, c.ISO3, prefix, c.CommonName, tz})
	}
	return rows
}

// RenderCountryTable renders countries as a static table.
func RenderCountryTable(countries []motor.Country) string {
	titles := []string{"", "ISO2", "ISO3", "Prefix", "Name", "Timezone"}
	return renderStaticTable(titles, CountryRows(countries))
}

// ProbeRows formats probe results: kind, source, status, duration and detail.
func ProbeRows(results []motor.ProbeResult) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		status := "ok"
		var detail string
		switch {
		case r.Err != nil:
			status = "failed"
			detail = r.Err.Error()
		case r.Kind == motor.ProbeKindCountries:
			detail = fmt.Sprintf("%d countries", r.Count)
		default:
			detail = strings.TrimSpace(r.Location.CountryCode + " " + r.Location.Timezone)
		}
		rows = append(rows, table.Row{r.Kind, r.Name, status, formatDuration(r.Duration), detail})
	}
	return rows
}

// RenderProbeTable renders probe results as a static table.
func RenderProbeTable(results []motor.ProbeResult) string {
	titles := []string{"Kind", "Source", "Status", "Time", "Detail"}
	return renderStaticTable(titles, ProbeRows(results))
}

func renderStaticTable(titles []string, rows []table.Row) string {
	columns := make([]table.Column, len(titles))
	totalWidth := 0
	for i, title := range titles {
		width := runewidth.StringWidth(title)
		for _, row := range rows {
			width = max(width, runewidth.StringWidth(row[i]))
		}
		columns[i] = table.Column{Title: title, Width: min(width, maxColumnWidth)}
		totalWidth += columns[i].Width + cellPadding
	}

	for _, row := range rows {
		for i := range row {
			row[i] = truncateString(row[i], columns[i].Width)
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+tableHeader),
		table.WithWidth(totalWidth),
	)
	t = ApplyTableStyles(t)

	lines := strings.Split(t.View(), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "---"
	}

	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dμs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		seconds := float64(d.Milliseconds()) / 1000.0
		return fmt.Sprintf("%.1fs", seconds)
	default:
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) - (minutes * 60)
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}

// truncateString cuts s to maxLen display cells.
func truncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
